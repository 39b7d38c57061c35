package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/arborescence"
	"github.com/matzehuels/promiscuity/pkg/cache"
	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/cbb"
	perr "github.com/matzehuels/promiscuity/pkg/errors"
	"github.com/matzehuels/promiscuity/pkg/kirchhoff"
	"github.com/matzehuels/promiscuity/pkg/observability"
	"github.com/matzehuels/promiscuity/pkg/search"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// Runner encapsulates analysis execution with caching.
// Both CLI and API use it so caching and logging behave the same.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze builds the candidate graph for ann, bounds it and enumerates its
// resolved trees.
//
// Annotation problems are returned as INVALID_ANNOTATION or
// INCONSISTENT_ANNOTATION errors. Budget truncation and a skipped
// enumeration are flags on the result unless opts.Strict is set, in which
// case the partial result is returned together with a BUDGET_EXCEEDED or
// BOUND_EXCEEDED error.
func (r *Runner) Analyze(ctx context.Context, ann *annotation.Annotation, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, perr.Wrap(perr.ErrCodeInvalidConfig, err, "invalid options")
	}
	if ann == nil {
		return nil, perr.New(perr.ErrCodeInvalidInput, "no annotation")
	}

	observability.Analysis().OnAnalyzeStart(ctx, ann.ID)
	start := time.Now()
	res, err := r.analyze(ctx, ann, opts)

	count, truncated := 0, false
	if res != nil {
		count, truncated = res.Count, res.Truncated
	}
	observability.Analysis().OnAnalyzeComplete(ctx, ann.ID, count, truncated, time.Since(start), err)
	return res, err
}

func (r *Runner) analyze(ctx context.Context, ann *annotation.Annotation, opts Options) (*Result, error) {
	logger := opts.Logger.With("id", ann.ID)

	buildStart := time.Now()
	g, err := candidate.Build(ann)
	if err != nil {
		return nil, err
	}
	res := &Result{
		ID:       ann.ID,
		Graph:    g,
		Strategy: opts.Strategy,
		Stats: Stats{
			Nodes:      g.Len() - 1,
			Groups:     g.Table().Len(),
			Candidates: g.EdgeCount(),
			Ambiguous:  g.Ambiguous(),
			Dropped:    len(g.Dropped()),
			BuildTime:  time.Since(buildStart),
		},
	}
	logger.Debug("built candidate graph",
		"nodes", res.Stats.Nodes,
		"groups", res.Stats.Groups,
		"candidates", res.Stats.Candidates,
		"duration", res.Stats.BuildTime)
	for _, e := range g.Dropped() {
		logger.Debug("dropped edge", "edge", e.String())
	}

	hash := annotationHash(ann)
	res.Bound = r.bound(ctx, g, hash)

	if !kirchhoff.Tractable(res.Bound, opts.MaxBound) {
		res.Skipped = true
		logger.Warn("bound exceeds limit, skipping enumeration",
			"bound", res.Bound,
			"max_bound", opts.MaxBound)
		if opts.Strict {
			return res, perr.New(perr.ErrCodeBoundExceeded, "%s: bound %s exceeds %d", ann.ID, res.Bound, opts.MaxBound)
		}
		return res, nil
	}

	key := ""
	if hash != "" {
		key = r.Keyer.AnalysisKey(hash, opts.KeyOpts())
	}
	if key != "" && !opts.Refresh {
		if cached, ok := r.load(ctx, key, g); ok {
			res.apply(cached)
			res.CacheHit = true
			logger.Debug("analysis cache hit", "trees", res.Count)
			return res, r.strict(res, opts)
		}
	}

	searchStart := time.Now()
	out, err := r.enumerate(ctx, g, opts)
	if err != nil {
		return res, err
	}
	res.apply(out)
	res.Stats.SearchTime = time.Since(searchStart)

	logger.Info("enumerated trees",
		"trees", res.Count,
		"bound", res.Bound,
		"truncated", res.Truncated,
		"duration", res.Stats.SearchTime)

	if key != "" && cacheable(out) {
		r.store(ctx, key, out, opts.TTL)
	}
	return res, r.strict(res, opts)
}

// Bound returns the number of unconstrained spanning trees of the candidate
// graph of ann. It is an upper bound on the resolved tree count.
func (r *Runner) Bound(ctx context.Context, ann *annotation.Annotation) (*big.Int, *candidate.Graph, error) {
	g, err := candidate.Build(ann)
	if err != nil {
		return nil, nil, err
	}
	return r.bound(ctx, g, annotationHash(ann)), g, nil
}

func (r *Runner) bound(ctx context.Context, g *candidate.Graph, hash string) *big.Int {
	key := ""
	if hash != "" {
		key = r.Keyer.BoundKey(hash)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			if b, ok := new(big.Int).SetString(string(data), 10); ok {
				observability.Cache().OnCacheHit(ctx, "bound")
				return b
			}
		}
		observability.Cache().OnCacheMiss(ctx, "bound")
	}
	b := kirchhoff.Count(g.Digraph())
	if key != "" {
		data := []byte(b.String())
		if err := r.Cache.Set(ctx, key, data, DefaultTTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "bound", len(data))
		}
	}
	return b
}

// enumerate runs the configured strategy.
func (r *Runner) enumerate(ctx context.Context, g *candidate.Graph, opts Options) (tree.Result, error) {
	switch opts.Strategy {
	case StrategyFilter:
		return filtered(ctx, g, opts.Budget), nil
	case StrategyBoth:
		b := opts.Budget
		b.CountOnly = false
		got := search.Enumerate(ctx, g, b)
		want := filtered(ctx, g, b)
		if !got.Truncated && !want.Truncated {
			if !slices.Equal(tree.Keys(got.Trees), tree.Keys(want.Trees)) {
				return got, perr.New(perr.ErrCodeInternal,
					"constrained search found %d trees, enumerate-then-filter found %d", got.Count, want.Count)
			}
		}
		if opts.Budget.CountOnly {
			got.Trees = nil
		}
		return got, nil
	default:
		return search.Enumerate(ctx, g, opts.Budget), nil
	}
}

// filtered enumerates every spanning tree of the candidate graph and keeps
// those that satisfy the CBB constraints. The budget applies to the
// unconstrained enumeration.
func filtered(ctx context.Context, g *candidate.Graph, b tree.Budget) tree.Result {
	inner := b
	inner.CountOnly = false
	all := arborescence.Enumerate(ctx, g.Digraph(), inner)
	kept := cbb.Filter(all.Trees, g.Initial())
	out := tree.Result{
		Trees:     kept,
		Count:     len(kept),
		Steps:     all.Steps,
		Truncated: all.Truncated,
		Reason:    all.Reason,
	}
	if b.CountOnly {
		out.Trees = nil
	}
	return out
}

func (r *Runner) strict(res *Result, opts Options) error {
	if opts.Strict && res.Truncated {
		return perr.New(perr.ErrCodeBudgetExceeded, "%s: search stopped (%s) after %d trees", res.ID, res.Reason, res.Count)
	}
	return nil
}

func (res *Result) apply(out tree.Result) {
	res.Trees = out.Trees
	res.Count = out.Count
	res.Truncated = out.Truncated
	res.Reason = out.Reason
	res.Stats.Steps = out.Steps
}

// =============================================================================
// Cache Helpers
// =============================================================================

// cachedResult is the stored form of a tree.Result. Trees are kept as
// parent slices and rebuilt against the candidate graph on load.
type cachedResult struct {
	Parents   [][]int `json:"parents,omitempty"`
	Count     int     `json:"count"`
	Steps     int     `json:"steps"`
	Truncated bool    `json:"truncated,omitempty"`
	Reason    string  `json:"reason,omitempty"`
}

// cacheable reports whether out is reproducible. Timed-out or canceled
// searches depend on the clock and are not stored.
func cacheable(out tree.Result) bool {
	return out.Reason != tree.ReasonTimeout && out.Reason != tree.ReasonCanceled
}

func (r *Runner) load(ctx context.Context, key string, g *candidate.Graph) (tree.Result, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Debug("cache get failed", "error", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return tree.Result{}, false
	}
	var c cachedResult
	if err := json.Unmarshal(data, &c); err != nil {
		observability.Cache().OnCacheMiss(ctx, "analysis")
		return tree.Result{}, false
	}
	out := tree.Result{Count: c.Count, Steps: c.Steps, Truncated: c.Truncated, Reason: c.Reason}
	for _, p := range c.Parents {
		if len(p) != g.Len() {
			return tree.Result{}, false
		}
		out.Trees = append(out.Trees, tree.New(g.Labels(), p))
	}
	observability.Cache().OnCacheHit(ctx, "analysis")
	return out, true
}

func (r *Runner) store(ctx context.Context, key string, out tree.Result, ttl time.Duration) {
	c := cachedResult{Count: out.Count, Steps: out.Steps, Truncated: out.Truncated, Reason: out.Reason}
	for _, t := range out.Trees {
		c.Parents = append(c.Parents, t.Parents())
	}
	data, err := json.Marshal(c)
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache set failed", "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "analysis", len(data))
}

// annotationHash hashes the annotation content. The ID is left out so the
// same sentence under another ID shares cache entries. An empty hash
// disables caching for this annotation.
func annotationHash(ann *annotation.Annotation) string {
	content := *ann
	content.ID = ""
	h, err := cache.HashJSON(&content)
	if err != nil {
		return ""
	}
	return h
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// String renders a one-line summary of the result.
func (res *Result) String() string {
	s := fmt.Sprintf("%s: %d trees (bound %s)", res.ID, res.Count, res.Bound)
	switch {
	case res.Skipped:
		s += ", skipped"
	case res.Truncated:
		s += ", truncated: " + res.Reason
	}
	return s
}
