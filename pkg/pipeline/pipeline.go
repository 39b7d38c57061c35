// Package pipeline provides the one-call analysis API for promiscuity.
//
// This package runs the complete validate → build → bound → enumerate
// pipeline for an annotation so the CLI and the HTTP API behave the same.
//
// # Architecture
//
// An analysis has four stages:
//
//  1. Build: validate the annotation and derive the candidate graph
//  2. Bound: count unconstrained spanning trees (Matrix-Tree theorem)
//  3. Enumerate: list the trees that honor every CBB constraint
//  4. Cross-check (optional): compare against enumerate-then-filter
//
// Results are memoized through a [cache.Cache] keyed by the annotation
// content and the options that change the result.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	res, err := runner.Analyze(ctx, ann, pipeline.Options{
//	    Budget: tree.Budget{MaxTrees: 1000},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Count, res.Truncated)
//
// Batch runs fan records out over a bounded worker pool:
//
//	out, err := runner.Batch(ctx, records, pipeline.BatchOptions{Workers: 8})
package pipeline

import (
	"fmt"
	"io"
	"math/big"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/promiscuity/pkg/cache"
	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStrategy enumerates with CBB propagation during search.
	DefaultStrategy = StrategySearch

	// DefaultWorkers is the batch worker count.
	DefaultWorkers = 4

	// DefaultTTL is how long analysis results stay cached.
	DefaultTTL = 7 * 24 * time.Hour
)

// Strategy constants for Options.Strategy.
const (
	// StrategySearch runs the constrained enumerator.
	StrategySearch = "search"
	// StrategyFilter enumerates every spanning tree and drops those that
	// violate the CBB constraints.
	StrategyFilter = "filter"
	// StrategyBoth runs both and fails with an internal error when they
	// disagree.
	StrategyBoth = "both"
)

// ValidStrategies is the set of supported strategies.
var ValidStrategies = map[string]bool{
	StrategySearch: true,
	StrategyFilter: true,
	StrategyBoth:   true,
}

// =============================================================================
// Options - Analysis Configuration
// =============================================================================

// Options configures one analysis. It supports JSON for API requests.
type Options struct {
	Strategy string      `json:"strategy,omitempty"`
	Budget   tree.Budget `json:"budget"`
	// MaxBound skips enumeration when the spanning-tree bound exceeds it.
	// Zero disables the check.
	MaxBound int64 `json:"max_bound,omitempty"`
	// Strict turns truncation and skipped enumeration into errors.
	Strict bool `json:"strict,omitempty"`
	// Refresh ignores cached results.
	Refresh bool `json:"refresh,omitempty"`
	// TTL overrides DefaultTTL for cached results.
	TTL time.Duration `json:"-"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// ValidateStrategy checks that a strategy is valid.
func ValidateStrategy(s string) error {
	if !ValidStrategies[s] {
		return fmt.Errorf("invalid strategy: %q (must be one of: search, filter, both)", s)
	}
	return nil
}

// ValidateAndSetDefaults checks fields and applies defaults.
// Calling it more than once has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Strategy == "" {
		o.Strategy = DefaultStrategy
	}
	if err := ValidateStrategy(o.Strategy); err != nil {
		return err
	}
	if o.Budget.MaxTrees < 0 || o.Budget.MaxSteps < 0 || o.Budget.Timeout < 0 {
		return fmt.Errorf("budget limits must not be negative")
	}
	if o.MaxBound < 0 {
		return fmt.Errorf("max_bound must not be negative")
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// KeyOpts returns the cache key options for this analysis. Timeout is left
// out: a timed-out result is never cached.
func (o *Options) KeyOpts() cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Strategy:  o.Strategy,
		MaxTrees:  o.Budget.MaxTrees,
		MaxSteps:  o.Budget.MaxSteps,
		MaxBound:  o.MaxBound,
		CountOnly: o.Budget.CountOnly,
	}
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of one analysis.
type Result struct {
	// ID is the annotation ID.
	ID string `json:"id"`

	// Graph is the candidate graph the trees are drawn from.
	Graph *candidate.Graph `json:"-"`

	// Trees holds the resolved trees, nil when counting only or skipped.
	Trees []tree.Tree `json:"trees,omitempty"`

	// Count is the number of resolved trees found.
	Count int `json:"count"`

	// Bound is the number of unconstrained spanning trees of the candidate
	// graph, an upper bound on Count.
	Bound *big.Int `json:"bound"`

	// Truncated is set when the budget stopped the search; Count is then a
	// lower bound.
	Truncated bool   `json:"truncated,omitempty"`
	Reason    string `json:"reason,omitempty"`

	// Skipped is set when Bound exceeded Options.MaxBound and enumeration
	// did not run.
	Skipped bool `json:"skipped,omitempty"`

	Strategy string `json:"strategy"`

	// Stats contains timing and size information.
	Stats Stats `json:"stats"`

	// CacheHit is set when the enumeration came from the cache.
	CacheHit bool `json:"cache_hit,omitempty"`
}

// Stats contains analysis statistics.
type Stats struct {
	Nodes      int           `json:"nodes"`
	Groups     int           `json:"groups"`
	Candidates int           `json:"candidates"`
	Ambiguous  int           `json:"ambiguous"`
	Dropped    int           `json:"dropped"`
	Steps      int           `json:"steps"`
	BuildTime  time.Duration `json:"build_time"`
	SearchTime time.Duration `json:"search_time"`
}
