package tree

import (
	"context"
	"time"
)

// Reasons a search stopped before exhausting its space.
const (
	ReasonMaxTrees = "max-trees"
	ReasonMaxSteps = "max-steps"
	ReasonTimeout  = "timeout"
	ReasonCanceled = "canceled"
)

// checkEvery is how many steps pass between clock and context checks.
const checkEvery = 1024

// Budget bounds a single enumeration. Zero fields are unlimited.
type Budget struct {
	// MaxTrees stops the search once this many trees were found and another
	// one turns up.
	MaxTrees int `json:"max_trees,omitempty" toml:"max_trees"`
	// MaxSteps bounds the number of search extensions.
	MaxSteps int `json:"max_steps,omitempty" toml:"max_steps"`
	// Timeout bounds wall-clock time.
	Timeout time.Duration `json:"timeout,omitempty" toml:"-"`
	// CountOnly drops tree snapshots and keeps only the count.
	CountOnly bool `json:"count_only,omitempty" toml:"count_only"`
}

// Result is the outcome of an enumeration.
type Result struct {
	// Trees holds the snapshots found, nil when counting only.
	Trees []Tree `json:"trees,omitempty"`
	// Count is the number of trees found.
	Count int `json:"count"`
	// Steps is the number of search extensions performed.
	Steps int `json:"steps"`
	// Truncated is set when the budget stopped the search; Count and Trees
	// are then a lower bound.
	Truncated bool `json:"truncated,omitempty"`
	// Reason says which limit stopped the search.
	Reason string `json:"reason,omitempty"`
}

// Collector gathers trees for an enumerator and enforces a Budget.
// It is not safe for concurrent use.
type Collector struct {
	ctx      context.Context
	budget   Budget
	labels   []string
	deadline time.Time

	trees  []Tree
	count  int
	steps  int
	reason string
}

// NewCollector starts collecting trees over labels.
func NewCollector(ctx context.Context, b Budget, labels []string) *Collector {
	c := &Collector{ctx: ctx, budget: b, labels: labels}
	if b.Timeout > 0 {
		c.deadline = time.Now().Add(b.Timeout)
	}
	if ctx.Err() != nil {
		c.reason = ReasonCanceled
	}
	return c
}

// Step records one search extension. It returns false once the search must
// stop; a step refused by MaxSteps is not counted.
func (c *Collector) Step() bool {
	if c.reason != "" {
		return false
	}
	if c.budget.MaxSteps > 0 && c.steps >= c.budget.MaxSteps {
		c.reason = ReasonMaxSteps
		return false
	}
	c.steps++
	if c.steps%checkEvery == 0 {
		return c.check()
	}
	return true
}

// Emit records a complete tree. parent is copied unless counting only.
// It returns false once the search must stop.
func (c *Collector) Emit(parent []int) bool {
	if c.reason != "" {
		return false
	}
	if c.budget.MaxTrees > 0 && c.count >= c.budget.MaxTrees {
		c.reason = ReasonMaxTrees
		return false
	}
	c.count++
	if !c.budget.CountOnly {
		c.trees = append(c.trees, New(c.labels, parent))
	}
	return c.check()
}

// Stopped reports whether a limit was hit.
func (c *Collector) Stopped() bool { return c.reason != "" }

// Result returns what was collected so far.
func (c *Collector) Result() Result {
	return Result{
		Trees:     c.trees,
		Count:     c.count,
		Steps:     c.steps,
		Truncated: c.reason != "",
		Reason:    c.reason,
	}
}

func (c *Collector) check() bool {
	if c.ctx.Err() != nil {
		c.reason = ReasonCanceled
		return false
	}
	if !c.deadline.IsZero() && time.Now().After(c.deadline) {
		c.reason = ReasonTimeout
		return false
	}
	return true
}
