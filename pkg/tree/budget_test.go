package tree

import (
	"context"
	"testing"
	"time"
)

func TestCollectorMaxTrees(t *testing.T) {
	c := NewCollector(context.Background(), Budget{MaxTrees: 2}, labels)
	p := []int{-1, 0, 0, 0}
	if !c.Emit(p) || !c.Emit(p) {
		t.Fatal("Emit() stopped early")
	}
	if c.Stopped() {
		t.Fatal("Stopped() after exactly MaxTrees")
	}
	if c.Emit(p) {
		t.Error("third Emit() = true, want false")
	}
	r := c.Result()
	if r.Count != 2 || len(r.Trees) != 2 || !r.Truncated || r.Reason != ReasonMaxTrees {
		t.Errorf("Result() = %+v", r)
	}
}

func TestCollectorMaxSteps(t *testing.T) {
	c := NewCollector(context.Background(), Budget{MaxSteps: 3}, labels)
	for i := 0; i < 3; i++ {
		if !c.Step() {
			t.Fatalf("Step() %d = false", i)
		}
	}
	if c.Step() {
		t.Error("Step() past MaxSteps = true")
	}
	if r := c.Result(); r.Reason != ReasonMaxSteps || !r.Truncated || r.Steps != 3 {
		t.Errorf("Result() = %+v", r)
	}
}

func TestCollectorCountOnly(t *testing.T) {
	c := NewCollector(context.Background(), Budget{CountOnly: true}, labels)
	c.Emit([]int{-1, 0, 0, 0})
	c.Emit([]int{-1, 0, 1, 0})
	r := c.Result()
	if r.Count != 2 || r.Trees != nil || r.Truncated {
		t.Errorf("Result() = %+v", r)
	}
}

func TestCollectorCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewCollector(ctx, Budget{}, labels)
	if c.Step() || c.Emit([]int{-1, 0, 0, 0}) {
		t.Error("canceled collector accepted work")
	}
	if r := c.Result(); r.Reason != ReasonCanceled || r.Count != 0 {
		t.Errorf("Result() = %+v", r)
	}
}

func TestCollectorTimeout(t *testing.T) {
	c := NewCollector(context.Background(), Budget{Timeout: time.Nanosecond}, labels)
	time.Sleep(time.Millisecond)
	if c.Emit([]int{-1, 0, 0, 0}) {
		t.Error("Emit() after deadline = true")
	}
	if r := c.Result(); r.Reason != ReasonTimeout {
		t.Errorf("Reason = %q, want %q", r.Reason, ReasonTimeout)
	}
}
