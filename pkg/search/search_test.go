package search

import (
	"context"
	"reflect"
	"testing"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/arborescence"
	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/cbb"
	"github.com/matzehuels/promiscuity/pkg/kirchhoff"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

func tokens(ts ...string) *annotation.Annotation {
	a := &annotation.Annotation{Tokens: ts, NodeToWords: map[string]annotation.Words{}}
	for _, t := range ts {
		a.NodeToWords[t] = annotation.Words{t}
	}
	return a
}

func edge(h, c string) annotation.Edge   { return annotation.Edge{Head: h, Child: c} }
func member(g, c string) annotation.Edge { return annotation.Edge{Head: g, Child: c, Label: annotation.LabelUnspec} }

func build(t *testing.T, a *annotation.Annotation) *candidate.Graph {
	t.Helper()
	g, err := candidate.Build(a)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return g
}

// fixtures covers annotations with and without groups.
func fixtures() map[string]*annotation.Annotation {
	free := tokens("a", "b", "c", "d")

	partial := tokens("a", "b", "c", "d", "e")
	partial.Edges = []annotation.Edge{edge("a", "b"), edge("$$", "c")}

	coord := tokens("dogs", "and", "cats", "bark", "loud")
	coord.Edges = []annotation.Edge{
		member("C", "dogs"), member("C", "and"), member("C", "cats"),
		edge("bark", "C"),
		edge("bark", "loud"),
	}

	two := tokens("a", "b", "c", "d", "e", "f")
	two.Edges = []annotation.Edge{
		member("g", "a"), member("g", "b"),
		member("h", "c"), member("h", "d"),
		edge("e", "g"),
		edge("g", "f"),
	}

	loose := tokens("a", "b", "c", "d")
	loose.Edges = []annotation.Edge{member("g", "a"), member("g", "b"), member("g", "c")}

	return map[string]*annotation.Annotation{
		"free":    free,
		"partial": partial,
		"coord":   coord,
		"two":     two,
		"loose":   loose,
	}
}

func TestScenarioSingleGroup(t *testing.T) {
	a := tokens("a", "b", "c", "d")
	a.Edges = []annotation.Edge{
		member("g", "a"), member("g", "b"),
		edge("c", "g"),
		edge("a", "d"),
	}
	r := Enumerate(context.Background(), build(t, a), tree.Budget{})
	if r.Count != 1 || r.Truncated {
		t.Fatalf("Count = %d (truncated %v), want 1", r.Count, r.Truncated)
	}
	want := map[string]string{"a": "c", "b": "a", "c": "$$", "d": "a"}
	if got := r.Trees[0].Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
}

func TestScenarioTwoResolvedGroups(t *testing.T) {
	a := tokens("a", "b", "c", "d", "r")
	a.Edges = []annotation.Edge{
		member("g", "a"), member("g", "b"),
		member("h", "c"), member("h", "d"),
		edge("r", "a"), edge("a", "b"),
		edge("r", "c"), edge("c", "d"),
	}
	g := build(t, a)
	r := Enumerate(context.Background(), g, tree.Budget{})
	if r.Count != 1 {
		t.Fatalf("Count = %d, want 1", r.Count)
	}
	if bound := kirchhoff.Count(g.Digraph()); bound.Int64() != 1 {
		t.Errorf("bound = %v, want 1", bound)
	}
	want := map[string]string{"a": "r", "b": "a", "c": "r", "d": "c", "r": "$$"}
	if got := r.Trees[0].Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
}

func TestOverlappingGroupsWithoutTree(t *testing.T) {
	// Either head of g forces a second head into h; only search sees it.
	a := tokens("t0", "t1", "t2")
	a.Edges = []annotation.Edge{
		member("g", "t0"), member("g", "t1"),
		member("h", "t0"), member("h", "t2"),
		edge("t2", "g"),
	}
	r := Enumerate(context.Background(), build(t, a), tree.Budget{})
	if r.Count != 0 || r.Truncated || len(r.Trees) != 0 {
		t.Errorf("Enumerate() = count %d truncated %v, want 0 trees", r.Count, r.Truncated)
	}
}

func TestFullySpecified(t *testing.T) {
	a := tokens("the", "dog", "barks", "!")
	a.Edges = []annotation.Edge{
		edge("dog", "the"),
		edge("barks", "dog"),
		edge("$$", "barks"),
		edge("barks", "!"),
	}
	r := Enumerate(context.Background(), build(t, a), tree.Budget{})
	if r.Count != 1 {
		t.Fatalf("Count = %d, want 1", r.Count)
	}
	want := map[string]string{"the": "dog", "dog": "barks", "barks": "$$", "!": "barks"}
	if got := r.Trees[0].Map(); !reflect.DeepEqual(got, want) {
		t.Errorf("tree = %v, want %v", got, want)
	}
}

func TestNoGroupsMatchesUnconstrained(t *testing.T) {
	for name, a := range fixtures() {
		if len(a.Groups()) > 0 {
			continue
		}
		t.Run(name, func(t *testing.T) {
			g := build(t, a)
			got := Enumerate(context.Background(), g, tree.Budget{})
			want := arborescence.Enumerate(context.Background(), g.Digraph(), tree.Budget{})
			if !reflect.DeepEqual(tree.Keys(got.Trees), tree.Keys(want.Trees)) {
				t.Errorf("constrained %d trees, unconstrained %d trees", got.Count, want.Count)
			}
			if bound := kirchhoff.Count(g.Digraph()); bound.Int64() != int64(got.Count) {
				t.Errorf("bound = %v, want %d", bound, got.Count)
			}
		})
	}
}

func TestSingleHead(t *testing.T) {
	for name, a := range fixtures() {
		t.Run(name, func(t *testing.T) {
			g := build(t, a)
			r := Enumerate(context.Background(), g, tree.Budget{})
			tb := g.Table()
			for _, tr := range r.Trees {
				for gi := 0; gi < tb.Len(); gi++ {
					members := tb.Group(gi).Members
					heads := 0
					members.Each(func(v int) bool {
						if !members.Has(tr.Parent(v)) {
							heads++
						}
						return true
					})
					if heads != 1 {
						t.Errorf("group %s has %d heads in %v", tb.Group(gi).Name, heads, tr)
					}
				}
			}
		})
	}
}

func TestBoundAndFilter(t *testing.T) {
	for name, a := range fixtures() {
		t.Run(name, func(t *testing.T) {
			g := build(t, a)
			r := Enumerate(context.Background(), g, tree.Budget{})
			if r.Count == 0 {
				t.Fatal("no trees")
			}
			bound := kirchhoff.Count(g.Digraph())
			if bound.Int64() < int64(r.Count) {
				t.Errorf("bound %v < count %d", bound, r.Count)
			}

			all := arborescence.Enumerate(context.Background(), g.Digraph(), tree.Budget{})
			filtered := cbb.Filter(all.Trees, g.Initial())
			if !reflect.DeepEqual(tree.Keys(filtered), tree.Keys(r.Trees)) {
				t.Errorf("filtered %d trees, constrained %d trees", len(filtered), r.Count)
			}

			keys := tree.Keys(r.Trees)
			for i := 1; i < len(keys); i++ {
				if keys[i] == keys[i-1] {
					t.Errorf("duplicate tree %s", keys[i])
				}
			}
		})
	}
}

func TestTreesAreIndependent(t *testing.T) {
	r := Enumerate(context.Background(), build(t, tokens("a", "b", "c")), tree.Budget{})
	if r.Count != 16 {
		t.Fatalf("Count = %d, want 16", r.Count)
	}
	first := r.Trees[0].Key()
	for _, tr := range r.Trees[1:] {
		if tr.Key() == first {
			t.Errorf("tree aliased: %s", first)
		}
	}
}

func TestBudget(t *testing.T) {
	g := build(t, tokens("a", "b", "c", "d"))
	tests := []struct {
		name   string
		budget tree.Budget
		reason string
		count  int
	}{
		{"unlimited", tree.Budget{}, "", 125},
		{"max trees", tree.Budget{MaxTrees: 7}, tree.ReasonMaxTrees, 7},
		{"exact max trees", tree.Budget{MaxTrees: 125}, "", 125},
		{"count only", tree.Budget{CountOnly: true}, "", 125},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Enumerate(context.Background(), g, tt.budget)
			if r.Count != tt.count || r.Reason != tt.reason || r.Truncated != (tt.reason != "") {
				t.Errorf("Enumerate() = count %d reason %q truncated %v", r.Count, r.Reason, r.Truncated)
			}
			if tt.budget.CountOnly && r.Trees != nil {
				t.Error("CountOnly kept trees")
			}
		})
	}

	r := Enumerate(context.Background(), g, tree.Budget{MaxSteps: 3})
	if !r.Truncated || r.Reason != tree.ReasonMaxSteps || r.Steps != 3 {
		t.Errorf("MaxSteps: %+v", r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if r := Enumerate(ctx, g, tree.Budget{}); r.Reason != tree.ReasonCanceled || r.Count != 0 {
		t.Errorf("canceled: %+v", r)
	}
}
