// Package search enumerates the dependency trees of a candidate graph that
// satisfy its coordination-boundary constraints.
//
// The enumerator grows a tree from the root. The frontier holds, for every
// placed vertex, the not yet placed vertices it may adopt. Each step takes
// the next frontier edge in (head, child) index order, checks it against the
// eligible-head state with [cbb.State.Apply], and either places the child
// and recurses, or skips it. The edge is then excluded for every later
// sibling, so each tree is produced exactly once. Placing a vertex removes
// it from every frontier set, which is what keeps cycles out: the frontier
// never offers an edge into a placed vertex.
//
// Frontier and eligible-head state are values owned by their branch. Sets
// are shared until a branch changes them.
package search

import (
	"context"
	"slices"

	"github.com/matzehuels/promiscuity/pkg/candidate"
	"github.com/matzehuels/promiscuity/pkg/cbb"
	"github.com/matzehuels/promiscuity/pkg/nodeset"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// Enumerate returns every tree of g that satisfies its group constraints,
// within budget b. A stopped search returns the trees found so far with
// Truncated set.
func Enumerate(ctx context.Context, g *candidate.Graph, b tree.Budget) tree.Result {
	s := &searcher{
		g:      g,
		n:      g.Len(),
		col:    tree.NewCollector(ctx, b, g.Labels()),
		parent: make([]int, g.Len()),
	}
	s.parent[0] = -1
	if s.col.Stopped() {
		return s.col.Result()
	}

	out := make([]nodeset.Set, s.n)
	out[0] = g.Children(0)
	s.grow(out, nodeset.New(0), g.Initial())
	return s.col.Result()
}

type searcher struct {
	g      *candidate.Graph
	n      int
	col    *tree.Collector
	parent []int
}

// grow explores every completion of the partial tree given by placed. It
// returns false once the collector stops the search.
func (s *searcher) grow(out []nodeset.Set, placed nodeset.Set, state cbb.State) bool {
	if placed.Len() == s.n {
		return s.col.Emit(s.parent)
	}

	out = slices.Clone(out)
	for u := range out {
		for !out[u].IsEmpty() {
			v := out[u].Min()
			out[u] = out[u].Without(v)

			if next, ok := state.Apply(u, v); ok {
				if !s.col.Step() {
					return false
				}
				if placed.Has(v) {
					panic("search: frontier offered an edge into a placed vertex")
				}
				s.parent[v] = u
				if !s.grow(s.place(out, placed, v), placed.With(v), next) {
					return false
				}
			}

			if !s.attachable(out, placed, v) {
				return true
			}
		}
	}
	return true
}

// place returns the frontier after v was placed.
func (s *searcher) place(out []nodeset.Set, placed nodeset.Set, v int) []nodeset.Set {
	next := make([]nodeset.Set, len(out))
	for x, cs := range out {
		next[x] = cs.Without(v)
	}
	next[v] = s.g.Children(v).Minus(placed)
	return next
}

// attachable reports whether unplaced v can still get a parent: either a
// candidate parent is unplaced, or a placed one still offers v.
func (s *searcher) attachable(out []nodeset.Set, placed nodeset.Set, v int) bool {
	ps := s.g.Parents(v)
	if !ps.SubsetOf(placed) {
		return true
	}
	found := false
	ps.Each(func(p int) bool {
		found = out[p].Has(v)
		return !found
	})
	return found
}
