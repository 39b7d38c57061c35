// Package arborescence enumerates every spanning arborescence of a rooted
// digraph, ignoring coordination-boundary groups.
//
// The enumerator starts from a depth-first tree T0 and records each
// vertex's discovery index. Every other arborescence differs from T0 in the
// parents of a set S of vertices. It is reached from T0 by swapping in the
// new parent edges in decreasing index order, and every intermediate tree
// is itself an arborescence. The enumerator walks exactly these swap
// sequences: from a tree with swapped set S it only swaps parents of
// vertices indexed below min(S), and only with edges whose head is not a
// descendant of the vertex. Each arborescence is therefore emitted once.
package arborescence

import (
	"context"

	"github.com/matzehuels/promiscuity/pkg/digraph"
	"github.com/matzehuels/promiscuity/pkg/tree"
)

// Enumerate returns the arborescences of g rooted at [digraph.Root], within
// budget b. A graph in which some vertex cannot be reached from the root
// has none.
func Enumerate(ctx context.Context, g *digraph.Digraph, b tree.Budget) tree.Result {
	col := tree.NewCollector(ctx, b, g.Labels())
	if col.Stopped() {
		return col.Result()
	}
	parent, order := DFS(g)
	if len(order) != g.Len() {
		return col.Result()
	}
	if !col.Emit(parent) {
		return col.Result()
	}
	e := &enumerator{g: g, col: col, order: order}
	e.swap(parent, len(order))
	return col.Result()
}

// DFS returns the depth-first tree of g from the root as a parent slice
// (-1 for the root and unreached vertices) and the vertices in discovery
// order. Parents are always discovered before their children.
func DFS(g *digraph.Digraph) (parent []int, order []int) {
	n := g.Len()
	parent = make([]int, n)
	for i := range parent {
		parent[i] = -1
	}
	seen := make([]bool, n)
	seen[digraph.Root] = true
	order = append(order, digraph.Root)

	type edge struct{ u, v int }
	var stack []edge
	push := func(u int) {
		g.Children(u).Each(func(v int) bool {
			stack = append(stack, edge{u, v})
			return true
		})
	}
	push(digraph.Root)
	for len(stack) > 0 {
		e := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[e.v] {
			continue
		}
		seen[e.v] = true
		parent[e.v] = e.u
		order = append(order, e.v)
		push(e.v)
	}
	return parent, order
}

type enumerator struct {
	g     *digraph.Digraph
	col   *tree.Collector
	order []int
}

// swap emits every tree obtained from parent by swapping the parent of a
// vertex with discovery index below limit, then recurses. parent is
// restored before swap returns true.
func (e *enumerator) swap(parent []int, limit int) bool {
	for idx := 1; idx < limit; idx++ {
		v := e.order[idx]
		old := parent[v]
		for _, u := range e.g.Parents(v).Slice() {
			if u == old || descends(parent, u, v) {
				continue
			}
			parent[v] = u
			if !e.col.Step() || !e.col.Emit(parent) {
				return false
			}
			if !e.swap(parent, idx) {
				return false
			}
			parent[v] = old
		}
	}
	return true
}

// descends reports whether u lies in the subtree of v.
func descends(parent []int, u, v int) bool {
	for x := u; x >= 0; x = parent[x] {
		if x == v {
			return true
		}
	}
	return false
}
