// Package candidate builds the candidate-parent graph of an annotation.
//
// The candidate graph has one vertex per node of the annotation plus the
// virtual root at index 0. Each non-root vertex carries the set of vertices
// it may still attach to. [Build] starts from the complete graph, collapses
// specified edges, reads coordination-boundary groups from unspec edges and
// narrows candidate and eligible-head sets until nothing changes. The result
// is read-only and is the input of every enumerator.
//
// Vertices are indexed 1..n in sorted identifier order, so every traversal
// over a Graph is deterministic.
package candidate

import (
	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/cbb"
	"github.com/matzehuels/promiscuity/pkg/digraph"
	"github.com/matzehuels/promiscuity/pkg/nodeset"
)

// Graph is the candidate graph of one sentence.
type Graph struct {
	labels   []string
	index    map[string]int
	parents  []nodeset.Set
	children []nodeset.Set
	table    *cbb.Table
	initial  cbb.State
	tokens   []string
	words    [][]int
	dropped  []annotation.Edge
}

// Len returns the number of vertices including the root.
func (g *Graph) Len() int { return len(g.labels) }

// Labels returns vertex identifiers by index, "$$" first. The slice must not
// be modified.
func (g *Graph) Labels() []string { return g.labels }

// Label returns the identifier of v.
func (g *Graph) Label(v int) string { return g.labels[v] }

// Index returns the vertex index of id.
func (g *Graph) Index(id string) (int, bool) {
	v, ok := g.index[id]
	return v, ok
}

// Parents returns the candidate parents of v.
func (g *Graph) Parents(v int) nodeset.Set { return g.parents[v] }

// Children returns the vertices that may attach to v.
func (g *Graph) Children(v int) nodeset.Set { return g.children[v] }

// Table returns the group table.
func (g *Graph) Table() *cbb.Table { return g.table }

// Initial returns the eligible-head state after building.
func (g *Graph) Initial() cbb.State { return g.initial }

// Tokens returns the sentence tokens.
func (g *Graph) Tokens() []string { return g.tokens }

// Words returns the token positions covered by v in sentence order. Nodes
// declared without words return nil.
func (g *Graph) Words(v int) []int { return g.words[v] }

// Dropped returns annotated edges that touch coordination-variable nodes or
// covered token forms. They never constrain the tree.
func (g *Graph) Dropped() []annotation.Edge { return g.dropped }

// EdgeCount returns the number of candidate edges.
func (g *Graph) EdgeCount() int {
	n := 0
	for _, ps := range g.parents {
		n += ps.Len()
	}
	return n
}

// Ambiguous returns the number of vertices with more than one candidate
// parent.
func (g *Graph) Ambiguous() int {
	n := 0
	for v := 1; v < len(g.parents); v++ {
		if g.parents[v].Len() > 1 {
			n++
		}
	}
	return n
}

// Digraph returns the candidate graph without group information.
func (g *Graph) Digraph() *digraph.Digraph {
	return digraph.FromParents(g.labels, g.parents)
}
