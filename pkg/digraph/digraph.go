// Package digraph provides a plain rooted directed graph over indexed
// vertices, without any coordination-boundary information.
//
// Vertex 0 is the root. Edges point from parent to child and never enter
// the root. Parent and child sets are [nodeset.Set] values, so a Digraph can
// be built cheaply from a candidate graph and shared read-only.
package digraph

import (
	"errors"
	"fmt"

	"github.com/matzehuels/promiscuity/pkg/nodeset"
)

// Root is the index of the root vertex.
const Root = 0

var (
	// ErrVertexRange is returned when an edge names a vertex outside the graph.
	ErrVertexRange = errors.New("vertex out of range")
	// ErrSelfLoop is returned when an edge connects a vertex to itself.
	ErrSelfLoop = errors.New("self-loop")
	// ErrRootChild is returned when an edge enters the root.
	ErrRootChild = errors.New("edge into root")
)

// Digraph is a rooted directed graph.
type Digraph struct {
	labels   []string
	parents  []nodeset.Set
	children []nodeset.Set
}

// New returns a graph with one vertex per label and no edges. labels[0]
// names the root.
func New(labels []string) *Digraph {
	return &Digraph{
		labels:   labels,
		parents:  make([]nodeset.Set, len(labels)),
		children: make([]nodeset.Set, len(labels)),
	}
}

// FromParents builds a graph from per-vertex parent sets. parents[0] is
// ignored.
func FromParents(labels []string, parents []nodeset.Set) *Digraph {
	g := New(labels)
	for c := 1; c < len(parents) && c < len(labels); c++ {
		g.parents[c] = parents[c]
		parents[c].Each(func(p int) bool {
			g.children[p] = g.children[p].With(c)
			return true
		})
	}
	return g
}

// AddEdge adds the edge p -> c. Adding an existing edge is a no-op.
func (g *Digraph) AddEdge(p, c int) error {
	if p < 0 || p >= len(g.labels) || c < 0 || c >= len(g.labels) {
		return fmt.Errorf("%w: %d -> %d", ErrVertexRange, p, c)
	}
	if p == c {
		return fmt.Errorf("%w: %s", ErrSelfLoop, g.labels[p])
	}
	if c == Root {
		return fmt.Errorf("%w: %s", ErrRootChild, g.labels[p])
	}
	g.parents[c] = g.parents[c].With(p)
	g.children[p] = g.children[p].With(c)
	return nil
}

// Len returns the number of vertices including the root.
func (g *Digraph) Len() int { return len(g.labels) }

// Labels returns the vertex labels indexed by vertex. The slice must not be
// modified.
func (g *Digraph) Labels() []string { return g.labels }

// Label returns the label of v.
func (g *Digraph) Label(v int) string { return g.labels[v] }

// Parents returns the parents of v.
func (g *Digraph) Parents(v int) nodeset.Set { return g.parents[v] }

// Children returns the children of v.
func (g *Digraph) Children(v int) nodeset.Set { return g.children[v] }

// HasEdge reports whether p -> c is an edge.
func (g *Digraph) HasEdge(p, c int) bool {
	return c >= 0 && c < len(g.parents) && g.parents[c].Has(p)
}

// EdgeCount returns the number of edges.
func (g *Digraph) EdgeCount() int {
	n := 0
	for _, ps := range g.parents {
		n += ps.Len()
	}
	return n
}

// Edges returns every edge as a [parent, child] pair ordered by parent, then
// child.
func (g *Digraph) Edges() [][2]int {
	out := make([][2]int, 0, g.EdgeCount())
	for p, cs := range g.children {
		cs.Each(func(c int) bool {
			out = append(out, [2]int{p, c})
			return true
		})
	}
	return out
}
