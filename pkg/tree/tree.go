// Package tree holds the result model shared by the tree enumerators:
// immutable tree snapshots, search budgets and the collector that enforces
// them.
package tree

import (
	"encoding/json"
	"slices"
	"strings"
)

// RootID is the label reported as the parent of the root's children.
const RootID = "$$"

// Tree is an immutable spanning tree snapshot. Vertex 0 is the root; every
// other vertex has exactly one parent.
type Tree struct {
	parent []int
	labels []string
}

// New snapshots parent. labels is shared between trees of the same graph
// and must not be modified afterwards.
func New(labels []string, parent []int) Tree {
	p := slices.Clone(parent)
	if len(p) > 0 {
		p[0] = -1
	}
	return Tree{parent: p, labels: labels}
}

// Len returns the number of vertices including the root.
func (t Tree) Len() int { return len(t.parent) }

// Parent returns the parent of v, or -1 for the root.
func (t Tree) Parent(v int) int { return t.parent[v] }

// Label returns the label of v.
func (t Tree) Label(v int) string { return t.labels[v] }

// Parents returns a copy of the parent slice.
func (t Tree) Parents() []int { return slices.Clone(t.parent) }

// Map returns the tree as non-root label -> parent label.
func (t Tree) Map() map[string]string {
	m := make(map[string]string, len(t.parent))
	for v := 1; v < len(t.parent); v++ {
		m[t.labels[v]] = t.labelOf(t.parent[v])
	}
	return m
}

// Edges returns [parent, child] pairs ordered by child.
func (t Tree) Edges() [][2]int {
	out := make([][2]int, 0, len(t.parent))
	for v := 1; v < len(t.parent); v++ {
		out = append(out, [2]int{t.parent[v], v})
	}
	return out
}

// Children returns the children of v in ascending order.
func (t Tree) Children(v int) []int {
	var out []int
	for c := 1; c < len(t.parent); c++ {
		if t.parent[c] == v {
			out = append(out, c)
		}
	}
	return out
}

// Key returns a canonical string for the tree, "child:parent" pairs in
// label order. Trees over the same vertex labels are equal iff their keys
// are equal.
func (t Tree) Key() string {
	pairs := make([]string, 0, len(t.parent))
	for v := 1; v < len(t.parent); v++ {
		pairs = append(pairs, t.labels[v]+":"+t.labelOf(t.parent[v]))
	}
	slices.Sort(pairs)
	return strings.Join(pairs, " ")
}

func (t Tree) String() string { return "{" + t.Key() + "}" }

// MarshalJSON encodes the tree as its parent map.
func (t Tree) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Map())
}

func (t Tree) labelOf(v int) string {
	if v == 0 {
		return RootID
	}
	return t.labels[v]
}

// Keys returns the sorted keys of trees.
func Keys(trees []Tree) []string {
	out := make([]string, len(trees))
	for i, t := range trees {
		out[i] = t.Key()
	}
	slices.Sort(out)
	return out
}
