// Package cbb implements coordination-boundary (CBB) head constraints.
//
// A CBB group is a set of vertices that must expose exactly one attachment
// point, its head, to the rest of the dependency tree. A [Table] holds the
// groups of one sentence and is read-only once built. A [State] tracks, per
// group, the members still eligible to be the head, and is narrowed edge by
// edge with [State.Apply] as a tree is built.
//
// States are values. Apply never mutates its receiver, and the returned
// State shares every eligible set it did not change, so a search branch can
// keep its parent's state across backtracking without copying.
package cbb

import (
	"slices"
	"strings"

	"github.com/matzehuels/promiscuity/pkg/nodeset"
)

// Group is a named set of member vertices.
type Group struct {
	Name    string
	Members nodeset.Set
}

// Table is the group table of one sentence plus the inverse membership
// index. A vertex may belong to several groups.
type Table struct {
	groups []Group
	byName map[string]int
	byNode map[int][]int
}

// NewTable indexes groups. Group order is preserved and defines group
// indices.
func NewTable(groups []Group) *Table {
	t := &Table{
		groups: slices.Clone(groups),
		byName: make(map[string]int, len(groups)),
		byNode: make(map[int][]int),
	}
	for gi, g := range t.groups {
		t.byName[g.Name] = gi
		g.Members.Each(func(v int) bool {
			t.byNode[v] = append(t.byNode[v], gi)
			return true
		})
	}
	return t
}

// Len returns the number of groups.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.groups)
}

// Group returns group gi.
func (t *Table) Group(gi int) Group { return t.groups[gi] }

// Index returns the index of the group called name.
func (t *Table) Index(name string) (int, bool) {
	gi, ok := t.byName[name]
	return gi, ok
}

// GroupsOf returns the indices of the groups v belongs to. The returned
// slice must not be modified.
func (t *Table) GroupsOf(v int) []int {
	if t == nil {
		return nil
	}
	return t.byNode[v]
}

// Initial returns the state in which every member of every group is eligible.
func (t *Table) Initial() State {
	el := make([]nodeset.Set, t.Len())
	for gi := range el {
		el[gi] = t.groups[gi].Members
	}
	return State{table: t, eligible: el}
}

// State is the eligible-head state of every group in a Table.
type State struct {
	table    *Table
	eligible []nodeset.Set
}

// Table returns the table the state belongs to.
func (s State) Table() *Table { return s.table }

// Eligible returns the eligible heads of group gi.
func (s State) Eligible(gi int) nodeset.Set { return s.eligible[gi] }

// Head returns the head of group gi once it is resolved to one member.
func (s State) Head(gi int) (int, bool) { return s.eligible[gi].Only() }

// Resolved reports whether every group has exactly one eligible head.
func (s State) Resolved() bool {
	for _, e := range s.eligible {
		if e.Len() != 1 {
			return false
		}
	}
	return true
}

// Equal reports whether s and o have the same eligible sets.
func (s State) Equal(o State) bool {
	if len(s.eligible) != len(o.eligible) {
		return false
	}
	for gi := range s.eligible {
		if !s.eligible[gi].Equal(o.eligible[gi]) {
			return false
		}
	}
	return true
}

// Restrict narrows the eligible heads of group gi to allowed. It reports
// false when nothing would remain.
func (s State) Restrict(gi int, allowed nodeset.Set) (State, bool) {
	e := s.eligible[gi]
	ne := e.Intersect(allowed)
	if ne.IsEmpty() {
		return s, false
	}
	if ne.Equal(e) {
		return s, true
	}
	return s.with(gi, ne), true
}

// Apply narrows the state for the tree edge head -> child, one group at a
// time over the groups of either endpoint:
//
//   - head and child both in the group: child has an internal parent and
//     leaves the eligible set;
//   - only child in the group: child attaches externally, so it must be
//     eligible and becomes the only eligible head;
//   - only head in the group: head has an external dependent, so it must be
//     eligible and becomes the only eligible head.
//
// Apply reports false when the edge is infeasible under s, in which case the
// returned State is s. The result does not depend on the order edges are
// applied in, and applying an edge twice is the same as applying it once.
func (s State) Apply(head, child int) (State, bool) {
	next := s
	cloned := false
	set := func(gi int, e nodeset.Set) {
		if !cloned {
			next.eligible = slices.Clone(s.eligible)
			cloned = true
		}
		next.eligible[gi] = e
	}

	for _, gi := range s.table.GroupsOf(child) {
		e := next.eligible[gi]
		if s.table.groups[gi].Members.Has(head) {
			ne := e.Without(child)
			if ne.IsEmpty() {
				return s, false
			}
			if !ne.Equal(e) {
				set(gi, ne)
			}
			continue
		}
		if !e.Has(child) {
			return s, false
		}
		if e.Len() != 1 {
			set(gi, nodeset.New(child))
		}
	}

	for _, gi := range s.table.GroupsOf(head) {
		if s.table.groups[gi].Members.Has(child) {
			continue
		}
		e := next.eligible[gi]
		if !e.Has(head) {
			return s, false
		}
		if e.Len() != 1 {
			set(gi, nodeset.New(head))
		}
	}
	return next, true
}

func (s State) with(gi int, e nodeset.Set) State {
	el := slices.Clone(s.eligible)
	el[gi] = e
	return State{table: s.table, eligible: el}
}

func (s State) String() string {
	var b strings.Builder
	for gi, e := range s.eligible {
		if gi > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.table.groups[gi].Name)
		b.WriteByte('=')
		b.WriteString(e.String())
	}
	return b.String()
}
