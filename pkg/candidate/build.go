package candidate

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/promiscuity/pkg/annotation"
	"github.com/matzehuels/promiscuity/pkg/cbb"
	"github.com/matzehuels/promiscuity/pkg/errors"
	"github.com/matzehuels/promiscuity/pkg/nodeset"
)

type endpoint int

const (
	endpointOther endpoint = iota
	endpointRoot
	endpointVertex
	endpointGroup
)

// groupEdge is a specified edge with a group endpoint. For edges into a
// group, head is a vertex or, when headGroup >= 0, another group. For edges
// out of a group, head is unused and child is the attached vertex.
type groupEdge struct {
	group     int
	head      int
	headGroup int
	child     int
}

type builder struct {
	ann *annotation.Annotation
	g   *Graph

	all      nodeset.Set
	groupIdx map[string]int
	members  []nodeset.Set
	names    []string
	state    cbb.State

	pairs   [][2]int
	into    []groupEdge
	outOf   []groupEdge
	changed bool
}

// Build constructs the candidate graph of ann.
//
// The annotation is validated first. An annotation that admits no tree at
// all (a vertex without candidate parents, a group without an eligible
// head, two specified heads for one vertex, a vertex the root can never
// reach) fails with an [errors.ErrCodeInconsistent] error.
func Build(ann *annotation.Annotation) (*Graph, error) {
	if err := ann.Validate(); err != nil {
		return nil, err
	}
	b := &builder{ann: ann, g: &Graph{tokens: slices.Clone(ann.Tokens)}}

	if err := b.vertices(); err != nil {
		return nil, err
	}
	if err := b.groups(); err != nil {
		return nil, err
	}
	b.candidates()
	if err := b.edges(); err != nil {
		return nil, err
	}
	if err := b.fixpoint(); err != nil {
		return nil, err
	}
	if err := b.finish(); err != nil {
		return nil, err
	}
	return b.g, nil
}

// vertices collects node2words keys, declared nodes that are not groups,
// coordination variables or covered token forms, and every uncovered token.
func (b *builder) vertices() error {
	a := b.ann
	groups := make(map[string]bool)
	for _, name := range a.Groups() {
		groups[name] = true
	}
	covered := make(map[string]bool)
	for _, words := range a.NodeToWords {
		for _, w := range words {
			covered[w] = true
		}
	}

	ids := make(map[string]bool)
	for n := range a.NodeToWords {
		ids[n] = true
	}
	for _, n := range a.Nodes {
		if groups[n] || covered[n] {
			continue
		}
		if _, ok := a.ExtraNodeToWords[n]; ok {
			continue
		}
		ids[n] = true
	}
	for _, t := range a.Tokens {
		if !covered[t] {
			ids[t] = true
		}
	}
	for name := range groups {
		if ids[name] {
			return errors.New(errors.ErrCodeInvalidAnnotation, "group %q is also a node", name)
		}
	}

	sorted := make([]string, 0, len(ids))
	for id := range ids {
		sorted = append(sorted, id)
	}
	slices.Sort(sorted)

	g := b.g
	g.labels = append([]string{annotation.RootID}, sorted...)
	g.index = make(map[string]int, len(g.labels))
	for v, id := range g.labels {
		g.index[id] = v
	}

	pos := make(map[string]int, len(a.Tokens))
	for i, t := range a.Tokens {
		pos[t] = i
	}
	g.words = make([][]int, len(g.labels))
	for v := 1; v < len(g.labels); v++ {
		id := g.labels[v]
		if words, ok := a.NodeToWords[id]; ok {
			ps := make([]int, 0, len(words))
			for _, w := range words {
				ps = append(ps, pos[w])
			}
			slices.Sort(ps)
			g.words[v] = slices.Compact(ps)
		} else if p, ok := pos[id]; ok {
			g.words[v] = []int{p}
		}
	}
	return nil
}

// groups reads membership from unspec edges and flattens nested groups.
func (b *builder) groups() error {
	names := b.ann.Groups()
	pos := make(map[string]int, len(names))
	for i, name := range names {
		pos[name] = i
	}

	flat := make([]nodeset.Set, len(names))
	nested := make([][]int, len(names))
	for _, e := range b.ann.Edges {
		if e.Kind() != annotation.KindUnspec {
			continue
		}
		gi := pos[e.Head]
		if v, ok := b.g.index[e.Child]; ok {
			flat[gi] = flat[gi].With(v)
		} else if hj, ok := pos[e.Child]; ok {
			nested[gi] = append(nested[gi], hj)
		} else {
			b.g.dropped = append(b.g.dropped, e)
		}
	}

	const (
		unvisited = iota
		visiting
		done
	)
	state := make([]int, len(names))
	var visit func(i int) error
	visit = func(i int) error {
		switch state[i] {
		case visiting:
			return errors.New(errors.ErrCodeInvalidAnnotation, "groups are nested in a cycle through %q", names[i])
		case done:
			return nil
		}
		state[i] = visiting
		for _, j := range nested[i] {
			if err := visit(j); err != nil {
				return err
			}
			flat[i] = flat[i].Union(flat[j])
		}
		state[i] = done
		return nil
	}

	var table []cbb.Group
	b.groupIdx = make(map[string]int)
	for i, name := range names {
		if err := visit(i); err != nil {
			return err
		}
		if flat[i].IsEmpty() {
			continue
		}
		b.groupIdx[name] = len(table)
		b.names = append(b.names, name)
		b.members = append(b.members, flat[i])
		table = append(table, cbb.Group{Name: name, Members: flat[i]})
	}
	b.g.table = cbb.NewTable(table)
	b.state = b.g.table.Initial()
	return nil
}

func (b *builder) candidates() {
	n := len(b.g.labels)
	b.all = nodeset.Range(0, n)
	b.g.parents = make([]nodeset.Set, n)
	for v := 1; v < n; v++ {
		b.g.parents[v] = b.all.Without(v)
	}
}

func (b *builder) classify(id string) (endpoint, int) {
	if id == annotation.RootID {
		return endpointRoot, 0
	}
	if v, ok := b.g.index[id]; ok {
		return endpointVertex, v
	}
	if gi, ok := b.groupIdx[id]; ok {
		return endpointGroup, gi
	}
	return endpointOther, -1
}

// edges sorts specified edges by endpoint kind, collapses vertex-to-vertex
// edges and applies them to the eligible-head state.
func (b *builder) edges() error {
	for _, e := range b.ann.Edges {
		if e.Kind() != annotation.KindSpecified {
			continue
		}
		hk, h := b.classify(e.Head)
		ck, c := b.classify(e.Child)
		headVertex := hk == endpointVertex || hk == endpointRoot

		switch {
		case ck == endpointVertex && headVertex:
			if err := b.narrow(c, nodeset.New(h)); err != nil {
				return errors.Wrap(errors.ErrCodeInconsistent, err, "specified edge %s -> %s", e.Head, e.Child)
			}
			b.pairs = append(b.pairs, [2]int{h, c})
		case ck == endpointVertex && hk == endpointGroup:
			b.outOf = append(b.outOf, groupEdge{group: h, headGroup: -1, child: c})
		case ck == endpointGroup && headVertex:
			b.into = append(b.into, groupEdge{group: c, head: h, headGroup: -1})
		case ck == endpointGroup && hk == endpointGroup:
			b.into = append(b.into, groupEdge{group: c, headGroup: h})
		default:
			b.g.dropped = append(b.g.dropped, e)
		}
	}

	for _, p := range b.pairs {
		next, ok := b.state.Apply(p[0], p[1])
		if !ok {
			return errors.New(errors.ErrCodeInconsistent, "specified edge %s -> %s leaves a group without a single head",
				b.g.labels[p[0]], b.g.labels[p[1]])
		}
		b.state = next
	}
	return nil
}

// fixpoint narrows candidate and eligible sets until neither changes. Every
// step only removes elements, so it terminates.
func (b *builder) fixpoint() error {
	for {
		b.changed = false

		for _, ge := range b.outOf {
			if err := b.narrow(ge.child, b.state.Eligible(ge.group)); err != nil {
				return errors.Wrap(errors.ErrCodeInconsistent, err, "edge from group %q", b.names[ge.group])
			}
		}
		for _, ge := range b.into {
			heads := nodeset.New(ge.head)
			if ge.headGroup >= 0 {
				heads = b.state.Eligible(ge.headGroup)
			}
			members := b.members[ge.group]
			for _, m := range members.Slice() {
				if err := b.narrow(m, members.Without(m).Union(heads)); err != nil {
					return errors.Wrap(errors.ErrCodeInconsistent, err, "edge into group %q", b.names[ge.group])
				}
			}
		}
		for gi := range b.members {
			if err := b.restrictGroup(gi); err != nil {
				return err
			}
		}

		if !b.changed {
			return nil
		}
	}
}

func (b *builder) restrictGroup(gi int) error {
	members := b.members[gi]
	name := b.names[gi]

	var escape, forced nodeset.Set
	for _, m := range members.Slice() {
		cand := b.g.parents[m]
		if !cand.SubsetOf(members) {
			escape = escape.With(m)
		}
		if !cand.Intersects(members) {
			forced = forced.With(m)
		}
	}
	if forced.Len() > 1 {
		return errors.New(errors.ErrCodeInconsistent, "group %q has several members that can only attach outside it: %s",
			name, b.labelList(forced))
	}
	allowed := escape
	if forced.Len() == 1 {
		allowed = forced
	}

	before := b.state.Eligible(gi)
	next, ok := b.state.Restrict(gi, allowed)
	if !ok {
		return errors.New(errors.ErrCodeInconsistent, "group %q has no member left that can be its head", name)
	}
	b.state = next
	eligible := next.Eligible(gi)
	if !eligible.Equal(before) {
		b.changed = true
	}

	inner := members.Minus(eligible)
	for _, m := range inner.Slice() {
		if err := b.narrow(m, members); err != nil {
			return errors.Wrap(errors.ErrCodeInconsistent, err, "group %q", name)
		}
	}
	if h, ok := eligible.Only(); ok {
		if err := b.narrow(h, b.all.Minus(members)); err != nil {
			return errors.Wrap(errors.ErrCodeInconsistent, err, "head of group %q", name)
		}
	}
	if !inner.IsEmpty() {
		outside := b.all.Minus(members)
		for _, x := range outside.Slice() {
			if x == 0 {
				continue
			}
			if err := b.narrow(x, b.all.Minus(inner)); err != nil {
				return errors.Wrap(errors.ErrCodeInconsistent, err, "outside group %q", name)
			}
		}
	}
	return nil
}

// narrow intersects the candidate parents of v with allowed.
func (b *builder) narrow(v int, allowed nodeset.Set) error {
	cur := b.g.parents[v]
	next := cur.Intersect(allowed)
	if next.IsEmpty() {
		return fmt.Errorf("no candidate parent left for %q", b.g.labels[v])
	}
	if !next.Equal(cur) {
		b.g.parents[v] = next
		b.changed = true
	}
	return nil
}

// finish derives the children view and rejects vertices the root cannot
// reach.
func (b *builder) finish() error {
	g := b.g
	n := len(g.labels)
	g.children = make([]nodeset.Set, n)
	for c := 1; c < n; c++ {
		for _, p := range g.parents[c].Slice() {
			g.children[p] = g.children[p].With(c)
		}
	}

	seen := nodeset.New(0)
	queue := []int{0}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, c := range g.children[v].Minus(seen).Slice() {
			seen = seen.With(c)
			queue = append(queue, c)
		}
	}
	if unreached := b.all.Minus(seen); !unreached.IsEmpty() {
		return errors.New(errors.ErrCodeInconsistent, "no tree reaches %s from the root", b.labelList(unreached))
	}

	g.initial = b.state
	return nil
}

func (b *builder) labelList(s nodeset.Set) string {
	ids := make([]string, 0, s.Len())
	for _, v := range s.Slice() {
		ids = append(ids, b.g.labels[v])
	}
	return strings.Join(ids, ", ")
}
