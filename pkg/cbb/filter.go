package cbb

// Arborescence is a rooted tree over vertices 0..Len()-1 with root 0.
type Arborescence interface {
	Len() int
	Parent(v int) int
}

// Check folds [State.Apply] over every edge of t starting from initial. It
// reports whether t satisfies every group constraint, and the final state.
func Check(t Arborescence, initial State) (State, bool) {
	s := initial
	for v := 1; v < t.Len(); v++ {
		var ok bool
		if s, ok = s.Apply(t.Parent(v), v); !ok {
			return initial, false
		}
	}
	return s, true
}

// Filter returns the trees that satisfy every group constraint, in order.
// It is the generate-then-filter counterpart of applying constraints during
// search and yields the same trees.
func Filter[T Arborescence](trees []T, initial State) []T {
	var out []T
	for _, t := range trees {
		if _, ok := Check(t, initial); ok {
			out = append(out, t)
		}
	}
	return out
}
