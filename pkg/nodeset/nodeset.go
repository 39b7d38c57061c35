// Package nodeset provides an immutable set of small non-negative integers.
//
// Sets index the vertices of a candidate graph (0 is the virtual root).
// Every operation returns a new value and never mutates its receiver, so a
// Set can be shared freely between search branches. Operations that would
// not change the set return the receiver itself, which keeps unchanged
// state structurally shared on deep searches.
//
// The zero value is the empty set.
package nodeset

import (
	"math/bits"
	"strconv"
	"strings"
)

const wordBits = 64

// Set is an immutable bitset. Trailing zero words are never stored, so two
// sets with the same elements have identical word slices.
type Set struct {
	w []uint64
}

// New returns the set containing idx. Negative indices panic.
func New(idx ...int) Set {
	if len(idx) == 0 {
		return Set{}
	}
	maxIdx := 0
	for _, i := range idx {
		if i < 0 {
			panic("nodeset: negative index " + strconv.Itoa(i))
		}
		if i > maxIdx {
			maxIdx = i
		}
	}
	w := make([]uint64, maxIdx/wordBits+1)
	for _, i := range idx {
		w[i/wordBits] |= 1 << (uint(i) % wordBits)
	}
	return Set{w: w}
}

// Range returns the set {lo, ..., hi-1}.
func Range(lo, hi int) Set {
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return Set{}
	}
	w := make([]uint64, (hi-1)/wordBits+1)
	for i := lo; i < hi; i++ {
		w[i/wordBits] |= 1 << (uint(i) % wordBits)
	}
	return Set{w: w}
}

// Has reports whether i is in s.
func (s Set) Has(i int) bool {
	if i < 0 || i/wordBits >= len(s.w) {
		return false
	}
	return s.w[i/wordBits]&(1<<(uint(i)%wordBits)) != 0
}

// With returns s ∪ {i}.
func (s Set) With(i int) Set {
	if s.Has(i) {
		return s
	}
	if i < 0 {
		panic("nodeset: negative index " + strconv.Itoa(i))
	}
	n := len(s.w)
	if need := i/wordBits + 1; need > n {
		n = need
	}
	w := make([]uint64, n)
	copy(w, s.w)
	w[i/wordBits] |= 1 << (uint(i) % wordBits)
	return Set{w: w}
}

// Without returns s \ {i}.
func (s Set) Without(i int) Set {
	if !s.Has(i) {
		return s
	}
	w := make([]uint64, len(s.w))
	copy(w, s.w)
	w[i/wordBits] &^= 1 << (uint(i) % wordBits)
	return trim(w)
}

// Intersect returns s ∩ t.
func (s Set) Intersect(t Set) Set {
	if s.SubsetOf(t) {
		return s
	}
	n := min(len(s.w), len(t.w))
	w := make([]uint64, n)
	for i := range w {
		w[i] = s.w[i] & t.w[i]
	}
	return trim(w)
}

// Union returns s ∪ t.
func (s Set) Union(t Set) Set {
	if t.SubsetOf(s) {
		return s
	}
	if s.SubsetOf(t) {
		return t
	}
	a, b := s.w, t.w
	if len(a) < len(b) {
		a, b = b, a
	}
	w := make([]uint64, len(a))
	copy(w, a)
	for i := range b {
		w[i] |= b[i]
	}
	return Set{w: w}
}

// Minus returns s \ t.
func (s Set) Minus(t Set) Set {
	if !s.Intersects(t) {
		return s
	}
	w := make([]uint64, len(s.w))
	copy(w, s.w)
	for i := 0; i < len(w) && i < len(t.w); i++ {
		w[i] &^= t.w[i]
	}
	return trim(w)
}

// Len returns the number of elements.
func (s Set) Len() int {
	n := 0
	for _, x := range s.w {
		n += bits.OnesCount64(x)
	}
	return n
}

// IsEmpty reports whether s has no elements.
func (s Set) IsEmpty() bool { return len(s.w) == 0 }

// Equal reports whether s and t have the same elements.
func (s Set) Equal(t Set) bool {
	if len(s.w) != len(t.w) {
		return false
	}
	for i := range s.w {
		if s.w[i] != t.w[i] {
			return false
		}
	}
	return true
}

// SubsetOf reports whether every element of s is in t.
func (s Set) SubsetOf(t Set) bool {
	if len(s.w) > len(t.w) {
		return false
	}
	for i := range s.w {
		if s.w[i]&^t.w[i] != 0 {
			return false
		}
	}
	return true
}

// Intersects reports whether s and t share an element.
func (s Set) Intersects(t Set) bool {
	for i := 0; i < len(s.w) && i < len(t.w); i++ {
		if s.w[i]&t.w[i] != 0 {
			return true
		}
	}
	return false
}

// Min returns the smallest element, or -1 if s is empty.
func (s Set) Min() int {
	for i, x := range s.w {
		if x != 0 {
			return i*wordBits + bits.TrailingZeros64(x)
		}
	}
	return -1
}

// Only returns the single element of s. ok is false unless Len() == 1.
func (s Set) Only() (i int, ok bool) {
	if s.Len() != 1 {
		return -1, false
	}
	return s.Min(), true
}

// Each calls fn for every element in ascending order until fn returns false.
func (s Set) Each(fn func(i int) bool) {
	for wi, x := range s.w {
		for x != 0 {
			b := bits.TrailingZeros64(x)
			if !fn(wi*wordBits + b) {
				return
			}
			x &= x - 1
		}
	}
}

// Slice returns the elements in ascending order.
func (s Set) Slice() []int {
	out := make([]int, 0, s.Len())
	s.Each(func(i int) bool {
		out = append(out, i)
		return true
	})
	return out
}

// String formats s as "{1 4 7}".
func (s Set) String() string {
	var b strings.Builder
	b.WriteByte('{')
	first := true
	s.Each(func(i int) bool {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		b.WriteString(strconv.Itoa(i))
		return true
	})
	b.WriteByte('}')
	return b.String()
}

func trim(w []uint64) Set {
	n := len(w)
	for n > 0 && w[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Set{}
	}
	return Set{w: w[:n]}
}
