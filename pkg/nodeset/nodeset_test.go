package nodeset

import (
	"reflect"
	"testing"
)

func TestNewAndHas(t *testing.T) {
	s := New(0, 3, 64, 130)
	for _, i := range []int{0, 3, 64, 130} {
		if !s.Has(i) {
			t.Errorf("Has(%d) = false, want true", i)
		}
	}
	for _, i := range []int{-1, 1, 63, 65, 129, 500} {
		if s.Has(i) {
			t.Errorf("Has(%d) = true, want false", i)
		}
	}
	if s.Len() != 4 {
		t.Errorf("Len() = %d, want 4", s.Len())
	}
}

func TestZeroValue(t *testing.T) {
	var s Set
	if !s.IsEmpty() || s.Len() != 0 || s.Min() != -1 {
		t.Errorf("zero value not empty: %v", s)
	}
	if !s.Equal(New()) {
		t.Error("zero value != New()")
	}
	if s.String() != "{}" {
		t.Errorf("String() = %q, want {}", s.String())
	}
}

func TestRange(t *testing.T) {
	tests := []struct {
		lo, hi int
		want   []int
	}{
		{0, 0, []int{}},
		{0, 3, []int{0, 1, 2}},
		{2, 5, []int{2, 3, 4}},
		{5, 2, []int{}},
	}
	for _, tt := range tests {
		got := Range(tt.lo, tt.hi).Slice()
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Range(%d, %d) = %v, want %v", tt.lo, tt.hi, got, tt.want)
		}
	}
}

func TestImmutability(t *testing.T) {
	s := New(1, 2, 3)
	_ = s.With(70)
	_ = s.Without(2)
	_ = s.Intersect(New(1))
	_ = s.Minus(New(3))
	_ = s.Union(New(9))
	if got := s.Slice(); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("receiver mutated: %v", got)
	}
}

func TestSetAlgebra(t *testing.T) {
	a := New(1, 2, 3, 70)
	b := New(2, 3, 4)

	tests := []struct {
		name string
		got  Set
		want []int
	}{
		{"intersect", a.Intersect(b), []int{2, 3}},
		{"union", a.Union(b), []int{1, 2, 3, 4, 70}},
		{"minus", a.Minus(b), []int{1, 70}},
		{"minus high", a.Minus(New(70)), []int{1, 2, 3}},
		{"with", b.With(100), []int{2, 3, 4, 100}},
		{"without", a.Without(70), []int{1, 2, 3}},
		{"without missing", a.Without(5), []int{1, 2, 3, 70}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.got.Slice(); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEqualAfterTrim(t *testing.T) {
	a := New(1, 200).Without(200)
	if !a.Equal(New(1)) {
		t.Errorf("Equal() = false for %v and {1}", a)
	}
	if !New(5).Minus(New(5)).Equal(Set{}) {
		t.Error("emptied set != zero value")
	}
}

func TestSubsetIntersects(t *testing.T) {
	if !New(1, 2).SubsetOf(New(1, 2, 3)) {
		t.Error("SubsetOf = false, want true")
	}
	if New(1, 90).SubsetOf(New(1, 2, 3)) {
		t.Error("SubsetOf = true, want false")
	}
	if !(Set{}).SubsetOf(New(1)) {
		t.Error("empty SubsetOf = false, want true")
	}
	if New(1, 2).Intersects(New(3, 80)) {
		t.Error("Intersects = true, want false")
	}
	if !New(1, 80).Intersects(New(3, 80)) {
		t.Error("Intersects = false, want true")
	}
}

func TestOnlyAndMin(t *testing.T) {
	if i, ok := New(66).Only(); !ok || i != 66 {
		t.Errorf("Only() = %d, %v, want 66, true", i, ok)
	}
	if _, ok := New(1, 2).Only(); ok {
		t.Error("Only() ok = true for two elements")
	}
	if _, ok := (Set{}).Only(); ok {
		t.Error("Only() ok = true for empty set")
	}
	if m := New(99, 7, 64).Min(); m != 7 {
		t.Errorf("Min() = %d, want 7", m)
	}
}

func TestEachStops(t *testing.T) {
	var seen []int
	New(1, 2, 3, 4).Each(func(i int) bool {
		seen = append(seen, i)
		return i < 2
	})
	if !reflect.DeepEqual(seen, []int{1, 2}) {
		t.Errorf("Each visited %v, want [1 2]", seen)
	}
}

func TestString(t *testing.T) {
	if got := New(4, 1, 7).String(); got != "{1 4 7}" {
		t.Errorf("String() = %q, want {1 4 7}", got)
	}
}
