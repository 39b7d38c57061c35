package cbb

import (
	"testing"

	"github.com/matzehuels/promiscuity/pkg/nodeset"
)

// Vertices: 0 root, 1 a, 2 b, 3 c, 4 d. Group g = {a, b}.
func abTable() *Table {
	return NewTable([]Group{{Name: "g", Members: nodeset.New(1, 2)}})
}

func TestTableIndex(t *testing.T) {
	tb := NewTable([]Group{
		{Name: "g", Members: nodeset.New(1, 2)},
		{Name: "h", Members: nodeset.New(2, 3)},
	})
	if tb.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", tb.Len())
	}
	if gi, ok := tb.Index("h"); !ok || gi != 1 {
		t.Errorf("Index(h) = %d, %v", gi, ok)
	}
	if got := tb.GroupsOf(2); len(got) != 2 {
		t.Errorf("GroupsOf(2) = %v, want two groups", got)
	}
	if got := tb.GroupsOf(4); len(got) != 0 {
		t.Errorf("GroupsOf(4) = %v, want none", got)
	}
	var nilTable *Table
	if nilTable.Len() != 0 || nilTable.GroupsOf(1) != nil {
		t.Error("nil table not empty")
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		name       string
		head       int
		child      int
		start      nodeset.Set
		wantOK     bool
		wantEligib nodeset.Set
	}{
		{"outside both", 3, 4, nodeset.New(1, 2), true, nodeset.New(1, 2)},
		{"internal edge", 1, 2, nodeset.New(1, 2), true, nodeset.New(1)},
		{"internal edge empties", 1, 2, nodeset.New(2), false, nodeset.New(2)},
		{"external parent", 3, 1, nodeset.New(1, 2), true, nodeset.New(1)},
		{"external parent not eligible", 3, 1, nodeset.New(2), false, nodeset.New(2)},
		{"root parent", 0, 2, nodeset.New(1, 2), true, nodeset.New(2)},
		{"external child", 2, 4, nodeset.New(1, 2), true, nodeset.New(2)},
		{"external child not eligible", 2, 4, nodeset.New(1), false, nodeset.New(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s0, ok := abTable().Initial().Restrict(0, tt.start)
			if !ok {
				t.Fatal("Restrict failed")
			}
			s1, ok := s0.Apply(tt.head, tt.child)
			if ok != tt.wantOK {
				t.Fatalf("Apply(%d, %d) ok = %v, want %v", tt.head, tt.child, ok, tt.wantOK)
			}
			if !s1.Eligible(0).Equal(tt.wantEligib) {
				t.Errorf("Eligible = %v, want %v", s1.Eligible(0), tt.wantEligib)
			}
			if !s0.Eligible(0).Equal(tt.start) {
				t.Errorf("receiver mutated: %v", s0.Eligible(0))
			}
		})
	}
}

func TestApplyIdempotent(t *testing.T) {
	tb := NewTable([]Group{
		{Name: "g", Members: nodeset.New(1, 2)},
		{Name: "h", Members: nodeset.New(3, 4)},
	})
	edges := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {4, 1}, {0, 4}}
	for _, e := range edges {
		s1, ok := tb.Initial().Apply(e[0], e[1])
		if !ok {
			continue
		}
		s2, ok := s1.Apply(e[0], e[1])
		if !ok {
			t.Errorf("Apply(%v) twice infeasible", e)
			continue
		}
		if !s1.Equal(s2) {
			t.Errorf("Apply(%v) not idempotent: %v then %v", e, s1, s2)
		}
	}
}

func TestApplyOrderIndependent(t *testing.T) {
	tb := abTable()
	edges := [][2]int{{3, 1}, {1, 2}, {1, 4}, {0, 3}}
	forward := tb.Initial()
	for _, e := range edges {
		var ok bool
		if forward, ok = forward.Apply(e[0], e[1]); !ok {
			t.Fatalf("forward Apply(%v) infeasible", e)
		}
	}
	backward := tb.Initial()
	for i := len(edges) - 1; i >= 0; i-- {
		var ok bool
		if backward, ok = backward.Apply(edges[i][0], edges[i][1]); !ok {
			t.Fatalf("backward Apply(%v) infeasible", edges[i])
		}
	}
	if !forward.Equal(backward) {
		t.Errorf("order dependent: %v vs %v", forward, backward)
	}
	if h, ok := forward.Head(0); !ok || h != 1 {
		t.Errorf("Head() = %d, %v, want 1", h, ok)
	}
}

func TestApplySharesUntouched(t *testing.T) {
	tb := NewTable([]Group{
		{Name: "g", Members: nodeset.New(1, 2)},
		{Name: "h", Members: nodeset.New(3, 4)},
	})
	s0 := tb.Initial()
	s1, ok := s0.Apply(0, 5)
	if !ok {
		t.Fatal("Apply infeasible")
	}
	if &s1.eligible[0] != &s0.eligible[0] {
		t.Error("state copied for an edge outside every group")
	}
}

func TestRestrict(t *testing.T) {
	s := abTable().Initial()
	if _, ok := s.Restrict(0, nodeset.New(3)); ok {
		t.Error("Restrict to disjoint set ok = true")
	}
	s2, ok := s.Restrict(0, nodeset.New(2, 3))
	if !ok || !s2.Eligible(0).Equal(nodeset.New(2)) {
		t.Errorf("Restrict = %v, %v", s2.Eligible(0), ok)
	}
	if !s2.Resolved() {
		t.Error("Resolved() = false, want true")
	}
	if s.Resolved() {
		t.Error("initial Resolved() = true, want false")
	}
}

func TestString(t *testing.T) {
	if got := abTable().Initial().String(); got != "g={1 2}" {
		t.Errorf("String() = %q", got)
	}
}
