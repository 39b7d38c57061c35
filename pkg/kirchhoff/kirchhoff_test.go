package kirchhoff

import (
	"math/big"
	"reflect"
	"testing"

	"github.com/matzehuels/promiscuity/pkg/digraph"
)

func complete(n int) *digraph.Digraph {
	labels := make([]string, n+1)
	labels[0] = "$$"
	for i := 1; i <= n; i++ {
		labels[i] = string(rune('a' + i - 1))
	}
	g := digraph.New(labels)
	for c := 1; c <= n; c++ {
		for p := 0; p <= n; p++ {
			if p != c {
				_ = g.AddEdge(p, c)
			}
		}
	}
	return g
}

func TestLaplacian(t *testing.T) {
	g := digraph.New([]string{"$$", "a", "b"})
	_ = g.AddEdge(0, 1)
	_ = g.AddEdge(1, 2)
	_ = g.AddEdge(0, 2)
	want := [][]int64{
		{0, 0, 0},
		{-1, 1, 0},
		{-1, -1, 2},
	}
	if got := Laplacian(g); !reflect.DeepEqual(got, want) {
		t.Errorf("Laplacian() = %v, want %v", got, want)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		name string
		g    *digraph.Digraph
		want int64
	}{
		{"root only", digraph.New([]string{"$$"}), 1},
		{"complete 1", complete(1), 1},
		{"complete 2", complete(2), 3},
		{"complete 3", complete(3), 16},
		{"complete 4", complete(4), 125},
		{"complete 6", complete(6), 16807},
		{"unreachable", digraph.New([]string{"$$", "a"}), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Count(tt.g); got.Cmp(big.NewInt(tt.want)) != 0 {
				t.Errorf("Count() = %v, want %d", got, tt.want)
			}
		})
	}
}

func TestCountMixedGraph(t *testing.T) {
	// $$ -> a, a <-> b, a <-> c, b <-> c: a is forced under the root and
	// b, c choose among the three arborescences of the triangle.
	g := digraph.New([]string{"$$", "a", "b", "c"})
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 1}, {1, 3}, {3, 1}, {2, 3}, {3, 2}} {
		if err := g.AddEdge(e[0], e[1]); err != nil {
			t.Fatal(err)
		}
	}
	if got := Count(g); got.Int64() != 3 {
		t.Errorf("Count() = %v, want 3", got)
	}
}

func TestDeterminantPivot(t *testing.T) {
	m := [][]*big.Int{
		{big.NewInt(0), big.NewInt(2)},
		{big.NewInt(3), big.NewInt(4)},
	}
	if got := Determinant(m); got.Int64() != -6 {
		t.Errorf("Determinant() = %v, want -6", got)
	}
}

func TestDeterminantLarge(t *testing.T) {
	// 25 vertices in a complete graph: 26^24 overflows int64.
	got := Count(complete(25))
	want := new(big.Int).Exp(big.NewInt(26), big.NewInt(24), nil)
	if got.Cmp(want) != 0 {
		t.Errorf("Count() = %v, want %v", got, want)
	}
}

func TestTractable(t *testing.T) {
	tests := []struct {
		bound int64
		limit int64
		want  bool
	}{
		{10, 0, true},
		{10, 10, true},
		{11, 10, false},
		{0, 1, true},
	}
	for _, tt := range tests {
		if got := Tractable(big.NewInt(tt.bound), tt.limit); got != tt.want {
			t.Errorf("Tractable(%d, %d) = %v, want %v", tt.bound, tt.limit, got, tt.want)
		}
	}
}
