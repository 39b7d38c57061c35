// Package kirchhoff counts the spanning arborescences of a rooted digraph
// with the directed Matrix-Tree theorem.
//
// The count is exact for the graph as given. For a candidate graph it
// ignores coordination-boundary groups, so it is an upper bound on the
// number of constrained trees and is used to decide whether exhaustive
// enumeration is reasonable.
package kirchhoff

import (
	"math/big"

	"github.com/matzehuels/promiscuity/pkg/digraph"
)

// Laplacian returns the in-degree Laplacian of g with the root as row and
// column 0: L[c][c] is the number of parents of c and L[c][p] is -1 for
// every edge p -> c.
func Laplacian(g *digraph.Digraph) [][]int64 {
	n := g.Len()
	l := make([][]int64, n)
	for c := range l {
		l[c] = make([]int64, n)
	}
	for c := 1; c < n; c++ {
		ps := g.Parents(c)
		l[c][c] = int64(ps.Len())
		ps.Each(func(p int) bool {
			l[c][p] = -1
			return true
		})
	}
	return l
}

// Count returns the number of arborescences of g rooted at
// [digraph.Root]: the determinant of the Laplacian without the root row
// and column.
func Count(g *digraph.Digraph) *big.Int {
	l := Laplacian(g)
	n := len(l) - 1
	m := make([][]*big.Int, n)
	for i := range m {
		m[i] = make([]*big.Int, n)
		for j := range m[i] {
			m[i][j] = big.NewInt(l[i+1][j+1])
		}
	}
	return Determinant(m)
}

// Determinant returns the exact determinant of the square matrix m using
// fraction-free Bareiss elimination. m is overwritten. The determinant of
// the empty matrix is 1.
func Determinant(m [][]*big.Int) *big.Int {
	n := len(m)
	if n == 0 {
		return big.NewInt(1)
	}
	negate := false
	prev := big.NewInt(1)
	var t1, t2 big.Int

	for k := 0; k < n-1; k++ {
		if m[k][k].Sign() == 0 {
			pivot := -1
			for i := k + 1; i < n; i++ {
				if m[i][k].Sign() != 0 {
					pivot = i
					break
				}
			}
			if pivot < 0 {
				return big.NewInt(0)
			}
			m[k], m[pivot] = m[pivot], m[k]
			negate = !negate
		}
		for i := k + 1; i < n; i++ {
			for j := k + 1; j < n; j++ {
				t1.Mul(m[i][j], m[k][k])
				t2.Mul(m[i][k], m[k][j])
				t1.Sub(&t1, &t2)
				m[i][j] = new(big.Int).Quo(&t1, prev)
			}
		}
		prev = m[k][k]
	}

	det := new(big.Int).Set(m[n-1][n-1])
	if negate {
		det.Neg(det)
	}
	return det
}

// Tractable reports whether bound is at most limit. A non-positive limit
// means no limit.
func Tractable(bound *big.Int, limit int64) bool {
	if limit <= 0 {
		return true
	}
	return bound.Cmp(big.NewInt(limit)) <= 0
}
