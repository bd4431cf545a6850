package multisig

import (
	"github.com/taurusgroup/sigmaproofs/pkg/value"
)

// Binomials is a table of binomial coefficients C(n, k) for n up to a fixed
// bound. It is immutable once built and may be shared between builders.
type Binomials struct {
	rows [][]int
}

// NewBinomials computes Pascal's triangle up to row bound.
func NewBinomials(bound int) *Binomials {
	if bound < 0 {
		bound = 0
	}
	rows := make([][]int, bound+1)
	for n := range rows {
		rows[n] = make([]int, n+1)
		rows[n][0], rows[n][n] = 1, 1
		for k := 1; k < n; k++ {
			rows[n][k] = rows[n-1][k-1] + rows[n-1][k]
		}
	}
	return &Binomials{rows: rows}
}

// Max returns the largest n covered by the table.
func (b *Binomials) Max() int {
	return len(b.rows) - 1
}

// Choose returns C(n, k).
func (b *Binomials) Choose(n, k int) (int, error) {
	if n < 0 || n > b.Max() {
		return 0, value.Mismatch("binomials: n = %d outside of table [0, %d]", n, b.Max())
	}
	if k < 0 || k > n {
		return 0, nil
	}
	return b.rows[n][k], nil
}

// Subsets returns the k-subsets of {0, …, n-1} in lexicographic order.
func Subsets(n, k int) [][]int {
	if k < 0 || k > n {
		return nil
	}
	var out [][]int
	current := make([]int, k)
	for i := range current {
		current[i] = i
	}
	for {
		out = append(out, append([]int(nil), current...))
		// find the rightmost position that can still move
		i := k - 1
		for i >= 0 && current[i] == n-k+i {
			i--
		}
		if i < 0 {
			return out
		}
		current[i]++
		for j := i + 1; j < k; j++ {
			current[j] = current[j-1] + 1
		}
	}
}
