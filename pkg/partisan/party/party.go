// Package party derives the per-group token statistics used to score token
// partisanship: group token distributions, per-document distributions and
// Laplace-smoothed counts of documents ("users") containing each token.
package party

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cognicore/partisan/pkg/partisan/counts"
)

// Distribution returns the group's relative token frequencies: the column
// sums of m divided by the grand total.
func Distribution(m *counts.Matrix) []float64 {
	q := m.ColumnSums()
	floats.Scale(1/floats.Sum(q), q)
	return q
}

// DistributionExcluding is Distribution computed without row e.
func DistributionExcluding(m *counts.Matrix, e int) []float64 {
	q := m.ColumnSums()
	m.DoRow(e, func(j int, v float64) {
		q[j] -= v
	})
	floats.Scale(1/floats.Sum(q), q)
	return q
}

// RowNormalize turns every row of m into a probability distribution over the
// vocabulary. m must not contain all-zero rows; one is a programming error
// and panics.
func RowNormalize(m *counts.Matrix) *counts.Matrix {
	rows, _ := m.Dims()
	scale := make([]float64, rows)
	for i := range scale {
		s := m.RowSum(i)
		if s == 0 {
			panic(fmt.Sprintf("party: row %d has no token counts", i))
		}
		scale[i] = 1 / s
	}
	return m.ScaleRows(scale)
}

// UserCounts returns, per token, the number of rows using the token at
// least once, plus one for add-one smoothing.
func UserCounts(m *counts.Matrix) []float64 {
	df := m.DocFreq()
	t := make([]float64, len(df))
	for j, n := range df {
		t[j] = float64(n) + 1
	}
	return t
}

// UserCountsExcluding is UserCounts computed without row e. Removing one row
// lowers the count of each token it uses by exactly one.
func UserCountsExcluding(m *counts.Matrix, e int) []float64 {
	t := UserCounts(m)
	m.DoRow(e, func(j int, _ float64) {
		t[j]--
	})
	return t
}

// ComplementUserCounts returns n - presence + 2 per token: the smoothed
// number of rows not using the token. The +2 offsets the add-one smoothing
// applied to both the presence and the absence counts.
func ComplementUserCounts(n float64, presence []float64) []float64 {
	out := make([]float64, len(presence))
	for j, p := range presence {
		out[j] = n - p + 2
	}
	return out
}
