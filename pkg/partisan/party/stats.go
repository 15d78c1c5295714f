package party

import (
	"github.com/cognicore/partisan/pkg/partisan/counts"
)

// Stats bundles the group-level statistics of one count matrix. A Stats is
// mutable: Exclude and Include remove and restore a single row so that
// leave-one-out estimates adjust only the tokens that row touches.
type Stats struct {
	N      float64   // number of rows
	Totals []float64 // per-token counts summed over rows
	Total  float64   // sum of Totals
	Users  []float64 // per-token user counts, add-one smoothed
}

// NewStats computes the statistics of m.
func NewStats(m *counts.Matrix) *Stats {
	rows, _ := m.Dims()
	totals := m.ColumnSums()
	return &Stats{
		N:      float64(rows),
		Totals: totals,
		Total:  m.Sum(),
		Users:  UserCounts(m),
	}
}

// Len returns the vocabulary size.
func (s *Stats) Len() int {
	return len(s.Users)
}

// Share is the group's relative frequency of token j.
func (s *Stats) Share(j int) float64 {
	return s.Totals[j] / s.Total
}

// Present is the smoothed number of rows using token j.
func (s *Stats) Present(j int) float64 {
	return s.Users[j]
}

// Absent is the smoothed number of rows not using token j.
func (s *Stats) Absent(j int) float64 {
	return s.N - s.Users[j] + 2
}

// Exclude removes row e of m (the matrix s was computed from) from s.
func (s *Stats) Exclude(m *counts.Matrix, e int) {
	m.DoRow(e, func(j int, v float64) {
		s.Totals[j] -= v
		s.Total -= v
		s.Users[j]--
	})
	s.N--
}

// Include restores row e after Exclude. Counts are integral, so the
// round trip is exact.
func (s *Stats) Include(m *counts.Matrix, e int) {
	m.DoRow(e, func(j int, v float64) {
		s.Totals[j] += v
		s.Total += v
		s.Users[j]++
	})
	s.N++
}
