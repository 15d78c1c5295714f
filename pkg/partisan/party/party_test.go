package party

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
	"github.com/cognicore/partisan/pkg/partisan/counts"
)

func sample() *counts.Matrix {
	return counts.Build([]corpus.Document{
		{Tokens: []corpus.TokenCount{{ID: 0, Count: 2}, {ID: 1, Count: 2}}},
		{Tokens: []corpus.TokenCount{{ID: 1, Count: 1}, {ID: 3, Count: 3}}},
		{Tokens: []corpus.TokenCount{{ID: 0, Count: 1}, {ID: 2, Count: 1}}},
	}, 4)
}

func randomMatrix(rng *rand.Rand, rows, vocab int) *counts.Matrix {
	docs := make([]corpus.Document, rows)
	for i := range docs {
		n := 1 + rng.Intn(6)
		for k := 0; k < n; k++ {
			docs[i].Tokens = append(docs[i].Tokens, corpus.TokenCount{ID: rng.Intn(vocab), Count: 1 + rng.Intn(4)})
		}
	}
	return counts.Build(docs, vocab)
}

func TestDistribution(t *testing.T) {
	q := Distribution(sample())
	assert.InDeltaSlice(t, []float64{0.3, 0.3, 0.1, 0.3}, q, 1e-12)
	assert.InDelta(t, 1.0, floats.Sum(q), 1e-12)
}

func TestDistributionExcluding(t *testing.T) {
	m := sample()
	q := DistributionExcluding(m, 1)
	assert.InDeltaSlice(t, []float64{0.5, 2.0 / 6, 1.0 / 6, 0}, q, 1e-12)

	// row 0 is excluded like any other row
	q0 := DistributionExcluding(m, 0)
	assert.InDeltaSlice(t, []float64{1.0 / 6, 1.0 / 6, 1.0 / 6, 0.5}, q0, 1e-12)
}

func TestRowNormalizeSumsToOne(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	m := randomMatrix(rng, 40, 25)
	norm := RowNormalize(m)

	rows, _ := norm.Dims()
	for i := 0; i < rows; i++ {
		assert.InDelta(t, 1.0, norm.RowSum(i), 1e-12, "row %d", i)
	}
}

func TestRowNormalizeZeroRowPanics(t *testing.T) {
	m := counts.Build([]corpus.Document{
		{Tokens: []corpus.TokenCount{{ID: 0, Count: 1}}},
		{},
	}, 2)
	assert.Panics(t, func() { RowNormalize(m) })
}

func TestUserCounts(t *testing.T) {
	assert.Equal(t, []float64{3, 3, 2, 2}, UserCounts(sample()))
}

func TestUserCountsExcludingMatchesRecount(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	m := randomMatrix(rng, 30, 12)
	rows, _ := m.Dims()

	for e := 0; e < rows; e++ {
		keep := make([]int, 0, rows-1)
		for i := 0; i < rows; i++ {
			if i != e {
				keep = append(keep, i)
			}
		}
		require.Equal(t, UserCounts(m.Rows(keep)), UserCountsExcluding(m, e), "row %d", e)
	}
}

func TestComplementUserCounts(t *testing.T) {
	assert.Equal(t, []float64{2, 4}, ComplementUserCounts(3, []float64{3, 1}))
}

func TestStatsExcludeInclude(t *testing.T) {
	m := sample()
	s := NewStats(m)
	assert.Equal(t, 3.0, s.N)
	assert.Equal(t, 10.0, s.Total)
	assert.Equal(t, 4, s.Len())
	assert.InDelta(t, 0.3, s.Share(0), 1e-12)
	assert.Equal(t, 3.0, s.Present(1))
	assert.Equal(t, 2.0, s.Absent(1))

	before := *s
	before.Totals = append([]float64(nil), s.Totals...)
	before.Users = append([]float64(nil), s.Users...)

	s.Exclude(m, 1)
	assert.Equal(t, 2.0, s.N)
	assert.Equal(t, UserCountsExcluding(m, 1), s.Users)
	assert.InDeltaSlice(t, DistributionExcluding(m, 1), []float64{s.Share(0), s.Share(1), s.Share(2), s.Share(3)}, 1e-12)

	s.Include(m, 1)
	assert.Equal(t, before.N, s.N)
	assert.Equal(t, before.Total, s.Total)
	assert.Equal(t, before.Totals, s.Totals)
	assert.Equal(t, before.Users, s.Users)
}
