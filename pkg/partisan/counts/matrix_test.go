package counts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
)

func docs(rows ...[]corpus.TokenCount) []corpus.Document {
	out := make([]corpus.Document, len(rows))
	for i, r := range rows {
		out[i] = corpus.Document{Tokens: r}
	}
	return out
}

func dense(m *Matrix) [][]float64 {
	r, c := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = make([]float64, c)
		m.DoRow(i, func(j int, v float64) {
			out[i][j] = v
		})
	}
	return out
}

func TestBuildSumsDuplicates(t *testing.T) {
	m := Build(docs(
		[]corpus.TokenCount{{ID: 2, Count: 1}, {ID: 0, Count: 3}, {ID: 2, Count: 4}},
		nil,
		[]corpus.TokenCount{{ID: 1, Count: 2}, {ID: 1, Count: 0}},
	), 3)

	r, c := m.Dims()
	assert.Equal(t, 3, r)
	assert.Equal(t, 3, c)
	assert.Equal(t, [][]float64{{3, 0, 5}, {0, 0, 0}, {0, 2, 0}}, dense(m))
	assert.Equal(t, 3, m.NNZ())
	assert.Equal(t, []int{0, 2}, m.NonEmptyRows())
}

func TestBuildPreservesTotal(t *testing.T) {
	input := docs(
		[]corpus.TokenCount{{ID: 0, Count: 7}, {ID: 4, Count: 1}},
		[]corpus.TokenCount{{ID: 4, Count: 2}, {ID: 4, Count: 2}, {ID: 3, Count: 9}},
		[]corpus.TokenCount{{ID: 1, Count: 5}},
	)
	want := 0
	for _, d := range input {
		want += d.Len()
	}

	m := Build(input, 5)
	assert.Equal(t, float64(want), m.Sum())

	var rows float64
	for i := 0; i < 3; i++ {
		rows += m.RowSum(i)
	}
	assert.Equal(t, m.Sum(), rows)
}

func TestBuildColumnOrder(t *testing.T) {
	m := Build(docs([]corpus.TokenCount{{ID: 9, Count: 1}, {ID: 3, Count: 1}, {ID: 6, Count: 1}}), 10)
	var cols []int
	m.DoRow(0, func(j int, _ float64) { cols = append(cols, j) })
	assert.Equal(t, []int{3, 6, 9}, cols)
}

func TestBuildOutOfRangePanics(t *testing.T) {
	assert.Panics(t, func() {
		Build(docs([]corpus.TokenCount{{ID: 3, Count: 1}}), 3)
	})
}

func TestRowsHeadStack(t *testing.T) {
	m := Build(docs(
		[]corpus.TokenCount{{ID: 0, Count: 1}},
		[]corpus.TokenCount{{ID: 1, Count: 2}},
		[]corpus.TokenCount{{ID: 2, Count: 3}},
	), 3)

	sub := m.Rows([]int{2, 0})
	assert.Equal(t, [][]float64{{0, 0, 3}, {1, 0, 0}}, dense(sub))

	head := m.Head(2)
	r, _ := head.Dims()
	assert.Equal(t, 2, r)
	assert.Same(t, m, m.Head(10))

	st := Stack(head, sub)
	assert.Equal(t, [][]float64{{1, 0, 0}, {0, 2, 0}, {0, 0, 3}, {1, 0, 0}}, dense(st))
	assert.Equal(t, [][]float64{{0, 2, 0}, {0, 0, 3}}, dense(st.Slice(1, 3)))
}

func TestDocFreqAndKeepColumns(t *testing.T) {
	m := Build(docs(
		[]corpus.TokenCount{{ID: 0, Count: 4}, {ID: 1, Count: 1}},
		[]corpus.TokenCount{{ID: 0, Count: 1}, {ID: 2, Count: 1}},
		[]corpus.TokenCount{{ID: 2, Count: 6}},
	), 3)
	assert.Equal(t, []int{2, 1, 2}, m.DocFreq())
	assert.Equal(t, []float64{5, 1, 7}, m.ColumnSums())

	kept := m.KeepColumns([]bool{true, false, true})
	_, c := kept.Dims()
	require.Equal(t, 2, c)
	assert.Equal(t, [][]float64{{4, 0}, {1, 1}, {0, 6}}, dense(kept))

	none := m.KeepColumns([]bool{false, false, false})
	assert.Empty(t, none.NonEmptyRows())
	assert.Equal(t, 0, none.NNZ())
}

func TestEmptyMatrix(t *testing.T) {
	m := Build(nil, 4)
	r, c := m.Dims()
	assert.Equal(t, 0, r)
	assert.Equal(t, 4, c)
	assert.Equal(t, 0.0, m.Sum())
	assert.Equal(t, []int{0, 0, 0, 0}, m.DocFreq())
}

func TestOperationsStayInCSR(t *testing.T) {
	m := Build(docs(
		[]corpus.TokenCount{{ID: 2, Count: 5}, {ID: 0, Count: 3}},
		[]corpus.TokenCount{{ID: 1, Count: 2}},
	), 3)
	require.NotNil(t, m.CSR())
	assert.True(t, mat.Equal(mat.NewDense(2, 3, []float64{
		3, 0, 5,
		0, 2, 0,
	}), m.CSR()))

	st := Stack(m, m.Rows([]int{1}))
	require.NotNil(t, st.CSR())
	assert.True(t, mat.Equal(mat.NewDense(3, 3, []float64{
		3, 0, 5,
		0, 2, 0,
		0, 2, 0,
	}), st.CSR()))
	assert.Equal(t, 1, st.CSR().RowNNZ(2))

	kept := st.KeepColumns([]bool{false, true, true})
	assert.True(t, mat.Equal(mat.NewDense(3, 2, []float64{
		0, 5,
		2, 0,
		2, 0,
	}), kept.CSR()))

	scaled := m.ScaleRows([]float64{0.125, 0.5})
	assert.True(t, mat.Equal(mat.NewDense(2, 3, []float64{
		0.375, 0, 0.625,
		0, 1, 0,
	}), scaled.CSR()))

	assert.Nil(t, Build(nil, 3).CSR())
}
