// Package counts assembles bag-of-words documents into sparse
// document × token count matrices.
package counts

import (
	"fmt"
	"sort"

	"github.com/james-bowman/sparse"

	"github.com/cognicore/partisan/pkg/partisan/corpus"
)

// Matrix is an immutable sparse count matrix backed by a sparse.CSR.
// Rows are documents (users), columns are vocabulary ids. Within a row the
// stored entries are kept in ascending column order, so every reduction over
// a Matrix visits values in the same order from run to run.
type Matrix struct {
	rows, cols int
	csr        *sparse.CSR // nil when the matrix has no rows or no columns
}

// entry is one stored value in coordinate form.
type entry struct {
	i, j int
	v    float64
}

// fromEntries compresses row-major, column-sorted entries into a CSR.
func fromEntries(rows, cols int, entries []entry) *Matrix {
	m := &Matrix{rows: rows, cols: cols}
	if rows == 0 || cols == 0 {
		return m
	}
	ri := make([]int, len(entries))
	ci := make([]int, len(entries))
	data := make([]float64, len(entries))
	for k, e := range entries {
		ri[k], ci[k], data[k] = e.i, e.j, e.v
	}
	m.csr = sparse.NewCOO(rows, cols, ri, ci, data).ToCSR()
	return m
}

// Build assembles docs into a (len(docs) × vocabSize) matrix. Repeated token
// ids within a document are summed and zero counts are not stored. Documents
// without tokens become all-zero rows. A token id outside [0, vocabSize)
// panics.
func Build(docs []corpus.Document, vocabSize int) *Matrix {
	for i, doc := range docs {
		for _, tc := range doc.Tokens {
			if tc.ID < 0 || tc.ID >= vocabSize {
				panic(fmt.Sprintf("counts: token id %d out of range [0, %d) in document %d", tc.ID, vocabSize, i))
			}
		}
	}
	if len(docs) == 0 || vocabSize == 0 {
		return &Matrix{rows: len(docs), cols: vocabSize}
	}

	dok := sparse.NewDOK(len(docs), vocabSize)
	for i, doc := range docs {
		for _, tc := range doc.Tokens {
			dok.Set(i, tc.ID, dok.At(i, tc.ID)+float64(tc.Count))
		}
	}

	var entries []entry
	dok.DoNonZero(func(i, j int, v float64) {
		if v != 0 {
			entries = append(entries, entry{i, j, v})
		}
	})
	sort.Slice(entries, func(a, b int) bool {
		if entries[a].i != entries[b].i {
			return entries[a].i < entries[b].i
		}
		return entries[a].j < entries[b].j
	})
	return fromEntries(len(docs), vocabSize, entries)
}

// Dims returns the number of rows and columns.
func (m *Matrix) Dims() (int, int) {
	return m.rows, m.cols
}

// CSR exposes the underlying compressed matrix, nil for an empty matrix.
func (m *Matrix) CSR() *sparse.CSR {
	return m.csr
}

// NNZ returns the number of stored entries.
func (m *Matrix) NNZ() int {
	if m.csr == nil {
		return 0
	}
	return m.csr.NNZ()
}

// RowNNZ returns the number of stored entries in row i.
func (m *Matrix) RowNNZ(i int) int {
	if m.csr == nil {
		return 0
	}
	return m.csr.RowNNZ(i)
}

// DoRow calls fn for every stored entry of row i in ascending column order.
func (m *Matrix) DoRow(i int, fn func(j int, v float64)) {
	if m.csr == nil {
		return
	}
	m.csr.DoRowNonZero(i, func(_, j int, v float64) {
		fn(j, v)
	})
}

func (m *Matrix) do(fn func(i, j int, v float64)) {
	if m.csr == nil {
		return
	}
	m.csr.DoNonZero(fn)
}

// RowSum returns the sum of row i.
func (m *Matrix) RowSum(i int) float64 {
	var s float64
	m.DoRow(i, func(_ int, v float64) {
		s += v
	})
	return s
}

// Sum returns the sum of all entries.
func (m *Matrix) Sum() float64 {
	var s float64
	m.do(func(_, _ int, v float64) {
		s += v
	})
	return s
}

// ColumnSums returns the per-column totals.
func (m *Matrix) ColumnSums() []float64 {
	sums := make([]float64, m.cols)
	m.do(func(_, j int, v float64) {
		sums[j] += v
	})
	return sums
}

// DocFreq returns, per column, the number of rows with a stored entry.
func (m *Matrix) DocFreq() []int {
	df := make([]int, m.cols)
	m.do(func(_, j int, _ float64) {
		df[j]++
	})
	return df
}

// NonEmptyRows returns the indexes of rows holding at least one entry.
func (m *Matrix) NonEmptyRows() []int {
	idx := make([]int, 0, m.rows)
	for i := 0; i < m.rows; i++ {
		if m.RowNNZ(i) > 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

// Rows returns a new matrix made of the rows idx, in that order.
func (m *Matrix) Rows(idx []int) *Matrix {
	nnz := 0
	for _, i := range idx {
		nnz += m.RowNNZ(i)
	}
	entries := make([]entry, 0, nnz)
	for k, i := range idx {
		m.DoRow(i, func(j int, v float64) {
			entries = append(entries, entry{k, j, v})
		})
	}
	return fromEntries(len(idx), m.cols, entries)
}

// Head returns the first n rows, or m itself when it has at most n rows.
func (m *Matrix) Head(n int) *Matrix {
	if n >= m.rows {
		return m
	}
	if n < 0 {
		n = 0
	}
	return m.Rows(seq(0, n))
}

// Slice returns rows [lo, hi).
func (m *Matrix) Slice(lo, hi int) *Matrix {
	return m.Rows(seq(lo, hi))
}

// KeepColumns returns the columns whose keep flag is set, re-indexed densely
// in their original order.
func (m *Matrix) KeepColumns(keep []bool) *Matrix {
	if len(keep) != m.cols {
		panic(fmt.Sprintf("counts: column mask length %d, want %d", len(keep), m.cols))
	}
	remap := make([]int, m.cols)
	cols := 0
	for j, ok := range keep {
		if ok {
			remap[j] = cols
			cols++
		} else {
			remap[j] = -1
		}
	}

	entries := make([]entry, 0, m.NNZ())
	m.do(func(i, j int, v float64) {
		if nj := remap[j]; nj >= 0 {
			entries = append(entries, entry{i, nj, v})
		}
	})
	return fromEntries(m.rows, cols, entries)
}

// Stack concatenates a and b vertically. Both must have the same number of
// columns.
func Stack(a, b *Matrix) *Matrix {
	if a.cols != b.cols {
		panic(fmt.Sprintf("counts: stack column mismatch %d != %d", a.cols, b.cols))
	}
	entries := make([]entry, 0, a.NNZ()+b.NNZ())
	a.do(func(i, j int, v float64) {
		entries = append(entries, entry{i, j, v})
	})
	b.do(func(i, j int, v float64) {
		entries = append(entries, entry{a.rows + i, j, v})
	})
	return fromEntries(a.rows+b.rows, a.cols, entries)
}

// ScaleRows returns a copy of m with row i multiplied by scale[i].
func (m *Matrix) ScaleRows(scale []float64) *Matrix {
	if len(scale) != m.rows {
		panic(fmt.Sprintf("counts: row scale length %d, want %d", len(scale), m.rows))
	}
	entries := make([]entry, 0, m.NNZ())
	m.do(func(i, j int, v float64) {
		entries = append(entries, entry{i, j, v * scale[i]})
	})
	return fromEntries(m.rows, m.cols, entries)
}

func seq(lo, hi int) []int {
	if hi < lo {
		hi = lo
	}
	idx := make([]int, hi-lo)
	for k := range idx {
		idx[k] = lo + k
	}
	return idx
}
