// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse provides sparse matrix formats for assembling linear
// systems. DOK and Triplet are convenient for incremental assembly, CSR is
// the compressed format used for solving. All formats implement
// gonum's mat.Matrix.
package sparse

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// CSR is a sparse matrix in compressed sparse row format. The column indices
// within each row are sorted and unique.
type CSR struct {
	r, c   int
	indptr []int
	ind    []int
	data   []float64
}

// NewCSR returns a CSR matrix with r rows and c columns. indptr must have
// length r+1, and the column indices of row i are ind[indptr[i]:indptr[i+1]]
// with the corresponding values in data. indptr must start at zero and be
// non-decreasing, and the column indices of each row must be sorted and
// unique. The slices are used as backing data.
func NewCSR(r, c int, indptr, ind []int, data []float64) *CSR {
	if r <= 0 || c <= 0 {
		panic(mat.ErrZeroLength)
	}
	if len(indptr) != r+1 {
		panic("sparse: bad indptr length")
	}
	if indptr[0] != 0 {
		panic("sparse: indptr does not start at zero")
	}
	for i := 0; i < r; i++ {
		if indptr[i] > indptr[i+1] {
			panic("sparse: indptr not non-decreasing")
		}
	}
	if len(ind) != len(data) || indptr[r] != len(ind) {
		panic("sparse: mismatched index and data lengths")
	}
	for i := 0; i < r; i++ {
		row := ind[indptr[i]:indptr[i+1]]
		for k, j := range row {
			if j < 0 || c <= j {
				panic(mat.ErrColAccess)
			}
			if k > 0 && row[k-1] >= j {
				panic("sparse: column indices not sorted")
			}
		}
	}
	return &CSR{r: r, c: c, indptr: indptr, ind: ind, data: data}
}

// Dims returns the dimensions of the matrix.
func (m *CSR) Dims() (r, c int) { return m.r, m.c }

// At returns the element at row i and column j.
func (m *CSR) At(i, j int) float64 {
	if i < 0 || m.r <= i {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || m.c <= j {
		panic(mat.ErrColAccess)
	}
	row := m.ind[m.indptr[i]:m.indptr[i+1]]
	k := sort.SearchInts(row, j)
	if k < len(row) && row[k] == j {
		return m.data[m.indptr[i]+k]
	}
	return 0
}

// T returns the transpose of the matrix.
func (m *CSR) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// NNZ returns the number of stored entries.
func (m *CSR) NNZ() int { return len(m.data) }

// DoNonZero calls fn for each stored entry of the matrix.
func (m *CSR) DoNonZero(fn func(i, j int, v float64)) {
	for i := 0; i < m.r; i++ {
		m.DoRowNonZero(i, fn)
	}
}

// DoRowNonZero calls fn for each stored entry in row i, in increasing order
// of the column index.
func (m *CSR) DoRowNonZero(i int, fn func(i, j int, v float64)) {
	if i < 0 || m.r <= i {
		panic(mat.ErrRowAccess)
	}
	for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
		fn(i, m.ind[k], m.data[k])
	}
}

// MulVecTo computes A*x or Aᵀ*x, depending on trans, and stores the result
// into dst.
func (m *CSR) MulVecTo(dst []float64, trans bool, x []float64) {
	r, c := m.r, m.c
	if trans {
		r, c = c, r
	}
	if len(x) != c || len(dst) != r {
		panic(mat.ErrShape)
	}
	if trans {
		for i := range dst {
			dst[i] = 0
		}
		for i := 0; i < m.r; i++ {
			xi := x[i]
			for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
				dst[m.ind[k]] += m.data[k] * xi
			}
		}
		return
	}
	for i := range dst {
		var s float64
		for k := m.indptr[i]; k < m.indptr[i+1]; k++ {
			s += m.data[k] * x[m.ind[k]]
		}
		dst[i] = s
	}
}

type entry struct {
	i, j int
	v    float64
}

// compress builds a CSR matrix from entries, summing duplicates and
// dropping entries that are zero.
func compress(r, c int, es []entry) *CSR {
	sort.Slice(es, func(a, b int) bool {
		if es[a].i != es[b].i {
			return es[a].i < es[b].i
		}
		return es[a].j < es[b].j
	})
	indptr := make([]int, r+1)
	ind := make([]int, 0, len(es))
	data := make([]float64, 0, len(es))
	for k := 0; k < len(es); {
		e := es[k]
		v := e.v
		for k++; k < len(es) && es[k].i == e.i && es[k].j == e.j; k++ {
			v += es[k].v
		}
		if v == 0 {
			continue
		}
		ind = append(ind, e.j)
		data = append(data, v)
		indptr[e.i+1]++
	}
	for i := 0; i < r; i++ {
		indptr[i+1] += indptr[i]
	}
	return &CSR{r: r, c: c, indptr: indptr, ind: ind, data: data}
}
