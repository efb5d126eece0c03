// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import "gonum.org/v1/gonum/mat"

// Triplet is a sparse matrix in coordinate format. Entries are appended
// during assembly, and duplicate entries are summed.
type Triplet struct {
	r, c int
	data []entry
}

// NewTriplet returns an empty r×c Triplet matrix.
func NewTriplet(r, c int) *Triplet {
	if r <= 0 || c <= 0 {
		panic(mat.ErrZeroLength)
	}
	return &Triplet{
		r: r,
		c: c,
	}
}

// Dims returns the dimensions of the matrix.
func (m *Triplet) Dims() (r, c int) { return m.r, m.c }

// Append adds v to the element at row i and column j.
func (m *Triplet) Append(i, j int, v float64) {
	if i < 0 || m.r <= i {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || m.c <= j {
		panic(mat.ErrColAccess)
	}
	m.data = append(m.data, entry{i, j, v})
}

// At returns the element at row i and column j. At sums over all appended
// entries and is intended for inspection, not for computation.
func (m *Triplet) At(i, j int) float64 {
	if i < 0 || m.r <= i {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || m.c <= j {
		panic(mat.ErrColAccess)
	}
	var v float64
	for _, aij := range m.data {
		if aij.i == i && aij.j == j {
			v += aij.v
		}
	}
	return v
}

// T returns the transpose of the matrix.
func (m *Triplet) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// Len returns the number of appended entries, including duplicates.
func (m *Triplet) Len() int { return len(m.data) }

// MulVecTo computes A*x or Aᵀ*x, depending on trans, and stores the result
// into dst.
func (m *Triplet) MulVecTo(dst []float64, trans bool, x []float64) {
	r, c := m.r, m.c
	if trans {
		r, c = c, r
	}
	if len(x) != c || len(dst) != r {
		panic(mat.ErrShape)
	}
	for i := range dst {
		dst[i] = 0
	}
	for _, aij := range m.data {
		if trans {
			dst[aij.j] += aij.v * x[aij.i]
		} else {
			dst[aij.i] += aij.v * x[aij.j]
		}
	}
}

// ToCSR returns the matrix in compressed sparse row format.
func (m *Triplet) ToCSR() *CSR {
	es := make([]entry, len(m.data))
	copy(es, m.data)
	return compress(m.r, m.c, es)
}
