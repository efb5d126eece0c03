// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import "gonum.org/v1/gonum/mat"

// DOK is a sparse matrix in dictionary of keys format. It supports random
// access updates and is intended for assembly.
type DOK struct {
	r, c int
	data map[index]float64
}

type index struct {
	row, col int
}

// NewDOK returns an empty r×c DOK matrix.
func NewDOK(r, c int) *DOK {
	if r <= 0 || c <= 0 {
		panic(mat.ErrZeroLength)
	}
	return &DOK{
		r:    r,
		c:    c,
		data: make(map[index]float64),
	}
}

// Dims returns the dimensions of the matrix.
func (m *DOK) Dims() (r, c int) { return m.r, m.c }

// At returns the element at row i and column j.
func (m *DOK) At(i, j int) float64 {
	m.check(i, j)
	return m.data[index{i, j}]
}

// T returns the transpose of the matrix.
func (m *DOK) T() mat.Matrix { return mat.Transpose{Matrix: m} }

// Set sets the element at row i and column j to v. Setting an element to
// zero removes it.
func (m *DOK) Set(i, j int, v float64) {
	m.check(i, j)
	if v == 0 {
		delete(m.data, index{i, j})
		return
	}
	m.data[index{i, j}] = v
}

// Add adds v to the element at row i and column j.
func (m *DOK) Add(i, j int, v float64) {
	m.Set(i, j, m.At(i, j)+v)
}

// NNZ returns the number of stored entries.
func (m *DOK) NNZ() int { return len(m.data) }

// ToCSR returns the matrix in compressed sparse row format.
func (m *DOK) ToCSR() *CSR {
	es := make([]entry, 0, len(m.data))
	for ij, v := range m.data {
		es = append(es, entry{i: ij.row, j: ij.col, v: v})
	}
	return compress(m.r, m.c, es)
}

func (m *DOK) check(i, j int) {
	if i < 0 || m.r <= i {
		panic(mat.ErrRowAccess)
	}
	if j < 0 || m.c <= j {
		panic(mat.ErrColAccess)
	}
}
