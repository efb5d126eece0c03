// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import "gonum.org/v1/gonum/mat"

// Operator is a linear operator
//
//	dst = Op(src).
//
// System matrices and preconditioners both satisfy Operator. An Operator
// used as a system matrix or as a preconditioner must be square.
//
// dst and src must not overlap. Apply must not retain or modify src, and
// must not modify the state that determines the operator. Apply returns a
// *DimensionError if the lengths of dst or src do not match the dimensions
// of the operator.
type Operator interface {
	Apply(dst, src []float64) error
	Rows() int
	Cols() int
}

// MatrixOp is an Operator that multiplies by a matrix. Any gonum matrix can
// be used, including a *sparse.CSR.
type MatrixOp struct {
	a mat.Matrix
}

// NewMatrixOp returns an Operator that computes dst = A*src.
func NewMatrixOp(a mat.Matrix) *MatrixOp {
	return &MatrixOp{a: a}
}

// Apply computes dst = A*src.
func (op *MatrixOp) Apply(dst, src []float64) error {
	r, c := op.a.Dims()
	if err := checkLen("MatrixOp.Apply", "src", src, c); err != nil {
		return err
	}
	if err := checkLen("MatrixOp.Apply", "dst", dst, r); err != nil {
		return err
	}
	mulVec(dst, op.a, src)
	return nil
}

func (op *MatrixOp) Rows() int { r, _ := op.a.Dims(); return r }
func (op *MatrixOp) Cols() int { _, c := op.a.Dims(); return c }

// Matrix returns the wrapped matrix.
func (op *MatrixOp) Matrix() mat.Matrix { return op.a }

// FuncOp is a matrix-free square Operator of dimension N described by its
// matrix-vector product.
type FuncOp struct {
	N int
	// MatVec computes A*x and stores the result into dst.
	// It must be non-nil.
	MatVec func(dst, x []float64)
}

// Apply calls op.MatVec(dst, src).
func (op FuncOp) Apply(dst, src []float64) error {
	if err := checkLen("FuncOp.Apply", "src", src, op.N); err != nil {
		return err
	}
	if err := checkLen("FuncOp.Apply", "dst", dst, op.N); err != nil {
		return err
	}
	op.MatVec(dst, src)
	return nil
}

func (op FuncOp) Rows() int { return op.N }
func (op FuncOp) Cols() int { return op.N }

func checkSquare(op, name string, o Operator) error {
	if o.Rows() != o.Cols() {
		return configErr(op, "%s is not square: %d×%d", name, o.Rows(), o.Cols())
	}
	if o.Rows() == 0 {
		return configErr(op, "%s has zero dimension", name)
	}
	return nil
}

type mulVecToer interface {
	MulVecTo(dst []float64, trans bool, x []float64)
}

type rowNonZeroDoer interface {
	DoRowNonZero(i int, fn func(i, j int, v float64))
}

type rawRowViewer interface {
	RawRowView(i int) []float64
}

// mulVec computes dst = A*x. dst and x must not overlap.
func mulVec(dst []float64, a mat.Matrix, x []float64) {
	if m, ok := a.(mulVecToer); ok {
		m.MulVecTo(dst, false, x)
		return
	}
	d := mat.NewVecDense(len(dst), dst)
	d.MulVec(a, mat.NewVecDense(len(x), x))
}

// doRowNonZero calls fn for each non-zero entry in the i-th row of a.
func doRowNonZero(a mat.Matrix, i int, fn func(j int, v float64)) {
	switch a := a.(type) {
	case rowNonZeroDoer:
		a.DoRowNonZero(i, func(_, j int, v float64) { fn(j, v) })
	case rawRowViewer:
		for j, v := range a.RawRowView(i) {
			if v != 0 {
				fn(j, v)
			}
		}
	default:
		_, c := a.Dims()
		for j := 0; j < c; j++ {
			if v := a.At(i, j); v != 0 {
				fn(j, v)
			}
		}
	}
}

// diagonal returns the diagonal of the square matrix a. It returns a
// *ConfigurationError if any diagonal entry is zero.
func diagonal(op string, a mat.Matrix) ([]float64, error) {
	n, _ := a.Dims()
	d := make([]float64, n)
	for i := range d {
		d[i] = a.At(i, i)
		if d[i] == 0 {
			return nil, configErr(op, "zero diagonal entry at %d", i)
		}
	}
	return d, nil
}
