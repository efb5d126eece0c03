// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// The preconditioner operators in this file approximate A⁻¹*src by a fixed
// number of relaxation sweeps on
//
//	A*dst = src
//
// starting from dst = 0. Apply always resets dst, so repeated calls with the
// same input give the same output.
//
// An operator keeps a reference to its matrix and never modifies it. The
// matrix may be shared between several operators and solvers. Work vectors
// are allocated per call, so Apply may be called concurrently.

// sweeps holds the sweep count shared by all relaxation operators.
type sweeps struct {
	a         mat.Matrix
	n         int
	numSweeps int
}

func newSweeps(op string, a mat.Matrix) (sweeps, error) {
	r, c := a.Dims()
	if r != c {
		return sweeps{}, configErr(op, "matrix is not square: %d×%d", r, c)
	}
	return sweeps{a: a, n: r, numSweeps: 1}, nil
}

func (s *sweeps) Rows() int { return s.n }
func (s *sweeps) Cols() int { return s.n }

// Matrix returns the matrix of the relaxed system.
func (s *sweeps) Matrix() mat.Matrix { return s.a }

// NumSweeps returns the number of sweeps performed by Apply.
func (s *sweeps) NumSweeps() int { return s.numSweeps }

// SetNumSweeps sets the number of sweeps performed by Apply. It returns
// a *ConfigurationError if n is not positive.
func (s *sweeps) SetNumSweeps(n int) error {
	if n <= 0 {
		return configErr("SetNumSweeps", "number of sweeps must be positive, got %d", n)
	}
	s.numSweeps = n
	return nil
}

func (s *sweeps) checkApply(op string, dst, src []float64) error {
	if err := checkLen(op, "src", src, s.n); err != nil {
		return err
	}
	return checkLen(op, "dst", dst, s.n)
}

func checkTau(op string, tau float64) error {
	if !(tau > 0) {
		return configErr(op, "relaxation factor must be positive, got %v", tau)
	}
	return nil
}

// RichardsonOp is a damped Richardson preconditioner.
type RichardsonOp struct {
	sweeps
	tau float64
}

// NewRichardsonOp returns a Richardson preconditioner for the square matrix
// a with relaxation factor tau, performing one sweep.
func NewRichardsonOp(a mat.Matrix, tau float64) (*RichardsonOp, error) {
	s, err := newSweeps("NewRichardsonOp", a)
	if err != nil {
		return nil, err
	}
	if err := checkTau("NewRichardsonOp", tau); err != nil {
		return nil, err
	}
	return &RichardsonOp{sweeps: s, tau: tau}, nil
}

// Apply implements the Operator interface.
func (op *RichardsonOp) Apply(dst, src []float64) error {
	if err := op.checkApply("RichardsonOp.Apply", dst, src); err != nil {
		return err
	}
	// The first sweep from zero does not need the matrix.
	floats.ScaleTo(dst, op.tau, src)
	if op.numSweeps == 1 {
		return nil
	}
	r := make([]float64, op.n)
	for k := 1; k < op.numSweeps; k++ {
		richardsonSweep(op.a, dst, src, op.tau, r)
	}
	return nil
}

// JacobiOp is a damped Jacobi preconditioner. The matrix must have a
// non-zero diagonal, and should be positive definite for the iteration to
// converge.
type JacobiOp struct {
	sweeps
	tau  float64
	diag []float64
}

// NewJacobiOp returns a Jacobi preconditioner for the square matrix a with
// relaxation factor tau, performing one sweep. Use tau = 1 for the plain
// Jacobi method and DefaultJacobiDamping for damped Jacobi smoothing.
func NewJacobiOp(a mat.Matrix, tau float64) (*JacobiOp, error) {
	s, err := newSweeps("NewJacobiOp", a)
	if err != nil {
		return nil, err
	}
	if err := checkTau("NewJacobiOp", tau); err != nil {
		return nil, err
	}
	d, err := diagonal("NewJacobiOp", a)
	if err != nil {
		return nil, err
	}
	return &JacobiOp{sweeps: s, tau: tau, diag: d}, nil
}

// Apply implements the Operator interface.
func (op *JacobiOp) Apply(dst, src []float64) error {
	if err := op.checkApply("JacobiOp.Apply", dst, src); err != nil {
		return err
	}
	floats.DivTo(dst, src, op.diag)
	floats.Scale(op.tau, dst)
	if op.numSweeps == 1 {
		return nil
	}
	r := make([]float64, op.n)
	for k := 1; k < op.numSweeps; k++ {
		jacobiSweep(op.a, op.diag, dst, src, op.tau, r)
	}
	return nil
}

// GaussSeidelOp is a forward Gauss-Seidel preconditioner. The matrix must
// have a non-zero diagonal.
type GaussSeidelOp struct {
	sweeps
}

// NewGaussSeidelOp returns a Gauss-Seidel preconditioner for the square
// matrix a, performing one sweep.
func NewGaussSeidelOp(a mat.Matrix) (*GaussSeidelOp, error) {
	s, err := newSweeps("NewGaussSeidelOp", a)
	if err != nil {
		return nil, err
	}
	if _, err := diagonal("NewGaussSeidelOp", a); err != nil {
		return nil, err
	}
	return &GaussSeidelOp{sweeps: s}, nil
}

// Apply implements the Operator interface.
func (op *GaussSeidelOp) Apply(dst, src []float64) error {
	if err := op.checkApply("GaussSeidelOp.Apply", dst, src); err != nil {
		return err
	}
	zero(dst)
	for k := 0; k < op.numSweeps; k++ {
		GaussSeidelSweep(op.a, dst, src)
	}
	return nil
}

// SymmetricGaussSeidelOp is a symmetric Gauss-Seidel preconditioner. Each
// sweep is a forward Gauss-Seidel sweep followed by a backward one, so the
// operator is symmetric when A is.
type SymmetricGaussSeidelOp struct {
	sweeps
}

// NewSymmetricGaussSeidelOp returns a symmetric Gauss-Seidel preconditioner
// for the square matrix a, performing one sweep.
func NewSymmetricGaussSeidelOp(a mat.Matrix) (*SymmetricGaussSeidelOp, error) {
	s, err := newSweeps("NewSymmetricGaussSeidelOp", a)
	if err != nil {
		return nil, err
	}
	if _, err := diagonal("NewSymmetricGaussSeidelOp", a); err != nil {
		return nil, err
	}
	return &SymmetricGaussSeidelOp{sweeps: s}, nil
}

// Apply implements the Operator interface.
func (op *SymmetricGaussSeidelOp) Apply(dst, src []float64) error {
	if err := op.checkApply("SymmetricGaussSeidelOp.Apply", dst, src); err != nil {
		return err
	}
	zero(dst)
	for k := 0; k < op.numSweeps; k++ {
		SymmetricGaussSeidelSweep(op.a, dst, src)
	}
	return nil
}

// BlockGaussSeidelOp is a block Gauss-Seidel preconditioner. Each sweep
// visits the blocks in order and solves each of them exactly with the
// other unknowns held fixed. Unknowns not covered by any block stay zero.
type BlockGaussSeidelOp struct {
	sweeps
	blocks [][]int
}

// NewBlockGaussSeidelOp returns a block Gauss-Seidel preconditioner for the
// square matrix a. The blocks must be disjoint sets of valid indices.
func NewBlockGaussSeidelOp(a mat.Matrix, blocks [][]int) (*BlockGaussSeidelOp, error) {
	const op = "NewBlockGaussSeidelOp"
	s, err := newSweeps(op, a)
	if err != nil {
		return nil, err
	}
	seen := make([]bool, s.n)
	for b, dofs := range blocks {
		if len(dofs) == 0 {
			return nil, configErr(op, "block %d is empty", b)
		}
		for _, i := range dofs {
			if i < 0 || s.n <= i {
				return nil, configErr(op, "block %d: index %d out of range", b, i)
			}
			if seen[i] {
				return nil, configErr(op, "block %d: index %d appears twice", b, i)
			}
			seen[i] = true
		}
	}
	return &BlockGaussSeidelOp{sweeps: s, blocks: blocks}, nil
}

// Apply implements the Operator interface. It returns an error if one of
// the diagonal blocks of the matrix is singular.
func (op *BlockGaussSeidelOp) Apply(dst, src []float64) error {
	if err := op.checkApply("BlockGaussSeidelOp.Apply", dst, src); err != nil {
		return err
	}
	zero(dst)
	for k := 0; k < op.numSweeps; k++ {
		for _, dofs := range op.blocks {
			if err := GaussSeidelBlockSweep(op.a, dst, src, dofs); err != nil {
				return err
			}
		}
	}
	return nil
}

func zero(v []float64) {
	for i := range v {
		v[i] = 0
	}
}
