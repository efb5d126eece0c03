// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package iterative provides preconditioned iterative algorithms for solving
// linear systems
//
//	A x = b,
//
// where A is a non-singular n×n matrix available only through the Operator
// interface, together with relaxation sweeps (Richardson, Jacobi,
// Gauss-Seidel) and the preconditioner operators built from them.
package iterative

import "gonum.org/v1/gonum/floats"

// Method is an iterative method that produces a sequence of vectors converging
// to the solution of a linear system.
//
// LinearSolve calls InitIteration once. If it does not report convergence,
// Step is called until it reports convergence or the iteration limit is
// reached. FinalizeIteration is called exactly once at the end, whatever
// ended the iteration, and must leave the approximate solution in ctx.X.
type Method interface {
	// InitIteration computes the initial residual from ctx.B and the
	// initial guess in ctx.X and stores its norm in
	// ctx.InitialResidualNorm and ctx.ResidualNorm. It returns true if
	// the initial guess already satisfies the stopping criterion.
	InitIteration(ctx *Context) (converged bool, err error)

	// Step performs exactly one iteration, updates ctx.ResidualNorm and
	// returns whether the stopping criterion is satisfied. Step may
	// defer the update of ctx.X to FinalizeIteration.
	Step(ctx *Context) (converged bool, err error)

	// FinalizeIteration performs any deferred work needed to produce
	// the approximate solution in ctx.X.
	FinalizeIteration(ctx *Context) error
}

// Context holds the state of one iterative solve. It is owned by
// LinearSolve and shared with the Method for the duration of the solve.
type Context struct {
	// X is the current approximate solution. On the call to
	// InitIteration it holds the initial guess.
	X []float64
	// B is the right-hand side. It must not be modified.
	B []float64

	// A is the system matrix.
	A Operator
	// M is the preconditioner, nil if no preconditioning is used.
	M Operator

	Tolerance     float64
	MaxIterations int

	// Iterations is the number of completed calls to Method.Step.
	Iterations int

	// Breakdown is set by Step when the Method cannot make progress.
	// Such a step is not counted, and the iteration ends without
	// convergence.
	Breakdown bool

	// InitialResidualNorm is the norm of the initial residual as
	// measured by the Method. GMRES measures the preconditioned
	// residual.
	InitialResidualNorm float64
	// ResidualNorm is (an estimate of) the norm of the current residual.
	// It does not have to be equal to the norm of b-A*x, some methods
	// (e.g., GMRES) can estimate the residual norm without forming the
	// residual itself.
	ResidualNorm float64
}

// CheckResidualNorm reports whether ResidualNorm satisfies the stopping
// criterion
//
//	ResidualNorm <= Tolerance * InitialResidualNorm.
//
// If InitialResidualNorm is zero or subnormal, the absolute criterion
//
//	ResidualNorm <= Tolerance
//
// is used instead.
func (c *Context) CheckResidualNorm() bool {
	if c.InitialResidualNorm < dlamchS {
		return c.ResidualNorm <= c.Tolerance
	}
	return c.ResidualNorm/c.InitialResidualNorm <= c.Tolerance
}

// precondition stores M⁻¹*src into dst, or copies src if ctx has no
// preconditioner.
func (c *Context) precondition(dst, src []float64) error {
	if c.M == nil {
		copy(dst, src)
		return nil
	}
	return c.M.Apply(dst, src)
}

// residual stores b - A*x into dst.
func (c *Context) residual(dst, x []float64) error {
	if err := c.A.Apply(dst, x); err != nil {
		return err
	}
	floats.AddScaledTo(dst, c.B, -1, dst) // r = b - Ax
	return nil
}

func reuse(v []float64, n int) []float64 {
	if cap(v) < n {
		return make([]float64, n)
	}
	v = v[:n]
	for i := range v {
		v[i] = 0
	}
	return v
}

const (
	dlamchE = 1.0 / (1 << 53)
	dlamchS = 0x1p-1022
)
