// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"fmt"
	"io"
	"math"
	"time"
)

// Settings holds various settings for
// solving a linear system.
type Settings struct {
	// X0 is an initial guess.
	// If it is nil, the zero vector will
	// be used.
	// If it is not nil, the length of X0
	// must be equal to the dimension of
	// the system.
	X0 []float64

	// Tolerance specifies the relative
	// residual tolerance for the final
	// approximate solution produced by
	// the iterative method. The stopping
	// criterion is
	//
	//	|r_i| <= Tolerance * |r_0|,
	//
	// where the norms are measured by
	// the Method (see
	// Context.CheckResidualNorm).
	// Tolerance must be in [0, 1). A zero
	// Tolerance requests an exact solve:
	// the iteration stops only when the
	// residual vanishes, on breakdown or
	// at the iteration limit. Use
	// DefaultTolerance for a typical
	// choice.
	Tolerance float64

	// MaxIterations is the limit on the
	// number of iterations. It must be
	// positive.
	MaxIterations int

	// Preconditioner is the operator
	// applied as M⁻¹. It must be square
	// with the dimension of the system.
	// If it is nil, no preconditioning
	// will be used (M is the identity).
	Preconditioner Operator

	// Debug, if not nil, receives one
	// line per iteration with the
	// residual norm.
	Debug io.Writer
}

// DefaultTolerance is the relative residual tolerance set by
// DefaultSettings.
const DefaultTolerance = 1e-8

// DefaultSettings returns the settings for a system of dimension dim with
// Tolerance set to DefaultTolerance and MaxIterations set to 2*dim.
func DefaultSettings(dim int) Settings {
	return Settings{
		Tolerance:     DefaultTolerance,
		MaxIterations: 2 * dim,
	}
}

// Result holds the result of an iterative solve.
type Result struct {
	// X is the approximate solution.
	X []float64
	// Stats holds the statistics of the
	// solve.
	Stats Stats
}

// Stats holds statistics about an iterative solve.
type Stats struct {
	// Iterations is the number of
	// iterations done by Method.
	Iterations int
	// Converged reports whether the
	// stopping criterion was satisfied.
	// If it is false, the iteration limit
	// was reached or the Method broke
	// down, and X is the best available
	// approximation.
	Converged bool
	// Breakdown reports whether the
	// Method stopped because it could
	// not make further progress.
	Breakdown bool
	// MatVec is the number of
	// applications of the system matrix.
	MatVec int
	// PSolve is the number of
	// applications of the
	// preconditioner.
	PSolve int
	// InitialResidualNorm is the norm of
	// the initial residual.
	InitialResidualNorm float64
	// ResidualNorm is the final norm of
	// the residual.
	ResidualNorm float64
	// RelativeResidual is ResidualNorm
	// divided by InitialResidualNorm, or
	// ResidualNorm if the initial
	// residual is zero.
	RelativeResidual float64
	// History holds the residual norm
	// after each iteration.
	History []float64
	// StartTime is an approximate time
	// when the solve was started.
	StartTime time.Time
	// Runtime is an approximate duration
	// of the solve.
	Runtime time.Duration
}

// LinearSolve solves the system of n linear equations
//
//	A*x = b,
//
// where the n×n matrix A is represented by the operator a.
//
// method is an iterative method used for finding an approximate solution of the
// linear system. It must not be nil.
//
// settings provide means for adjusting the iterative process. MaxIterations
// must be set, DefaultSettings provides a starting point.
//
// A *ConfigurationError or *DimensionError is returned if the problem is not
// well formed. Reaching the iteration limit or a breakdown of the method is
// not an error: the approximate solution is returned with Stats.Converged
// set to false. Errors from the operators are returned together with the
// approximate solution available at that point.
func LinearSolve(a Operator, b []float64, method Method, settings Settings) (Result, error) {
	const op = "LinearSolve"
	stats := Stats{StartTime: time.Now()}

	if a == nil {
		panic("iterative: nil matrix")
	}
	if method == nil {
		panic("iterative: nil method")
	}
	if err := checkSquare(op, "matrix", a); err != nil {
		return Result{}, err
	}
	dim := a.Rows()
	if err := checkLen(op, "b", b, dim); err != nil {
		return Result{}, err
	}
	if settings.X0 != nil {
		if err := checkLen(op, "X0", settings.X0, dim); err != nil {
			return Result{}, err
		}
	}
	if m := settings.Preconditioner; m != nil {
		if err := checkSquare(op, "preconditioner", m); err != nil {
			return Result{}, err
		}
		if m.Rows() != dim {
			return Result{}, &DimensionError{Op: op, Name: "preconditioner", Want: dim, Got: m.Rows()}
		}
	}
	if settings.MaxIterations <= 0 {
		return Result{}, configErr(op, "iteration limit must be positive, got %d", settings.MaxIterations)
	}
	if !(0 <= settings.Tolerance && settings.Tolerance < 1) {
		return Result{}, configErr(op, "invalid tolerance %v", settings.Tolerance)
	}
	ctx := &Context{
		X:             make([]float64, dim),
		B:             b,
		A:             countingOp{Operator: a, count: &stats.MatVec},
		Tolerance:     settings.Tolerance,
		MaxIterations: settings.MaxIterations,
	}
	if settings.Preconditioner != nil {
		ctx.M = countingOp{Operator: settings.Preconditioner, count: &stats.PSolve}
	}
	if settings.X0 != nil {
		copy(ctx.X, settings.X0)
	}

	err := iterate(ctx, method, settings.Debug, &stats)

	stats.Iterations = ctx.Iterations
	stats.Breakdown = ctx.Breakdown
	stats.InitialResidualNorm = ctx.InitialResidualNorm
	stats.ResidualNorm = ctx.ResidualNorm
	stats.RelativeResidual = ctx.ResidualNorm
	if ctx.InitialResidualNorm >= dlamchS {
		stats.RelativeResidual /= ctx.InitialResidualNorm
	}
	stats.Runtime = time.Since(stats.StartTime)
	return Result{
		X:     ctx.X,
		Stats: stats,
	}, err
}

// iterate runs the Method on ctx. FinalizeIteration is called exactly once
// if InitIteration succeeded, also when Step fails, and the first error is
// returned.
func iterate(ctx *Context, method Method, debug io.Writer, stats *Stats) error {
	converged, err := method.InitIteration(ctx)
	if err != nil {
		return err
	}
	trace(debug, ctx)
	for !converged && ctx.Iterations < ctx.MaxIterations {
		converged, err = method.Step(ctx)
		if err != nil || ctx.Breakdown {
			break
		}
		ctx.Iterations++
		stats.History = append(stats.History, ctx.ResidualNorm)
		trace(debug, ctx)
	}
	stats.Converged = converged && err == nil
	if ferr := method.FinalizeIteration(ctx); err == nil {
		err = ferr
	}
	return err
}

func trace(w io.Writer, ctx *Context) {
	if w == nil {
		return
	}
	rel := math.NaN()
	if ctx.InitialResidualNorm >= dlamchS {
		rel = ctx.ResidualNorm / ctx.InitialResidualNorm
	}
	fmt.Fprintf(w, "iter %4d  residual %.6e  relative %.6e\n", ctx.Iterations, ctx.ResidualNorm, rel)
}

// countingOp counts the applications of an Operator.
type countingOp struct {
	Operator
	count *int
}

func (c countingOp) Apply(dst, src []float64) error {
	*c.count++
	return c.Operator.Apply(dst, src)
}
