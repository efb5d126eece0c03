// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import "gonum.org/v1/gonum/floats"

// Relaxation implements the stationary iteration
//
//	x_{i+1} = x_i + M⁻¹(b - A x_i),
//
// where M is the preconditioner. With a GaussSeidelOp or JacobiOp
// preconditioner this is the Gauss-Seidel or Jacobi method, without a
// preconditioner it is the Richardson iteration with unit relaxation
// factor.
//
// The stopping criterion uses the norm of the unpreconditioned residual.
type Relaxation struct {
	r, z []float64
}

// InitIteration implements the Method interface.
func (rx *Relaxation) InitIteration(ctx *Context) (bool, error) {
	n := len(ctx.X)
	if n <= 0 {
		panic("iterative: dimension not positive")
	}
	rx.r = reuse(rx.r, n)
	rx.z = reuse(rx.z, n)
	if err := ctx.residual(rx.r, ctx.X); err != nil {
		return false, err
	}
	ctx.InitialResidualNorm = floats.Norm(rx.r, 2)
	ctx.ResidualNorm = ctx.InitialResidualNorm
	return ctx.CheckResidualNorm(), nil
}

// Step implements the Method interface.
func (rx *Relaxation) Step(ctx *Context) (bool, error) {
	if err := ctx.precondition(rx.z, rx.r); err != nil {
		return false, err
	}
	floats.Add(ctx.X, rx.z)
	if err := ctx.residual(rx.r, ctx.X); err != nil {
		return false, err
	}
	ctx.ResidualNorm = floats.Norm(rx.r, 2)
	return ctx.CheckResidualNorm(), nil
}

// FinalizeIteration implements the Method interface.
func (rx *Relaxation) FinalizeIteration(ctx *Context) error { return nil }
