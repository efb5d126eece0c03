// Copyright ©2016 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import "gonum.org/v1/gonum/floats"

// CG implements the preconditioned conjugate gradient method for solving
// the system of linear equations
//
//	Ax = b,
//
// where A is a symmetric positive definite matrix. The preconditioner must
// also be symmetric positive definite, for example JacobiOp or
// SymmetricGaussSeidelOp.
//
// The stopping criterion uses the norm of the unpreconditioned residual.
type CG struct {
	first        bool
	rho, rhoPrev float64

	r, z, p, ap []float64
}

// InitIteration implements the Method interface.
func (cg *CG) InitIteration(ctx *Context) (bool, error) {
	n := len(ctx.X)
	if n <= 0 {
		panic("iterative: dimension not positive")
	}
	cg.r = reuse(cg.r, n)
	cg.z = reuse(cg.z, n)
	cg.p = reuse(cg.p, n)
	cg.ap = reuse(cg.ap, n)
	cg.first = true

	if err := ctx.residual(cg.r, ctx.X); err != nil {
		return false, err
	}
	ctx.InitialResidualNorm = floats.Norm(cg.r, 2)
	ctx.ResidualNorm = ctx.InitialResidualNorm
	return ctx.CheckResidualNorm(), nil
}

// Step implements the Method interface.
func (cg *CG) Step(ctx *Context) (bool, error) {
	// Solve M z = r_{i-1}
	if err := ctx.precondition(cg.z, cg.r); err != nil {
		return false, err
	}
	cg.rho = floats.Dot(cg.r, cg.z) // ρ_i = r_{i-1} · z
	if !cg.first {
		beta := cg.rho / cg.rhoPrev        // β = ρ_i / ρ_{i-1}
		floats.AddScaled(cg.z, beta, cg.p) // z = z + β p_{i-1}
	}
	copy(cg.p, cg.z) // p_i = z

	if err := ctx.A.Apply(cg.ap, cg.p); err != nil {
		return false, err
	}
	alpha := cg.rho / floats.Dot(cg.p, cg.ap) // α = ρ_i / (p_i · Ap_i)
	floats.AddScaled(cg.r, -alpha, cg.ap)     // r_i = r_{i-1} - α Ap_i
	floats.AddScaled(ctx.X, alpha, cg.p)      // x_i = x_{i-1} + α p_i

	ctx.ResidualNorm = floats.Norm(cg.r, 2)
	cg.rhoPrev = cg.rho
	cg.first = false
	return ctx.CheckResidualNorm(), nil
}

// FinalizeIteration implements the Method interface. CG updates ctx.X in
// every step, so there is nothing left to do.
func (cg *CG) FinalizeIteration(ctx *Context) error { return nil }
