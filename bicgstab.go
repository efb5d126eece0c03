// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// BiCGSTAB implements the BiConjugate Gradient STABilized iterative method with
// preconditioning for solving the system of linear equations
//
//	Ax = b,
//
// where A is a non-symmetric matrix. For symmetric positive definite systems
// use CG.
//
// If ρ or ω vanish, Step sets Context.Breakdown and the iteration ends with
// the current approximation.
type BiCGSTAB struct {
	first bool

	rho, rhoPrev float64
	alpha        float64
	omega        float64

	r    []float64
	rt   []float64
	p    []float64
	v    []float64
	t    []float64
	phat []float64
	shat []float64
}

// InitIteration implements the Method interface.
func (b *BiCGSTAB) InitIteration(ctx *Context) (bool, error) {
	n := len(ctx.X)
	if n <= 0 {
		panic("iterative: dimension not positive")
	}
	b.r = reuse(b.r, n)
	b.rt = reuse(b.rt, n)
	b.p = reuse(b.p, n)
	b.v = reuse(b.v, n)
	b.t = reuse(b.t, n)
	b.phat = reuse(b.phat, n)
	b.shat = reuse(b.shat, n)
	b.first = true

	if err := ctx.residual(b.r, ctx.X); err != nil {
		return false, err
	}
	copy(b.rt, b.r)
	ctx.InitialResidualNorm = floats.Norm(b.r, 2)
	ctx.ResidualNorm = ctx.InitialResidualNorm
	return ctx.CheckResidualNorm(), nil
}

// Step implements the Method interface.
func (b *BiCGSTAB) Step(ctx *Context) (bool, error) {
	if !b.first && math.Abs(b.omega) < dlamchE*dlamchE {
		ctx.Breakdown = true
		return false, nil
	}
	b.rho = floats.Dot(b.rt, b.r)
	if math.Abs(b.rho) < dlamchE*dlamchE {
		ctx.Breakdown = true
		return false, nil
	}
	if b.first {
		copy(b.p, b.r)
	} else {
		beta := (b.rho / b.rhoPrev) * (b.alpha / b.omega)
		floats.AddScaled(b.p, -b.omega, b.v) // p_i -= ω * v_i
		floats.Scale(beta, b.p)              // p_i *= β
		floats.Add(b.p, b.r)                 // p_i += r_i
	}
	// Solve M p^_i = p_i and compute Ap^_i -> v_i.
	if err := ctx.precondition(b.phat, b.p); err != nil {
		return false, err
	}
	if err := ctx.A.Apply(b.v, b.phat); err != nil {
		return false, err
	}
	b.alpha = b.rho / floats.Dot(b.rt, b.v)
	// Early check for tolerance with s_i = r_{i-1} - α v_i stored in r.
	floats.AddScaled(b.r, -b.alpha, b.v)
	ctx.ResidualNorm = floats.Norm(b.r, 2)
	if ctx.CheckResidualNorm() {
		floats.AddScaled(ctx.X, b.alpha, b.phat)
		return true, nil
	}

	// Solve M s^_i = s_i and compute As^_i -> t_i.
	if err := ctx.precondition(b.shat, b.r); err != nil {
		return false, err
	}
	if err := ctx.A.Apply(b.t, b.shat); err != nil {
		return false, err
	}
	b.omega = floats.Dot(b.t, b.r) / floats.Dot(b.t, b.t)
	floats.AddScaled(ctx.X, b.alpha, b.phat)
	floats.AddScaled(ctx.X, b.omega, b.shat)
	floats.AddScaled(b.r, -b.omega, b.t)
	ctx.ResidualNorm = floats.Norm(b.r, 2)
	if ctx.CheckResidualNorm() {
		return true, nil
	}
	b.rhoPrev = b.rho
	b.first = false
	return false, nil
}

// FinalizeIteration implements the Method interface.
func (b *BiCGSTAB) FinalizeIteration(ctx *Context) error { return nil }
