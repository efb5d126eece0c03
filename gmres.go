// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// breakdownTol is the relative size of the orthogonalized Arnoldi vector
// below which the Krylov subspace is considered invariant.
const breakdownTol = 1e-14

// GMRES implements the full (non-restarted) generalized minimal residual
// method with left preconditioning for solving the system of linear
// equations
//
//	Ax = b,
//
// where A is a general non-singular matrix.
//
// With a preconditioner M, GMRES minimizes the norm of the preconditioned
// residual M⁻¹(b - Ax) over the Krylov subspace generated by M⁻¹A, so
// Context.ResidualNorm and the stopping criterion refer to the
// preconditioned residual.
//
// The Krylov basis grows by one vector per iteration and is never
// restarted, so memory grows linearly and the orthogonalization cost
// quadratically with the number of iterations. The approximate solution is
// formed only once, in FinalizeIteration.
type GMRES struct {
	state gmresState
	k     int // Number of completed iterations.
	beta  float64

	r  []float64
	av []float64
	w  []float64

	// v is the orthonormal Krylov basis.
	v [][]float64
	// h holds the columns of the upper Hessenberg matrix with all
	// Givens rotations applied, so that h[j][:j+1] is the j-th column of
	// the upper triangular factor R.
	h    [][]float64
	givs []givens
	// g is the right-hand side e_1*beta with all Givens rotations
	// applied. |g[k]| is the residual norm after k iterations.
	g []float64
}

type gmresState int

const (
	gmresUninitialized gmresState = iota
	gmresInitialized
	gmresIterating
	gmresFinalized
)

type givens struct {
	c, s float64
}

// InitIteration implements the Method interface.
func (g *GMRES) InitIteration(ctx *Context) (bool, error) {
	n := len(ctx.X)
	if n <= 0 {
		panic("iterative: invalid dim")
	}
	g.r = reuse(g.r, n)
	g.av = reuse(g.av, n)
	g.w = reuse(g.w, n)
	g.v = g.v[:0]
	g.h = g.h[:0]
	g.givs = g.givs[:0]
	g.g = append(g.g[:0], 0)
	g.k = 0

	// Construct the first basis vector from M v_0 = b - A x_0.
	if err := ctx.residual(g.r, ctx.X); err != nil {
		return false, err
	}
	var v0 []float64
	g.v, v0 = grow(g.v, n)
	if err := ctx.precondition(v0, g.r); err != nil {
		return false, err
	}
	g.beta = floats.Norm(v0, 2)
	g.g[0] = g.beta
	ctx.InitialResidualNorm = g.beta
	ctx.ResidualNorm = g.beta
	g.state = gmresInitialized
	if g.beta == 0 {
		// The initial guess is the exact solution.
		g.v = g.v[:0]
		return true, nil
	}
	floats.Scale(1/g.beta, v0)
	return false, nil
}

// Step implements the Method interface. It performs one Arnoldi iteration
// and updates the QR factorization of the Hessenberg matrix. ctx.X is not
// modified.
//
// If the Krylov subspace becomes invariant, Step reports convergence. If in
// addition the new column of the triangular factor vanishes, the matrix is
// singular on the subspace: the column is discarded, ctx.Breakdown is set
// and FinalizeIteration forms the solution from the previous iterations.
func (g *GMRES) Step(ctx *Context) (bool, error) {
	if g.state != gmresInitialized && g.state != gmresIterating {
		panic("iterative: GMRES.InitIteration not called")
	}
	if len(g.v) <= g.k {
		panic("iterative: GMRES.Step called after breakdown")
	}
	n := len(ctx.X)
	k := g.k
	g.state = gmresIterating

	// Compute w = M⁻¹ A v_k.
	if err := ctx.A.Apply(g.av, g.v[k]); err != nil {
		return false, err
	}
	if err := ctx.precondition(g.w, g.av); err != nil {
		return false, err
	}
	wnorm0 := floats.Norm(g.w, 2)

	// Construct the k-th column of the upper Hessenberg matrix using
	// the modified Gram-Schmidt process so that w is orthogonal to the
	// previous basis vectors.
	var hk []float64
	g.h, hk = grow(g.h, k+2)
	for j := 0; j <= k; j++ {
		vj := g.v[j]
		hjk := floats.Dot(g.w, vj)
		hk[j] = hjk
		floats.AddScaled(g.w, -hjk, vj)
	}
	wnorm := floats.Norm(g.w, 2)
	// With n basis vectors the Krylov subspace is the whole space and
	// what remains in w is rounding error.
	breakdown := k+1 == n || wnorm <= breakdownTol*wnorm0
	if !breakdown {
		hk[k+1] = wnorm // H[k+1,k] = |w|
	}

	// Apply the previous Givens rotations to the k-th column of H.
	for j := 0; j < k; j++ {
		hk[j], hk[j+1] = rotvec(hk[j], hk[j+1], g.givs[j])
	}
	if breakdown && math.Abs(hk[k]) <= breakdownTol*wnorm0 {
		// A*v_k lies in the span of A*v_0, ..., A*v_{k-1}.
		g.h = g.h[:k]
		g.v = g.v[:k]
		ctx.Breakdown = true
		return false, nil
	}
	if !breakdown {
		var vk1 []float64
		g.v, vk1 = grow(g.v, n)
		floats.ScaleTo(vk1, 1/wnorm, g.w)
	}

	// Compute the Givens rotation that zeroes H[k+1,k] and apply it.
	giv := drotg(hk[k], hk[k+1])
	g.givs = append(g.givs, giv)
	hk[k], hk[k+1] = rotvec(hk[k], hk[k+1], giv)
	g.g = append(g.g, 0)
	g.g[k], g.g[k+1] = rotvec(g.g[k], g.g[k+1], giv)
	g.k++

	// |g[k+1]| is the norm of the residual after k+1 iterations.
	ctx.ResidualNorm = math.Abs(g.g[k+1])
	if breakdown {
		// The solution lies in the current Krylov subspace.
		return true, nil
	}
	return ctx.CheckResidualNorm(), nil
}

// FinalizeIteration implements the Method interface. It adds the
// correction from the Krylov subspace to the initial guess in ctx.X.
func (g *GMRES) FinalizeIteration(ctx *Context) error {
	if g.state != gmresInitialized && g.state != gmresIterating {
		panic("iterative: GMRES.InitIteration not called")
	}
	g.state = gmresFinalized
	k := g.k
	if k == 0 {
		return nil
	}
	// Pack the k×k upper triangular factor R in row-major order.
	r := make([]float64, k*k)
	for j := 0; j < k; j++ {
		for i := 0; i <= j; i++ {
			r[i*k+j] = g.h[j][i]
		}
	}
	y := make([]float64, k)
	copy(y, g.g[:k])
	solveUpperTriangular(k, r, k, y)
	// Compute the approximate solution x = x_0 + V*y.
	for i, yi := range y {
		floats.AddScaled(ctx.X, yi, g.v[i])
	}
	return nil
}

// Iterations returns the number of iterations completed in the last solve.
func (g *GMRES) Iterations() int { return g.k }

// Basis returns the orthonormal Krylov basis built in the last solve. The
// returned vectors are reused by the next solve.
func (g *GMRES) Basis() [][]float64 { return g.v }

// solveUpperTriangular solves R*y = b for the n×n upper triangular matrix r
// stored in row-major order with stride ldr. b is passed in y and
// overwritten with the solution.
func solveUpperTriangular(n int, r []float64, ldr int, y []float64) {
	blas64.Trsv(blas.NoTrans, blas64.Triangular{
		Uplo:   blas.Upper,
		Diag:   blas.NonUnit,
		N:      n,
		Stride: ldr,
		Data:   r,
	}, blas64.Vector{N: n, Inc: 1, Data: y})
}

// grow appends a zeroed vector of length n to vs, reusing previously
// allocated storage when possible.
func grow(vs [][]float64, n int) ([][]float64, []float64) {
	k := len(vs)
	if k < cap(vs) {
		vs = vs[:k+1]
		vs[k] = reuse(vs[k], n)
		return vs, vs[k]
	}
	v := make([]float64, n)
	return append(vs, v), v
}

func drotg(a, b float64) givens {
	if b == 0 {
		return givens{c: 1, s: 0}
	}
	if math.Abs(b) > math.Abs(a) {
		tmp := -a / b
		s := 1 / math.Sqrt(1+tmp*tmp)
		return givens{c: tmp * s, s: s}
	}
	tmp := -b / a
	c := 1 / math.Sqrt(1+tmp*tmp)
	return givens{c: c, s: tmp * c}
}

func rotvec(x, y float64, g givens) (rx, ry float64) {
	rx = g.c*x - g.s*y
	ry = g.s*x + g.c*y
	return
}
