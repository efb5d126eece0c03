// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultJacobiDamping is the customary relaxation factor for damped Jacobi
// smoothing.
const DefaultJacobiDamping = 0.5

// RichardsonSweep updates x with one damped Richardson sweep
//
//	x = x + tau*(f - A*x).
func RichardsonSweep(a mat.Matrix, x, f []float64, tau float64) {
	checkSweep(a, x, f)
	r := make([]float64, len(x))
	richardsonSweep(a, x, f, tau, r)
}

func richardsonSweep(a mat.Matrix, x, f []float64, tau float64, r []float64) {
	mulVec(r, a, x)
	floats.SubTo(r, f, r)
	floats.AddScaled(x, tau, r)
}

// JacobiSweep updates x with one Jacobi sweep
//
//	x = x + D⁻¹*(f - A*x),
//
// where D is the diagonal of A. All entries are updated from the values of x
// before the sweep. The diagonal of A must not contain zeros.
func JacobiSweep(a mat.Matrix, x, f []float64) {
	DampedJacobiSweep(a, x, f, 1)
}

// DampedJacobiSweep updates x with one damped Jacobi sweep
//
//	x = x + tau*D⁻¹*(f - A*x).
//
// DampedJacobiSweep panics if the diagonal of A contains a zero.
func DampedJacobiSweep(a mat.Matrix, x, f []float64, tau float64) {
	checkSweep(a, x, f)
	d := make([]float64, len(x))
	for i := range d {
		d[i] = a.At(i, i)
		if d[i] == 0 {
			panic(errZeroDiagonal)
		}
	}
	r := make([]float64, len(x))
	jacobiSweep(a, d, x, f, tau, r)
}

func jacobiSweep(a mat.Matrix, d, x, f []float64, tau float64, r []float64) {
	mulVec(r, a, x)
	floats.SubTo(r, f, r)
	floats.Div(r, d)
	floats.AddScaled(x, tau, r)
}

// GaussSeidelSweep updates x in place with one forward Gauss-Seidel sweep.
// Unknowns are visited in ascending order so that each update uses the
// already updated values of the preceding unknowns, which amounts to solving
// with the lower triangle of A including the diagonal.
//
// The Gauss-Seidel sweeps panic if the diagonal of A contains a zero.
func GaussSeidelSweep(a mat.Matrix, x, f []float64) {
	checkSweep(a, x, f)
	for i := range x {
		gaussSeidelRow(a, x, f, i)
	}
}

// ReverseGaussSeidelSweep updates x in place with one backward Gauss-Seidel
// sweep, visiting unknowns in descending order.
func ReverseGaussSeidelSweep(a mat.Matrix, x, f []float64) {
	checkSweep(a, x, f)
	for i := len(x) - 1; i >= 0; i-- {
		gaussSeidelRow(a, x, f, i)
	}
}

// SymmetricGaussSeidelSweep performs a forward Gauss-Seidel sweep followed
// by a backward one.
func SymmetricGaussSeidelSweep(a mat.Matrix, x, f []float64) {
	GaussSeidelSweep(a, x, f)
	ReverseGaussSeidelSweep(a, x, f)
}

func gaussSeidelRow(a mat.Matrix, x, f []float64, i int) {
	s := f[i]
	var aii float64
	doRowNonZero(a, i, func(j int, v float64) {
		if j == i {
			aii = v
			return
		}
		s -= v * x[j]
	})
	if aii == 0 {
		panic(errZeroDiagonal)
	}
	x[i] = s / aii
}

// GaussSeidelBlockSweep updates the entries of x listed in dofs so that the
// equations of A*x = f with these indices are satisfied exactly, holding all
// other entries of x fixed. The block A[dofs,dofs] is solved with a dense LU
// factorization. dofs must not contain duplicates.
//
// An error is returned if the block is singular.
func GaussSeidelBlockSweep(a mat.Matrix, x, f []float64, dofs []int) error {
	checkSweep(a, x, f)
	n := len(dofs)
	if n == 0 {
		return nil
	}
	// Residual restricted to the block rows.
	r := mat.NewVecDense(n, nil)
	for p, i := range dofs {
		s := f[i]
		doRowNonZero(a, i, func(j int, v float64) {
			s -= v * x[j]
		})
		r.SetVec(p, s)
	}
	blk := mat.NewDense(n, n, nil)
	for p, i := range dofs {
		for q, j := range dofs {
			blk.Set(p, q, a.At(i, j))
		}
	}
	var delta mat.VecDense
	if err := delta.SolveVec(blk, r); err != nil {
		// Ill-conditioned blocks are still solved, only singular ones
		// are rejected.
		var cond mat.Condition
		if !errors.As(err, &cond) || math.IsInf(float64(cond), 1) {
			return err
		}
	}
	for p, i := range dofs {
		x[i] += delta.AtVec(p)
	}
	return nil
}

const errZeroDiagonal = "iterative: zero diagonal entry"

func checkSweep(a mat.Matrix, x, f []float64) {
	r, c := a.Dims()
	switch {
	case r != c:
		panic("iterative: matrix not square")
	case len(x) != r:
		panic("iterative: mismatched length of x")
	case len(f) != r:
		panic("iterative: mismatched length of f")
	}
}
