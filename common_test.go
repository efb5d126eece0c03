// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/fanronghong/iterative/sparse"
)

type testCase struct {
	name  string
	n     int
	a     mat.Matrix
	iters int
	tol   float64
}

// randomSPD returns a random symmetric strictly diagonally dominant matrix
// with positive diagonal.
func randomSPD(n int, rnd *rand.Rand) testCase {
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			a.SetSym(i, j, rnd.Float64())
		}
	}
	for i := 0; i < n; i++ {
		a.SetSym(i, i, a.At(i, i)+float64(n))
	}
	return testCase{
		name:  fmt.Sprintf("randomSPD-%d", n),
		n:     n,
		a:     a,
		iters: 2 * n,
		tol:   1e-10,
	}
}

// randomDiagDominant returns a random non-symmetric strictly diagonally
// dominant matrix.
func randomDiagDominant(n int, rnd *rand.Rand) testCase {
	a := mat.NewDense(n, n, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			a.Set(i, j, 2*rnd.Float64()-1)
		}
		a.Set(i, i, float64(n))
	}
	return testCase{
		name:  fmt.Sprintf("randomDiagDominant-%d", n),
		n:     n,
		a:     a,
		iters: 2 * n,
		tol:   1e-10,
	}
}

// convectionDiffusion returns the n×n upwind finite-difference matrix of
//
//	-u'' + c u' = f
//
// on a uniform grid as a CSR matrix. It is non-symmetric for c != 0.
func convectionDiffusion(n int, c float64) testCase {
	h := 1 / float64(n+1)
	t := sparse.NewTriplet(n, n)
	for i := 0; i < n; i++ {
		t.Append(i, i, 2/(h*h)+c/h)
		if i > 0 {
			t.Append(i, i-1, -1/(h*h)-c/h)
		}
		if i < n-1 {
			t.Append(i, i+1, -1/(h*h))
		}
	}
	return testCase{
		name:  fmt.Sprintf("convectionDiffusion-%d-%v", n, c),
		n:     n,
		a:     t.ToCSR(),
		iters: 2 * n,
		tol:   1e-8,
	}
}

// rhsForOnes returns b such that the vector [1,1,...,1] is the solution of
// A*x = b.
func rhsForOnes(a mat.Matrix) (want, b []float64) {
	n, _ := a.Dims()
	want = make([]float64, n)
	for i := range want {
		want[i] = 1
	}
	b = make([]float64, n)
	mulVec(b, a, want)
	return want, b
}

// residualNorm returns |b - A*x|.
func residualNorm(a mat.Matrix, x, b []float64) float64 {
	r := make([]float64, len(b))
	mulVec(r, a, x)
	floats.Sub(r, b)
	return floats.Norm(r, 2)
}

// normInf returns the maximum absolute row sum of a.
func normInf(a mat.Matrix) float64 {
	r, c := a.Dims()
	var norm float64
	for i := 0; i < r; i++ {
		var s float64
		for j := 0; j < c; j++ {
			s += math.Abs(a.At(i, j))
		}
		norm = math.Max(norm, s)
	}
	return norm
}
