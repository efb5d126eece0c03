// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func TestRichardsonSweep(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{
		2, 1,
		1, 2,
	})
	f := []float64{1, 2}

	x := []float64{0, 0}
	RichardsonSweep(a, x, f, 0.5)
	assert.Equal(t, []float64{0.5, 1}, x)

	// x = [0.5 1] + 0.5*([1 2] - [2 2.5])
	RichardsonSweep(a, x, f, 0.5)
	assert.InDeltaSlice(t, []float64{0, 0.75}, x, 1e-15)
}

func TestJacobiSweep(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		4, -1, 0,
		-1, 4, -1,
		0, -1, 4,
	})
	f := []float64{3, 2, 3}
	x := []float64{1, 0, 1}
	// All entries are updated from the old x.
	JacobiSweep(a, x, f)
	assert.InDeltaSlice(t, []float64{0.75, 1, 0.75}, x, 1e-15)

	x = []float64{1, 0, 1}
	DampedJacobiSweep(a, x, f, DefaultJacobiDamping)
	assert.InDeltaSlice(t, []float64{0.875, 0.5, 0.875}, x, 1e-15)
}

func TestGaussSeidelSweep(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		4, -1, 0,
		-1, 4, -1,
		0, -1, 4,
	})
	f := []float64{3, 2, 3}

	x := []float64{1, 0, 1}
	GaussSeidelSweep(a, x, f)
	// x0 = (3+0)/4, x1 = (2+0.75+1)/4, x2 = (3+x1)/4
	want := []float64{0.75, 0.9375, (3 + 0.9375) / 4}
	assert.InDeltaSlice(t, want, x, 1e-15)

	x = []float64{1, 0, 1}
	ReverseGaussSeidelSweep(a, x, f)
	// x2 = (3+0)/4, x1 = (2+1+0.75)/4, x0 = (3+x1)/4
	want = []float64{(3 + 0.9375) / 4, 0.9375, 0.75}
	assert.InDeltaSlice(t, want, x, 1e-15)
}

func TestSweepContraction(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const n = 8
	tc := randomDiagDominant(n, rnd)
	want, f := rhsForOnes(tc.a)

	for _, sweep := range []struct {
		name string
		fn   func(a mat.Matrix, x, f []float64)
	}{
		{"Jacobi", JacobiSweep},
		{"GaussSeidel", GaussSeidelSweep},
		{"ReverseGaussSeidel", ReverseGaussSeidelSweep},
		{"SymmetricGaussSeidel", SymmetricGaussSeidelSweep},
	} {
		x := make([]float64, n)
		for i := range x {
			x[i] = rnd.NormFloat64()
		}
		prev := floats.Distance(x, want, math.Inf(1))
		for k := 0; k < 5; k++ {
			sweep.fn(tc.a, x, f)
			dist := floats.Distance(x, want, math.Inf(1))
			assert.Less(t, dist, prev, "%s: sweep %d did not reduce the error", sweep.name, k)
			prev = dist
		}
	}
}

func TestJacobiResidualContraction(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	const n = 10
	// Symmetric with constant diagonal, so that I - A*D⁻¹ is a
	// contraction in the 2-norm.
	a := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			a.SetSym(i, j, 2*rnd.Float64()-1)
		}
		a.SetSym(i, i, float64(n))
	}
	f := make([]float64, n)
	x := make([]float64, n)
	for i := range f {
		f[i] = rnd.NormFloat64()
		x[i] = rnd.NormFloat64()
	}
	prev := residualNorm(a, x, f)
	for k := 0; k < 5; k++ {
		JacobiSweep(a, x, f)
		res := residualNorm(a, x, f)
		assert.Less(t, res, prev, "sweep %d did not reduce the residual", k)
		prev = res
	}
}

func TestGaussSeidelFixedPoint(t *testing.T) {
	a := mat.NewDense(3, 3, []float64{
		5, 2, 1,
		-1, 4, 1,
		2, -2, 6,
	})
	f := []float64{1, 2, 3}
	var want mat.VecDense
	require.NoError(t, want.SolveVec(a, mat.NewVecDense(3, f)))

	forward := []float64{1, 1, 1}
	backward := []float64{1, 1, 1}
	GaussSeidelSweep(a, forward, f)
	ReverseGaussSeidelSweep(a, backward, f)
	assert.NotEqual(t, forward, backward)

	for k := 0; k < 100; k++ {
		GaussSeidelSweep(a, forward, f)
		ReverseGaussSeidelSweep(a, backward, f)
	}
	assert.InDeltaSlice(t, want.RawVector().Data, forward, 1e-12)
	assert.InDeltaSlice(t, want.RawVector().Data, backward, 1e-12)
}

func TestGaussSeidelBlockSweep(t *testing.T) {
	a := mat.NewDense(4, 4, []float64{
		4, 1, 0, 1,
		1, 5, 1, 2,
		0, 1, 3, 1,
		1, 2, 1, 6,
	})
	f := []float64{1, 2, 3, 4}
	x := []float64{0.5, 0.5, 0.5, 0.5}
	dofs := []int{3, 1}

	require.NoError(t, GaussSeidelBlockSweep(a, x, f, dofs))
	// Unknowns outside the block are unchanged.
	assert.Equal(t, 0.5, x[0])
	assert.Equal(t, 0.5, x[2])
	// The block equations are satisfied exactly.
	r := make([]float64, 4)
	mulVec(r, a, x)
	floats.Sub(r, f)
	assert.InDelta(t, 0, r[1], 1e-14)
	assert.InDelta(t, 0, r[3], 1e-14)

	// An empty block is a no-op.
	require.NoError(t, GaussSeidelBlockSweep(a, x, f, nil))

	singular := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 1,
	})
	assert.Error(t, GaussSeidelBlockSweep(singular, []float64{0, 0}, []float64{1, 1}, []int{0, 1}))
}

func TestSweepPanics(t *testing.T) {
	a := mat.NewDense(2, 2, []float64{2, 0, 0, 2})
	rect := mat.NewDense(2, 3, nil)
	assert.Panics(t, func() { GaussSeidelSweep(a, make([]float64, 3), make([]float64, 2)) })
	assert.Panics(t, func() { JacobiSweep(a, make([]float64, 2), make([]float64, 1)) })
	assert.Panics(t, func() { RichardsonSweep(rect, make([]float64, 2), make([]float64, 2), 1) })

	zeroDiag := mat.NewDense(2, 2, []float64{
		1, 1,
		1, 0,
	})
	x, f := make([]float64, 2), []float64{1, 1}
	assert.PanicsWithValue(t, errZeroDiagonal, func() { JacobiSweep(zeroDiag, x, f) })
	assert.PanicsWithValue(t, errZeroDiagonal, func() { DampedJacobiSweep(zeroDiag, x, f, DefaultJacobiDamping) })
	assert.PanicsWithValue(t, errZeroDiagonal, func() { GaussSeidelSweep(zeroDiag, x, f) })
	assert.PanicsWithValue(t, errZeroDiagonal, func() { ReverseGaussSeidelSweep(zeroDiag, x, f) })
	assert.PanicsWithValue(t, errZeroDiagonal, func() { SymmetricGaussSeidelSweep(zeroDiag, x, f) })
}

func TestDoRowNonZero(t *testing.T) {
	data := []float64{
		1, 0, 2,
		0, 0, 0,
		0, 3, 0,
	}
	dense := mat.NewDense(3, 3, data)
	// A Transpose provides neither raw rows nor non-zero iteration.
	generic := mat.Transpose{Matrix: mat.NewDense(3, 3, []float64{
		1, 0, 0,
		0, 0, 3,
		2, 0, 0,
	})}
	for _, a := range []mat.Matrix{dense, generic} {
		var got [][3]float64
		for i := 0; i < 3; i++ {
			doRowNonZero(a, i, func(j int, v float64) {
				got = append(got, [3]float64{float64(i), float64(j), v})
			})
		}
		assert.Equal(t, [][3]float64{{0, 0, 1}, {0, 2, 2}, {2, 1, 3}}, got)
	}
}
