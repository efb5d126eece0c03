// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative_test

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/fanronghong/iterative"
	"github.com/fanronghong/iterative/sparse"
)

func ExampleGMRES() {
	a := mat.NewDense(2, 2, []float64{
		4, 1,
		1, 3,
	})
	b := []float64{1, 2}
	res, err := iterative.LinearSolve(iterative.NewMatrixOp(a), b, &iterative.GMRES{}, iterative.Settings{
		Tolerance:     1e-10,
		MaxIterations: 2,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("converged:", res.Stats.Converged)
	fmt.Println("iterations:", res.Stats.Iterations)
	fmt.Printf("x: %.4f\n", res.X)

	// Output:
	// converged: true
	// iterations: 2
	// x: [0.0909 0.6364]
}

func ExampleJacobiOp() {
	t := sparse.NewTriplet(2, 2)
	t.Append(0, 0, 4)
	t.Append(0, 1, 1)
	t.Append(1, 0, 1)
	t.Append(1, 1, 3)
	a := t.ToCSR()

	m, err := iterative.NewJacobiOp(a, 1)
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	res, err := iterative.LinearSolve(iterative.NewMatrixOp(a), []float64{1, 2}, &iterative.GMRES{}, iterative.Settings{
		Tolerance:      1e-10,
		MaxIterations:  2,
		Preconditioner: m,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	fmt.Println("converged:", res.Stats.Converged)
	fmt.Println("iterations:", res.Stats.Iterations)
	fmt.Printf("x: %.4f\n", res.X)

	// Output:
	// converged: true
	// iterations: 2
	// x: [0.0909 0.6364]
}
