// Copyright ©2017 The gonum Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package iterative

import "fmt"

// ConfigurationError is returned when a solver or an operator is configured
// with invalid parameters, such as a non-square matrix or a non-positive
// number of sweeps.
type ConfigurationError struct {
	// Op is the operation that detected the problem.
	Op     string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("iterative: %s: %s", e.Op, e.Reason)
}

// DimensionError is returned when the length of a vector does not match the
// dimension of the operator it is used with.
type DimensionError struct {
	Op string
	// Name identifies the offending vector.
	Name      string
	Want, Got int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("iterative: %s: mismatched length of %s: want %d, got %d", e.Op, e.Name, e.Want, e.Got)
}

func configErr(op, format string, args ...interface{}) error {
	return &ConfigurationError{Op: op, Reason: fmt.Sprintf(format, args...)}
}

func checkLen(op, name string, v []float64, n int) error {
	if len(v) != n {
		return &DimensionError{Op: op, Name: name, Want: n, Got: len(v)}
	}
	return nil
}
