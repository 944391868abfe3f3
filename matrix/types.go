// SPDX-License-Identifier: MIT

package matrix

// Matrix is a two-dimensional mutable array of float64 values.
//
// Complexity: all methods are O(1).
type Matrix interface {
	// Rows returns the number of rows.
	Rows() int

	// Cols returns the number of columns.
	Cols() int

	// At retrieves the element at (i, j), or ErrOutOfRange.
	At(i, j int) (float64, error)

	// Set assigns v at (i, j). Returns ErrOutOfRange or ErrNaNInf.
	Set(i, j int, v float64) error
}
