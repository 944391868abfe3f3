// SPDX-License-Identifier: MIT

// Package matrix provides the dense row-major storage used for the spline
// penalty matrices.
//
// Dense is a flat []float64 addressed by i*cols + j. Public accessors never
// panic on user input: At and Set return ErrOutOfRange for bad indices, and
// Set rejects NaN and ±Inf with ErrNaNInf so a penalty matrix can only hold
// finite values.
//
// Heavy linear algebra (banded Cholesky, band views) is delegated to gonum;
// this package only stores, inspects and prints.
package matrix
