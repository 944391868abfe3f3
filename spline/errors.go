// SPDX-License-Identifier: MIT

package spline

import "errors"

// Every message is prefixed with "spline: ". Call sites add numeric context
// with fmt.Errorf("...: %w", ErrX); callers match with errors.Is.
var (
	// ErrEmptyInput is returned when no points are given.
	ErrEmptyInput = errors.New("spline: empty input")

	// ErrInvalidStep is returned when the minimum spacing is not a positive finite number.
	ErrInvalidStep = errors.New("spline: minimum step must be positive and finite")

	// ErrNaNInf is returned when an input value is NaN or ±Inf.
	ErrNaNInf = errors.New("spline: NaN or Inf in input")

	// ErrInfeasibleSpacing is returned when (max-min) < (n-1)*minStep: no
	// arrangement of n points can honor the minimum spacing.
	ErrInfeasibleSpacing = errors.New("spline: minimum spacing infeasible for input range")

	// ErrTooFewKnots is returned when fewer than 3 knots are given to the
	// penalty assembly (there is no interior block).
	ErrTooFewKnots = errors.New("spline: at least 3 knots required")

	// ErrNotIncreasing is returned when knots are not strictly increasing.
	ErrNotIncreasing = errors.New("spline: knots must be strictly increasing")

	// ErrLengthMismatch is returned when observations or weights do not match the knots.
	ErrLengthMismatch = errors.New("spline: length mismatch")

	// ErrInvalidWeight is returned when a weight is not strictly positive.
	ErrInvalidWeight = errors.New("spline: weights must be positive")

	// ErrInvalidSmoothing is returned when the smoothing parameter is negative.
	ErrInvalidSmoothing = errors.New("spline: smoothing parameter must be >= 0")

	// ErrNotPositiveDefinite is returned when the Reinsch system cannot be factorized.
	ErrNotPositiveDefinite = errors.New("spline: smoothing system not positive definite")
)
