// SPDX-License-Identifier: MIT

// Package spline is the numerical preprocessing kernel for penalized
// natural-cubic-spline smoothing.
//
// It provides:
//
//   - PlaceKnots: turns raw observation times into a strictly increasing knot
//     set with a minimum spacing, moving colliding points as little as the
//     left-to-right stabilization pass allows. Infeasible input is reported
//     with ErrInfeasibleSpacing; nothing here ever terminates the process.
//   - NewPenalty: assembles the tridiagonal R and banded Q matrices of the
//     roughness penalty (Green & Silverman notation) over a knot set.
//   - Smooth / Fit: the Reinsch algorithm on top of R and Q, solved with a
//     banded Cholesky factorization, and evaluation of the fitted curve.
//
// All functions are pure: inputs are never mutated and every returned matrix
// is owned by its caller.
package spline
