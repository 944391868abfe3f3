// SPDX-License-Identifier: MIT

// Package chronosim is the execution core of a Bayesian chronology engine.
//
// It is organized as a handful of small packages:
//
//	rng/           reseedable Mersenne Twister source, seed creation and derivation
//	mcmc/          multi-chain scheduler: burn-in, batch adaptation, thinned acquisition,
//	               progress reporting, run log and cooperative cancellation
//	spline/        knot placement with minimum spacing, R/Q penalty matrices,
//	               Reinsch smoothing and spline evaluation
//	matrix/        dense row-major storage for the penalty matrices
//	config/        YAML + environment configuration, validation and logging setup
//	model/events/  Gaussian event-dating model driven by the scheduler
//	cmd/chronosim/ command-line front end (run, knots, config)
//
// A model plugs into the scheduler by implementing mcmc.Model; the scheduler
// sequences its hooks one chain at a time and hands each of them the owned
// random source.
package chronosim
