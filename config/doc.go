// SPDX-License-Identifier: MIT

// Package config assembles the effective chronosim configuration.
//
// Layers are applied in order, each overriding the previous one:
//
//	Default() ─▶ YAML file (optional) ─▶ CHRONOSIM_* environment ─▶ Validate
//
// The file has five sections:
//
//	mcmc:     scheduler run configuration (chains, iterations, thinning, seeds)
//	spline:   minimum knot step and smoothing parameter
//	log:      slog level and handler format
//	metrics:  listen address of the Prometheus endpoint ("" disables it)
//	trace:    OpenTelemetry span exporter ("none" or "stdout")
//
// A top-level master_seed, when non-zero and no explicit seeds are given,
// derives one reproducible seed per chain.
//
// All validation failures wrap ErrInvalid.
package config
