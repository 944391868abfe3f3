// SPDX-License-Identifier: MIT

// Package rng is the random source of the simulation engine.
//
// A Source wraps a Mersenne Twister (gonum prng.MT19937) and exposes the
// deviates the MCMC hooks need: uniform reals in [0,1), standard and scaled
// Gaussians, and bounded integers.
//
// Reproducibility:
//   - Init(seed) is a full reset. Every value drawn afterwards is a
//     deterministic function of seed, on every platform.
//   - The scheduler calls Init once per chain, at the start of that chain.
//
// Concurrency:
//   - A Source is NOT goroutine-safe. It is owned by the scheduler and only
//     touched from the worker goroutine that runs the chains.
package rng
