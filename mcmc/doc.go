// SPDX-License-Identifier: MIT

// Package mcmc is the scheduler of the Bayesian simulation engine.
//
// A Scheduler drives a Model through a fixed protocol, one chain after the
// other:
//
//	calibrate ─▶ for each chain: seed ─▶ init ─▶ burn ─▶ adapt ─▶ acquire ─▶ finalize
//
// The scheduler never inspects what the model hooks do. It only sequences
// them, keeps the per-chain counters, publishes progress, writes a
// human-readable run log and honors cooperative cancellation.
//
// Concurrency model:
//   - Run executes on a single worker goroutine chosen by the caller.
//     Chains and phases are strictly sequential; no hook is ever called
//     concurrently with another.
//   - Any other goroutine may call Cancel, Phase, Chains and Log while Run is
//     in progress. Cancel sets an atomic flag that the worker polls at the
//     start of every burn, batch and acquisition iteration; an in-flight
//     Update is never pre-empted.
//   - The random source is owned by the scheduler and handed to the hooks
//     through ChainContext and Step. It must not escape the worker.
//
// Errors:
//   - ErrCancelled is the only mid-run stop condition. A cancelled run never
//     calls Finalize.
//   - Adaptation that never converges is not an error: the run log records
//     "adapt not converged" and acquisition proceeds.
package mcmc
