// SPDX-License-Identifier: MIT

// Package events is a small Bayesian event-dating model driven by the
// mcmc scheduler.
//
// Every event carries one Gaussian measurement (mean, sd) of its unknown
// date θ. The prior on θ is uniform over the study period [Start, End].
//
// Sampling:
//   - Update performs one Metropolis-Hastings step per event. With
//     probability MixingLevel the proposal is a random walk N(θ, σ);
//     otherwise θ is redrawn independently from the measurement density.
//   - Adapt tunes σ per event on the random-walk acceptance rate of the
//     last batch, aiming at [41%, 47%]: log σ moves by
//     δ = min(0.01, 1/√batch) towards the band.
//   - Only iterates for which Step.Keep reports true are traced.
//
// Finalize pools the traces of every chain into per-event histograms and
// posterior moments. When at least three events carry a value, it also
// fits a smoothing spline of value against posterior date, on knots placed
// with spline.PlaceKnots.
package events
