// SPDX-License-Identifier: MIT

package mcmc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values for runsTotal.
const (
	outcomeCompleted = "completed"
	outcomeCancelled = "cancelled"
)

var (
	// iterationsTotal counts Update calls.
	//
	// Labels:
	//   - phase: "burn", "adapt" or "acquire"
	iterationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chronosim",
			Subsystem: "mcmc",
			Name:      "iterations_total",
			Help:      "Total MCMC iterations by phase",
		},
		[]string{"phase"},
	)

	// phaseDuration observes the wall time of each completed phase of a chain.
	phaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "chronosim",
			Subsystem: "mcmc",
			Name:      "phase_duration_seconds",
			Help:      "Wall time of each chain phase",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 10),
		},
		[]string{"phase"},
	)

	// runsTotal counts finished runs by outcome.
	runsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "chronosim",
			Subsystem: "mcmc",
			Name:      "runs_total",
			Help:      "Total scheduler runs by outcome",
		},
		[]string{"outcome"},
	)

	// adaptBatches observes how many batches each chain needed.
	adaptBatches = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "chronosim",
			Subsystem: "mcmc",
			Name:      "adapt_batches",
			Help:      "Adaptation batches used per chain",
			Buckets:   []float64{1, 2, 5, 10, 20, 50, 100, 200, 500},
		},
	)

	// adaptNotConvergedTotal counts chains whose adaptation hit MaxBatches.
	adaptNotConvergedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "chronosim",
			Subsystem: "mcmc",
			Name:      "adapt_not_converged_total",
			Help:      "Chains that exhausted MaxBatches without converging",
		},
	)
)
