// SPDX-License-Identifier: MIT

package mcmc

import (
	"context"

	"github.com/katalvlaran/chronosim/rng"
)

// Model is the capability set the scheduler sequences.
//
// Hooks are assumed total: they do not fail and must not panic. They are
// always called from the worker goroutine, never concurrently.
type Model interface {
	// Calibrate runs once before any chain. The returned text is appended
	// to the run log.
	Calibrate(ctx context.Context) string

	// InitVariablesForChain sets the starting point of the unknowns for a
	// chain. The random source has already been reseeded with c.Seed.
	InitVariablesForChain(c ChainContext)

	// InitMCMC prepares proposal state (variances, acceptance counters)
	// for a chain. Called right after InitVariablesForChain.
	InitMCMC(c ChainContext)

	// Update performs one full sweep over every unknown.
	Update(s Step)

	// Adapt inspects the acceptance statistics of the batch that just
	// ended and retunes the proposals. batch is the number of batches
	// completed in this chain (1 for the first). It returns true when every
	// proposal is tuned, which ends adaptation for the chain.
	Adapt(batch int) bool

	// Finalize runs once after every chain completed, with the final
	// chain counters. It is never called for a cancelled run.
	Finalize(chains []ChainState)
}

// ChainContext is handed to the per-chain init hooks.
type ChainContext struct {
	Index  int
	Seed   int64
	Rand   *rng.Source
	Config RunConfiguration
}

// Step describes the iteration an Update call belongs to.
type Step struct {
	Chain    int
	Phase    RunPhase
	Iter     int // index within the phase (within the batch when adapting)
	Batch    int // 0-based batch index, meaningful in PhaseAdapting
	Thinning int
	Rand     *rng.Source
}

// Keep reports whether the state reached after this Update belongs to the
// thinned posterior sample: acquisition iterates 0, k, 2k, ... are kept.
func (s Step) Keep() bool {
	if s.Phase != PhaseRunning {
		return false
	}
	if s.Thinning <= 1 {
		return true
	}

	return s.Iter%s.Thinning == 0
}
