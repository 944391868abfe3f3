// SPDX-License-Identifier: MIT

package mcmc

// ChainStatus tells how far a chain got.
type ChainStatus int

const (
	// ChainPending: not started yet (all counters zero).
	ChainPending ChainStatus = iota
	// ChainRunning: seeded and inside one of the phases.
	ChainRunning
	// ChainDone: acquisition completed.
	ChainDone
	// ChainCancelled: the run was cancelled while this chain was running.
	ChainCancelled
)

// String implements fmt.Stringer.
func (s ChainStatus) String() string {
	switch s {
	case ChainPending:
		return "pending"
	case ChainRunning:
		return "running"
	case ChainDone:
		return "done"
	case ChainCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// ChainState holds the counters of one chain.
//
// After a completed chain:
//
//	TotalIter == NumBurnIter + BatchIndex*NumBatchIter + NumRunIter
type ChainState struct {
	Index            int
	Seed             int64
	ThinningInterval int

	BurnIterIndex  int // ≤ NumBurnIter
	BatchIndex     int // batches completed, ≤ MaxBatches
	BatchIterIndex int // iterations in the current batch, ≤ NumBatchIter
	RunIterIndex   int // ≤ NumRunIter
	TotalIter      int // sum of every phase iteration so far

	AdaptConverged bool
	Status         ChainStatus
}
