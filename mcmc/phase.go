// SPDX-License-Identifier: MIT

package mcmc

// RunPhase is the scheduler-wide phase of the chain being processed.
//
// Only one chain is ever in flight, so a single value describes the whole
// scheduler. It is meaningful only while Run is in progress; outside a run
// it is PhaseIdle.
type RunPhase int32

const (
	PhaseIdle RunPhase = iota
	PhaseBurning
	PhaseAdapting
	PhaseRunning
)

// String implements fmt.Stringer. The values double as metric label values.
func (p RunPhase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseBurning:
		return "burn"
	case PhaseAdapting:
		return "adapt"
	case PhaseRunning:
		return "acquire"
	default:
		return "unknown"
	}
}
