// SPDX-License-Identifier: MIT

package mcmc

import "sync/atomic"

// Reporter receives progress from the worker goroutine. Events are UI
// feedback only; the scheduler never reads anything back.
//
// Implementations must return quickly: they run on the worker.
type Reporter interface {
	// PhaseChanged announces a new phase with its progress bounds.
	PhaseChanged(label string, min, max int)
	// Progress reports the current count within the announced bounds.
	Progress(value int)
}

// NopReporter discards every event.
type NopReporter struct{}

func (NopReporter) PhaseChanged(string, int, int) {}
func (NopReporter) Progress(int)                  {}

// EventKind distinguishes the two event types.
type EventKind int

const (
	EventPhase EventKind = iota
	EventProgress
)

// Event is a published snapshot of the scheduler progress.
type Event struct {
	Kind  EventKind
	Label string // EventPhase only
	Min   int    // EventPhase only
	Max   int    // EventPhase only
	Value int    // EventProgress only
}

// DefaultEventBuffer is the channel capacity used by NewChanReporter when
// given a non-positive size.
const DefaultEventBuffer = 256

// ChanReporter publishes events on a buffered channel for an asynchronous
// consumer. Sends never block, so a slow consumer cannot stall the
// simulation. On a full buffer a progress tick is dropped; a phase
// announcement evicts the oldest buffered event so that the ticks after it
// are never read under a stale label. Every discarded event is counted.
type ChanReporter struct {
	ch      chan Event
	dropped atomic.Uint64
}

var _ Reporter = (*ChanReporter)(nil)

// NewChanReporter returns a reporter with the given buffer size.
func NewChanReporter(size int) *ChanReporter {
	if size <= 0 {
		size = DefaultEventBuffer
	}

	return &ChanReporter{ch: make(chan Event, size)}
}

// Events returns the receive side of the channel.
func (r *ChanReporter) Events() <-chan Event { return r.ch }

// Dropped returns how many events were discarded on a full buffer.
func (r *ChanReporter) Dropped() uint64 { return r.dropped.Load() }

// Close closes the channel. Call it once, after Run has returned.
func (r *ChanReporter) Close() { close(r.ch) }

// PhaseChanged implements Reporter.
func (r *ChanReporter) PhaseChanged(label string, min, max int) {
	r.send(Event{Kind: EventPhase, Label: label, Min: min, Max: max})
}

// Progress implements Reporter.
func (r *ChanReporter) Progress(value int) {
	r.send(Event{Kind: EventProgress, Value: value})
}

func (r *ChanReporter) send(e Event) {
	select {
	case r.ch <- e:
		return
	default:
	}
	if e.Kind != EventPhase {
		r.dropped.Add(1)
		return
	}
	// Only the worker sends, so one eviction always makes room.
	select {
	case <-r.ch:
		r.dropped.Add(1)
	default:
	}
	select {
	case r.ch <- e:
	default:
		r.dropped.Add(1)
	}
}
