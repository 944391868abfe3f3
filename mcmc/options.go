// SPDX-License-Identifier: MIT

package mcmc

import (
	"log/slog"
	"time"

	"github.com/katalvlaran/chronosim/rng"
)

// Option configures a Scheduler at construction.
type Option func(*Scheduler)

// WithLogger sets the structured logger. nil keeps slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithReporter sets the progress sink. nil keeps NopReporter.
func WithReporter(r Reporter) Option {
	return func(s *Scheduler) {
		if r != nil {
			s.rep = r
		}
	}
}

// WithSource injects the random source. The scheduler reseeds it at the
// start of every chain, so only its identity matters, not its state.
func WithSource(src *rng.Source) Option {
	return func(s *Scheduler) {
		if src != nil {
			s.src = src
		}
	}
}

// WithClock replaces time.Now for the durations written to the run log.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}
