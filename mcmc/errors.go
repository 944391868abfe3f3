// SPDX-License-Identifier: MIT

package mcmc

import "errors"

var (
	// ErrCancelled is returned by Run when Cancel was called or the context
	// was done. When the context caused it, the context error is wrapped too.
	ErrCancelled = errors.New("mcmc: run cancelled")

	// ErrAlreadyRunning is returned when Run is called while another Run on
	// the same Scheduler is in progress.
	ErrAlreadyRunning = errors.New("mcmc: run already in progress")

	// ErrNilModel is returned by Run when the scheduler has no model.
	ErrNilModel = errors.New("mcmc: nil model")
)
