// SPDX-License-Identifier: MIT

package events

import "errors"

var (
	// ErrInvalidStudy indicates a study that violates a constraint.
	ErrInvalidStudy = errors.New("events: invalid study")

	// ErrNoResult is returned by Result before Finalize has run.
	ErrNoResult = errors.New("events: no posterior yet")
)
