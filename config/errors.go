// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrInvalid indicates that a configuration violates a constraint.
	ErrInvalid = errors.New("config: invalid configuration")

	// ErrMalformed indicates a YAML file that cannot be decoded.
	ErrMalformed = errors.New("config: malformed file")
)
