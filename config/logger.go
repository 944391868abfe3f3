// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"io"
	"log/slog"
)

// NewLogger builds the slog logger described by l, writing to w.
func NewLogger(l Log, w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return nil, fmt.Errorf("%w: log level %q", ErrInvalid, l.Level)
	}
	opts := &slog.HandlerOptions{Level: level}

	switch l.Format {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("%w: log format %q", ErrInvalid, l.Format)
	}
}
