// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"io"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/katalvlaran/chronosim/config"
)

// setupTracing installs the global tracer provider selected by cfg. The
// returned shutdown flushes pending spans; it is a no-op for "none".
func setupTracing(cfg config.Trace, w io.Writer) (func(context.Context) error, error) {
	switch cfg.Exporter {
	case "", config.TraceNone:
		return func(context.Context) error { return nil }, nil
	case config.TraceStdout:
		exp, err := stdouttrace.New(stdouttrace.WithWriter(w), stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("tracing: create exporter: %w", err)
		}
		tp := sdktrace.NewTracerProvider(
			sdktrace.WithBatcher(exp),
			sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", "chronosim"))),
			sdktrace.WithSampler(sdktrace.AlwaysSample()),
		)
		otel.SetTracerProvider(tp)

		return tp.Shutdown, nil
	default:
		return nil, fmt.Errorf("tracing: unknown exporter %q", cfg.Exporter)
	}
}
