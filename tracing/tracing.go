// Package tracing wraps the otel span a Tracer.Run creates around one
// traced-program execution, following the dag.Pipeline root-span pattern:
// one named span per run, ended via defer, carrying a handful of
// low-cardinality attributes.
package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("pytracer")

// StartRun opens the root span for one Tracer.Run invocation.
func StartRun(ctx context.Context, problemKey, entrypoint string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "pytracer.Run",
		trace.WithAttributes(
			attribute.String("pytracer.problem_key", problemKey),
			attribute.String("pytracer.entrypoint", entrypoint),
		),
	)
}

// RecordStepCount annotates span with the final recorded step count, once
// the run has finished executing.
func RecordStepCount(span trace.Span, steps int) {
	span.SetAttributes(attribute.Int("pytracer.step_count", steps))
}

// RecordError marks span as failed with err's message, mirroring how
// executor.go's pipeline span records node failures.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetAttributes(attribute.Bool("pytracer.error", true))
}
