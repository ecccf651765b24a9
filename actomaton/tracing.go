package actomaton

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// defaultTracer is used when no WithTracer option is supplied: every span
// it produces is a no-op, so tracing costs nothing until a caller opts in.
var defaultTracer trace.Tracer = noop.NewTracerProvider().Tracer("")

// traceSend wraps one Send's reducer invocation in a span. It never
// changes control flow: run always executes, tracer or not.
func traceSend(ctx context.Context, tracer trace.Tracer, action string, run func()) {
	_, span := tracer.Start(ctx, "actomaton.send", trace.WithAttributes())
	defer span.End()
	_ = action
	run()
}

// traceTask wraps one admitted task body in a span, recording the error it
// returns (if any) before ending the span.
func traceTask(ctx context.Context, tracer trace.Tracer, run func() error) error {
	spanCtx, span := tracer.Start(ctx, "actomaton.task")
	defer span.End()
	err := run()
	if err != nil {
		span.RecordError(err)
	}
	_ = spanCtx
	return err
}
