package operations

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"covercli/internal/infrastructure"
)

// OperationTracer provides OpenTelemetry instrumentation for step runs.
// A nil *OperationTracer traces nothing and records no metrics.
type OperationTracer struct {
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// NewOperationTracer creates a tracer backed by the given providers
func NewOperationTracer(providers *infrastructure.OTelProviders) (*OperationTracer, error) {
	metrics, err := infrastructure.CreatePipelineMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline metrics: %w", err)
	}

	tracer := providers.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(infrastructure.MeterName)
	}

	return &OperationTracer{tracer: tracer, metrics: metrics}, nil
}

// TraceStep starts the span for one step run
func (ot *OperationTracer) TraceStep(ctx context.Context, step Step, params Params) (context.Context, trace.Span) {
	if ot == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return ot.tracer.Start(ctx, "operation."+step.ID(),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", step.ID()),
			attribute.String("operation.name", step.Name()),
			attribute.String("operation.input", params.Input),
			attribute.String("operation.output", params.Output),
		),
	)
}

// EndStep records the outcome on the span and in the metrics, then ends the span
func (ot *OperationTracer) EndStep(ctx context.Context, span trace.Span, stepID string, res *Result, duration time.Duration, err error) {
	if ot == nil {
		return
	}
	defer span.End()

	rows := 0
	if res != nil {
		rows = res.Rows
		span.SetAttributes(
			attribute.Int("operation.rows", res.Rows),
			attribute.Int("operation.columns", res.Columns),
			attribute.Int("operation.unmatched_left", res.UnmatchedLeft),
			attribute.Int("operation.unmatched_right", res.UnmatchedRight),
		)
		infrastructure.RecordUnmatchedKeys(ctx, ot.metrics, stepID, "left", res.UnmatchedLeft)
		infrastructure.RecordUnmatchedKeys(ctx, ot.metrics, stepID, "right", res.UnmatchedRight)
	}

	infrastructure.RecordOperationMetrics(ctx, ot.metrics, stepID, duration, rows, err)

	if err != nil {
		infrastructure.RecordError(ctx, err)
		return
	}
	span.SetStatus(codes.Ok, "")
}
