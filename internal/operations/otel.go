package operations

import (
	"context"
	"fmt"
	"time"

	"envcli/internal/infrastructure"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	TracerName = "envcli.operation"
)

// OperationTracer provides OpenTelemetry instrumentation for pipeline runs
type OperationTracer struct {
	tracer trace.Tracer
}

// NewOperationTracer creates a new operation tracer. A nil tracer yields a
// no-op tracer so callers never need to branch.
func NewOperationTracer(tracer trace.Tracer) *OperationTracer {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TracerName)
	}
	return &OperationTracer{tracer: tracer}
}

// StartOperation creates a span for the entire operation execution
func (t *OperationTracer) StartOperation(ctx context.Context, state *OperationState, stepCount int) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "operation.execute",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", state.ID()),
			attribute.String("operation.input", state.InputPath),
			attribute.Int("operation.steps", stepCount),
		),
	)
}

// StartStep creates a span for an individual Step execution
func (t *OperationTracer) StartStep(ctx context.Context, operationID, stepID string) (context.Context, trace.Span) {
	spanName := fmt.Sprintf("operation.step.%s", stepID)
	return t.tracer.Start(ctx, spanName,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("operation.id", operationID),
			attribute.String("step.id", stepID),
		),
	)
}

// RecordStepCompletion finalizes a Step span with its outcome
func (t *OperationTracer) RecordStepCompletion(ctx context.Context, span trace.Span, stepID string, duration time.Duration, err error) {
	span.SetAttributes(
		attribute.Float64("step.duration_seconds", duration.Seconds()),
	)

	if err != nil {
		infrastructure.RecordError(ctx, err, trace.WithAttributes(
			attribute.String("step.id", stepID),
		))
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "step completed")
}

// RecordOperationCompletion finalizes the operation span with its outcome
func (t *OperationTracer) RecordOperationCompletion(ctx context.Context, span trace.Span, state *OperationState, err error) {
	span.SetAttributes(
		attribute.String("operation.status", string(state.Status())),
		attribute.Float64("operation.duration_seconds", state.Duration().Seconds()),
		attribute.Int("operation.files_written", len(state.WrittenFiles())),
	)

	infrastructure.AddSpanEvent(ctx, "operation.completed", map[string]interface{}{
		"operation_id":  state.ID(),
		"status":        string(state.Status()),
		"duration":      state.Duration().Seconds(),
		"files_written": len(state.WrittenFiles()),
	})

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "operation completed")
}
