package operations

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	apperrors "envcli/internal/errors"
	"envcli/internal/infrastructure"
)

// ProgressCallback receives a snapshot every time a Step changes status or
// progress. Callbacks run on the manager goroutine for lifecycle changes and
// on worker goroutines for mid-Step progress, so they must be fast and must
// not call back into the manager.
type ProgressCallback func(snapshot StepSnapshot)

// Manager drives a pipeline of Steps sequentially over a shared
// OperationState. One Manager can run many operations; all per-run data
// lives on the state.
type Manager struct {
	logger     *slog.Logger
	tracer     *OperationTracer
	onProgress ProgressCallback
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithManagerLogger sets the logger used for operation lifecycle logging
func WithManagerLogger(logger *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithManagerTracer sets the tracer used for operation and Step spans
func WithManagerTracer(tracer *OperationTracer) ManagerOption {
	return func(m *Manager) {
		if tracer != nil {
			m.tracer = tracer
		}
	}
}

// WithProgressCallback registers a callback for Step status changes
func WithProgressCallback(cb ProgressCallback) ManagerOption {
	return func(m *Manager) {
		m.onProgress = cb
	}
}

// NewManager creates a new operation manager
func NewManager(opts ...ManagerOption) *Manager {
	m := &Manager{
		logger: slog.Default(),
		tracer: NewOperationTracer(nil),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Execute runs the given Steps in order against the state. The first
// validation or execution failure stops the run; remaining Steps are marked
// skipped. A context cancellation observed between Steps cancels the
// operation.
func (m *Manager) Execute(ctx context.Context, state *OperationState, steps []Step) error {
	if state == nil {
		return apperrors.NewValidationError("operation state is nil", nil)
	}
	if len(steps) == 0 {
		return apperrors.NewValidationError("no steps to execute", nil)
	}

	ctx = infrastructure.WithRunID(ctx, state.ID())

	// Register every Step up front so observers see the whole plan as
	// pending before the first Step starts.
	for _, step := range steps {
		state.RegisterStep(NewStepState(step.ID(), step.Name()))
	}

	state.Start()
	ctx, opSpan := m.tracer.StartOperation(ctx, state, len(steps))
	defer opSpan.End()

	m.logger.InfoContext(ctx, "operation started",
		slog.String("operation_id", state.ID()),
		slog.String("input", state.InputPath),
		slog.Int("steps", len(steps)))

	for i, step := range steps {
		stepState := state.GetStep(step.ID())

		if err := ctx.Err(); err != nil {
			cancelErr := apperrors.NewCancelledError("operation cancelled", err)
			m.skipRemaining(state, steps[i:], "operation cancelled")
			state.Cancel()
			m.tracer.RecordOperationCompletion(ctx, opSpan, state, cancelErr)
			m.logger.WarnContext(ctx, "operation cancelled",
				slog.String("operation_id", state.ID()),
				slog.String("step", step.ID()))
			return cancelErr
		}

		if err := step.Validate(state); err != nil {
			return m.failOperation(ctx, opSpan, state, steps[i+1:], stepState, step, err)
		}

		stepState.Start()
		m.notify(stepState)

		stepCtx, stepSpan := m.tracer.StartStep(ctx, state.ID(), step.ID())
		m.logger.InfoContext(stepCtx, "step started",
			slog.String("operation_id", state.ID()),
			slog.String("step", step.ID()))

		err := step.Execute(stepCtx, state)
		m.tracer.RecordStepCompletion(stepCtx, stepSpan, step.ID(), stepState.Duration(), err)
		stepSpan.End()

		if err != nil {
			return m.failOperation(ctx, opSpan, state, steps[i+1:], stepState, step, err)
		}

		stepState.Complete()
		m.notify(stepState)
		m.logger.InfoContext(stepCtx, "step completed",
			slog.String("operation_id", state.ID()),
			slog.String("step", step.ID()),
			slog.Duration("duration", stepState.Duration()))
	}

	state.Complete()
	m.tracer.RecordOperationCompletion(ctx, opSpan, state, nil)
	m.logger.InfoContext(ctx, "operation completed",
		slog.String("operation_id", state.ID()),
		slog.Duration("duration", state.Duration()),
		slog.Int("files_written", len(state.WrittenFiles())))

	return nil
}

// failOperation records a Step failure, skips the rest of the plan, and
// settles the operation status. Cancellations surfaced by a Step keep their
// cancelled status instead of failed.
func (m *Manager) failOperation(ctx context.Context, opSpan trace.Span, state *OperationState, remaining []Step, stepState *StepState, step Step, err error) error {
	stepState.Fail(err)
	m.notify(stepState)
	m.skipRemaining(state, remaining, fmt.Sprintf("step %s failed", step.ID()))

	if apperrors.IsType(err, apperrors.ErrTypeCancelled) || ctx.Err() != nil {
		state.Cancel()
	} else {
		state.Fail(err)
	}
	m.tracer.RecordOperationCompletion(ctx, opSpan, state, err)

	m.logger.ErrorContext(ctx, "step failed",
		slog.String("operation_id", state.ID()),
		slog.String("step", step.ID()),
		slog.String("error", err.Error()))

	return err
}

// skipRemaining marks every still-pending Step as skipped
func (m *Manager) skipRemaining(state *OperationState, steps []Step, reason string) {
	for _, step := range steps {
		st := state.GetStep(step.ID())
		if st == nil || st.Status() != StepStatusPending {
			continue
		}
		st.Skip(reason)
		m.notify(st)
	}
}

// notify delivers a snapshot to the registered callback, if any
func (m *Manager) notify(st *StepState) {
	if m.onProgress != nil {
		m.onProgress(st.Snapshot())
	}
}
