package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"

	"envcli/internal/dataset"
	apperrors "envcli/internal/errors"
	"envcli/internal/infrastructure"
	"envcli/pkg/contracts/domain"
)

// DefaultMaxConcurrency bounds the per-indicator worker group when no
// explicit limit is configured.
const DefaultMaxConcurrency = 4

// ProgressFunc receives completion updates while indicators are being
// analyzed. It may be called from multiple goroutines.
type ProgressFunc func(completed, total int)

// Engine runs the full analysis pipeline over a loaded table.
type Engine struct {
	logger         *slog.Logger
	tracer         trace.Tracer
	maxConcurrency int
	progress       ProgressFunc

	normalizer *Normalizer
	aggregator *Aggregator
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithTracer sets the tracer used for run spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(e *Engine) {
		if tracer != nil {
			e.tracer = tracer
		}
	}
}

// WithMaxConcurrency bounds how many indicators are analyzed at once.
func WithMaxConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxConcurrency = n
		}
	}
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// NewEngine creates an analysis engine with the given options.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:         slog.Default(),
		tracer:         noop.NewTracerProvider().Tracer("analysis"),
		maxConcurrency: DefaultMaxConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.normalizer = NewNormalizer(e.logger)
	e.aggregator = NewAggregator(e.logger)
	return e
}

// indicatorOutcome carries one worker's output back to the merge point.
type indicatorOutcome struct {
	stats []domain.StatResult
	diag  domain.Diagnostics
}

// Run executes the pipeline: detect columns, normalize, resolve,
// bucket, aggregate and shape. Per-indicator work runs concurrently up
// to the configured limit, and cancellation is honored between
// indicator units.
func (e *Engine) Run(ctx context.Context, table *dataset.Table, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	start := time.Now()
	ctx = infrastructure.EnsureRunID(ctx)
	runID := infrastructure.GetRunID(ctx)

	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewValidationError("analysis request rejected", err)
	}

	ctx, span := e.tracer.Start(ctx, "analysis.run", trace.WithAttributes(
		attribute.String("run.id", runID),
		attribute.String("input.source", table.Source),
		attribute.Int("input.rows", table.RowCount()),
		attribute.String("missing.strategy", string(req.MissingStrategy)),
	))
	defer span.End()

	columns, err := dataset.DetectColumns(table)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	indicators, err := resolveIndicators(req.Indicators, columns)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	rows, diag, err := e.normalizer.ParseRows(table, columns)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	resolver, err := NewResolver(req.MissingStrategy, req.FillValue, e.logger)
	if err != nil {
		return nil, err
	}

	e.logger.InfoContext(ctx, "analysis started",
		slog.String("source", table.Source),
		slog.String("strategy", columns.Strategy),
		slog.Int("rows", len(rows)),
		slog.Int("indicators", len(indicators)),
		slog.Int("methods", len(req.Methods)))

	outcomes := make([]indicatorOutcome, len(indicators))
	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.maxConcurrency)
	for i, indicator := range indicators {
		i, indicator := i, indicator
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return apperrors.NewCancelledError("analysis cancelled", gctx.Err())
			default:
			}

			series := e.normalizer.SeriesFor(table, rows, indicator, columns.Indicators[indicator])
			resolved, rdiag := resolver.Resolve(series)
			buckets := e.aggregator.BucketByDay(resolved)
			outcomes[i] = indicatorOutcome{
				stats: e.aggregator.Aggregate(buckets, req.Methods),
				diag:  rdiag,
			}

			mu.Lock()
			completed++
			done := completed
			mu.Unlock()
			if e.progress != nil {
				e.progress(done, len(indicators))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	var stats []domain.StatResult
	for _, outcome := range outcomes {
		stats = append(stats, outcome.stats...)
		diag.Merge(outcome.diag)
	}

	shaped := NewShaper(req.EffectiveTickTarget()).Shape(stats, indicators, req.Methods, req.DateRange)
	for _, s := range shaped {
		if s.Len() == 0 {
			diag.EmptySeries++
			e.logger.WarnContext(ctx, "series produced no results",
				slog.String("indicator", s.Indicator),
				slog.String("method", string(s.Method)))
		}
	}

	result := &domain.AnalysisResult{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Duration:    time.Since(start),
		Series:      shaped,
		Diagnostics: diag,
	}

	infrastructure.AddSpanEvent(ctx, "analysis.completed", map[string]interface{}{
		"series":       len(result.Series),
		"empty_series": diag.EmptySeries,
		"rows_dropped": diag.RowsDropped,
	})
	e.logger.InfoContext(ctx, "analysis completed",
		slog.String("run_id", runID),
		slog.Duration("duration", result.Duration),
		slog.Int("series", len(result.Series)),
		slog.Int("readings_resolved", diag.ReadingsResolved),
		slog.Int("readings_dropped", diag.ReadingsDropped),
		slog.Int("empty_series", diag.EmptySeries))

	return result, nil
}

// resolveIndicators maps requested indicator names onto detected
// columns. Empty requests mean every detected indicator. Names resolve
// case-insensitively and through the canonical aliases, so "温度" and
// "Temperature" land on the same column.
func resolveIndicators(requested []string, columns *dataset.ColumnMap) ([]string, error) {
	if len(requested) == 0 {
		return columns.IndicatorNames(), nil
	}

	out := make([]string, 0, len(requested))
	seen := make(map[string]bool, len(requested))
	for _, raw := range requested {
		name := strings.ToLower(strings.TrimSpace(raw))
		if _, ok := columns.Indicators[name]; !ok {
			if canonical := dataset.CanonicalIndicator(raw); canonical != "" {
				name = canonical
			}
		}
		if _, ok := columns.Indicators[name]; !ok {
			return nil, apperrors.NewMalformedInputError(
				fmt.Sprintf("indicator %q absent from every row", raw), nil)
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out, nil
}
