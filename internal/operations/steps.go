package operations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/trace"

	"envcli/internal/analysis"
	"envcli/internal/dataset"
	apperrors "envcli/internal/errors"
	"envcli/internal/exporter"
	"envcli/internal/validation"
)

// Step identifiers
const (
	StepIDLoad    = "load"
	StepIDAnalyze = "analyze"
	StepIDExport  = "export"
)

// Step display names
const (
	StepNameLoad    = "Data Loading"
	StepNameAnalyze = "Statistical Analysis"
	StepNameExport  = "Report Export"
)

// Export format identifiers
const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatChart = "chart"
	FormatAll   = "all"
)

// LoadStep reads the input file into a Table for the rest of the pipeline.
type LoadStep struct {
	validator *validation.FileValidator
	logger    *slog.Logger
}

// NewLoadStep creates the load Step
func NewLoadStep(logger *slog.Logger) *LoadStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoadStep{
		validator: validation.NewFileValidator(logger),
		logger:    logger,
	}
}

// ID returns the Step identifier
func (s *LoadStep) ID() string { return StepIDLoad }

// Name returns the Step display name
func (s *LoadStep) Name() string { return StepNameLoad }

// Validate checks that the input path points at a readable tabular file
func (s *LoadStep) Validate(state *OperationState) error {
	if state.InputPath == "" {
		return apperrors.NewValidationError("input path is empty", nil)
	}
	return s.validator.ValidateTabularFile(state.InputPath)
}

// Execute loads the input file and stores the table on the state
func (s *LoadStep) Execute(ctx context.Context, state *OperationState) error {
	table, err := dataset.Load(state.InputPath)
	if err != nil {
		return err
	}
	state.SetTable(table)

	if st := state.GetStep(s.ID()); st != nil {
		st.UpdateProgress(100, fmt.Sprintf("loaded %d rows", table.RowCount()))
	}

	s.logger.InfoContext(ctx, "input loaded",
		slog.String("source", table.Source),
		slog.Int("rows", table.RowCount()),
		slog.Int("columns", table.ColumnCount()))
	return nil
}

// AnalyzeStep runs the analysis engine over the loaded table.
type AnalyzeStep struct {
	logger *slog.Logger
	tracer trace.Tracer
}

// NewAnalyzeStep creates the analyze Step. The tracer may be nil.
func NewAnalyzeStep(logger *slog.Logger, tracer trace.Tracer) *AnalyzeStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalyzeStep{logger: logger, tracer: tracer}
}

// ID returns the Step identifier
func (s *AnalyzeStep) ID() string { return StepIDAnalyze }

// Name returns the Step display name
func (s *AnalyzeStep) Name() string { return StepNameAnalyze }

// Validate checks that a table was loaded by an earlier Step
func (s *AnalyzeStep) Validate(state *OperationState) error {
	if state.Table() == nil {
		return apperrors.NewValidationError("no input table loaded", nil)
	}
	return nil
}

// Execute runs the engine and stores the result on the state
func (s *AnalyzeStep) Execute(ctx context.Context, state *OperationState) error {
	maxConcurrency := analysis.DefaultMaxConcurrency
	if state.Config != nil && state.Config.Analysis.MaxConcurrency > 0 {
		maxConcurrency = state.Config.Analysis.MaxConcurrency
	}

	stepState := state.GetStep(s.ID())
	engine := analysis.NewEngine(
		analysis.WithLogger(s.logger),
		analysis.WithTracer(s.tracer),
		analysis.WithMaxConcurrency(maxConcurrency),
		analysis.WithProgress(func(completed, total int) {
			if stepState == nil || total == 0 {
				return
			}
			pct := float64(completed) / float64(total) * 100
			stepState.UpdateProgress(pct, fmt.Sprintf("indicators %d/%d", completed, total))
		}),
	)

	result, err := engine.Run(ctx, state.Table(), state.Request)
	if err != nil {
		return err
	}
	state.SetResult(result)

	s.logger.InfoContext(ctx, "analysis completed",
		slog.String("run_id", result.RunID),
		slog.Int("series", len(result.Series)),
		slog.Int("rows_dropped", result.Diagnostics.RowsDropped))
	return nil
}

// ExportStep renders the analysis result in the selected formats.
type ExportStep struct {
	formats []string
	logger  *slog.Logger
}

// NewExportStep creates the export Step. "all" expands to every format;
// duplicates collapse. Unknown names are kept so Validate can reject them.
func NewExportStep(formats []string, logger *slog.Logger) *ExportStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExportStep{formats: normalizeFormats(formats), logger: logger}
}

// ID returns the Step identifier
func (s *ExportStep) ID() string { return StepIDExport }

// Name returns the Step display name
func (s *ExportStep) Name() string { return StepNameExport }

// Validate checks the format list and that an analysis result exists
func (s *ExportStep) Validate(state *OperationState) error {
	if len(s.formats) == 0 {
		return apperrors.NewValidationError("no export formats selected", nil)
	}
	for _, format := range s.formats {
		switch format {
		case FormatCSV, FormatExcel, FormatChart:
		default:
			return apperrors.NewValidationError(fmt.Sprintf("unknown export format %q", format), nil)
		}
	}
	if state.Paths == nil {
		return apperrors.NewValidationError("output paths not configured", nil)
	}
	if state.OutputBase == "" {
		return apperrors.NewValidationError("output base name is empty", nil)
	}
	if state.Result() == nil {
		return apperrors.NewValidationError("no analysis result to export", nil)
	}
	return nil
}

// Execute writes one output set per format and records the paths
func (s *ExportStep) Execute(ctx context.Context, state *OperationState) error {
	stepState := state.GetStep(s.ID())
	result := state.Result()

	for i, format := range s.formats {
		if err := ctx.Err(); err != nil {
			return apperrors.NewCancelledError("export cancelled", err)
		}

		var written []string
		var err error

		switch format {
		case FormatCSV:
			written, err = exporter.NewSeriesExporter(state.Paths, s.logger).ExportCSV(result, state.OutputBase)
		case FormatExcel:
			var path string
			path, err = exporter.NewExcelExporter(state.Paths, s.logger).Export(result, state.OutputBase)
			if path != "" {
				written = []string{path}
			}
		case FormatChart:
			var width, height int
			if state.Config != nil {
				width = state.Config.Export.ChartWidth
				height = state.Config.Export.ChartHeight
			}
			written, err = exporter.NewChartExporter(state.Paths, width, height, s.logger).Export(result, state.OutputBase)
		}
		if err != nil {
			return err
		}
		state.AddWrittenFiles(written...)

		if stepState != nil {
			pct := float64(i+1) / float64(len(s.formats)) * 100
			stepState.UpdateProgress(pct, fmt.Sprintf("%s written", format))
		}
	}

	if len(state.WrittenFiles()) == 0 {
		s.logger.WarnContext(ctx, "no output files written; every series was empty",
			slog.String("operation_id", state.ID()))
	}
	return nil
}

// normalizeFormats lowercases, trims, expands "all", and deduplicates while
// preserving order.
func normalizeFormats(formats []string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(f string) {
		if f == "" || seen[f] {
			return
		}
		seen[f] = true
		out = append(out, f)
	}

	for _, f := range formats {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == FormatAll {
			add(FormatCSV)
			add(FormatExcel)
			add(FormatChart)
			continue
		}
		add(f)
	}
	return out
}

// DefaultSteps assembles the standard load, analyze, export pipeline.
func DefaultSteps(formats []string, logger *slog.Logger, tracer trace.Tracer) []Step {
	return []Step{
		NewLoadStep(logger),
		NewAnalyzeStep(logger, tracer),
		NewExportStep(formats, logger),
	}
}
