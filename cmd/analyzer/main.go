package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"envcli/internal/config"
	"envcli/internal/dataset"
	apperrors "envcli/internal/errors"
	"envcli/internal/infrastructure"
	"envcli/internal/operations"
	"envcli/pkg/contracts"
	"envcli/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "input file (.csv/.xlsx) or directory of tabular files (defaults to data/ relative to executable)")
	out := flag.String("out", "", "output root directory (defaults to the executable directory)")
	indicators := flag.String("indicators", "", "comma-separated indicators to analyze (empty = every detected indicator)")
	methods := flag.String("methods", "", "comma-separated statistics: daily_max,daily_min,daily_mean,daytime_mean,nighttime_mean (empty = all)")
	strategy := flag.String("strategy", "", "missing-value strategy: drop | constant | carry | interpolate (defaults to config)")
	fill := flag.Float64("fill", 0, "fill value for the constant strategy")
	from := flag.String("from", "", "start date YYYY-MM-DD, inclusive")
	to := flag.String("to", "", "end date YYYY-MM-DD, inclusive")
	ticks := flag.Int("ticks", 0, "target tick count for shaped series (defaults to config)")
	formats := flag.String("formats", "", "comma-separated outputs: csv,excel,chart or all (defaults to config)")
	enableTrace := flag.Bool("trace", false, "emit trace spans to stdout")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	flagsSet := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { flagsSet[f.Name] = true })

	// Initialize paths first to get default directories. An explicit -out
	// roots the reports/charts/logs tree there.
	var paths *config.Paths
	var err error
	if *out != "" {
		paths = config.PathsForDir(*out)
	} else {
		paths, err = config.GetPaths()
		if err != nil {
			slog.Error("Failed to initialize paths", "error", err)
			os.Exit(1)
		}
	}

	if *in == "" {
		*in = paths.DataDir
	}

	if err := paths.EnsureDirectories(); err != nil {
		slog.Error("Failed to create required directories", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	cfg.Logging.FilePath = paths.GetLogPath("analyzer.log")
	if *enableTrace {
		cfg.Tracing.Enabled = true
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()
	paths.LogPathResolution()

	providers, err := infrastructure.InitializeOTel(cfg.Tracing, logger)
	if err != nil {
		logger.Warn("Failed to initialize tracing, continuing without",
			slog.String("error", err.Error()))
		providers, _ = infrastructure.InitializeOTel(config.TracingConfig{}, logger)
	}
	defer providers.Shutdown(context.Background())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fillValue := cfg.Analysis.FillValue
	if flagsSet["fill"] {
		fillValue = *fill
	}
	tickTarget := cfg.Analysis.TickTarget
	if flagsSet["ticks"] {
		tickTarget = *ticks
	}
	missing := cfg.Analysis.MissingStrategy
	if *strategy != "" {
		missing = *strategy
	}

	request, err := buildRequest(splitList(*indicators), splitList(*methods), missing, fillValue, *from, *to, tickTarget)
	if err != nil {
		logger.Error("Invalid analysis request", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	exportFormats := splitList(*formats)
	if len(exportFormats) == 0 {
		exportFormats = cfg.Export.Formats
	}

	inputs, err := resolveInputs(*in)
	if err != nil {
		logger.Error("Failed to resolve inputs",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info("Starting sensor analysis",
		slog.String("input", *in),
		slog.Int("files", len(inputs)),
		slog.String("strategy", string(request.MissingStrategy)),
		slog.String("formats", strings.Join(exportFormats, ",")),
		slog.String("executable_dir", paths.ExecutableDir))

	fmt.Printf("Found %d input files\n", len(inputs))
	if len(inputs) == 0 {
		logger.Warn("No tabular input files found", slog.String("input", *in))
		fmt.Println("Analysis complete: 0 files")
		return
	}

	manager := operations.NewManager(
		operations.WithManagerLogger(logger),
		operations.WithManagerTracer(operations.NewOperationTracer(providers.Tracer)),
		operations.WithProgressCallback(printStepProgress),
	)

	tracker := operations.NewProgressTracker("batch", len(inputs))
	var processed, failed, written int

	for i, input := range inputs {
		fmt.Printf("Processing file %d of %d: %s\n", i+1, len(inputs), filepath.Base(input))

		state := operations.NewOperationState(infrastructure.GenerateRunID())
		state.Config = cfg
		state.Paths = paths
		state.Request = request
		state.InputPath = input
		state.OutputBase = outputBase(input)

		err := manager.Execute(ctx, state, operations.DefaultSteps(exportFormats, logger, providers.Tracer))
		tracker.Increment(filepath.Base(input))

		if err != nil {
			if apperrors.IsType(err, apperrors.ErrTypeCancelled) {
				logger.Warn("Analysis cancelled", slog.String("input", input))
				fmt.Println("Analysis cancelled")
				os.Exit(1)
			}
			failed++
			logger.Error("File analysis failed",
				slog.String("input", input),
				slog.String("error", err.Error()))
			continue
		}

		processed++
		written += len(state.WrittenFiles())
		if result := state.Result(); result != nil {
			logDiagnostics(logger, input, result)
		}
		if len(inputs) > 1 {
			fmt.Printf("  ETA: %s\n", tracker.GetETA())
		}
	}

	logger.Info("Analysis run finished",
		slog.Int("processed", processed),
		slog.Int("failed", failed),
		slog.Int("files_written", written),
		slog.String("elapsed", tracker.GetElapsedTimeString()))

	fmt.Printf("Analysis complete: %d of %d files processed, %d output files written (elapsed %s)\n",
		processed, len(inputs), written, tracker.GetElapsedTimeString())

	if failed > 0 {
		os.Exit(1)
	}
}

// buildRequest assembles and validates the analysis request from resolved
// flag and config values.
func buildRequest(indicators, methodNames []string, strategy string, fillValue float64, from, to string, tickTarget int) (domain.AnalysisRequest, error) {
	req := domain.AnalysisRequest{
		Indicators:      indicators,
		MissingStrategy: domain.MissingStrategy(strategy),
		FillValue:       fillValue,
		TickTarget:      tickTarget,
	}

	for _, name := range methodNames {
		req.Methods = append(req.Methods, domain.Method(name))
	}

	if from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return req, apperrors.NewValidationError(fmt.Sprintf("invalid -from date %q", from), err)
		}
		req.DateRange.From = t
	}
	if to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return req, apperrors.NewValidationError(fmt.Sprintf("invalid -to date %q", to), err)
		}
		req.DateRange.To = t
	}

	normalized := req.Normalized()
	if err := normalized.Validate(); err != nil {
		return req, apperrors.NewValidationError("invalid analysis request", err)
	}
	return normalized, nil
}

// resolveInputs expands a file or directory path into the list of tabular
// files to analyze. Directories are scanned non-recursively.
func resolveInputs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("input path %s", path))
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	files, err := dataset.DiscoverTabularFiles(path)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return paths, nil
}

// outputBase strips directory and extension from an input path; report and
// chart names for the file start with this stem.
func outputBase(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// splitList splits a comma-separated flag value, trimming blanks.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// printStepProgress mirrors Step transitions onto stdout for interactive runs.
func printStepProgress(snap operations.StepSnapshot) {
	switch snap.Status {
	case operations.StepStatusActive:
		fmt.Printf("  %s...\n", snap.Name)
	case operations.StepStatusFailed:
		fmt.Printf("  %s failed: %s\n", snap.Name, snap.Error)
	case operations.StepStatusSkipped:
		fmt.Printf("  %s skipped (%s)\n", snap.Name, snap.Message)
	}
}

// logDiagnostics surfaces the per-file data quality counters.
func logDiagnostics(logger *slog.Logger, input string, result *domain.AnalysisResult) {
	d := result.Diagnostics
	logger.Info("File analysis finished",
		slog.String("input", input),
		slog.String("run_id", result.RunID),
		slog.Int("rows_total", d.RowsTotal),
		slog.Int("rows_dropped", d.RowsDropped),
		slog.Int("readings_resolved", d.ReadingsResolved),
		slog.Int("readings_dropped", d.ReadingsDropped),
		slog.Int("empty_series", d.EmptySeries))

	if d.RowsDropped > 0 || d.EmptySeries > 0 {
		fmt.Printf("  Warnings: %d rows dropped, %d empty series\n", d.RowsDropped, d.EmptySeries)
	}
}
