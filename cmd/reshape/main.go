package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"envcli/internal/config"
	"envcli/internal/dataset"
	"envcli/internal/exporter"
	"envcli/internal/infrastructure"
	"envcli/internal/validation"
)

func main() {
	in := flag.String("in", "", "input file (.csv/.xlsx) with one row per group and run")
	out := flag.String("out", "", "output file path (defaults to <input>_reshaped.<ext> next to the input)")
	metrics := flag.String("metrics", "", "comma-separated metric columns to keep (empty = every non-key column)")
	format := flag.String("format", "", "output format: csv | excel (defaults to the output extension)")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "reshape: -in is required")
		flag.Usage()
		os.Exit(2)
	}

	// Initialize paths first so the log file lands in the standard tree.
	paths, err := config.GetPaths()
	if err != nil {
		slog.Error("Failed to initialize paths", "error", err)
		os.Exit(1)
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
	cfg.Logging.FilePath = paths.GetLogPath("reshape.log")

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	outFormat, outPath, err := resolveOutput(*in, *out, *format)
	if err != nil {
		logger.Error("Invalid output options", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	logger.Info("Starting table reshape",
		slog.String("input", *in),
		slog.String("output", outPath),
		slog.String("format", outFormat),
		slog.String("executable_dir", paths.ExecutableDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateTabularFile(*in); err != nil {
		logger.Error("Input rejected", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	table, err := dataset.Load(*in)
	if err != nil {
		logger.Error("Failed to load input",
			slog.String("path", *in),
			slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %d rows from %s\n", table.RowCount(), filepath.Base(*in))

	result, err := dataset.Reshape(table, splitList(*metrics))
	if err != nil {
		logger.Error("Reshape failed", slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	outDir := filepath.Dir(outPath)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		logger.Error("Cannot create output directory",
			slog.String("path", outDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	switch outFormat {
	case "csv":
		err = exporter.NewCSVWriter(nil).WriteSimpleCSV(outPath, result.Table.Header, result.Table.Rows)
	case "excel":
		err = writeExcel(outPath, result.Table)
	}
	if err != nil {
		logger.Error("Failed to write output",
			slog.String("path", outPath),
			slog.String("error", err.Error()))
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	logger.Info("Reshape completed",
		slog.Int("groups", result.Groups),
		slog.Int("metrics", len(result.Metrics)),
		slog.Int("max_runs", result.MaxRuns),
		slog.String("output_path", outPath))

	fmt.Printf("Reshape complete: %d groups, %d metrics x %d runs -> %s\n",
		result.Groups, len(result.Metrics), result.MaxRuns, outPath)
}

// resolveOutput settles the output format and path from whichever of the
// two flags were given. The format follows an explicit -format first, then
// the -out extension, then defaults to csv.
func resolveOutput(in, out, format string) (string, string, error) {
	if format == "" {
		switch strings.ToLower(filepath.Ext(out)) {
		case ".xlsx":
			format = "excel"
		default:
			format = "csv"
		}
	}

	var ext string
	switch strings.ToLower(format) {
	case "csv":
		format, ext = "csv", ".csv"
	case "excel", "xlsx":
		format, ext = "excel", ".xlsx"
	default:
		return "", "", fmt.Errorf("unknown output format %q (want csv or excel)", format)
	}

	if out == "" {
		out = filepath.Join(filepath.Dir(in), dataset.ReshapedName(in, ext))
	}
	return format, out, nil
}

// writeExcel saves the reshaped table as a single-sheet workbook with raw
// string cells.
func writeExcel(path string, t *dataset.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	header := make([]interface{}, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range t.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
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
