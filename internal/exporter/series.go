package exporter

import (
	"fmt"
	"log/slog"
	"sort"
	"time"

	"envcli/internal/config"
	"envcli/pkg/contracts/domain"
)

// SeriesExporter writes shaped analysis results as spreadsheet-friendly
// CSV files, one file per indicator with a date column plus one column
// per statistic.
type SeriesExporter struct {
	csvWriter *CSVWriter
	logger    *slog.Logger
}

// NewSeriesExporter creates a series exporter rooted at the configured
// report paths.
func NewSeriesExporter(paths *config.Paths, logger *slog.Logger) *SeriesExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeriesExporter{
		csvWriter: NewCSVWriter(paths),
		logger:    logger,
	}
}

// ExportCSV writes one CSV file per indicator present in the result and
// returns the written paths. Indicators whose series are all empty are
// skipped. Dates with no value for a given statistic leave that cell
// empty; zeros are never fabricated.
func (e *SeriesExporter) ExportCSV(result *domain.AnalysisResult, baseName string) ([]string, error) {
	var written []string

	for _, indicator := range indicatorOrder(result) {
		columns := nonEmptySeries(result.SeriesFor(indicator))
		if len(columns) == 0 {
			e.logger.Warn("skipping indicator with no results", slog.String("indicator", indicator))
			continue
		}

		header := make([]string, 0, len(columns)+1)
		header = append(header, "date")
		for _, s := range columns {
			header = append(header, string(s.Method))
		}

		records := buildRecords(columns)
		name := fmt.Sprintf("%s_%s.csv", baseName, indicator)
		if err := e.csvWriter.WriteSimpleCSV(name, header, records); err != nil {
			return written, fmt.Errorf("failed to export %s: %w", indicator, err)
		}

		written = append(written, e.csvWriter.resolvePath(name))
		e.logger.Info("exported indicator CSV",
			slog.String("indicator", indicator),
			slog.Int("rows", len(records)))
	}

	return written, nil
}

// indicatorOrder returns the result's indicators in first-appearance
// order, which follows the analysis request.
func indicatorOrder(result *domain.AnalysisResult) []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range result.Series {
		if !seen[s.Indicator] {
			seen[s.Indicator] = true
			out = append(out, s.Indicator)
		}
	}
	return out
}

// nonEmptySeries filters out series without points.
func nonEmptySeries(series []domain.ShapedSeries) []domain.ShapedSeries {
	var out []domain.ShapedSeries
	for _, s := range series {
		if s.Len() > 0 {
			out = append(out, s)
		}
	}
	return out
}

// joinColumns aligns the series columns over the sorted union of their
// dates. The second return value holds one date-keyed value map per
// column, keyed by unix seconds.
func joinColumns(columns []domain.ShapedSeries) ([]time.Time, []map[int64]float64) {
	dateSet := make(map[int64]time.Time)
	values := make([]map[int64]float64, len(columns))
	for i, s := range columns {
		values[i] = make(map[int64]float64, s.Len())
		for _, p := range s.Points {
			key := p.Date.Unix()
			dateSet[key] = p.Date
			values[i][key] = p.Value
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for _, d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	return dates, values
}

// buildRecords joins the series columns into CSV records.
func buildRecords(columns []domain.ShapedSeries) [][]string {
	dates, values := joinColumns(columns)

	records := make([][]string, 0, len(dates))
	for _, date := range dates {
		record := make([]string, 0, len(columns)+1)
		record = append(record, formatDate(date))
		for i := range columns {
			if v, ok := values[i][date.Unix()]; ok {
				record = append(record, formatFloat(v))
			} else {
				record = append(record, "")
			}
		}
		records = append(records, record)
	}

	return records
}
