package analysis

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"envcli/internal/dataset"
	apperrors "envcli/internal/errors"
	"envcli/pkg/contracts/domain"
)

// Row is a table row whose timestamp cell parsed successfully. Index
// points back into the source table.
type Row struct {
	Instant time.Time
	Index   int
}

// Normalizer turns raw table rows into clean indicator series.
type Normalizer struct {
	logger *slog.Logger
}

// NewNormalizer creates a normalizer. A nil logger falls back to the
// default logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Normalizer{logger: logger}
}

// ParseRows parses the timestamp cell of every data row. Rows whose
// timestamp does not parse are dropped and counted; a table where not a
// single timestamp parses fails with a malformed-input error.
func (n *Normalizer) ParseRows(table *dataset.Table, columns *dataset.ColumnMap) ([]Row, domain.Diagnostics, error) {
	diag := domain.Diagnostics{RowsTotal: table.RowCount()}

	rows := make([]Row, 0, table.RowCount())
	for i := 0; i < table.RowCount(); i++ {
		raw := table.Cell(i, columns.Timestamp)
		instant, err := dataset.ParseTimestampCell(raw)
		if err != nil {
			diag.RowsDropped++
			n.logger.Debug("dropping row with unparseable timestamp",
				slog.Int("row", i+1),
				slog.String("cell", raw))
			continue
		}
		rows = append(rows, Row{Instant: instant, Index: i})
	}

	if len(rows) == 0 {
		return nil, diag, apperrors.NewMalformedInputError(
			fmt.Sprintf("no parseable timestamps in %d rows", table.RowCount()), nil).
			WithContext("source", table.Source)
	}

	if diag.RowsDropped > 0 {
		n.logger.Warn("dropped rows with unparseable timestamps",
			slog.Int("dropped", diag.RowsDropped),
			slog.Int("total", diag.RowsTotal))
	}

	return rows, diag, nil
}

// SeriesFor builds one indicator's series from the parsed rows: values
// are read from the indicator's column, duplicate timestamps collapse
// to the last occurrence in row order, and the result is sorted
// ascending. Cells that hold no usable number become missing readings.
func (n *Normalizer) SeriesFor(table *dataset.Table, rows []Row, indicator string, col int) domain.Series {
	byInstant := make(map[int64]domain.Reading, len(rows))
	for _, row := range rows {
		value, missing := parseValueCell(table.Cell(row.Index, col))
		byInstant[row.Instant.UnixNano()] = domain.Reading{
			Timestamp: row.Instant,
			Value:     value,
			Missing:   missing,
		}
	}

	keys := make([]int64, 0, len(byInstant))
	for k := range byInstant {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	readings := make([]domain.Reading, len(keys))
	for i, k := range keys {
		readings[i] = byInstant[k]
	}

	return domain.Series{Indicator: indicator, Readings: readings}
}

// missingTokens are the cell spellings that mean "no reading".
var missingTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
	"nil":  true,
	"-":    true,
	"--":   true,
}

// parseValueCell parses a value cell, treating recognized placeholders
// and unparseable text as missing. Thousands separators are tolerated.
func parseValueCell(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if missingTokens[strings.ToLower(s)] {
		return 0, true
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return 0, true
	}
	return v, false
}
