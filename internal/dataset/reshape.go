package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "envcli/internal/errors"
)

// ReshapeResult is the outcome of a wide pivot.
type ReshapeResult struct {
	Table   *Table
	Groups  int
	Metrics []string
	// MaxRuns is the largest number of rows any group contributed,
	// which is also the number of repeats per metric column.
	MaxRuns int
}

// Reshape pivots a repeated-measurement table into one row per group.
// The first column is the group key; every remaining column (or the
// given metric subset) is a metric. Rows within a group are numbered in
// input order, and the output carries one column per metric and run,
// named "<metric>_<run>". Groups with fewer rows leave the trailing run
// cells empty.
func Reshape(t *Table, metrics []string) (*ReshapeResult, error) {
	if t == nil || t.ColumnCount() < 2 {
		return nil, apperrors.NewMalformedInputError(
			"reshape requires a group column and at least one metric column", nil)
	}

	metricCols, err := resolveMetricColumns(t, metrics)
	if err != nil {
		return nil, err
	}

	var keys []string
	rowsByKey := make(map[string][][]string)
	for row := 0; row < t.RowCount(); row++ {
		key := t.Cell(row, 0)
		if key == "" {
			continue
		}
		if _, seen := rowsByKey[key]; !seen {
			keys = append(keys, key)
		}
		values := make([]string, len(metricCols))
		for i, col := range metricCols {
			values[i] = t.Cell(row, col)
		}
		rowsByKey[key] = append(rowsByKey[key], values)
	}

	if len(keys) == 0 {
		return nil, apperrors.NewMalformedInputError("reshape input has no group keys", nil)
	}

	maxRuns := 0
	for _, rows := range rowsByKey {
		if len(rows) > maxRuns {
			maxRuns = len(rows)
		}
	}

	metricNames := make([]string, len(metricCols))
	header := []string{strings.TrimSpace(t.Header[0])}
	for i, col := range metricCols {
		metricNames[i] = strings.TrimSpace(t.Header[col])
		for run := 1; run <= maxRuns; run++ {
			header = append(header, fmt.Sprintf("%s_%d", metricNames[i], run))
		}
	}

	out := &Table{Source: t.Source, Header: header}
	for _, key := range keys {
		rows := rowsByKey[key]
		record := make([]string, 0, len(header))
		record = append(record, key)
		for i := range metricCols {
			for run := 0; run < maxRuns; run++ {
				if run < len(rows) {
					record = append(record, rows[run][i])
				} else {
					record = append(record, "")
				}
			}
		}
		out.Rows = append(out.Rows, record)
	}

	return &ReshapeResult{
		Table:   out,
		Groups:  len(keys),
		Metrics: metricNames,
		MaxRuns: maxRuns,
	}, nil
}

// resolveMetricColumns maps a metric subset onto column indexes, or
// returns every column after the group key when the subset is empty.
func resolveMetricColumns(t *Table, metrics []string) ([]int, error) {
	if len(metrics) == 0 {
		cols := make([]int, 0, t.ColumnCount()-1)
		for col := 1; col < t.ColumnCount(); col++ {
			cols = append(cols, col)
		}
		return cols, nil
	}

	cols := make([]int, 0, len(metrics))
	for _, want := range metrics {
		found := -1
		for col := 1; col < t.ColumnCount(); col++ {
			if cleanHeader(t.Header[col]) == cleanHeader(want) {
				found = col
				break
			}
		}
		if found < 0 {
			return nil, apperrors.NewValidationError(
				fmt.Sprintf("metric column %q not found", want), nil)
		}
		cols = append(cols, found)
	}
	return cols, nil
}

// ReshapedName derives the output file name for a reshaped table:
// "<input>_reshaped<ext>".
func ReshapedName(source, ext string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	if base == "" {
		base = "table"
	}
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return base + "_reshaped" + ext
}
