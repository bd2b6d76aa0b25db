package exporter

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"envcli/internal/config"
	"envcli/pkg/contracts/domain"
)

// ExcelExporter writes shaped analysis results into a single workbook
// with one sheet per indicator. Cell values stay numeric so spreadsheet
// users can keep computing on them.
type ExcelExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewExcelExporter creates an Excel exporter rooted at the configured
// report paths.
func NewExcelExporter(paths *config.Paths, logger *slog.Logger) *ExcelExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelExporter{paths: paths, logger: logger}
}

// Export writes the workbook "<baseName>.xlsx" and returns its path.
// Indicators without any results contribute no sheet; when nothing has
// results at all, no file is written and an empty path is returned.
func (e *ExcelExporter) Export(result *domain.AnalysisResult, baseName string) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheets := 0
	for _, indicator := range indicatorOrder(result) {
		columns := nonEmptySeries(result.SeriesFor(indicator))
		if len(columns) == 0 {
			continue
		}

		sheet := sheetName(indicator)
		if sheets == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return "", fmt.Errorf("failed to name sheet %s: %w", sheet, err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return "", fmt.Errorf("failed to add sheet %s: %w", sheet, err)
			}
		}
		sheets++

		if err := writeSheet(f, sheet, columns); err != nil {
			return "", err
		}
	}

	if sheets == 0 {
		e.logger.Warn("no results to export, skipping workbook")
		return "", nil
	}

	path := e.resolvePath(baseName + ".xlsx")
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("exported workbook",
		slog.String("path", path),
		slog.Int("sheets", sheets))
	return path, nil
}

// writeSheet fills one indicator sheet: a header row, then one row per
// date over the union of the column series. Values are written as raw
// numbers; cells without a value stay blank.
func writeSheet(f *excelize.File, sheet string, columns []domain.ShapedSeries) error {
	header := make([]interface{}, 0, len(columns)+1)
	header = append(header, "date")
	for _, s := range columns {
		header = append(header, string(s.Method))
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header on %s: %w", sheet, err)
	}

	dates, values := joinColumns(columns)
	for i, date := range dates {
		row := make([]interface{}, len(columns)+1)
		row[0] = formatDate(date)
		for j := range columns {
			if v, ok := values[j][date.Unix()]; ok {
				row[j+1] = v
			}
		}

		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to address row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d on %s: %w", i+2, sheet, err)
		}
	}

	return nil
}

// invalidSheetChars are forbidden in Excel sheet names.
var invalidSheetChars = strings.NewReplacer(
	":", "_", "\\", "_", "/", "_", "?", "_", "*", "_", "[", "_", "]", "_",
)

// sheetName makes an indicator name safe as a sheet name. Excel caps
// sheet names at 31 characters.
func sheetName(indicator string) string {
	name := invalidSheetChars.Replace(indicator)
	if runes := []rune(name); len(runes) > 31 {
		name = string(runes[:31])
	}
	if name == "" {
		name = "series"
	}
	return name
}

func (e *ExcelExporter) resolvePath(name string) string {
	if filepath.IsAbs(name) || e.paths == nil {
		return name
	}
	return e.paths.GetReportPath(name)
}
