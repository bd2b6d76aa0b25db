package dataset

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "envcli/internal/errors"
)

// LoadExcel reads an Excel workbook into a Table. Workbooks from
// logger vendors often carry extra sheets (charts, metadata), so the
// loader picks the first sheet whose content yields a usable column
// map and falls back to the first non-empty sheet.
func LoadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open Excel file", err).
			WithContext("path", path)
	}
	defer f.Close()

	var fallback *Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("failed to read sheet %s in %s", sheet, path), err)
		}

		t := tableFromSheet(path, rows)
		if t == nil {
			continue
		}
		if _, err := DetectColumns(t); err == nil {
			return t, nil
		}
		if fallback == nil {
			fallback = t
		}
	}

	if fallback != nil {
		return fallback, nil
	}
	return nil, apperrors.NewMalformedInputError(
		fmt.Sprintf("workbook %s contains no data sheets", path), nil)
}

// tableFromSheet converts raw sheet rows into a Table, skipping blank
// rows. Returns nil when the sheet holds no header.
func tableFromSheet(path string, rows [][]string) *Table {
	t := &Table{Source: path}
	for _, row := range rows {
		if isBlankRecord(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	if t.Header == nil {
		return nil
	}
	return t
}

// Load dispatches on file extension: .csv goes through the CSV loader,
// .xlsx/.xlsm/.xls through the Excel loader.
func Load(path string) (*Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return LoadCSV(path)
	case ".xlsx", ".xlsm", ".xls":
		return LoadExcel(path)
	default:
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("unsupported file type: %s", filepath.Ext(path)), nil)
	}
}
