package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "envcli/internal/errors"
)

// LoadCSV reads a CSV export into a Table. The first record is the
// header. A UTF-8 byte order mark is tolerated, rows may be ragged, and
// fully empty records are skipped.
func LoadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open CSV file", err).
			WithContext("path", path)
	}
	defer f.Close()

	t, err := readCSV(f)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read CSV file %s", path), err)
	}
	t.Source = path
	return t, nil
}

func readCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var t Table
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if isBlankRecord(record) {
			continue
		}
		if t.Header == nil {
			record[0] = strings.TrimPrefix(record[0], "\ufeff")
			t.Header = record
			continue
		}
		t.Rows = append(t.Rows, record)
	}

	if t.Header == nil {
		return nil, fmt.Errorf("file contains no records")
	}
	return &t, nil
}

func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
