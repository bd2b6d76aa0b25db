package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCSV(t *testing.T) {
	content := "\ufeff时间,温度,湿度\n" +
		"2023-07-15 08:00:00,21.5,55\n" +
		"\n" +
		"2023-07-15 09:00:00,22.0\n" +
		",,\n" +
		"2023-07-15 10:00:00,22.4,57\n"

	path := writeTempCSV(t, "sensors.csv", content)
	table, err := LoadCSV(path)
	require.NoError(t, err)

	assert.Equal(t, path, table.Source)
	assert.Equal(t, []string{"时间", "温度", "湿度"}, table.Header)
	assert.Equal(t, 3, table.RowCount())

	// Ragged row: missing cell reads as empty.
	assert.Equal(t, "22.0", table.Cell(1, 1))
	assert.Equal(t, "", table.Cell(1, 2))
	assert.Equal(t, "", table.Cell(99, 0))
}

func TestLoadCSVErrors(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)

	path := writeTempCSV(t, "empty.csv", "")
	_, err = LoadCSV(path)
	assert.Error(t, err)
}

func TestLoadDispatch(t *testing.T) {
	path := writeTempCSV(t, "data.csv", "time,temp\n2023-07-15,21.0\n")
	table, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 1, table.RowCount())

	_, err = Load(filepath.Join(t.TempDir(), "data.txt"))
	assert.Error(t, err)
}
