package dataset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeTempWorkbook(t *testing.T, sheets map[string][][]string, order []string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", sheet))
		} else {
			_, err := f.NewSheet(sheet)
			require.NoError(t, err)
		}
		for r, row := range sheets[sheet] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(sheet, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "sensors.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadExcelPicksDataSheet(t *testing.T) {
	path := writeTempWorkbook(t, map[string][][]string{
		"说明": {
			{"设备说明"},
			{"型号 TH-20"},
		},
		"数据": {
			{"时间", "温度", "湿度"},
			{"2023-07-15 08:00:00", "21.5", "55"},
			{"2023-07-15 09:00:00", "22.0", "56"},
		},
	}, []string{"说明", "数据"})

	table, err := LoadExcel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"时间", "温度", "湿度"}, table.Header)
	assert.Equal(t, 2, table.RowCount())
	assert.Equal(t, "21.5", table.Cell(0, 1))
}

func TestLoadExcelFallsBackToFirstNonEmptySheet(t *testing.T) {
	path := writeTempWorkbook(t, map[string][][]string{
		"notes": {
			{"only", "text"},
			{"no", "data"},
		},
	}, []string{"notes"})

	table, err := LoadExcel(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"only", "text"}, table.Header)
}

func TestLoadExcelMissingFile(t *testing.T) {
	_, err := LoadExcel(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
