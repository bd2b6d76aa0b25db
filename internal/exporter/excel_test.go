package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"envcli/pkg/contracts/domain"
)

func TestExcelExporterExport(t *testing.T) {
	paths := testPaths(t)
	e := NewExcelExporter(paths, nil)

	path, err := e.Export(sampleResult(), "analysis")
	require.NoError(t, err)
	require.Equal(t, paths.GetReportPath("analysis.xlsx"), path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"temperature", "humidity"}, f.GetSheetList())

	get := func(sheet, cell string) string {
		v, err := f.GetCellValue(sheet, cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "date", get("temperature", "A1"))
	assert.Equal(t, "daily_mean", get("temperature", "B1"))
	assert.Equal(t, "daily_max", get("temperature", "C1"))
	assert.Equal(t, "2023-07-15", get("temperature", "A2"))
	assert.Equal(t, "21.456", get("temperature", "B2"))
	assert.Equal(t, "24", get("temperature", "C2"))
	// No daily max on the 16th: the cell stays empty.
	assert.Equal(t, "", get("temperature", "C3"))

	assert.Equal(t, "55", get("humidity", "B2"))
}

func TestExcelExporterEmptyResult(t *testing.T) {
	paths := testPaths(t)
	e := NewExcelExporter(paths, nil)

	path, err := e.Export(&domain.AnalysisResult{Series: []domain.ShapedSeries{
		{Indicator: "temperature", Method: domain.MethodDailyMean},
	}}, "analysis")
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "temperature", sheetName("temperature"))
	assert.Equal(t, "a_b", sheetName("a/b"))
	assert.Equal(t, "series", sheetName(""))
	long := "abcdefghijklmnopqrstuvwxyz0123456789"
	assert.Len(t, sheetName(long), 31)
}
