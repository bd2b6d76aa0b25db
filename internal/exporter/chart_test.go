package exporter

import (
	"image/png"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envcli/pkg/contracts/domain"
)

func TestChartExporterExport(t *testing.T) {
	paths := testPaths(t)
	e := NewChartExporter(paths, 640, 360, nil)

	written, err := e.Export(sampleResult(), "analysis")
	require.NoError(t, err)
	require.Len(t, written, 2)
	assert.Equal(t, paths.GetChartPath("analysis_temperature.png"), written[0])
	assert.Equal(t, paths.GetChartPath("analysis_humidity.png"), written[1])

	f, err := os.Open(written[0])
	require.NoError(t, err)
	defer f.Close()

	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 360, img.Bounds().Dy())
}

func TestChartExporterSkipsEmptyIndicators(t *testing.T) {
	paths := testPaths(t)
	e := NewChartExporter(paths, 640, 360, nil)

	written, err := e.Export(&domain.AnalysisResult{Series: []domain.ShapedSeries{
		{Indicator: "temperature", Method: domain.MethodDailyMean},
	}}, "analysis")
	require.NoError(t, err)
	assert.Empty(t, written)
}

func TestRenderChartDrawsSeries(t *testing.T) {
	columns := nonEmptySeries(sampleResult().SeriesFor("temperature"))
	img := renderChart(columns, "temperature", 640, 360)

	// The first series polyline uses the first palette color.
	found := 0
	want := seriesPalette[0]
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.RGBAAt(x, y) == want {
				found++
			}
		}
	}
	assert.Greater(t, found, 50, "expected polyline pixels in the first palette color")

	// Corners stay background.
	assert.Equal(t, chartBackground, img.RGBAAt(0, 0))
	assert.Equal(t, chartBackground, img.RGBAAt(b.Max.X-1, b.Max.Y-1))
}

func TestRenderChartSinglePoint(t *testing.T) {
	columns := []domain.ShapedSeries{{
		Indicator:  "humidity",
		Method:     domain.MethodDailyMean,
		Points:     []domain.Point{{Date: day(15), Value: 55}},
		TickStride: 1,
	}}

	img := renderChart(columns, "humidity", 400, 300)
	assert.Equal(t, 400, img.Bounds().Dx())
}
