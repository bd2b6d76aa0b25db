package exporter

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"envcli/internal/config"
	"envcli/pkg/contracts/domain"
)

// Chart geometry and palette. Colors follow the common matplotlib
// cycle so charts read familiarly next to notebook plots.
var (
	chartBackground = color.RGBA{255, 255, 255, 255}
	gridColor       = color.RGBA{229, 229, 229, 255}
	axisColor       = color.RGBA{51, 51, 51, 255}
	textColor       = color.RGBA{33, 33, 33, 255}
	legendBorder    = color.RGBA{180, 180, 180, 255}

	seriesPalette = []color.RGBA{
		{31, 119, 180, 255},  // blue
		{255, 127, 14, 255},  // orange
		{44, 160, 44, 255},   // green
		{214, 39, 40, 255},   // red
		{148, 103, 189, 255}, // purple
	}
)

const (
	marginLeft   = 80
	marginRight  = 30
	marginTop    = 50
	marginBottom = 60

	legendRowHeight = 16
	yTickCount      = 5
)

// ChartExporter renders shaped analysis results as PNG line charts, one
// chart per indicator with one polyline per statistic.
type ChartExporter struct {
	paths  *config.Paths
	width  int
	height int
	logger *slog.Logger
}

// NewChartExporter creates a chart exporter with the given canvas size.
// Non-positive dimensions fall back to the defaults.
func NewChartExporter(paths *config.Paths, width, height int, logger *slog.Logger) *ChartExporter {
	if width <= 0 {
		width = 1440
	}
	if height <= 0 {
		height = 720
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ChartExporter{paths: paths, width: width, height: height, logger: logger}
}

// Export renders "<baseName>_<indicator>.png" for every indicator with
// results and returns the written paths.
func (e *ChartExporter) Export(result *domain.AnalysisResult, baseName string) ([]string, error) {
	var written []string

	for _, indicator := range indicatorOrder(result) {
		columns := nonEmptySeries(result.SeriesFor(indicator))
		if len(columns) == 0 {
			e.logger.Warn("skipping chart with no results", slog.String("indicator", indicator))
			continue
		}

		img := renderChart(columns, indicator, e.width, e.height)

		path := e.resolvePath(fmt.Sprintf("%s_%s.png", baseName, indicator))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return written, fmt.Errorf("failed to create chart directory: %w", err)
		}
		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("failed to create chart file: %w", err)
		}
		if err := png.Encode(f, img); err != nil {
			f.Close()
			return written, fmt.Errorf("failed to encode chart: %w", err)
		}
		if err := f.Close(); err != nil {
			return written, fmt.Errorf("failed to close chart file: %w", err)
		}

		written = append(written, path)
		e.logger.Info("exported chart",
			slog.String("indicator", indicator),
			slog.String("path", path))
	}

	return written, nil
}

func (e *ChartExporter) resolvePath(name string) string {
	if filepath.IsAbs(name) || e.paths == nil {
		return name
	}
	return e.paths.GetChartPath(name)
}

// renderChart draws the full chart for one indicator.
func renderChart(columns []domain.ShapedSeries, title string, width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fillRect(img, img.Bounds(), chartBackground)

	plot := image.Rect(marginLeft, marginTop, width-marginRight, height-marginBottom)
	dates, values := joinColumns(columns)
	minV, maxV := valueBounds(values)

	xAt := func(i int) int {
		if len(dates) == 1 {
			return plot.Min.X + plot.Dx()/2
		}
		return plot.Min.X + i*(plot.Dx()-1)/(len(dates)-1)
	}
	yAt := func(v float64) int {
		frac := (v - minV) / (maxV - minV)
		return plot.Max.Y - 1 - int(math.Round(frac*float64(plot.Dy()-1)))
	}
	xIndex := make(map[int64]int, len(dates))
	for i, d := range dates {
		xIndex[d.Unix()] = i
	}

	stride := labelStride(columns)
	drawGrid(img, plot, dates, xAt, minV, maxV, yAt, stride)
	drawAxes(img, plot)

	for i, s := range columns {
		col := seriesPalette[i%len(seriesPalette)]
		drawSeries(img, s, col, i, xAt, yAt, xIndex)
	}

	drawXTickLabels(img, plot, dates, xAt, stride)
	drawYTickLabels(img, plot, minV, maxV, yAt)
	drawLegend(img, plot, columns)
	drawTitle(img, width, title)

	return img
}

// valueBounds pads the observed value range so lines never sit on the
// plot border. A flat series still gets a visible band.
func valueBounds(values []map[int64]float64) (float64, float64) {
	minV, maxV := math.Inf(1), math.Inf(-1)
	for _, column := range values {
		for _, v := range column {
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	if math.IsInf(minV, 1) {
		return 0, 1
	}

	pad := (maxV - minV) * 0.05
	if pad == 0 {
		pad = 1
	}
	return minV - pad, maxV + pad
}

// labelStride picks the tick stride for the shared x-axis: the largest
// stride any drawn series asks for.
func labelStride(columns []domain.ShapedSeries) int {
	stride := 1
	for _, s := range columns {
		if s.TickStride > stride {
			stride = s.TickStride
		}
	}
	return stride
}

func drawGrid(img *image.RGBA, plot image.Rectangle, dates []time.Time, xAt func(int) int, minV, maxV float64, yAt func(float64) int, stride int) {
	for i := 0; i < yTickCount; i++ {
		v := minV + float64(i)*(maxV-minV)/float64(yTickCount-1)
		y := yAt(v)
		drawLine(img, plot.Min.X, y, plot.Max.X-1, y, gridColor)
	}
	for i := 0; i < len(dates); i += stride {
		x := xAt(i)
		drawLine(img, x, plot.Min.Y, x, plot.Max.Y-1, gridColor)
	}
}

func drawAxes(img *image.RGBA, plot image.Rectangle) {
	drawLine(img, plot.Min.X, plot.Min.Y, plot.Min.X, plot.Max.Y-1, axisColor)
	drawLine(img, plot.Min.X, plot.Max.Y-1, plot.Max.X-1, plot.Max.Y-1, axisColor)
}

// drawSeries draws one statistic's polyline and point markers.
func drawSeries(img *image.RGBA, s domain.ShapedSeries, col color.RGBA, shape int, xAt func(int) int, yAt func(float64) int, xIndex map[int64]int) {
	prevX, prevY := 0, 0
	havePrev := false
	for _, p := range s.Points {
		idx, ok := xIndex[p.Date.Unix()]
		if !ok {
			continue
		}
		x, y := xAt(idx), yAt(p.Value)
		if havePrev {
			drawThickLine(img, prevX, prevY, x, y, col)
		}
		drawMarker(img, x, y, shape, col)
		prevX, prevY, havePrev = x, y, true
	}
}

func drawXTickLabels(img *image.RGBA, plot image.Rectangle, dates []time.Time, xAt func(int) int, stride int) {
	for i := 0; i < len(dates); i += stride {
		x := xAt(i)
		drawLine(img, x, plot.Max.Y-1, x, plot.Max.Y+4, axisColor)

		label := formatTickDate(dates[i])
		w := textWidth(label)
		drawText(img, x-w/2, plot.Max.Y+18, label, textColor)
	}
}

func drawYTickLabels(img *image.RGBA, plot image.Rectangle, minV, maxV float64, yAt func(float64) int) {
	for i := 0; i < yTickCount; i++ {
		v := minV + float64(i)*(maxV-minV)/float64(yTickCount-1)
		y := yAt(v)
		drawLine(img, plot.Min.X-4, y, plot.Min.X, y, axisColor)

		label := formatAxisValue(v)
		drawText(img, plot.Min.X-8-textWidth(label), y+4, label, textColor)
	}
}

// drawLegend paints the method key in the upper-left corner of the plot.
func drawLegend(img *image.RGBA, plot image.Rectangle, columns []domain.ShapedSeries) {
	maxLabel := 0
	for _, s := range columns {
		if w := textWidth(string(s.Method)); w > maxLabel {
			maxLabel = w
		}
	}

	box := image.Rect(
		plot.Min.X+8, plot.Min.Y+8,
		plot.Min.X+8+30+maxLabel+10, plot.Min.Y+8+len(columns)*legendRowHeight+8,
	)
	fillRect(img, box, chartBackground)
	drawRectOutline(img, box, legendBorder)

	for i, s := range columns {
		col := seriesPalette[i%len(seriesPalette)]
		rowY := box.Min.Y + 6 + i*legendRowHeight + legendRowHeight/2

		drawThickLine(img, box.Min.X+6, rowY, box.Min.X+24, rowY, col)
		drawMarker(img, box.Min.X+15, rowY, i, col)
		drawText(img, box.Min.X+30, rowY+4, string(s.Method), textColor)
	}
}

func drawTitle(img *image.RGBA, width int, title string) {
	w := textWidth(title)
	drawText(img, (width-w)/2, marginTop/2+5, title, textColor)
}

// Raster primitives.

func setPixel(img *image.RGBA, x, y int, col color.RGBA) {
	if image.Pt(x, y).In(img.Bounds()) {
		img.SetRGBA(x, y, col)
	}
}

func fillRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, col)
		}
	}
}

func drawRectOutline(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	drawLine(img, r.Min.X, r.Min.Y, r.Max.X-1, r.Min.Y, col)
	drawLine(img, r.Min.X, r.Max.Y-1, r.Max.X-1, r.Max.Y-1, col)
	drawLine(img, r.Min.X, r.Min.Y, r.Min.X, r.Max.Y-1, col)
	drawLine(img, r.Max.X-1, r.Min.Y, r.Max.X-1, r.Max.Y-1, col)
}

// drawLine rasterizes a line with the Bresenham algorithm.
func drawLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy

	for {
		setPixel(img, x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// drawThickLine draws a 2px-wide line.
func drawThickLine(img *image.RGBA, x0, y0, x1, y1 int, col color.RGBA) {
	drawLine(img, x0, y0, x1, y1, col)
	drawLine(img, x0, y0+1, x1, y1+1, col)
	drawLine(img, x0+1, y0, x1+1, y1, col)
}

// drawMarker draws a point marker. The shape cycles with the series
// index: disc, square, triangle, diamond.
func drawMarker(img *image.RGBA, cx, cy, shape int, col color.RGBA) {
	const r = 3
	switch shape % 4 {
	case 0: // disc
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if dx*dx+dy*dy <= r*r {
					setPixel(img, cx+dx, cy+dy, col)
				}
			}
		}
	case 1: // square
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				setPixel(img, cx+dx, cy+dy, col)
			}
		}
	case 2: // triangle
		for dy := -r; dy <= r; dy++ {
			hw := (dy + r) / 2
			for dx := -hw; dx <= hw; dx++ {
				setPixel(img, cx+dx, cy+dy, col)
			}
		}
	case 3: // diamond
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				if abs(dx)+abs(dy) <= r {
					setPixel(img, cx+dx, cy+dy, col)
				}
			}
		}
	}
}

func drawText(img *image.RGBA, x, y int, s string, col color.RGBA) {
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
