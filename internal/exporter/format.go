package exporter

import (
	"fmt"
	"time"
)

// formatFloat renders a statistic value for CSV output with exactly two
// decimal places, so 13.4 appears as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatDate renders a calendar date for export.
func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// formatAxisValue renders a y-axis tick label.
func formatAxisValue(f float64) string {
	return fmt.Sprintf("%.1f", f)
}

// formatTickDate renders an x-axis tick label, month-day only to keep
// the axis compact.
func formatTickDate(t time.Time) string {
	return t.Format("01-02")
}
