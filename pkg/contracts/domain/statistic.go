package domain

import (
	"time"
)

// Method identifies a per-day statistic computed over an indicator series.
type Method string

const (
	MethodDailyMax      Method = "daily_max"
	MethodDailyMin      Method = "daily_min"
	MethodDailyMean     Method = "daily_mean"
	MethodDaytimeMean   Method = "daytime_mean"
	MethodNighttimeMean Method = "nighttime_mean"
)

// AllMethods returns every supported statistic method in canonical order.
func AllMethods() []Method {
	return []Method{
		MethodDailyMax,
		MethodDailyMin,
		MethodDailyMean,
		MethodDaytimeMean,
		MethodNighttimeMean,
	}
}

// Valid reports whether m is a supported method.
func (m Method) Valid() bool {
	switch m {
	case MethodDailyMax, MethodDailyMin, MethodDailyMean, MethodDaytimeMean, MethodNighttimeMean:
		return true
	}
	return false
}

// Band classifies an instant as daytime or nighttime.
// Daytime covers hours 06:00-17:59, nighttime covers 18:00-05:59.
type Band string

const (
	BandDay   Band = "day"
	BandNight Band = "night"
)

// StatResult is one computed statistic for one (date, indicator, method)
// combination. Results exist only where the backing day bucket (or its band
// subset for the band means) holds at least one reading.
type StatResult struct {
	Date      time.Time `json:"date"`
	Indicator string    `json:"indicator"`
	Method    Method    `json:"method"`
	Value     float64   `json:"value"`
}

// Point is a single dated value inside a shaped series.
type Point struct {
	Date  time.Time `json:"date"`
	Value float64   `json:"value"`
}

// ShapedSeries is the chart-ready projection of one (indicator, method)
// result set: points ordered ascending by date, with a tick stride hint for
// axis labeling. All points are preserved; the stride only tells renderers
// to label every stride-th point.
type ShapedSeries struct {
	Indicator  string  `json:"indicator"`
	Method     Method  `json:"method"`
	Points     []Point `json:"points"`
	TickStride int     `json:"tick_stride"`
}

// Len returns the number of points in the shaped series.
func (s ShapedSeries) Len() int {
	return len(s.Points)
}
