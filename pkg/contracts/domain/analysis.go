package domain

import (
	"sort"
	"time"
)

// MissingStrategy selects how unresolved readings are handled before
// aggregation.
type MissingStrategy string

const (
	// StrategyDrop removes missing readings from the series.
	StrategyDrop MissingStrategy = "drop"
	// StrategyConstant replaces missing readings with a configured constant.
	StrategyConstant MissingStrategy = "constant"
	// StrategyCarry replaces missing readings with the nearest preceding
	// non-missing value. Leading missings with no anchor are dropped.
	StrategyCarry MissingStrategy = "carry"
	// StrategyInterpolate fills interior missings linearly by elapsed time
	// between the surrounding non-missing values. Boundary missings are
	// dropped.
	StrategyInterpolate MissingStrategy = "interpolate"
)

// Valid reports whether s is a supported strategy.
func (s MissingStrategy) Valid() bool {
	switch s {
	case StrategyDrop, StrategyConstant, StrategyCarry, StrategyInterpolate:
		return true
	}
	return false
}

// DateRange bounds shaped output to [From, To] inclusive on calendar dates.
// A zero bound leaves that side open.
type DateRange struct {
	From time.Time `json:"from,omitempty"`
	To   time.Time `json:"to,omitempty"`
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// Contains reports whether the given date falls inside the range.
func (r DateRange) Contains(t time.Time) bool {
	if !r.From.IsZero() && t.Before(r.From) {
		return false
	}
	if !r.To.IsZero() && t.After(r.To) {
		return false
	}
	return true
}

// AnalysisRequest is the immutable description of one analysis run.
// Indicators left empty means "every indicator detected in the input".
type AnalysisRequest struct {
	Indicators      []string        `json:"indicators" validate:"omitempty,dive,min=1"`
	Methods         []Method        `json:"methods" validate:"required,min=1,dive,oneof=daily_max daily_min daily_mean daytime_mean nighttime_mean"`
	MissingStrategy MissingStrategy `json:"missing_strategy" validate:"required,oneof=drop constant carry interpolate"`
	FillValue       float64         `json:"fill_value"`
	DateRange       DateRange       `json:"date_range"`
	TickTarget      int             `json:"tick_target" validate:"min=0,max=10000"`
}

// DefaultTickTarget is used when a request leaves TickTarget at zero.
const DefaultTickTarget = 20

// EffectiveTickTarget returns the tick target to use for shaping.
func (r AnalysisRequest) EffectiveTickTarget() int {
	if r.TickTarget <= 0 {
		return DefaultTickTarget
	}
	return r.TickTarget
}

// Diagnostics carries the non-fatal warning counters accumulated during a
// run. Counts surface data quality issues; they never fail the run.
type Diagnostics struct {
	RowsTotal        int `json:"rows_total"`
	RowsDropped      int `json:"rows_dropped"`
	ReadingsResolved int `json:"readings_resolved"`
	ReadingsDropped  int `json:"readings_dropped"`
	EmptySeries      int `json:"empty_series"`
}

// Merge accumulates another diagnostics set into d.
func (d *Diagnostics) Merge(other Diagnostics) {
	d.RowsTotal += other.RowsTotal
	d.RowsDropped += other.RowsDropped
	d.ReadingsResolved += other.ReadingsResolved
	d.ReadingsDropped += other.ReadingsDropped
	d.EmptySeries += other.EmptySeries
}

// AnalysisResult is the complete output of one analysis run.
type AnalysisResult struct {
	RunID       string         `json:"run_id"`
	GeneratedAt time.Time      `json:"generated_at"`
	Duration    time.Duration  `json:"duration"`
	Series      []ShapedSeries `json:"series"`
	Diagnostics Diagnostics    `json:"diagnostics"`
}

// SeriesFor returns every shaped series belonging to the given indicator,
// in method order as produced.
func (r *AnalysisResult) SeriesFor(indicator string) []ShapedSeries {
	var out []ShapedSeries
	for _, s := range r.Series {
		if s.Indicator == indicator {
			out = append(out, s)
		}
	}
	return out
}

// Indicators returns the sorted set of indicators present in the result.
func (r *AnalysisResult) Indicators() []string {
	seen := make(map[string]bool)
	var out []string
	for _, s := range r.Series {
		if !seen[s.Indicator] {
			seen[s.Indicator] = true
			out = append(out, s.Indicator)
		}
	}
	sort.Strings(out)
	return out
}
