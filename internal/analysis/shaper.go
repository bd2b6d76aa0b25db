package analysis

import (
	"sort"

	"envcli/pkg/contracts/domain"
)

// Shaper projects aggregated statistics into chart-ready series.
type Shaper struct {
	tickTarget int
}

// NewShaper creates a shaper aiming for the given number of axis
// labels. Targets at or below zero fall back to the default.
func NewShaper(tickTarget int) *Shaper {
	if tickTarget <= 0 {
		tickTarget = domain.DefaultTickTarget
	}
	return &Shaper{tickTarget: tickTarget}
}

// TickStride returns how many points sit between labeled ticks for a
// series of length n: ceil(n/target), never below 1. The stride only
// thins labels; every point stays in the series.
func TickStride(n, target int) int {
	if n <= 0 || target <= 0 {
		return 1
	}
	stride := (n + target - 1) / target
	if stride < 1 {
		stride = 1
	}
	return stride
}

type seriesKey struct {
	indicator string
	method    domain.Method
}

// Shape orders and filters statistics into one ShapedSeries per
// requested (indicator, method) pair. Pair order follows the request:
// indicators outermost, methods within. Points are sorted ascending by
// date and restricted to the date range when one is set. Pairs that end
// up with no points still appear, carrying an empty point list.
func (s *Shaper) Shape(stats []domain.StatResult, indicators []string, methods []domain.Method, rng domain.DateRange) []domain.ShapedSeries {
	points := make(map[seriesKey][]domain.Point)
	for _, st := range stats {
		if !rng.IsZero() && !rng.Contains(st.Date) {
			continue
		}
		key := seriesKey{indicator: st.Indicator, method: st.Method}
		points[key] = append(points[key], domain.Point{Date: st.Date, Value: st.Value})
	}

	out := make([]domain.ShapedSeries, 0, len(indicators)*len(methods))
	for _, indicator := range indicators {
		for _, method := range methods {
			pts := points[seriesKey{indicator: indicator, method: method}]
			sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
			out = append(out, domain.ShapedSeries{
				Indicator:  indicator,
				Method:     method,
				Points:     pts,
				TickStride: TickStride(len(pts), s.tickTarget),
			})
		}
	}

	return out
}
