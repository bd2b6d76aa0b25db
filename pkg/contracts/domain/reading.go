package domain

import (
	"time"
)

// Reading represents a single observation in one indicator series.
// Timestamps are timezone-naive wall clock instants carried in UTC.
type Reading struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
	Missing   bool      `json:"missing,omitempty"`
}

// Series represents one indicator's observations. After normalization the
// readings are strictly increasing by timestamp with no duplicates.
type Series struct {
	Indicator string    `json:"indicator" validate:"required"`
	Readings  []Reading `json:"readings"`
}

// Len returns the number of readings in the series.
func (s Series) Len() int {
	return len(s.Readings)
}

// MissingCount returns how many readings are still marked missing.
func (s Series) MissingCount() int {
	count := 0
	for _, r := range s.Readings {
		if r.Missing {
			count++
		}
	}
	return count
}

// DayBucket groups one indicator's readings for a single calendar day.
// Daytime and Nighttime are disjoint subsets whose union is Readings.
type DayBucket struct {
	Date      time.Time `json:"date"`
	Indicator string    `json:"indicator"`
	Readings  []Reading `json:"readings"`
	Daytime   []Reading `json:"daytime"`
	Nighttime []Reading `json:"nighttime"`
}
