package analysis

import (
	"time"

	"envcli/pkg/contracts/domain"
)

// Daytime covers the clock hours [06:00, 18:00); everything else is
// nighttime. The nighttime of day D is D 18:00-23:59 together with
// D 00:00-05:59, so a night window spans readings of the same calendar
// date on both sides of midnight.
const (
	daytimeStartHour = 6
	daytimeEndHour   = 17
)

// BandFor classifies an instant into its day/night band.
func BandFor(t time.Time) domain.Band {
	h := t.Hour()
	if h >= daytimeStartHour && h <= daytimeEndHour {
		return domain.BandDay
	}
	return domain.BandNight
}

// DateOf truncates an instant to its calendar date at midnight UTC.
// Readings keep the date they were observed on; night readings after
// midnight belong to that new date.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Classify returns the calendar date and band of an instant.
func Classify(t time.Time) (time.Time, domain.Band) {
	return DateOf(t), BandFor(t)
}
