package analysis

import (
	"log/slog"

	"envcli/pkg/contracts/domain"
)

// Aggregator buckets resolved series by calendar day and computes the
// requested per-day statistics.
type Aggregator struct {
	logger *slog.Logger
}

// NewAggregator creates an aggregator. A nil logger falls back to the
// default logger.
func NewAggregator(logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{logger: logger}
}

// BucketByDay splits a resolved series into per-day buckets in date
// order, classifying each reading into its daytime or nighttime subset.
// Readings still marked missing are ignored.
func (a *Aggregator) BucketByDay(s domain.Series) []domain.DayBucket {
	var buckets []domain.DayBucket

	for _, reading := range s.Readings {
		if reading.Missing {
			continue
		}
		date, band := Classify(reading.Timestamp)

		if len(buckets) == 0 || !buckets[len(buckets)-1].Date.Equal(date) {
			buckets = append(buckets, domain.DayBucket{Date: date, Indicator: s.Indicator})
		}
		b := &buckets[len(buckets)-1]

		b.Readings = append(b.Readings, reading)
		if band == domain.BandDay {
			b.Daytime = append(b.Daytime, reading)
		} else {
			b.Nighttime = append(b.Nighttime, reading)
		}
	}

	return buckets
}

// Aggregate computes the requested methods over each bucket. A method
// with no qualifying readings on a given day contributes no result for
// that day: values are never fabricated for empty buckets or empty band
// subsets.
func (a *Aggregator) Aggregate(buckets []domain.DayBucket, methods []domain.Method) []domain.StatResult {
	var results []domain.StatResult

	for _, bucket := range buckets {
		for _, method := range methods {
			value, ok := apply(method, bucket)
			if !ok {
				continue
			}
			results = append(results, domain.StatResult{
				Date:      bucket.Date,
				Indicator: bucket.Indicator,
				Method:    method,
				Value:     value,
			})
		}
	}

	return results
}

// apply computes one statistic over one bucket.
func apply(method domain.Method, bucket domain.DayBucket) (float64, bool) {
	switch method {
	case domain.MethodDailyMax:
		return maxOf(bucket.Readings)
	case domain.MethodDailyMin:
		return minOf(bucket.Readings)
	case domain.MethodDailyMean:
		return meanOf(bucket.Readings)
	case domain.MethodDaytimeMean:
		return meanOf(bucket.Daytime)
	case domain.MethodNighttimeMean:
		return meanOf(bucket.Nighttime)
	}
	return 0, false
}

func maxOf(readings []domain.Reading) (float64, bool) {
	if len(readings) == 0 {
		return 0, false
	}
	max := readings[0].Value
	for _, r := range readings[1:] {
		if r.Value > max {
			max = r.Value
		}
	}
	return max, true
}

func minOf(readings []domain.Reading) (float64, bool) {
	if len(readings) == 0 {
		return 0, false
	}
	min := readings[0].Value
	for _, r := range readings[1:] {
		if r.Value < min {
			min = r.Value
		}
	}
	return min, true
}

func meanOf(readings []domain.Reading) (float64, bool) {
	if len(readings) == 0 {
		return 0, false
	}
	sum := 0.0
	for _, r := range readings {
		sum += r.Value
	}
	return sum / float64(len(readings)), true
}
