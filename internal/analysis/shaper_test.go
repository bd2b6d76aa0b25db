package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envcli/pkg/contracts/domain"
)

func statOn(day int, indicator string, method domain.Method, value float64) domain.StatResult {
	return domain.StatResult{
		Date:      time.Date(2023, 7, day, 0, 0, 0, 0, time.UTC),
		Indicator: indicator,
		Method:    method,
		Value:     value,
	}
}

func TestTickStride(t *testing.T) {
	tests := []struct {
		n      int
		target int
		want   int
	}{
		{100, 20, 5},
		{10, 20, 1},
		{21, 20, 2},
		{0, 20, 1},
		{5, 0, 1},
		{1, 1, 1},
		{99, 10, 10},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TickStride(tt.n, tt.target), "n=%d target=%d", tt.n, tt.target)
	}
}

func TestShapeOrdersPairsAndPoints(t *testing.T) {
	stats := []domain.StatResult{
		statOn(16, "humidity", domain.MethodDailyMean, 60),
		statOn(15, "humidity", domain.MethodDailyMean, 55),
		statOn(15, "temperature", domain.MethodDailyMax, 24),
		statOn(16, "temperature", domain.MethodDailyMax, 25),
		statOn(15, "temperature", domain.MethodDailyMean, 21),
	}

	s := NewShaper(20)
	shaped := s.Shape(stats,
		[]string{"temperature", "humidity"},
		[]domain.Method{domain.MethodDailyMax, domain.MethodDailyMean},
		domain.DateRange{})

	require.Len(t, shaped, 4)
	assert.Equal(t, "temperature", shaped[0].Indicator)
	assert.Equal(t, domain.MethodDailyMax, shaped[0].Method)
	assert.Equal(t, "temperature", shaped[1].Indicator)
	assert.Equal(t, domain.MethodDailyMean, shaped[1].Method)
	assert.Equal(t, "humidity", shaped[2].Indicator)
	assert.Equal(t, domain.MethodDailyMax, shaped[2].Method)
	assert.Equal(t, "humidity", shaped[3].Indicator)
	assert.Equal(t, domain.MethodDailyMean, shaped[3].Method)

	// Points sorted ascending by date.
	tempMax := shaped[0]
	require.Equal(t, 2, tempMax.Len())
	assert.True(t, tempMax.Points[0].Date.Before(tempMax.Points[1].Date))

	// Requested pair with no data still appears, empty.
	humidityMax := shaped[2]
	assert.Equal(t, 0, humidityMax.Len())
	assert.Equal(t, 1, humidityMax.TickStride)
}

func TestShapeAppliesDateRange(t *testing.T) {
	var stats []domain.StatResult
	for day := 10; day <= 20; day++ {
		stats = append(stats, statOn(day, "temperature", domain.MethodDailyMean, float64(day)))
	}

	rng := domain.DateRange{
		From: time.Date(2023, 7, 12, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2023, 7, 14, 0, 0, 0, 0, time.UTC),
	}

	shaped := NewShaper(20).Shape(stats,
		[]string{"temperature"},
		[]domain.Method{domain.MethodDailyMean},
		rng)

	require.Len(t, shaped, 1)
	require.Equal(t, 3, shaped[0].Len())
	// Bounds are inclusive.
	assert.Equal(t, 12.0, shaped[0].Points[0].Value)
	assert.Equal(t, 14.0, shaped[0].Points[2].Value)
}

func TestShapeStrideFollowsLength(t *testing.T) {
	var stats []domain.StatResult
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 100; i++ {
		stats = append(stats, domain.StatResult{
			Date:      base.AddDate(0, 0, i),
			Indicator: "temperature",
			Method:    domain.MethodDailyMean,
			Value:     float64(i),
		})
	}

	shaped := NewShaper(20).Shape(stats,
		[]string{"temperature"},
		[]domain.Method{domain.MethodDailyMean},
		domain.DateRange{})

	require.Len(t, shaped, 1)
	assert.Equal(t, 100, shaped[0].Len(), "shaping must keep every point")
	assert.Equal(t, 5, shaped[0].TickStride)
}
