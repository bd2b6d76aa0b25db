package analysis

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"envcli/internal/dataset"
	apperrors "envcli/internal/errors"
	"envcli/pkg/contracts/domain"
)

// scenarioTable is one day of temperature readings with a gap at noon.
func scenarioTable() *dataset.Table {
	return &dataset.Table{
		Source: "sensors.csv",
		Header: []string{"时间", "温度"},
		Rows: [][]string{
			{"2023-07-15 08:00:00", "20.0"},
			{"2023-07-15 12:00:00", "NA"},
			{"2023-07-15 16:00:00", "24.0"},
			{"2023-07-15 22:00:00", "18.0"},
		},
	}
}

func interpolateRequest() domain.AnalysisRequest {
	return domain.AnalysisRequest{
		Methods:         domain.AllMethods(),
		MissingStrategy: domain.StrategyInterpolate,
	}
}

func TestEngineRunScenario(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Run(context.Background(), scenarioTable(), interpolateRequest())
	require.NoError(t, err)

	require.NotEmpty(t, result.RunID)
	assert.Equal(t, domain.Diagnostics{
		RowsTotal:        4,
		ReadingsResolved: 1,
	}, result.Diagnostics)

	require.Len(t, result.Series, len(domain.AllMethods()))

	values := make(map[domain.Method]float64)
	for _, s := range result.Series {
		assert.Equal(t, "temperature", s.Indicator)
		require.Equal(t, 1, s.Len(), "method %s", s.Method)
		assert.Equal(t, time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC), s.Points[0].Date)
		values[s.Method] = s.Points[0].Value
	}

	// The noon gap interpolates to 22.0, making the day read
	// 20, 22, 24 plus the 22:00 night reading of 18.
	assert.InDelta(t, 24.0, values[domain.MethodDailyMax], 1e-9)
	assert.InDelta(t, 18.0, values[domain.MethodDailyMin], 1e-9)
	assert.InDelta(t, 21.0, values[domain.MethodDailyMean], 1e-9)
	assert.InDelta(t, 22.0, values[domain.MethodDaytimeMean], 1e-9)
	assert.InDelta(t, 18.0, values[domain.MethodNighttimeMean], 1e-9)
}

func TestEngineRunDefaultsMethods(t *testing.T) {
	engine := NewEngine()
	result, err := engine.Run(context.Background(), scenarioTable(), domain.AnalysisRequest{
		MissingStrategy: domain.StrategyDrop,
	})
	require.NoError(t, err)
	assert.Len(t, result.Series, len(domain.AllMethods()))
	assert.Equal(t, 1, result.Diagnostics.ReadingsDropped)
}

func TestEngineRunMultipleIndicators(t *testing.T) {
	table := &dataset.Table{
		Source: "sensors.csv",
		Header: []string{"time", "温度", "湿度", "光照"},
		Rows: [][]string{
			{"2023-07-15 08:00", "20.0", "50", "800"},
			{"2023-07-15 12:00", "22.0", "55", "1200"},
			{"2023-07-16 08:00", "21.0", "52", "900"},
		},
	}

	var (
		mu    sync.Mutex
		calls []int
	)
	engine := NewEngine(
		WithMaxConcurrency(2),
		WithProgress(func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, done)
			assert.Equal(t, 2, total)
		}),
	)

	req := domain.AnalysisRequest{
		Indicators:      []string{"温度", "humidity"},
		Methods:         []domain.Method{domain.MethodDailyMean},
		MissingStrategy: domain.StrategyDrop,
	}
	result, err := engine.Run(context.Background(), table, req)
	require.NoError(t, err)

	// Output order follows the request: temperature first.
	require.Len(t, result.Series, 2)
	assert.Equal(t, "temperature", result.Series[0].Indicator)
	assert.Equal(t, "humidity", result.Series[1].Indicator)
	assert.Equal(t, 2, result.Series[0].Len())

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, calls, 2)
	assert.Contains(t, calls, 2)
}

func TestEngineRunUnknownIndicator(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Run(context.Background(), scenarioTable(), domain.AnalysisRequest{
		Indicators:      []string{"pressure"},
		Methods:         []domain.Method{domain.MethodDailyMean},
		MissingStrategy: domain.StrategyDrop,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedInput(err))
}

func TestEngineRunNoTimestamps(t *testing.T) {
	table := &dataset.Table{
		Header: []string{"note", "值"},
		Rows:   [][]string{{"hello", "world"}},
	}
	engine := NewEngine()
	_, err := engine.Run(context.Background(), table, interpolateRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsMalformedInput(err))
}

func TestEngineRunInvalidRequest(t *testing.T) {
	engine := NewEngine()
	_, err := engine.Run(context.Background(), scenarioTable(), domain.AnalysisRequest{
		Methods:         []domain.Method{"weekly_median"},
		MissingStrategy: domain.StrategyDrop,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeValidation))
}

func TestEngineRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	engine := NewEngine()
	_, err := engine.Run(ctx, scenarioTable(), interpolateRequest())
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeCancelled))
}

func TestEngineRunDateRange(t *testing.T) {
	table := &dataset.Table{
		Source: "sensors.csv",
		Header: []string{"time", "temperature"},
		Rows: [][]string{
			{"2023-07-14 10:00", "19.0"},
			{"2023-07-15 10:00", "21.0"},
			{"2023-07-16 10:00", "23.0"},
		},
	}

	req := domain.AnalysisRequest{
		Methods:         []domain.Method{domain.MethodDailyMean},
		MissingStrategy: domain.StrategyDrop,
		DateRange: domain.DateRange{
			From: time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2023, 7, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	engine := NewEngine()
	result, err := engine.Run(context.Background(), table, req)
	require.NoError(t, err)
	require.Len(t, result.Series, 1)
	require.Equal(t, 1, result.Series[0].Len())
	assert.InDelta(t, 21.0, result.Series[0].Points[0].Value, 1e-9)
}

func TestEngineRunCountsEmptySeries(t *testing.T) {
	// Daytime-only data leaves the nighttime series empty.
	table := &dataset.Table{
		Source: "sensors.csv",
		Header: []string{"time", "temperature"},
		Rows: [][]string{
			{"2023-07-15 10:00", "21.0"},
			{"2023-07-15 14:00", "23.0"},
		},
	}

	req := domain.AnalysisRequest{
		Methods:         []domain.Method{domain.MethodDaytimeMean, domain.MethodNighttimeMean},
		MissingStrategy: domain.StrategyDrop,
	}

	engine := NewEngine()
	result, err := engine.Run(context.Background(), table, req)
	require.NoError(t, err)
	require.Len(t, result.Series, 2)
	assert.Equal(t, 1, result.Diagnostics.EmptySeries)
	assert.Equal(t, 0, result.Series[1].Len())
}
