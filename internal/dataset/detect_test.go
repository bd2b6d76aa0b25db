package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "envcli/internal/errors"
)

func TestCleanHeader(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Temperature", "temperature"},
		{" Temp_（℃） ", "temp℃"},
		{"记录 时间", "记录时间"},
		{"Light (lux)", "lightlux"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanHeader(tt.raw), "raw=%q", tt.raw)
	}
}

func TestCanonicalIndicator(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"温度(℃)", IndicatorTemperature},
		{"环境温度", IndicatorTemperature},
		{"Temperature °C", IndicatorTemperature},
		{"相对湿度 (%)", IndicatorHumidity},
		{"Humidity", IndicatorHumidity},
		{"光照强度", IndicatorIlluminance},
		{"Lux", IndicatorIlluminance},
		{"battery", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CanonicalIndicator(tt.header), "header=%q", tt.header)
	}
}

func TestDetectColumnsByHeader(t *testing.T) {
	table := &Table{
		Header: []string{"设备号", "记录时间", "温度(℃)", "相对湿度(%)", "光照(lux)"},
		Rows: [][]string{
			{"A1", "2023-07-15 08:00:00", "21.5", "55", "1200"},
		},
	}

	m, err := DetectColumns(table)
	require.NoError(t, err)
	assert.Equal(t, "header_name_match", m.Strategy)
	assert.Equal(t, 1, m.Timestamp)
	assert.Equal(t, map[string]int{
		IndicatorTemperature: 2,
		IndicatorHumidity:    3,
		IndicatorIlluminance: 4,
	}, m.Indicators)
	assert.Equal(t, []string{"humidity", "illuminance", "temperature"}, m.IndicatorNames())
}

func TestDetectColumnsByContent(t *testing.T) {
	// Headers are opaque codes, so detection has to probe the cells.
	table := &Table{
		Header: []string{"ch0", "ch1", "ch2"},
		Rows: [][]string{
			{"2023-07-15 08:00", "21.5", "note"},
			{"2023-07-15 09:00", "22.0", "note"},
			{"2023-07-15 10:00", "22.4", ""},
		},
	}

	m, err := DetectColumns(table)
	require.NoError(t, err)
	assert.Equal(t, "first_parseable_column", m.Strategy)
	assert.Equal(t, 0, m.Timestamp)
	assert.Equal(t, map[string]int{"ch1": 1}, m.Indicators)
}

func TestDetectColumnsContentUsesCanonicalNames(t *testing.T) {
	// Aliased headers without a recognizable timestamp header still
	// resolve indicator names canonically under the content strategy.
	table := &Table{
		Header: []string{"t", "温度"},
		Rows: [][]string{
			{"2023/7/15 8:00", "21.5"},
			{"2023/7/15 9:00", "22.0"},
		},
	}

	m, err := DetectColumns(table)
	require.NoError(t, err)
	assert.Equal(t, "first_parseable_column", m.Strategy)
	assert.Equal(t, map[string]int{IndicatorTemperature: 1}, m.Indicators)
}

func TestDetectColumnsFailures(t *testing.T) {
	tests := []struct {
		name  string
		table *Table
	}{
		{
			name:  "nil table",
			table: nil,
		},
		{
			name:  "no header",
			table: &Table{},
		},
		{
			name: "no timestamp column",
			table: &Table{
				Header: []string{"a", "b"},
				Rows:   [][]string{{"x", "1.0"}, {"y", "2.0"}},
			},
		},
		{
			name: "timestamp but no indicators",
			table: &Table{
				Header: []string{"time", "note"},
				Rows:   [][]string{{"2023-07-15", "hello"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DetectColumns(tt.table)
			require.Error(t, err)
			assert.True(t, apperrors.IsMalformedInput(err))
		})
	}
}

func TestDetectColumnsDuplicateAliasKeepsFirst(t *testing.T) {
	table := &Table{
		Header: []string{"time", "温度", "气温"},
		Rows:   [][]string{{"2023-07-15 08:00", "21.0", "21.1"}},
	}

	m, err := DetectColumns(table)
	require.NoError(t, err)
	assert.Equal(t, 1, m.Indicators[IndicatorTemperature])
	assert.Len(t, m.Indicators, 1)
}
