package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTrialTable() *Table {
	return &Table{
		Source: "trials.csv",
		Header: []string{"样品", "温度", "湿度"},
		Rows: [][]string{
			{"A", "21.0", "55"},
			{"A", "21.5", "56"},
			{"B", "19.0", "60"},
			{"A", "22.0", "57"},
			{"B", "19.5", "61"},
		},
	}
}

func TestReshape(t *testing.T) {
	res, err := Reshape(sampleTrialTable(), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Groups)
	assert.Equal(t, 3, res.MaxRuns)
	assert.Equal(t, []string{"温度", "湿度"}, res.Metrics)

	out := res.Table
	assert.Equal(t, []string{
		"样品",
		"温度_1", "温度_2", "温度_3",
		"湿度_1", "湿度_2", "湿度_3",
	}, out.Header)

	require.Equal(t, 2, out.RowCount())
	// Groups keep first-appearance order, runs keep input order.
	assert.Equal(t, []string{"A", "21.0", "21.5", "22.0", "55", "56", "57"}, out.Rows[0])
	// Short groups leave trailing run cells empty.
	assert.Equal(t, []string{"B", "19.0", "19.5", "", "60", "61", ""}, out.Rows[1])
}

func TestReshapeMetricSubset(t *testing.T) {
	res, err := Reshape(sampleTrialTable(), []string{"湿度"})
	require.NoError(t, err)

	assert.Equal(t, []string{"湿度"}, res.Metrics)
	assert.Equal(t, []string{"样品", "湿度_1", "湿度_2", "湿度_3"}, res.Table.Header)
	assert.Equal(t, []string{"A", "55", "56", "57"}, res.Table.Rows[0])
}

func TestReshapeErrors(t *testing.T) {
	tests := []struct {
		name    string
		table   *Table
		metrics []string
	}{
		{
			name:  "nil table",
			table: nil,
		},
		{
			name:  "single column",
			table: &Table{Header: []string{"样品"}},
		},
		{
			name: "no group keys",
			table: &Table{
				Header: []string{"样品", "温度"},
				Rows:   [][]string{{"", "21.0"}},
			},
		},
		{
			name:    "unknown metric",
			table:   sampleTrialTable(),
			metrics: []string{"气压"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reshape(tt.table, tt.metrics)
			assert.Error(t, err)
		})
	}
}

func TestReshapedName(t *testing.T) {
	assert.Equal(t, "trials_reshaped.csv", ReshapedName("/data/trials.xlsx", ".csv"))
	assert.Equal(t, "trials_reshaped.xlsx", ReshapedName("trials.csv", "xlsx"))
}
