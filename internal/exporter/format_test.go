package exporter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{13.4, "13.40"},
		{13.456, "13.46"},
		{-0.005, "-0.01"},
		{0, "0.00"},
		{21.0, "21.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatFloat(tt.value))
	}
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2023, 7, 5, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "2023-07-05", formatDate(d))
	assert.Equal(t, "07-05", formatTickDate(d))
}

func TestFormatAxisValue(t *testing.T) {
	assert.Equal(t, "21.5", formatAxisValue(21.456))
	assert.Equal(t, "-3.0", formatAxisValue(-3.04))
}
