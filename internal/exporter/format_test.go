package exporter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatDecimal(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		precision int32
		expected  string
	}{
		{
			name:      "zero value",
			input:     "0",
			precision: 2,
			expected:  "0.00",
		},
		{
			name:      "pads trailing zeros",
			input:     "13.4",
			precision: 2,
			expected:  "13.40",
		},
		{
			name:      "rounds half up",
			input:     "85000.125",
			precision: 2,
			expected:  "85000.13",
		},
		{
			name:      "negative value",
			input:     "-456.789",
			precision: 2,
			expected:  "-456.79",
		},
		{
			name:      "repeating fraction",
			input:     "9.1666666666666667",
			precision: 4,
			expected:  "9.1667",
		},
		{
			name:      "zero precision",
			input:     "1199.5",
			precision: 0,
			expected:  "1200",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatDecimal(decimal.RequireFromString(tt.input), tt.precision))
		})
	}
}

func TestFormatInt(t *testing.T) {
	assert.Equal(t, "0", formatInt(0))
	assert.Equal(t, "1234", formatInt(1234))
	assert.Equal(t, "-5", formatInt(-5))
}
