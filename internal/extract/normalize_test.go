package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
		ok   bool
	}{
		{"$1,500.00", 1500, true},
		{"250", 250, true},
		{"€2.500,00", 0, false}, // comma-decimal locale is not supported
		{"£99.95", 99.95, true},
		{"  $42  ", 42, true},
		{"notanumber", 0, false},
		{"", 0, false},
		{"$", 0, false},
		{"-120.50", -120.5, true},
	}
	for _, tt := range tests {
		got, ok := ParseMoney(tt.raw)
		assert.Equal(t, tt.ok, ok, "raw=%q", tt.raw)
		if tt.ok {
			assert.InDelta(t, tt.want, got, 1e-9, "raw=%q", tt.raw)
		}
	}
}

func TestParseMoney_IdempotentOnCanonicalOutput(t *testing.T) {
	for _, raw := range []string{"$1,500.00", "42", "£0.99", "1234567.89"} {
		v, ok := ParseMoney(raw)
		require.True(t, ok, raw)
		round, ok := ParseMoney(FormatMoney(v))
		require.True(t, ok, raw)
		assert.InDelta(t, v, round, 1e-9, raw)
	}
}

func TestFormatMoney(t *testing.T) {
	assert.Equal(t, "5,000.00", FormatMoney(5000))
	assert.Equal(t, "0.00", FormatMoney(0))
	assert.Equal(t, "999.90", FormatMoney(999.9))
	assert.Equal(t, "1,234,567.89", FormatMoney(1234567.89))
	assert.Equal(t, "-1,500.00", FormatMoney(-1500))
}

func TestParseAge(t *testing.T) {
	got, ok := ParseAge("45")
	require.True(t, ok)
	assert.Equal(t, 45, got)

	got, ok = ParseAge("7")
	require.True(t, ok)
	assert.Equal(t, 7, got)

	for _, raw := range []string{"", "abc", "123", "-4"} {
		_, ok := ParseAge(raw)
		assert.False(t, ok, "raw=%q", raw)
	}
}
