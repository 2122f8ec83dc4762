package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"2025-10-15", "2025-10-15"},
		{"15/10/2025", "2025-10-15"},
		{"01/09/25", "2025-09-01"},
		{"1-9-2025", "2025-09-01"},
		{"15.10.25", "2025-10-15"},
		{"15 Oct 25", "2025-10-15"},
		{"15 Oct. 2025", "2025-10-15"},
		{"15th October 2025", "2025-10-15"},
		{"Wednesday 15 October 2025", "2025-10-15"},
		{"Sept 3, 2025", "2025-09-03"},
		{"3 September 2025", "2025-09-03"},
		{"  ", ""},
		{"TBA", "TBA"},
		{"32/13/2025", "32/13/2025"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDate(tt.raw))
		})
	}
}

func TestIsISODate(t *testing.T) {
	assert.True(t, IsISODate("2024-03-15"))
	assert.False(t, IsISODate("15/03/2024"))
	assert.False(t, IsISODate(""))
}

func TestNormalizeClock(t *testing.T) {
	assert.Equal(t, "19:05", NormalizeClock("7:05pm"))
	assert.Equal(t, "19:05", NormalizeClock("7:05 PM"))
	assert.Equal(t, "09:40", NormalizeClock("9.40"))
	assert.Equal(t, "21:15", NormalizeClock("21:15"))
	assert.Equal(t, "late", NormalizeClock(" late "))
}

func TestCoerceInteger(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"3", "3"},
		{"03", "3"},
		{"3.0", "3"},
		{"Box 4", "4"},
		{"450m", "450"},
		{"1,234", "1234"},
		{"", ""},
		{"n/a", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CoerceInteger(tt.raw), tt.raw)
	}
}

func TestCoerceDecimalAndOdds(t *testing.T) {
	assert.Equal(t, "28.5", CoerceDecimal("28.5kg"))
	assert.Equal(t, "12500", CoerceDecimal("$12,500"))
	assert.Equal(t, "45", CoerceDecimal("45%"))
	assert.Equal(t, "", CoerceDecimal("-"))
	assert.Equal(t, "", CoerceDecimal("abc"))

	assert.Equal(t, "3.5", CoerceOdds("$3.50F"))
	assert.Equal(t, "2.1", CoerceOdds("2.10f"))
	assert.Equal(t, "", CoerceOdds("SCR"))
}

func TestParseSeconds(t *testing.T) {
	v, ok := ParseSeconds("25.00")
	assert.True(t, ok)
	assert.Equal(t, 25.0, v)

	v, ok = ParseSeconds("1:02.35")
	assert.True(t, ok)
	assert.InDelta(t, 62.35, v, 1e-9)

	_, ok = ParseSeconds("DNF")
	assert.False(t, ok)
}

func TestSpeed(t *testing.T) {
	tests := []struct {
		name     string
		distance string
		time     string
		want     float64
		ok       bool
	}{
		{name: "formula", distance: "520", time: "30.00", want: 62.4, ok: true},
		{name: "metres suffix", distance: "450m", time: "25.00", want: 64.8, ok: true},
		{name: "rounded to three places", distance: "515", time: "29.87", want: 62.069, ok: true},
		{name: "minutes", distance: "715", time: "0:41.50", want: 62.024, ok: true},
		{name: "zero time", distance: "450", time: "0", ok: false},
		{name: "missing distance", distance: "", time: "25.00", ok: false},
		{name: "unparsable time", distance: "450", time: "DNF", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Speed(tt.distance, tt.time)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatDecimal(t *testing.T) {
	assert.Equal(t, "60.0", FormatDecimal(60))
	assert.Equal(t, "64.8", FormatDecimal(64.8))
	assert.Equal(t, "62.069", FormatDecimal(62.069))
}
