package dateparse

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleSlashDates(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
	}{
		{"Day first", "13/01/2026", time.Date(2026, 1, 13, 0, 0, 0, 0, time.UTC)},
		{"Ambiguous resolves day first", "03/04/2026", time.Date(2026, 4, 3, 0, 0, 0, 0, time.UTC)},
		{"Two digit year", "05/02/26", time.Date(2026, 2, 5, 0, 0, 0, 0, time.UTC)},
		{"With time", "13/01/2026 14:30", time.Date(2026, 1, 13, 14, 30, 0, 0, time.UTC)},
		{"With seconds", "13/01/2026 14:30:45", time.Date(2026, 1, 13, 14, 30, 45, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flexible(tt.input)
			require.NotNil(t, got)
			assert.True(t, got.Equal(tt.expected), "got %v, want %v", got, tt.expected)
		})
	}
}

func TestFlexibleRejectsInvalid(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"31/02/2026", // normalized overflow
		"13/13/2026", // month out of range
		"not a date",
		"0.5", // serial below epoch range
	}
	for _, input := range inputs {
		assert.Nil(t, Flexible(input), "input %q", input)
	}
}

func TestFlexibleExcelSerial(t *testing.T) {
	// 45658 is 2025-01-01
	got := Flexible("45658")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), got.UTC())

	// Fractional part carries the time of day
	got = Flexible("45658.5")
	require.NotNil(t, got)
	assert.Equal(t, 12, got.UTC().Hour())
}

func TestFlexibleISO(t *testing.T) {
	got := Flexible("2026-01-13 08:15:00")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 1, 13, 8, 15, 0, 0, time.UTC), got.UTC())

	got = Flexible("2026-01-13")
	require.NotNil(t, got)
	assert.Equal(t, 13, got.Day())
}

func TestDateOnlyNoon(t *testing.T) {
	got := DateOnlyNoon("2026-03-10")
	require.NotNil(t, got)
	assert.Equal(t, 12, got.Hour())
	assert.Equal(t, time.UTC, got.Location())

	assert.Nil(t, DateOnlyNoon(""))
	assert.Nil(t, DateOnlyNoon("10/03/2026"))
}

func TestMonth(t *testing.T) {
	got := Month("2026-02")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), *got)

	assert.Nil(t, Month("2026"))
	assert.Nil(t, Month("feb 2026"))
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2026-02", MonthKey(time.Date(2026, 2, 27, 23, 0, 0, 0, time.UTC)))
}
