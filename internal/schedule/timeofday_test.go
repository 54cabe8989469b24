package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeNamed(t *testing.T) {
	tests := map[string]TimeOfDay{
		"morning":     {8, 0},
		"MORNING":     {8, 0},
		"breakfast":   {8, 0},
		"mid-morning": {10, 0},
		"MID-MORNING": {10, 0},
		"midmorning":  {10, 0},
		"noon":        {12, 0},
		"midday":      {12, 0},
		"lunch":       {12, 0},
		"afternoon":   {15, 0},
		"evening":     {18, 0},
		"dinner":      {18, 0},
		"night":       {21, 0},
		"bedtime":     {21, 0},
		"midnight":    {0, 0},
	}

	for input, want := range tests {
		got, ok := ParseTime(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseTimeClock(t *testing.T) {
	tests := map[string]TimeOfDay{
		"08:00":     {8, 0},
		"14:30":     {14, 30},
		"23:59":     {23, 59},
		"00:00":     {0, 0},
		"0:0":       {0, 0},
		"8:00":      {8, 0},
		"8:5":       {8, 5},
		" 8:00 ":    {8, 0},
		"  14:30  ": {14, 30},
		"8":         {8, 0},
		"14":        {14, 0},
		"0":         {0, 0},
		"23":        {23, 0},
		" 8 ":       {8, 0},
	}

	for input, want := range tests {
		got, ok := ParseTime(input)
		require.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
}

func TestParseTimeInvalid(t *testing.T) {
	for _, input := range []string{
		"24:00", "25:00", "24",
		"8:60", "8:99",
		"garbage", "8:30:00", "abc:def", "", ":30", "8:", "-1", "-1:30",
	} {
		if _, ok := ParseTime(input); ok {
			t.Errorf("ParseTime(%q) accepted, want rejection", input)
		}
	}
}

func TestIsTimeDue(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2025, 1, 1, h, m, 0, 0, time.Local)
	}

	assert.False(t, IsTimeDue("08:00", day(7, 59)))
	assert.True(t, IsTimeDue("08:00", day(8, 0)))
	assert.True(t, IsTimeDue("08:00", day(8, 1)))
	assert.True(t, IsTimeDue("08:30", day(9, 0)))
	assert.False(t, IsTimeDue("08:30", day(8, 29)))
	assert.True(t, IsTimeDue("bedtime", day(21, 0)))
	assert.False(t, IsTimeDue("not a time", day(23, 59)))
}

func TestIsTimeDueMonotonic(t *testing.T) {
	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.Local)
	for _, scheduled := range []string{"0:00", "08:00", "noon", "13:45", "23:59"} {
		due := false
		for minute := 0; minute < 24*60; minute++ {
			now := start.Add(time.Duration(minute) * time.Minute)
			got := IsTimeDue(scheduled, now)
			if due && !got {
				t.Fatalf("%s: due earlier but not at %s", scheduled, now.Format("15:04"))
			}
			due = due || got
		}
		if !due {
			t.Errorf("%s: never due during the day", scheduled)
		}
	}
}
