package calendar

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeString(t *testing.T) {
	tests := []struct {
		index    int
		expected string
	}{
		{0, "12:00 AM"},
		{1, "12:15 AM"},
		{4, "01:00 AM"},
		{36, "09:00 AM"},
		{39, "09:45 AM"},
		{47, "11:45 AM"},
		{48, "12:00 PM"},
		{70, "05:30 PM"},
		{95, "11:45 PM"},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("index %d", tt.index), func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeString(tt.index))
		})
	}
}

func TestTimeString_MatchesClockForWholeDay(t *testing.T) {
	for i := 0; i < SlotsPerDay; i++ {
		hour := i / 4
		minute := (i % 4) * 15
		period := "AM"
		if hour >= 12 {
			period = "PM"
		}
		displayHour := hour % 12
		if displayHour == 0 {
			displayHour = 12
		}
		assert.Equal(t, fmt.Sprintf("%02d:%02d %s", displayHour, minute, period), TimeString(i), "index %d", i)
	}
}

func TestTimeRange(t *testing.T) {
	assert.Equal(t, "09:00 AM - 09:30 AM", TimeRange(36, 38))
}

func TestTimeOptions(t *testing.T) {
	options := TimeOptions()
	assert.Len(t, options, SlotsPerDay)
	assert.Equal(t, "12:00 AM", options[0])
	assert.Equal(t, "11:45 PM", options[SlotsPerDay-1])
}

func TestValidTimeIndex(t *testing.T) {
	assert.True(t, ValidTimeIndex(0))
	assert.True(t, ValidTimeIndex(95))
	assert.False(t, ValidTimeIndex(-1))
	assert.False(t, ValidTimeIndex(96))
}
