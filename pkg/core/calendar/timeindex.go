package calendar

import "fmt"

// SlotsPerDay is the number of quarter-hour slots in a day
const SlotsPerDay = 96

// ValidTimeIndex reports whether index falls within one day of quarter hours
func ValidTimeIndex(index int) bool {
	return index >= 0 && index < SlotsPerDay
}

// TimeString converts a quarter-hour index into a 12-hour clock label, e.g. 36 -> "09:00 AM".
// Indexes outside [0, SlotsPerDay) are a caller error and produce an unspecified label.
func TimeString(index int) string {
	hour := index / 4
	minute := (index % 4) * 15

	period := "AM"
	if hour >= 12 {
		period = "PM"
	}

	displayHour := hour % 12
	if displayHour == 0 {
		displayHour = 12
	}

	return fmt.Sprintf("%02d:%02d %s", displayHour, minute, period)
}

// TimeRange formats a start/end pair of indexes as "hh:mm AM - hh:mm PM"
func TimeRange(start, end int) string {
	return TimeString(start) + " - " + TimeString(end)
}

// TimeOptions lists the label of every slot in the day, in index order
func TimeOptions() []string {
	options := make([]string, SlotsPerDay)
	for i := range options {
		options[i] = TimeString(i)
	}
	return options
}
