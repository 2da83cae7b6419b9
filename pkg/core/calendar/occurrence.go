package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultEpoch is the go-live date of the studio calendar. No occurrences exist before it.
const DefaultEpoch = "2023-11-01"

// Calendar numbers days and weeks relative to a fixed epoch date in one location
type Calendar struct {
	epoch time.Time
	loc   *time.Location
}

// New creates a calendar whose epoch is the calendar date of epoch in loc.
// A nil loc uses time.Local.
func New(epoch time.Time, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	e := epoch.In(loc)
	return &Calendar{
		epoch: time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, loc),
		loc:   loc,
	}
}

// Default creates a calendar using DefaultEpoch in loc
func Default(loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	epoch, _ := ParseDate(DefaultEpoch, loc)
	return New(epoch, loc)
}

// Epoch returns midnight of the epoch date
func (c *Calendar) Epoch() time.Time {
	return c.epoch
}

// Location returns the location calendar dates are interpreted in
func (c *Calendar) Location() *time.Location {
	return c.loc
}

// DaysSinceEpoch counts whole calendar days from the epoch to date.
// Time of day is ignored, so every instant of a date maps to the same number.
func (c *Calendar) DaysSinceEpoch(date time.Time) int {
	return daysBetween(c.epoch, date.In(c.loc))
}

// BeforeEpoch reports whether date falls on a calendar day before the epoch
func (c *Calendar) BeforeEpoch(date time.Time) bool {
	return c.DaysSinceEpoch(date) < 0
}

// OccurrenceID derives the stable identity of the slot-th class on date
func (c *Calendar) OccurrenceID(date time.Time, slot int) string {
	return FormatOccurrenceID(c.DaysSinceEpoch(date), slot)
}

// FormatOccurrenceID builds an occurrence id from its parts
func FormatOccurrenceID(daysSinceEpoch, slot int) string {
	return fmt.Sprintf("%d-%d", daysSinceEpoch, slot)
}

// ParseOccurrenceID splits an occurrence id into its day offset and slot index
func ParseOccurrenceID(id string) (daysSinceEpoch int, slot int, err error) {
	// Day offsets may be negative, so split on the last dash
	i := strings.LastIndex(id, "-")
	if i <= 0 || i == len(id)-1 {
		return 0, 0, fmt.Errorf("malformed occurrence id %q", id)
	}

	daysSinceEpoch, err = strconv.Atoi(id[:i])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed day offset in occurrence id %q: %w", id, err)
	}

	slot, err = strconv.Atoi(id[i+1:])
	if err != nil {
		return 0, 0, fmt.Errorf("malformed slot index in occurrence id %q: %w", id, err)
	}
	if slot < 0 {
		return 0, 0, fmt.Errorf("negative slot index in occurrence id %q", id)
	}

	return daysSinceEpoch, slot, nil
}

// DateOf returns midnight of the date daysSinceEpoch days after the epoch
func (c *Calendar) DateOf(daysSinceEpoch int) time.Time {
	return time.Date(c.epoch.Year(), c.epoch.Month(), c.epoch.Day()+daysSinceEpoch, 0, 0, 0, 0, c.loc)
}

// DateForID returns the calendar date an occurrence id refers to
func (c *Calendar) DateForID(id string) (time.Time, error) {
	days, _, err := ParseOccurrenceID(id)
	if err != nil {
		return time.Time{}, err
	}
	return c.DateOf(days), nil
}

// daysBetween counts calendar days from a to b using each value's own wall-clock date.
// Both dates are projected onto UTC midnights so DST transitions cannot skew the count.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}
