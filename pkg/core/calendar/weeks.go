package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used for credit entries and events
const DateLayout = "2006-01-02"

// FormatDate renders the calendar date of t
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a 2006-01-02 date as midnight in loc
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// StartOfDay returns midnight of t's date in t's location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns midnight of the Sunday on or before t, in t's location
func StartOfWeek(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, t.Location())
}

// WeekStart returns the Sunday that begins the given week offset (0 = epoch week)
func (c *Calendar) WeekStart(week int) time.Time {
	first := StartOfWeek(c.epoch)
	return time.Date(first.Year(), first.Month(), first.Day()+7*week, 0, 0, 0, 0, c.loc)
}

// WeekOf returns the week offset containing date
func (c *Calendar) WeekOf(date time.Time) int {
	days := daysBetween(StartOfWeek(c.epoch), StartOfWeek(date.In(c.loc)))
	return floorDiv(days, 7)
}

// DayInWeek returns the date of a weekday within a week offset
func (c *Calendar) DayInWeek(week int, day time.Weekday) time.Time {
	start := c.WeekStart(week)
	return time.Date(start.Year(), start.Month(), start.Day()+int(day), 0, 0, 0, 0, c.loc)
}

// WeekRangeLabel describes the studio days of a week, e.g. "November 5 - November 9".
// The studio week runs Sunday to Thursday.
func (c *Calendar) WeekRangeLabel(week int) string {
	start := c.WeekStart(week)
	end := start.AddDate(0, 0, 4)
	return fmt.Sprintf("%s - %s", start.Format("January 2"), end.Format("January 2"))
}

// DayLabel renders a date as "Sunday 5th"
func DayLabel(t time.Time) string {
	return fmt.Sprintf("%s %d%s", t.Weekday(), t.Day(), OrdinalSuffix(t.Day()))
}

// OrdinalSuffix returns the English ordinal suffix for a day of the month
func OrdinalSuffix(day int) string {
	if day > 3 && day < 21 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
