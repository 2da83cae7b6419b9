package schedule

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

// Class colour tokens
const (
	ColorRed    = "red"
	ColorBlue   = "blue"
	ColorGreen  = "green"
	ColorBlack  = "black"
	ColorYellow = "yellow"
	ColorPurple = "purple"
)

// Domain errors
var (
	ErrEmptyClassType   = errors.New("class type cannot be empty")
	ErrInvalidTimeIndex = errors.New("time index must be within one day of quarter hours")
	ErrEndBeforeStart   = errors.New("class must end after it starts")
)

// Weekly is the read-only template timetable: an ordered class list per weekday.
// Slot indexes are positions within a weekday's list.
type Weekly struct {
	days      []time.Weekday
	templates map[time.Weekday][]model.ClassTemplate
}

// NewWeekly builds a timetable. Weekdays without classes are not active studio days.
func NewWeekly(templates map[time.Weekday][]model.ClassTemplate) *Weekly {
	w := &Weekly{templates: make(map[time.Weekday][]model.ClassTemplate, len(templates))}
	for day, list := range templates {
		if len(list) == 0 {
			continue
		}
		w.templates[day] = slices.Clone(list)
		w.days = append(w.days, day)
	}
	slices.Sort(w.days)
	return w
}

// Days returns the active weekdays in week order (Sunday first)
func (w *Weekly) Days() []time.Weekday {
	return slices.Clone(w.days)
}

// Templates returns a copy of the ordered templates for a weekday
func (w *Weekly) Templates(day time.Weekday) []model.ClassTemplate {
	return slices.Clone(w.templates[day])
}

// Template returns the slot-th template of a weekday
func (w *Weekly) Template(day time.Weekday, slot int) (model.ClassTemplate, bool) {
	list := w.templates[day]
	if slot < 0 || slot >= len(list) {
		return model.ClassTemplate{}, false
	}
	return list[slot], true
}

// Validate checks every template in the timetable
func (w *Weekly) Validate() error {
	for _, day := range w.days {
		for i, tmpl := range w.templates[day] {
			if err := ValidateTemplate(tmpl); err != nil {
				return fmt.Errorf("%s class %d: %w", day, i, err)
			}
		}
	}
	return nil
}

// ValidateTemplate checks a single class template
func ValidateTemplate(t model.ClassTemplate) error {
	if strings.TrimSpace(t.Type) == "" {
		return ErrEmptyClassType
	}
	if !calendar.ValidTimeIndex(t.StartTime) || !calendar.ValidTimeIndex(t.EndTime) {
		return ErrInvalidTimeIndex
	}
	if t.EndTime <= t.StartTime {
		return ErrEndBeforeStart
	}
	return nil
}

// ParseWeekday matches an English weekday name case-insensitively
func ParseWeekday(s string) (time.Weekday, bool) {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), s) || strings.EqualFold(d.String()[:3], s) {
			return d, true
		}
	}
	return 0, false
}

// Default returns the studio's standard Sunday to Thursday timetable
func Default() *Weekly {
	return NewWeekly(map[time.Weekday][]model.ClassTemplate{
		time.Sunday: {
			{StartTime: 36, EndTime: 38, Type: "Dragons", Color: ColorRed},
			{StartTime: 39, EndTime: 42, Type: "Karate Kids", Subvariant: "All Levels", Color: ColorBlue},
		},
		time.Monday: {
			{StartTime: 70, EndTime: 72, Type: "Dragons", Color: ColorRed},
			{StartTime: 74, EndTime: 76, Type: "Karate Kids", Subvariant: "All Levels", Color: ColorBlue},
			{StartTime: 76, EndTime: 79, Type: "Adults", Subvariant: "Jiu-Jitsu", Color: ColorGreen},
		},
		time.Tuesday: {
			{StartTime: 66, EndTime: 68, Type: "Dragons", Color: ColorRed},
			{StartTime: 69, EndTime: 72, Type: "Karate Kids", Subvariant: "Beginners", Color: ColorBlue},
			{StartTime: 72, EndTime: 75, Type: "Karate Kids", Subvariant: "Inter/Adv", Color: ColorBlue},
			{StartTime: 75, EndTime: 78, Type: "Demo Team", Color: ColorYellow},
			{StartTime: 78, EndTime: 82, Type: "Adults", Subvariant: "Muay Thai", Color: ColorGreen},
		},
		time.Wednesday: {
			{StartTime: 66, EndTime: 69, Type: "Black Belt", Color: ColorBlack},
			{StartTime: 70, EndTime: 72, Type: "Dragons", Color: ColorRed},
			{StartTime: 74, EndTime: 76, Type: "Karate Kids", Subvariant: "All Levels", Color: ColorBlue},
			{StartTime: 76, EndTime: 79, Type: "Adults", Subvariant: "Taekwondo", Color: ColorGreen},
		},
		time.Thursday: {
			{StartTime: 66, EndTime: 68, Type: "Dragons", Color: ColorRed},
			{StartTime: 69, EndTime: 72, Type: "Karate Kids", Subvariant: "Beginners", Color: ColorBlue},
			{StartTime: 72, EndTime: 75, Type: "Karate Kids", Subvariant: "Inter/Adv", Color: ColorBlue},
			{StartTime: 75, EndTime: 78, Type: "Adults", Subvariant: "Taekwondo", Color: ColorGreen},
			{StartTime: 78, EndTime: 81, Type: "Leadership", Color: ColorPurple},
		},
	})
}
