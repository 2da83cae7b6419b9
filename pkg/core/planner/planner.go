package planner

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

var (
	ErrInvalidEventColor = errors.New("invalid event color")
	ErrInvalidEventType  = errors.New("invalid event type")
	ErrMissingCustomText = errors.New("custom events need a label")
)

// RecurringEvent is an event generated on every date matched by an RRULE
type RecurringEvent struct {
	RRule       string
	Type        string
	Color       model.EventColor
	CustomText  string
	Description string
}

type recurringRule struct {
	rule  *rrule.RRule
	event RecurringEvent
}

// Planner holds the admin-managed calendar decorations: loop points, weekly focus
// text and day events
type Planner struct {
	mu        sync.RWMutex
	cal       *calendar.Calendar
	loops     calendar.LoopPoints
	focus     map[int]string
	events    map[string]model.Event
	recurring []recurringRule
	newID     func() string
}

// Option configures a Planner
type Option func(*Planner)

// WithIDGenerator replaces the uuid generator used for event ids
func WithIDGenerator(fn func() string) Option {
	return func(p *Planner) {
		p.newID = fn
	}
}

// WithLoopPoints seeds the loop points
func WithLoopPoints(weeks ...int) Option {
	return func(p *Planner) {
		for _, w := range weeks {
			p.loops.Add(w)
		}
	}
}

// New creates an empty planner for a calendar
func New(cal *calendar.Calendar, opts ...Option) *Planner {
	p := &Planner{
		cal:    cal,
		loops:  calendar.NewLoopPoints(),
		focus:  make(map[int]string),
		events: make(map[string]model.Event),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ToggleLoop adds or removes a loop point at week and reports whether it is now set
func (p *Planner) ToggleLoop(week int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loops.Toggle(week)
}

// LoopPoints returns the loop points in ascending order
func (p *Planner) LoopPoints() []int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loops.Sorted()
}

// IsLoopPoint reports whether week is a loop point
func (p *Planner) IsLoopPoint(week int) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loops.Contains(week)
}

// VisualWeek returns the "Week N" number shown for a week offset
func (p *Planner) VisualWeek(week int) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loops.VisualWeek(week)
}

// SetFocus sets the focus text of a week. Blank text clears it.
func (p *Planner) SetFocus(week int, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	text = strings.TrimSpace(text)
	if text == "" {
		delete(p.focus, week)
		return
	}
	p.focus[week] = text
}

// Focus returns the focus text of a week
func (p *Planner) Focus(week int) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.focus[week]
}

// SetEvent stores the event for its date, replacing any previous one
func (p *Planner) SetEvent(event model.Event) (model.Event, error) {
	if _, err := calendar.ParseDate(event.Date, p.cal.Location()); err != nil {
		return model.Event{}, err
	}
	if err := validateEvent(event.Type, event.Color, event.CustomText); err != nil {
		return model.Event{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if existing, ok := p.events[event.Date]; ok && event.ID == "" {
		event.ID = existing.ID
	}
	if event.ID == "" {
		event.ID = p.newID()
	}
	p.events[event.Date] = event

	return event, nil
}

// DeleteEvent removes the stored event of a date
func (p *Planner) DeleteEvent(date string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.events[date]; !ok {
		return false
	}
	delete(p.events, date)
	return true
}

// Event returns the stored event of a date
func (p *Planner) Event(date string) (model.Event, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	event, ok := p.events[date]
	return event, ok
}

// AddRecurring registers a recurring event. Rules without a DTSTART start at the epoch.
func (p *Planner) AddRecurring(event RecurringEvent) error {
	if err := validateEvent(event.Type, event.Color, event.CustomText); err != nil {
		return err
	}

	opt, err := rrule.StrToROption(event.RRule)
	if err != nil {
		return fmt.Errorf("invalid rrule %q: %w", event.RRule, err)
	}
	if opt.Dtstart.IsZero() {
		opt.Dtstart = p.cal.Epoch()
	}
	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return fmt.Errorf("invalid rrule %q: %w", event.RRule, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.recurring = append(p.recurring, recurringRule{rule: rule, event: event})
	return nil
}

// EventsForWeek returns the events on the dates of a week offset keyed by date.
// A stored event replaces a recurring one on the same date.
func (p *Planner) EventsForWeek(week int) map[string]model.Event {
	start := p.cal.WeekStart(week)
	end := start.AddDate(0, 0, 7).Add(-time.Nanosecond)

	p.mu.RLock()
	defer p.mu.RUnlock()

	events := make(map[string]model.Event)
	for i, r := range p.recurring {
		for _, occurrence := range r.rule.Between(start, end, true) {
			date := calendar.FormatDate(occurrence.In(p.cal.Location()))
			if _, taken := events[date]; taken {
				continue
			}
			events[date] = model.Event{
				ID:          fmt.Sprintf("recurring-%d-%s", i, date),
				Date:        date,
				Color:       r.event.Color,
				Type:        r.event.Type,
				CustomText:  r.event.CustomText,
				Description: r.event.Description,
			}
		}
	}

	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		date := calendar.FormatDate(d)
		if event, ok := p.events[date]; ok {
			events[date] = event
		}
	}

	return events
}

func validateEvent(eventType string, color model.EventColor, customText string) error {
	if !color.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidEventColor, color)
	}
	if !slices.Contains(model.EventTypes, eventType) {
		return fmt.Errorf("%w: %q", ErrInvalidEventType, eventType)
	}
	if eventType == model.EventTypeCustom && strings.TrimSpace(customText) == "" {
		return ErrMissingCustomText
	}
	return nil
}
