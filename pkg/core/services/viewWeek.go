package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
)

// WeekView is everything displayed for one week offset
type WeekView struct {
	Week        int
	VisualWeek  int
	IsLoopPoint bool
	RangeLabel  string
	Focus       string
	Days        []DayView
}

// DayView is one date of a week with its event and classes
type DayView struct {
	Date    time.Time
	Label   string
	Event   *model.Event
	Classes []roster.Slot
}

// ViewWeek materializes the classes of a week and gathers its decorations.
// Deleted classes are only shown to admins.
func ViewWeek(
	r ClassRoster,
	p WeekPlanner,
	viewer model.User,
	week int,
	logger *zap.Logger,
) *WeekView {
	cal := r.Calendar()
	slots := r.EnsureWeek(week)
	events := p.EventsForWeek(week)

	view := &WeekView{
		Week:        week,
		VisualWeek:  p.VisualWeek(week),
		IsLoopPoint: p.IsLoopPoint(week),
		RangeLabel:  cal.WeekRangeLabel(week),
		Focus:       p.Focus(week),
	}

	byDate := make(map[string][]roster.Slot)
	hidden := 0
	for _, slot := range slots {
		if slot.Deleted && viewer.Role != model.RoleAdmin {
			hidden++
			continue
		}
		date := calendar.FormatDate(slot.Date)
		byDate[date] = append(byDate[date], slot)
	}

	start := cal.WeekStart(week)
	for i := range 7 {
		day := start.AddDate(0, 0, i)
		date := calendar.FormatDate(day)

		classes := byDate[date]
		event, hasEvent := events[date]
		if len(classes) == 0 && !hasEvent {
			continue
		}

		dv := DayView{Date: day, Label: calendar.DayLabel(day), Classes: classes}
		if hasEvent {
			dv.Event = &event
		}
		view.Days = append(view.Days, dv)
	}

	logger.Debug("Viewed week",
		zap.Int("week", week),
		zap.Int("visual_week", view.VisualWeek),
		zap.Int("classes", len(slots)-hidden),
		zap.Int("hidden", hidden),
		zap.Int("events", len(events)))

	return view
}
