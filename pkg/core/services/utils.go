package services

import (
	"fmt"
	"time"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
)

// presentOccurrence fetches an occurrence that exists and has not been deleted
func presentOccurrence(r ClassRoster, id string) (*model.ClassOccurrence, error) {
	occ, state := r.Get(id)
	if state != roster.StatePresent {
		return nil, fmt.Errorf("%w: %s", ErrUnknownClass, id)
	}
	return occ, nil
}

// occurrenceDate derives the calendar date of an occurrence from its id
func occurrenceDate(r ClassRoster, id string) (time.Time, string, error) {
	date, err := r.Calendar().DateForID(id)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("%w: %v", ErrUnknownClass, err)
	}
	return date, calendar.FormatDate(date), nil
}

// isPast reports whether date is a calendar day before today
func isPast(r ClassRoster, date, now time.Time) bool {
	today := calendar.StartOfDay(now.In(r.Calendar().Location()))
	return date.Before(today)
}

// canChangePast reports whether a role may sign up for or leave past classes
func canChangePast(role model.Role) bool {
	return role == model.RoleAdmin || role == model.RoleCI
}

func requireAdmin(actor model.User) error {
	if actor.Role != model.RoleAdmin {
		return fmt.Errorf("%w: %s is %s", ErrNotAdmin, actor.Username, actor.Role)
	}
	return nil
}

// effectivePosition applies the rule that junior leaders always assist
func effectivePosition(role model.Role, pos model.Position) model.Position {
	if role == model.RoleJL {
		return model.PositionAssist
	}
	return pos
}
