package roster

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/positions"
	"github.com/jakechorley/dojo-roster/pkg/core/schedule"
)

// DefaultCapacity is the number of signups a position holds before it closes
const DefaultCapacity = 3

var (
	ErrNotFound = errors.New("class not found")
	ErrDeleted  = errors.New("class has been deleted")
)

// State describes what the roster holds for an occurrence id
type State int

const (
	// StateMissing means the occurrence has never been generated
	StateMissing State = iota
	// StateDeleted means an admin deleted the occurrence; it is not regenerated
	StateDeleted
	// StatePresent means the occurrence exists
	StatePresent
)

// Slot is one templated class position in a displayed date range
type Slot struct {
	ID         string
	Date       time.Time
	Weekday    time.Weekday
	Index      int
	Occurrence *model.ClassOccurrence // nil when Deleted
	Deleted    bool
}

// Roster is the map of materialized class occurrences for the session.
// A nil map value is a deletion marker, distinct from an absent key.
type Roster struct {
	mu          sync.RWMutex
	occurrences map[string]*model.ClassOccurrence

	cal      *calendar.Calendar
	schedule *schedule.Weekly
	policy   *positions.Policy
	capacity int
}

// New creates an empty roster. A capacity below 1 uses DefaultCapacity.
func New(cal *calendar.Calendar, sched *schedule.Weekly, policy *positions.Policy, capacity int) *Roster {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &Roster{
		occurrences: make(map[string]*model.ClassOccurrence),
		cal:         cal,
		schedule:    sched,
		policy:      policy,
		capacity:    capacity,
	}
}

// Calendar returns the calendar occurrence ids are derived from
func (r *Roster) Calendar() *calendar.Calendar {
	return r.cal
}

// Capacity returns the per-position signup limit
func (r *Roster) Capacity() int {
	return r.capacity
}

// EnsureRange materializes occurrences for every templated class on the dates from..to
// (inclusive) that are not already present or deleted, and returns the merged slots in
// date and slot order. Dates before the epoch produce nothing. Calling it again for the
// same range changes nothing.
func (r *Roster) EnsureRange(from, to time.Time) []Slot {
	loc := r.cal.Location()
	start := calendar.StartOfDay(from.In(loc))
	end := calendar.StartOfDay(to.In(loc))

	r.mu.Lock()
	defer r.mu.Unlock()

	var slots []Slot
	for date := start; !date.After(end); date = time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc) {
		if r.cal.BeforeEpoch(date) {
			continue
		}
		for i, tmpl := range r.schedule.Templates(date.Weekday()) {
			id := r.cal.OccurrenceID(date, i)
			occ, exists := r.occurrences[id]
			if !exists {
				occ = r.materialize(id, tmpl)
				r.occurrences[id] = occ
			}
			slots = append(slots, Slot{
				ID:         id,
				Date:       date,
				Weekday:    date.Weekday(),
				Index:      i,
				Occurrence: occ.Clone(),
				Deleted:    occ == nil,
			})
		}
	}
	return slots
}

// EnsureWeek materializes and returns the slots of a week offset (Sunday to Saturday)
func (r *Roster) EnsureWeek(week int) []Slot {
	start := r.cal.WeekStart(week)
	return r.EnsureRange(start, start.AddDate(0, 0, 6))
}

// Get returns a copy of an occurrence and what state its id is in
func (r *Roster) Get(id string) (*model.ClassOccurrence, State) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	occ, exists := r.occurrences[id]
	switch {
	case !exists:
		return nil, StateMissing
	case occ == nil:
		return nil, StateDeleted
	default:
		return occ.Clone(), StatePresent
	}
}

// SignUpResult describes the effect of a signup
type SignUpResult struct {
	// Previous is the position the user held before, if Moved
	Previous model.Position
	Moved    bool
	// Occurrence is the updated occurrence
	Occurrence *model.ClassOccurrence
}

// SignUp places a user in a position, first removing them from any position they hold
// in the same occurrence. It reports false when the occurrence is not present.
// Availability is not checked here; callers decide who may exceed it.
func (r *Roster) SignUp(id, username string, role model.Role, pos model.Position) (SignUpResult, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ := r.occurrences[id]
	if occ == nil || !pos.IsValid() {
		return SignUpResult{}, false
	}

	var result SignUpResult
	if prev, ok := occ.PositionOf(username); ok {
		result.Previous = prev
		result.Moved = true
		removeUser(occ, username)
	}

	occ.SetSignUps(pos, append(occ.SignUps(pos), model.SignUp{Username: username, Role: role, Position: pos}))
	r.refresh(occ)

	result.Occurrence = occ.Clone()
	return result, true
}

// Withdraw removes a user from whichever position they hold
func (r *Roster) Withdraw(id, username string) (model.Position, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ := r.occurrences[id]
	if occ == nil {
		return "", false
	}

	pos, ok := occ.PositionOf(username)
	if !ok {
		return "", false
	}
	removeUser(occ, username)
	r.refresh(occ)

	return pos, true
}

// Delete replaces a present occurrence with a deletion marker and returns the
// occurrence as it was, so callers can reverse its signups
func (r *Roster) Delete(id string) (*model.ClassOccurrence, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ := r.occurrences[id]
	if occ == nil {
		return nil, false
	}
	r.occurrences[id] = nil
	return occ, true
}

// Restore regenerates a deleted occurrence from its template, with no signups
func (r *Roster) Restore(id string) (*model.ClassOccurrence, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ, exists := r.occurrences[id]
	if !exists || occ != nil {
		return nil, false
	}

	tmpl, ok := r.templateFor(id)
	if !ok {
		return nil, false
	}

	occ = r.materialize(id, tmpl)
	r.occurrences[id] = occ
	return occ.Clone(), true
}

// ClassEdit holds admin changes to an occurrence; nil fields are left unchanged
type ClassEdit struct {
	Type       *string
	Subvariant *string
	StartTime  *int
	EndTime    *int
	Color      *string
}

// Update applies an edit to a present occurrence and returns copies from before and
// after the change. Changing the class type resets the position defaults from the
// policy and drops admin overrides.
func (r *Roster) Update(id string, edit ClassEdit) (before, after *model.ClassOccurrence, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ, exists := r.occurrences[id]
	if !exists {
		return nil, nil, ErrNotFound
	}
	if occ == nil {
		return nil, nil, ErrDeleted
	}

	updated := occ.ClassTemplate
	if edit.Type != nil {
		updated.Type = *edit.Type
	}
	if edit.Subvariant != nil {
		updated.Subvariant = *edit.Subvariant
	}
	if edit.StartTime != nil {
		updated.StartTime = *edit.StartTime
	}
	if edit.EndTime != nil {
		updated.EndTime = *edit.EndTime
	}
	if edit.Color != nil {
		updated.Color = *edit.Color
	}
	if err := schedule.ValidateTemplate(updated); err != nil {
		return nil, nil, fmt.Errorf("invalid class edit: %w", err)
	}

	before = occ.Clone()
	typeChanged := updated.Type != occ.Type
	occ.ClassTemplate = updated
	if typeChanged {
		occ.Defaults = r.policy.Defaults(updated.Type)
		occ.Overrides = nil
	}
	r.refresh(occ)

	return before, occ.Clone(), nil
}

// SetOverride forces a position open or closed regardless of defaults and occupancy.
// The override lives on the occurrence and survives every later EnsureRange.
func (r *Roster) SetOverride(id string, pos model.Position, open bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ := r.occurrences[id]
	if occ == nil || !pos.IsValid() {
		return false
	}
	if occ.Overrides == nil {
		occ.Overrides = make(map[model.Position]bool)
	}
	occ.Overrides[pos] = open
	r.refresh(occ)
	return true
}

// ClearOverride returns a position to its default and occupancy-driven availability
func (r *Roster) ClearOverride(id string, pos model.Position) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	occ := r.occurrences[id]
	if occ == nil {
		return false
	}
	delete(occ.Overrides, pos)
	r.refresh(occ)
	return true
}

// OccurrencesFor returns the ids of present occurrences where username holds a position
func (r *Roster) OccurrencesFor(username string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var ids []string
	for id, occ := range r.occurrences {
		if occ == nil {
			continue
		}
		if _, ok := occ.PositionOf(username); ok {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids
}

func (r *Roster) materialize(id string, tmpl model.ClassTemplate) *model.ClassOccurrence {
	occ := &model.ClassOccurrence{
		ID:            id,
		ClassTemplate: tmpl,
		Defaults:      r.policy.Defaults(tmpl.Type),
	}
	r.refresh(occ)
	return occ
}

func (r *Roster) templateFor(id string) (model.ClassTemplate, bool) {
	days, slot, err := calendar.ParseOccurrenceID(id)
	if err != nil {
		return model.ClassTemplate{}, false
	}
	return r.schedule.Template(r.cal.DateOf(days).Weekday(), slot)
}

// refresh recomputes AvailablePositions from overrides, defaults and occupancy
func (r *Roster) refresh(occ *model.ClassOccurrence) {
	for _, pos := range model.AllPositions {
		if open, ok := occ.Overrides[pos]; ok {
			occ.AvailablePositions.Set(pos, open)
			continue
		}
		occ.AvailablePositions.Set(pos, occ.Defaults.Get(pos) && len(occ.SignUps(pos)) < r.capacity)
	}
}

func removeUser(occ *model.ClassOccurrence, username string) {
	for _, pos := range model.AllPositions {
		occ.SetSignUps(pos, slices.DeleteFunc(occ.SignUps(pos), func(s model.SignUp) bool {
			return s.Username == username
		}))
	}
}
