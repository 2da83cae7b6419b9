package ledger

import (
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

// Credit values per position. Desk work earns a desk credit, which is counted
// separately and never contributes to lead/assist totals.
const (
	LeadCredits   = 2
	AssistCredits = 1
	DeskCredits   = 1
)

// Ledger owns every user's credit entries. Aggregates are always recomputed from
// the entries, so there is no cached total that can drift from them.
type Ledger struct {
	mu      sync.RWMutex
	entries map[string][]model.CreditEntry

	now   func() time.Time
	loc   *time.Location
	newID func() string
}

// Option configures a Ledger
type Option func(*Ledger)

// WithClock sets the clock used for "this week" and "this month" windows
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithLocation sets the location entry dates are interpreted in
func WithLocation(loc *time.Location) Option {
	return func(l *Ledger) {
		l.loc = loc
	}
}

// WithIDGenerator replaces the entry id generator
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) {
		l.newID = newID
	}
}

// New creates an empty ledger
func New(opts ...Option) *Ledger {
	l := &Ledger{
		entries: make(map[string][]model.CreditEntry),
		now:     time.Now,
		loc:     time.Local,
		newID:   func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// CreditsFor returns the point value of a position
func CreditsFor(position model.Position) int {
	switch position {
	case model.PositionLead:
		return LeadCredits
	case model.PositionAssist:
		return AssistCredits
	case model.PositionDesk:
		return DeskCredits
	default:
		return 0
	}
}

// AddCredit appends one entry for username. It is not idempotent: calling it twice
// with the same arguments records two entries.
func (l *Ledger) AddCredit(username string, occ model.ClassOccurrence, date string, position model.Position, role model.Role) model.CreditEntry {
	entry := model.CreditEntry{
		ID:           l.newID(),
		OccurrenceID: occ.ID,
		Username:     username,
		Role:         role,
		ClassType:    occ.Type,
		ClassVariant: occ.Subvariant,
		Date:         date,
		StartTime:    occ.StartTime,
		EndTime:      occ.EndTime,
		Position:     position,
		Credits:      CreditsFor(position),
		IsDeskCredit: position == model.PositionDesk,
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries[username] = append(l.entries[username], entry)

	return entry
}

// RemoveCredit deletes every entry of username matching the class type, date, start
// and end time of occ, whatever their position. It returns how many were deleted.
//
// Entries are matched on class attributes rather than identity, so two signups that
// share all four fields are indistinguishable here; use RemoveEntry to target one.
func (l *Ledger) RemoveCredit(username string, occ model.ClassOccurrence, date string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries, ok := l.entries[username]
	if !ok {
		return 0
	}

	kept := slices.DeleteFunc(slices.Clone(entries), func(e model.CreditEntry) bool {
		return e.ClassType == occ.Type &&
			e.Date == date &&
			e.StartTime == occ.StartTime &&
			e.EndTime == occ.EndTime
	})
	l.entries[username] = kept

	return len(entries) - len(kept)
}

// RemoveEntry deletes the single entry with the given id
func (l *Ledger) RemoveEntry(username, entryID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	entries := l.entries[username]
	i := slices.IndexFunc(entries, func(e model.CreditEntry) bool { return e.ID == entryID })
	if i < 0 {
		return false
	}
	l.entries[username] = slices.Delete(slices.Clone(entries), i, i+1)
	return true
}

// Entries returns a copy of username's entries in the order they were recorded
func (l *Ledger) Entries(username string) []model.CreditEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries[username])
}

// EntriesForOccurrence returns username's entries that were recorded for an occurrence id
func (l *Ledger) EntriesForOccurrence(username, occurrenceID string) []model.CreditEntry {
	var matched []model.CreditEntry
	for _, e := range l.Entries(username) {
		if e.OccurrenceID == occurrenceID {
			matched = append(matched, e)
		}
	}
	return matched
}

// Usernames lists every user with at least one recorded entry, sorted
func (l *Ledger) Usernames() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	names := make([]string, 0, len(l.entries))
	for name, entries := range l.entries {
		if len(entries) > 0 {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}
