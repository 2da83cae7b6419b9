package services

import (
	"time"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/ledger"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
)

// ClassRoster defines the occurrence operations services need
type ClassRoster interface {
	Calendar() *calendar.Calendar
	EnsureWeek(week int) []roster.Slot
	Get(id string) (*model.ClassOccurrence, roster.State)
	SignUp(id, username string, role model.Role, pos model.Position) (roster.SignUpResult, bool)
	Withdraw(id, username string) (model.Position, bool)
	Delete(id string) (*model.ClassOccurrence, bool)
	Restore(id string) (*model.ClassOccurrence, bool)
	Update(id string, edit roster.ClassEdit) (before, after *model.ClassOccurrence, err error)
	SetOverride(id string, pos model.Position, open bool) bool
	ClearOverride(id string, pos model.Position) bool
}

// CreditLedger defines the ledger operations services need
type CreditLedger interface {
	AddCredit(username string, occ model.ClassOccurrence, date string, pos model.Position, role model.Role) model.CreditEntry
	RemoveCredit(username string, occ model.ClassOccurrence, date string) int
	RemoveEntry(username, entryID string) bool
	Entries(username string) []model.CreditEntry
	TotalCredits(username string) int
	TotalDeskCredits(username string) int
	CreditsThisWeek(username string) int
	MonthlyCredits(username string, year int, month time.Month) int
	DeskCreditsThisMonth(username string) int
	ClassTypeSpread(username string) map[string]ledger.TypeSpread
}

// UserDirectory defines the account lookups services need
type UserDirectory interface {
	Get(username string) (model.User, bool)
	List() []model.User
}

// WeekPlanner defines the calendar decorations shown with a week
type WeekPlanner interface {
	VisualWeek(week int) int
	IsLoopPoint(week int) bool
	Focus(week int) string
	EventsForWeek(week int) map[string]model.Event
}
