package ledger

import (
	"time"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

// TypeSpread counts lead and assist entries for one class type
type TypeSpread struct {
	Lead   int
	Assist int
}

// Total returns the number of counted entries
func (s TypeSpread) Total() int {
	return s.Lead + s.Assist
}

// TotalCredits sums the credits of all non-desk entries
func (l *Ledger) TotalCredits(username string) int {
	return l.sumCredits(username, func(model.CreditEntry, time.Time, bool) bool { return true })
}

// TotalDeskCredits counts desk entries. This is a count, not a point sum.
func (l *Ledger) TotalDeskCredits(username string) int {
	count := 0
	for _, e := range l.Entries(username) {
		if e.IsDeskCredit {
			count++
		}
	}
	return count
}

// CreditsThisWeek sums non-desk credits dated on or after the Sunday that starts the
// current real-world week, according to the ledger's clock
func (l *Ledger) CreditsThisWeek(username string) int {
	now := l.now().In(l.loc)
	weekStart := time.Date(now.Year(), now.Month(), now.Day()-int(now.Weekday()), 0, 0, 0, 0, l.loc)

	return l.sumCredits(username, func(_ model.CreditEntry, date time.Time, ok bool) bool {
		return ok && !date.Before(weekStart)
	})
}

// MonthlyCredits sums non-desk credits dated within the given calendar month
func (l *Ledger) MonthlyCredits(username string, year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, l.loc)
	last := time.Date(year, month+1, 0, 0, 0, 0, 0, l.loc)

	return l.sumCredits(username, func(_ model.CreditEntry, date time.Time, ok bool) bool {
		return ok && !date.Before(first) && !date.After(last)
	})
}

// DeskCreditsThisMonth counts desk entries dated on or after the first of the current month
func (l *Ledger) DeskCreditsThisMonth(username string) int {
	now := l.now().In(l.loc)
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, l.loc)

	count := 0
	for _, e := range l.Entries(username) {
		if e.Position != model.PositionDesk {
			continue
		}
		if date, ok := l.entryDate(e); ok && !date.Before(first) {
			count++
		}
	}
	return count
}

// ClassTypeSpread counts lead and assist entries per class type, ignoring desk work
func (l *Ledger) ClassTypeSpread(username string) map[string]TypeSpread {
	spread := make(map[string]TypeSpread)
	for _, e := range l.Entries(username) {
		if e.IsDeskCredit {
			continue
		}
		s := spread[e.ClassType]
		switch e.Position {
		case model.PositionLead:
			s.Lead++
		case model.PositionAssist:
			s.Assist++
		}
		spread[e.ClassType] = s
	}
	return spread
}

// sumCredits adds up non-desk credits accepted by include. include receives the
// parsed entry date and whether the date parsed at all.
func (l *Ledger) sumCredits(username string, include func(model.CreditEntry, time.Time, bool) bool) int {
	total := 0
	for _, e := range l.Entries(username) {
		if e.IsDeskCredit {
			continue
		}
		date, ok := l.entryDate(e)
		if include(e, date, ok) {
			total += e.Credits
		}
	}
	return total
}

func (l *Ledger) entryDate(e model.CreditEntry) (time.Time, bool) {
	date, err := time.ParseInLocation("2006-01-02", e.Date, l.loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}
