package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
)

func TestTotalCredits_ExcludesDesk(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2023-12-01", model.PositionLead, model.RoleTI)
	l.AddCredit("jane", dragons(), "2023-12-02", model.PositionAssist, model.RoleTI)
	l.AddCredit("jane", dragons(), "2023-12-03", model.PositionDesk, model.RoleTI)
	l.AddCredit("jane", dragons(), "2023-12-04", model.PositionDesk, model.RoleTI)

	assert.Equal(t, 3, l.TotalCredits("jane"))
	assert.Equal(t, 2, l.TotalDeskCredits("jane"))
	assert.Equal(t, 0, l.TotalCredits("nobody"))
}

func TestCreditsThisWeek(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2024-01-06", model.PositionLead, model.RoleTI)   // Saturday before
	l.AddCredit("jane", dragons(), "2024-01-07", model.PositionLead, model.RoleTI)   // Sunday, week start
	l.AddCredit("jane", dragons(), "2024-01-09", model.PositionAssist, model.RoleTI) // Tuesday
	l.AddCredit("jane", dragons(), "2024-01-09", model.PositionDesk, model.RoleTI)   // desk excluded
	l.AddCredit("jane", dragons(), "2024-01-20", model.PositionAssist, model.RoleTI) // future, still on/after start

	assert.Equal(t, 4, l.CreditsThisWeek("jane"))
}

func TestCreditsThisWeek_OnSunday(t *testing.T) {
	sunday := time.Date(2024, time.January, 7, 8, 0, 0, 0, time.UTC)
	l := New(WithClock(func() time.Time { return sunday }), WithLocation(time.UTC))

	l.AddCredit("jane", dragons(), "2024-01-07", model.PositionLead, model.RoleTI)
	l.AddCredit("jane", dragons(), "2024-01-06", model.PositionLead, model.RoleTI)

	assert.Equal(t, 2, l.CreditsThisWeek("jane"))
}

func TestCreditsThisWeek_IgnoresMalformedDates(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "not-a-date", model.PositionLead, model.RoleTI)

	assert.Equal(t, 0, l.CreditsThisWeek("jane"))
	assert.Equal(t, 2, l.TotalCredits("jane"))
}

func TestMonthlyCredits(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2023-12-31", model.PositionLead, model.RoleTI)   // previous month
	l.AddCredit("jane", dragons(), "2024-01-01", model.PositionLead, model.RoleTI)   // first day
	l.AddCredit("jane", dragons(), "2024-01-15", model.PositionAssist, model.RoleTI) // middle
	l.AddCredit("jane", dragons(), "2024-01-31", model.PositionAssist, model.RoleTI) // last day
	l.AddCredit("jane", dragons(), "2024-01-20", model.PositionDesk, model.RoleTI)   // desk excluded
	l.AddCredit("jane", dragons(), "2024-02-01", model.PositionLead, model.RoleTI)   // next month

	assert.Equal(t, 4, l.MonthlyCredits("jane", 2024, time.January))
	assert.Equal(t, 2, l.MonthlyCredits("jane", 2023, time.December))
	assert.Equal(t, 2, l.MonthlyCredits("jane", 2024, time.February))
	assert.Equal(t, 0, l.MonthlyCredits("jane", 2024, time.March))
}

func TestMonthlyCredits_LeapFebruary(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2024-02-29", model.PositionLead, model.RoleTI)

	assert.Equal(t, 2, l.MonthlyCredits("jane", 2024, time.February))
}

func TestDeskCreditsThisMonth(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2023-12-20", model.PositionDesk, model.RoleTI)
	l.AddCredit("jane", dragons(), "2024-01-01", model.PositionDesk, model.RoleTI)
	l.AddCredit("jane", dragons(), "2024-01-09", model.PositionDesk, model.RoleTI)
	l.AddCredit("jane", dragons(), "2024-01-09", model.PositionLead, model.RoleTI)

	assert.Equal(t, 2, l.DeskCreditsThisMonth("jane"))
}

func TestClassTypeSpread(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2024-01-02", model.PositionLead, model.RoleTI)
	l.AddCredit("jane", dragons(), "2024-01-03", model.PositionAssist, model.RoleTI)
	l.AddCredit("jane", dragons(), "2024-01-04", model.PositionAssist, model.RoleTI)
	l.AddCredit("jane", adults(), "2024-01-02", model.PositionLead, model.RoleTI)
	l.AddCredit("jane", adults(), "2024-01-05", model.PositionDesk, model.RoleTI)

	spread := l.ClassTypeSpread("jane")

	assert.Equal(t, map[string]TypeSpread{
		"Dragons": {Lead: 1, Assist: 2},
		"Adults":  {Lead: 1},
	}, spread)
	assert.Equal(t, 3, spread["Dragons"].Total())
}

func TestClassTypeSpread_OnlyDeskEntries(t *testing.T) {
	l := newTestLedger()
	l.AddCredit("jane", dragons(), "2024-01-02", model.PositionDesk, model.RoleTI)

	assert.Empty(t, l.ClassTypeSpread("jane"))
}

func TestLedger_ConcurrentAccess(t *testing.T) {
	l := New(WithLocation(time.UTC))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l.AddCredit("jane", dragons(), "2024-01-09", model.PositionLead, model.RoleTI)
		}()
		go func() {
			defer wg.Done()
			_ = l.TotalCredits("jane")
		}()
	}
	wg.Wait()

	assert.Equal(t, 100, l.TotalCredits("jane"))
}
