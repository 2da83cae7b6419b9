package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jakechorley/dojo-roster/internal/config"
	"github.com/jakechorley/dojo-roster/pkg/core/ledger"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/planner"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
	"github.com/jakechorley/dojo-roster/pkg/core/users"
)

// Monday of week 1 (2023-11-05 to 2023-11-11)
var testNow = time.Date(2023, 11, 6, 12, 0, 0, 0, time.UTC)

// Tuesday 2023-11-07 is six days after the epoch
const (
	tuesdayDragons = "6-0"
	tuesdayAdults  = "6-4"
)

func newTestApp(t *testing.T) *AppContext {
	t.Helper()

	cfg, err := config.Default()
	require.NoError(t, err)
	cfg.Timezone = "UTC"

	app := &AppContext{}
	require.NoError(t, app.Init(cfg, zap.NewNop(), func() time.Time { return testNow }, users.WithCost(bcrypt.MinCost)))
	return app
}

// run executes one command the way the interactive session does
func run(t *testing.T, app *AppContext, line string) (string, error) {
	t.Helper()

	parts, err := parseCommandLine(line)
	require.NoError(t, err)
	require.NotEmpty(t, parts)

	var target *cobra.Command
	for _, cmd := range All(app) {
		if cmd.Name() == parts[0] {
			target = cmd
		}
	}
	require.NotNil(t, target, "unknown command %s", parts[0])

	var out bytes.Buffer
	err = runCommand(target, parts[1:], &out)
	return out.String(), err
}

func mustRun(t *testing.T, app *AppContext, line string) string {
	t.Helper()
	out, err := run(t, app, line)
	require.NoError(t, err, line)
	return out
}

func TestInit_StartsAtCurrentWeek(t *testing.T) {
	app := newTestApp(t)

	assert.Equal(t, 1, app.Session.Week)
	assert.Empty(t, app.Session.Username)
	assert.Len(t, app.Users.List(), 4)
}

func TestResolveDate(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name string
		day  string
		want string
	}{
		{name: "weekday name", day: "tuesday", want: "2023-11-07"},
		{name: "short weekday name", day: "Sun", want: "2023-11-05"},
		{name: "explicit date", day: "2023-11-14", want: "2023-11-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, err := app.ResolveDate(tt.day)
			require.NoError(t, err)
			assert.Equal(t, tt.want, date.Format("2006-01-02"))
		})
	}

	t.Run("invalid day", func(t *testing.T) {
		_, err := app.ResolveDate("funday")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "weekday name or YYYY-MM-DD")
	})
}

func TestResolveOccurrence(t *testing.T) {
	app := newTestApp(t)

	id, err := app.ResolveOccurrence("tuesday", "1")
	require.NoError(t, err)
	assert.Equal(t, tuesdayDragons, id)

	_, state := app.Roster.Get(id)
	assert.Equal(t, roster.StatePresent, state)

	_, err = app.ResolveOccurrence("tuesday", "0")
	require.Error(t, err)

	_, err = app.ResolveOccurrence("2023-10-30", "1")
	require.ErrorIs(t, err, services.ErrUnknownClass)
}

func TestLoginLogout(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "login jane wrong")
	require.ErrorIs(t, err, users.ErrInvalidCredentials)

	out := mustRun(t, app, "login jane password456")
	assert.Contains(t, out, "Logged in as jane (TI)")

	out = mustRun(t, app, "whoami")
	assert.Contains(t, out, "jane (TI)")
	assert.Contains(t, out, "lead, desk, assist")

	mustRun(t, app, "logout")
	_, err = run(t, app, "whoami")
	require.ErrorIs(t, err, errNotLoggedIn)
}

func TestCurrentUser_DeletedAccountEndsSession(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login jane password456")

	require.True(t, app.Users.Delete("jane"))

	_, err := app.CurrentUser()
	require.ErrorIs(t, err, services.ErrUnknownUser)
	assert.Contains(t, err.Error(), "jane")
	assert.Empty(t, app.Session.Username)
}

func TestSignupAndWithdraw(t *testing.T) {
	app := newTestApp(t)

	_, err := run(t, app, "signup tuesday 1 lead")
	require.ErrorIs(t, err, errNotLoggedIn)

	mustRun(t, app, "login jane password456")
	out := mustRun(t, app, "signup tuesday 1 lead")
	assert.Contains(t, out, "Signed up for Dragons 04:30 PM - 05:00 PM as lead")

	occ, _ := app.Roster.Get(tuesdayDragons)
	require.Len(t, occ.Lead, 1)
	assert.Equal(t, "jane", occ.Lead[0].Username)
	assert.Equal(t, ledger.CreditsFor(model.PositionLead), app.Ledger.TotalCredits("jane"))

	out = mustRun(t, app, "signup tuesday 1 desk")
	assert.Contains(t, out, "Moved from lead")
	assert.Equal(t, 0, app.Ledger.TotalCredits("jane"))
	assert.Equal(t, 1, app.Ledger.TotalDeskCredits("jane"))

	out = mustRun(t, app, "withdraw tuesday 1")
	assert.Contains(t, out, "Withdrew from desk")
	assert.Empty(t, app.Ledger.Entries("jane"))

	_, err = run(t, app, "withdraw tuesday 1")
	require.ErrorIs(t, err, services.ErrNotSignedUp)
}

func TestSignup_JuniorLeaderAssists(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login john password123")

	out := mustRun(t, app, "signup tuesday 1 lead")
	assert.Contains(t, out, "as assist")
	assert.Contains(t, out, "JL users always sign up to assist")
}

func TestSignup_InvalidPosition(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login jane password456")

	_, err := run(t, app, "signup tuesday 1 sensei")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "position must be lead, desk or assist")
}

func TestWeekNavigation(t *testing.T) {
	app := newTestApp(t)

	out := mustRun(t, app, "week")
	assert.Contains(t, out, "Week 2")
	assert.Contains(t, out, "November 5 - November 9")
	assert.Contains(t, out, "Tuesday 7th")
	assert.Contains(t, out, "#5 07:30 PM - 08:30 PM")

	mustRun(t, app, "next")
	assert.Equal(t, 2, app.Session.Week)

	mustRun(t, app, "week 0")
	assert.Equal(t, 0, app.Session.Week)
	_, err := run(t, app, "prev")
	require.Error(t, err)

	_, err = run(t, app, "week -1")
	require.Error(t, err)

	mustRun(t, app, "today")
	assert.Equal(t, 1, app.Session.Week)
}

func TestAdminCommands_RequireAdmin(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login jane password456")

	for _, line := range []string{
		"loop",
		"focus Kicks",
		"event tuesday Tournament",
		"deleteClass tuesday 1",
		"creditSheet",
		"createUser bob JL secret",
		"setPosition tuesday 1 desk closed",
	} {
		t.Run(line, func(t *testing.T) {
			_, err := run(t, app, line)
			require.ErrorIs(t, err, services.ErrNotAdmin)
		})
	}
}

func TestPlannerCommands(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login admin adminpass")

	out := mustRun(t, app, "loop")
	assert.Contains(t, out, "Week 1 now restarts")
	assert.True(t, app.Planner.IsLoopPoint(1))

	mustRun(t, app, "focus 'Front kicks'")
	assert.Equal(t, "Front kicks", app.Planner.Focus(1))

	out = mustRun(t, app, `event tuesday "Special Class" green --description "Guest instructor"`)
	assert.Contains(t, out, "Tuesday 7th: Special Class")

	out = mustRun(t, app, "week")
	assert.Contains(t, out, "Week 1 ⟲")
	assert.Contains(t, out, "Focus: Front kicks")
	assert.Contains(t, out, "[Special Class]")
	assert.Contains(t, out, "Guest instructor")

	_, err := run(t, app, "event tuesday Custom")
	require.ErrorIs(t, err, planner.ErrMissingCustomText)

	mustRun(t, app, "deleteEvent tuesday")
	_, ok := app.Planner.Event("2023-11-07")
	assert.False(t, ok)
	_, err = run(t, app, "deleteEvent tuesday")
	require.Error(t, err)

	mustRun(t, app, "focus")
	assert.Empty(t, app.Planner.Focus(1))
}

func TestAdminClassCommands(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login admin adminpass")

	out := mustRun(t, app, "addToClass tuesday 5 jane lead")
	assert.Contains(t, out, "Added jane as lead")

	out = mustRun(t, app, "editClass tuesday 5 --start 19:45 --end 20:45")
	assert.Contains(t, out, "Adults (Muay Thai) 07:45 PM - 08:45 PM")
	entries := app.Ledger.Entries("jane")
	require.Len(t, entries, 1)
	assert.Equal(t, 79, entries[0].StartTime)

	_, err := run(t, app, "editClass tuesday 5")
	require.Error(t, err)
	_, err = run(t, app, "editClass tuesday 5 --start 19:50")
	require.Error(t, err)

	out = mustRun(t, app, "setPosition tuesday 5 desk open")
	assert.Contains(t, out, "desk is now open")

	out = mustRun(t, app, "deleteClass tuesday 5")
	assert.Contains(t, out, "Removed jane (lead)")
	assert.Equal(t, 0, app.Ledger.TotalCredits("jane"))

	out = mustRun(t, app, "week")
	assert.Contains(t, out, "#5 "+colorDim+"(deleted)")

	out = mustRun(t, app, "restoreClass tuesday 5")
	assert.Contains(t, out, "Restored Adults (Muay Thai) 07:30 PM - 08:30 PM")

	mustRun(t, app, "addToClass tuesday 1 john assist")
	out = mustRun(t, app, "removeFromClass tuesday 1 john")
	assert.Contains(t, out, "Removed john from assist")
}

func TestCreditCommands(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login jane password456")
	mustRun(t, app, "signup tuesday 1 lead")
	mustRun(t, app, "signup tuesday 5 assist")

	out := mustRun(t, app, "credits --sort oldest")
	assert.Contains(t, out, "Credits for jane")
	assert.Contains(t, out, "Dragons")
	assert.Contains(t, out, "Adults")

	_, err := run(t, app, "credits --filter year")
	require.Error(t, err)

	_, err = run(t, app, "credits alice")
	require.ErrorIs(t, err, services.ErrNotAdmin)

	mustRun(t, app, "logout")
	mustRun(t, app, "login admin adminpass")

	out = mustRun(t, app, "creditSheet")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[1], "admin"))

	path := filepath.Join(t.TempDir(), "credits.xlsx")
	mustRun(t, app, "exportCredits "+path)
	_, err = os.Stat(path)
	require.NoError(t, err)

	entry := app.Ledger.Entries("jane")[0]
	mustRun(t, app, "removeCredit jane "+entry.ID)
	assert.Len(t, app.Ledger.Entries("jane"), 1)

	_, err = run(t, app, "removeCredit jane "+entry.ID)
	require.Error(t, err)
}

func TestUserCommands(t *testing.T) {
	app := newTestApp(t)
	mustRun(t, app, "login admin adminpass")

	out := mustRun(t, app, "createUser bob ti secret --email bob@example.com")
	assert.Contains(t, out, "Created bob (TI)")

	_, err := run(t, app, "createUser bob JL secret")
	require.ErrorIs(t, err, users.ErrUserExists)
	_, err = run(t, app, "createUser carol Sensei secret")
	require.Error(t, err)

	out = mustRun(t, app, "users")
	assert.Contains(t, out, "Found 5 members")
	assert.Contains(t, out, "- bob (TI) - bob@example.com")

	out = mustRun(t, app, "editUser bob --role CI --phone 555-0100")
	assert.Contains(t, out, "Updated bob (CI)")
	bob, ok := app.Users.Get("bob")
	require.True(t, ok)
	assert.Equal(t, "555-0100", bob.Phone)

	_, err = run(t, app, "editUser bob")
	require.Error(t, err)

	_, err = run(t, app, "deleteUser admin")
	require.Error(t, err)

	mustRun(t, app, "deleteUser bob")
	_, ok = app.Users.Get("bob")
	assert.False(t, ok)

	_, err = run(t, app, "deleteUser bob")
	require.ErrorIs(t, err, users.ErrUserNotFound)
}

func TestProfileCommand(t *testing.T) {
	t.Run("TI changes preferences", func(t *testing.T) {
		app := newTestApp(t)
		mustRun(t, app, "login jane password456")

		out := mustRun(t, app, "profile --lead=false --phone 555-0199")
		assert.Contains(t, out, "Signs up for: desk, assist")

		jane, _ := app.Users.Get("jane")
		assert.False(t, jane.Prefers(model.PositionLead))
		assert.Equal(t, "555-0199", jane.Phone)
	})

	t.Run("JL cannot change preferences", func(t *testing.T) {
		app := newTestApp(t)
		mustRun(t, app, "login john password123")

		_, err := run(t, app, "profile --lead")
		require.ErrorIs(t, err, users.ErrPreferencesDisabled)

		out := mustRun(t, app, "profile --email john@example.com")
		assert.Contains(t, out, "john@example.com")
	})
}
