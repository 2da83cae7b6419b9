package commands

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/dojo-roster/internal/config"
	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/ledger"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/planner"
	"github.com/jakechorley/dojo-roster/pkg/core/roster"
	"github.com/jakechorley/dojo-roster/pkg/core/schedule"
	"github.com/jakechorley/dojo-roster/pkg/core/services"
	"github.com/jakechorley/dojo-roster/pkg/core/users"
)

var errNotLoggedIn = errors.New("not logged in (use: login <username> <password>)")

// Session is the state of the person at the terminal
type Session struct {
	Username string
	Week     int
}

// AppContext holds the application dependencies shared across all commands
type AppContext struct {
	Cfg      *config.Config
	Calendar *calendar.Calendar
	Roster   *roster.Roster
	Ledger   *ledger.Ledger
	Users    *users.Directory
	Planner  *planner.Planner
	Logger   *zap.Logger
	Now      func() time.Time
	Session  Session
}

// Init builds the studio state from configuration and seeds the configured users
func (app *AppContext) Init(cfg *config.Config, logger *zap.Logger, now func() time.Time, userOpts ...users.Option) error {
	cal, err := cfg.Calendar()
	if err != nil {
		return fmt.Errorf("failed to build calendar: %w", err)
	}
	weekly, err := cfg.Weekly()
	if err != nil {
		return fmt.Errorf("failed to build schedule: %w", err)
	}

	app.Cfg = cfg
	app.Logger = logger
	app.Now = now
	app.Calendar = cal
	app.Roster = roster.New(cal, weekly, cfg.Policy(), cfg.PositionCapacity)
	app.Ledger = ledger.New(ledger.WithClock(now), ledger.WithLocation(cal.Location()))
	app.Users = users.New(userOpts...)
	app.Planner = planner.New(cal, planner.WithLoopPoints(cfg.LoopPoints...))

	for _, u := range cfg.Users {
		if _, err := app.Users.Create(users.NewUser{
			Username:    u.Username,
			Role:        model.Role(u.Role),
			Password:    u.Password,
			Phone:       u.Phone,
			Email:       u.Email,
			Preferences: u.Preferences,
		}); err != nil {
			return fmt.Errorf("failed to create user %s: %w", u.Username, err)
		}
	}
	logger.Debug("Seeded users", zap.Int("count", len(cfg.Users)))

	for i, event := range cfg.RecurringEvents {
		if err := app.Planner.AddRecurring(planner.RecurringEvent{
			RRule:       event.RRule,
			Type:        event.Type,
			Color:       model.EventColor(event.Color),
			CustomText:  event.Text,
			Description: event.Description,
		}); err != nil {
			return fmt.Errorf("failed to add recurring event %d: %w", i, err)
		}
	}

	app.Session = Session{Week: app.currentWeek()}
	return nil
}

// currentWeek is the week offset containing today, never before the epoch week
func (app *AppContext) currentWeek() int {
	return max(app.Calendar.WeekOf(app.Now()), 0)
}

// CurrentUser returns the logged-in user as the directory currently has them
func (app *AppContext) CurrentUser() (model.User, error) {
	if app.Session.Username == "" {
		return model.User{}, errNotLoggedIn
	}
	user, ok := app.Users.Get(app.Session.Username)
	if !ok {
		username := app.Session.Username
		app.Session.Username = ""
		return model.User{}, fmt.Errorf("%w: %s", services.ErrUnknownUser, username)
	}
	return user, nil
}

// CurrentAdmin returns the logged-in user if they are an admin
func (app *AppContext) CurrentAdmin() (model.User, error) {
	user, err := app.CurrentUser()
	if err != nil {
		return model.User{}, err
	}
	if user.Role != model.RoleAdmin {
		return model.User{}, services.ErrNotAdmin
	}
	return user, nil
}

// Login authenticates and starts a session
func (app *AppContext) Login(username, password string) (model.User, error) {
	user, err := app.Users.Authenticate(username, password)
	if err != nil {
		app.Logger.Warn("Failed login", zap.String("username", username))
		return model.User{}, err
	}
	app.Session.Username = user.Username
	app.Logger.Info("Logged in", zap.String("username", user.Username), zap.String("role", string(user.Role)))
	return user, nil
}

// ResolveDate reads a day argument: a weekday name in the viewed week or a 2006-01-02 date
func (app *AppContext) ResolveDate(day string) (time.Time, error) {
	if date, err := calendar.ParseDate(day, app.Calendar.Location()); err == nil {
		return date, nil
	}
	weekday, ok := schedule.ParseWeekday(day)
	if !ok {
		return time.Time{}, fmt.Errorf("day must be a weekday name or YYYY-MM-DD, got: %s", day)
	}
	return app.Calendar.DayInWeek(app.Session.Week, weekday), nil
}

// ResolveOccurrence turns day and 1-based class number arguments into an occurrence id,
// generating the day's classes if nobody has viewed them yet
func (app *AppContext) ResolveOccurrence(day, slot string) (string, error) {
	date, err := app.ResolveDate(day)
	if err != nil {
		return "", err
	}
	n, err := strconv.Atoi(slot)
	if err != nil || n < 1 {
		return "", fmt.Errorf("class number must be a positive integer, got: %s", slot)
	}
	if app.Calendar.BeforeEpoch(date) {
		return "", fmt.Errorf("%w: %s is before the calendar starts", services.ErrUnknownClass, calendar.FormatDate(date))
	}

	app.Roster.EnsureRange(date, date)
	return app.Calendar.OccurrenceID(date, n-1), nil
}
