package config

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/dojo-roster/pkg/core/calendar"
	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/positions"
	"github.com/jakechorley/dojo-roster/pkg/core/schedule"
)

//go:embed defaults.yaml
var defaultConfig []byte

// ErrConfigNotFound is returned when no config file exists in the search paths
var ErrConfigNotFound = errors.New("config file not found in current directory or home directory")

// ClassConfig defines one weekly class. Times are 24-hour "15:04" on a quarter hour.
type ClassConfig struct {
	Start   string `yaml:"start" validate:"required,datetime=15:04"`
	End     string `yaml:"end" validate:"required,datetime=15:04"`
	Type    string `yaml:"type" validate:"required"`
	Variant string `yaml:"variant,omitempty"`
	Color   string `yaml:"color,omitempty" validate:"omitempty,oneof=red blue green black yellow purple"`
}

// UserConfig defines an account created at startup
type UserConfig struct {
	Username    string           `yaml:"username" validate:"required,max=32"`
	Role        string           `yaml:"role" validate:"required,oneof=JL TI CI Admin"`
	Password    string           `yaml:"password" validate:"required,min=4"`
	Phone       string           `yaml:"phone,omitempty"`
	Email       string           `yaml:"email,omitempty" validate:"omitempty,email"`
	Preferences *model.Positions `yaml:"preferences,omitempty"`
}

// RecurringEventConfig defines a day event repeated on every date an RRULE matches
type RecurringEventConfig struct {
	RRule       string `yaml:"rrule" validate:"required"`
	Type        string `yaml:"type" validate:"required"`
	Color       string `yaml:"color" validate:"required,oneof=red blue green yellow purple orange"`
	Text        string `yaml:"text,omitempty"`
	Description string `yaml:"description,omitempty"`
}

// Config represents the studio configuration
type Config struct {
	Epoch             string                     `yaml:"epoch" validate:"required,datetime=2006-01-02"`
	Timezone          string                     `yaml:"timezone,omitempty" validate:"omitempty,timezone"`
	PositionCapacity  int                        `yaml:"positionCapacity,omitempty" validate:"omitempty,min=1"`
	FallbackClassType string                     `yaml:"fallbackClassType" validate:"required"`
	ClassDefaults     map[string]model.Positions `yaml:"classDefaults" validate:"required,min=1"`
	Schedule          map[string][]ClassConfig   `yaml:"schedule" validate:"required,min=1,dive,dive"`
	Users             []UserConfig               `yaml:"users,omitempty" validate:"dive"`
	RecurringEvents   []RecurringEventConfig     `yaml:"recurringEvents,omitempty" validate:"dive"`
	LoopPoints        []int                      `yaml:"loopPoints,omitempty"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Default returns the built-in studio configuration
func Default() (*Config, error) {
	return parse(defaultConfig)
}

// Load loads and validates the configuration from studio_config.yaml
func Load() (*Config, error) {
	return LoadWithEnv("")
}

// LoadWithEnv loads and validates studio_config.<env>.yaml
// It looks for the config file in the current directory first, then in the user's home directory
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findConfigFile(configFileName(env))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parse(data)
}

func parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the configuration struct, the timetable and rrule syntax
func Validate(cfg *Config) error {
	// Run struct validation
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if _, ok := cfg.ClassDefaults[cfg.FallbackClassType]; !ok {
		return fmt.Errorf("fallbackClassType %q has no entry in classDefaults", cfg.FallbackClassType)
	}

	if _, err := cfg.Weekly(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(cfg.Users))
	for i, u := range cfg.Users {
		if seen[u.Username] {
			return fmt.Errorf("duplicate username in users[%d]: %s", i, u.Username)
		}
		seen[u.Username] = true
	}

	// Validate rrule syntax and event type for each recurring event
	for i, event := range cfg.RecurringEvents {
		if _, err := rrule.StrToRRule(event.RRule); err != nil {
			return fmt.Errorf("invalid rrule in recurringEvents[%d]: %w", i, err)
		}
		if !slices.Contains(model.EventTypes, event.Type) {
			return fmt.Errorf("invalid event type in recurringEvents[%d]: %q", i, event.Type)
		}
		if event.Type == model.EventTypeCustom && event.Text == "" {
			return fmt.Errorf("recurringEvents[%d]: custom events need text", i)
		}
	}

	return nil
}

// Location returns the configured timezone, or the local timezone when unset
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Calendar builds the calendar for the configured epoch and timezone
func (c *Config) Calendar() (*calendar.Calendar, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	epoch, err := calendar.ParseDate(c.Epoch, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid epoch: %w", err)
	}
	return calendar.New(epoch, loc), nil
}

// Weekly builds the class timetable
func (c *Config) Weekly() (*schedule.Weekly, error) {
	templates := make(map[time.Weekday][]model.ClassTemplate, len(c.Schedule))
	for dayName, classes := range c.Schedule {
		day, ok := schedule.ParseWeekday(dayName)
		if !ok {
			return nil, fmt.Errorf("invalid weekday in schedule: %q", dayName)
		}
		if _, dup := templates[day]; dup {
			return nil, fmt.Errorf("weekday %s listed twice in schedule", day)
		}

		list := make([]model.ClassTemplate, 0, len(classes))
		for i, class := range classes {
			tmpl, err := class.Template()
			if err != nil {
				return nil, fmt.Errorf("schedule %s[%d]: %w", day, i, err)
			}
			list = append(list, tmpl)
		}
		templates[day] = list
	}

	weekly := schedule.NewWeekly(templates)
	if err := weekly.Validate(); err != nil {
		return nil, fmt.Errorf("invalid schedule: %w", err)
	}
	return weekly, nil
}

// Policy builds the position default policy
func (c *Config) Policy() *positions.Policy {
	return positions.NewPolicy(c.ClassDefaults, c.FallbackClassType)
}

// Template converts the class to a template with quarter-hour time indexes
func (c ClassConfig) Template() (model.ClassTemplate, error) {
	start, err := ParseClock(c.Start)
	if err != nil {
		return model.ClassTemplate{}, err
	}
	end, err := ParseClock(c.End)
	if err != nil {
		return model.ClassTemplate{}, err
	}
	return model.ClassTemplate{
		StartTime:  start,
		EndTime:    end,
		Type:       c.Type,
		Subvariant: c.Variant,
		Color:      c.Color,
	}, nil
}

// ParseClock converts a 24-hour "15:04" time on a quarter hour to a time index
func ParseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	if t.Minute()%15 != 0 {
		return 0, fmt.Errorf("time %q is not on a quarter hour", s)
	}
	return t.Hour()*4 + t.Minute()/15, nil
}

func configFileName(env string) string {
	if env == "" {
		return "studio_config.yaml"
	}
	return fmt.Sprintf("studio_config.%s.yaml", env)
}

// findConfigFile searches for the config file in current directory and home directory
func findConfigFile(configFileName string) (string, error) {
	// Check current directory
	if _, err := os.Stat(configFileName); err == nil {
		return configFileName, nil
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homeConfigPath := filepath.Join(homeDir, configFileName)
	if _, err := os.Stat(homeConfigPath); err == nil {
		return homeConfigPath, nil
	}

	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, configFileName)
}
