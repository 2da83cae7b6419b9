package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/dojo-roster/pkg/core/model"
	"github.com/jakechorley/dojo-roster/pkg/core/schedule"
)

func validConfig() *Config {
	return &Config{
		Epoch:             "2023-11-01",
		Timezone:          "America/New_York",
		PositionCapacity:  3,
		FallbackClassType: "Dragons",
		ClassDefaults: map[string]model.Positions{
			"Dragons": {Lead: true, Desk: true, Assist: true},
			"Adults":  {Lead: true, Assist: true},
		},
		Schedule: map[string][]ClassConfig{
			"Tuesday": {
				{Start: "16:30", End: "17:00", Type: "Dragons", Color: "red"},
				{Start: "19:30", End: "20:30", Type: "Adults", Variant: "Muay Thai", Color: "green"},
			},
		},
		Users: []UserConfig{
			{Username: "admin", Role: "Admin", Password: "adminpass"},
		},
		RecurringEvents: []RecurringEventConfig{
			{RRule: "FREQ=YEARLY;BYMONTH=12;BYMONTHDAY=25", Type: "Holiday", Color: "red"},
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	err := Validate(validConfig())
	assert.NoError(t, err)
}

func TestValidate_MinimalConfig(t *testing.T) {
	cfg := &Config{
		Epoch:             "2023-11-01",
		FallbackClassType: "Dragons",
		ClassDefaults:     map[string]model.Positions{"Dragons": {Lead: true}},
		Schedule: map[string][]ClassConfig{
			"Sun": {{Start: "09:00", End: "09:30", Type: "Dragons"}},
		},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *Config)
		message string
	}{
		{
			name:    "missing epoch",
			mutate:  func(cfg *Config) { cfg.Epoch = "" },
			message: "validation failed",
		},
		{
			name:    "malformed epoch",
			mutate:  func(cfg *Config) { cfg.Epoch = "01/11/2023" },
			message: "validation failed",
		},
		{
			name:    "unknown timezone",
			mutate:  func(cfg *Config) { cfg.Timezone = "Mars/Olympus" },
			message: "validation failed",
		},
		{
			name:    "zero capacity is the default but negative is not",
			mutate:  func(cfg *Config) { cfg.PositionCapacity = -1 },
			message: "validation failed",
		},
		{
			name:    "fallback without defaults",
			mutate:  func(cfg *Config) { cfg.FallbackClassType = "Ninjas" },
			message: "fallbackClassType",
		},
		{
			name:    "unknown weekday",
			mutate:  func(cfg *Config) { cfg.Schedule["Caturday"] = cfg.Schedule["Tuesday"] },
			message: "invalid weekday",
		},
		{
			name:    "weekday listed twice",
			mutate:  func(cfg *Config) { cfg.Schedule["Tue"] = cfg.Schedule["Tuesday"] },
			message: "listed twice",
		},
		{
			name:    "off quarter hour",
			mutate:  func(cfg *Config) { cfg.Schedule["Tuesday"][0].Start = "16:20" },
			message: "quarter hour",
		},
		{
			name:    "ends before start",
			mutate:  func(cfg *Config) { cfg.Schedule["Tuesday"][0].End = "16:00" },
			message: "invalid schedule",
		},
		{
			name:    "class without type",
			mutate:  func(cfg *Config) { cfg.Schedule["Tuesday"][0].Type = "" },
			message: "validation failed",
		},
		{
			name:    "unknown class color",
			mutate:  func(cfg *Config) { cfg.Schedule["Tuesday"][0].Color = "pink" },
			message: "validation failed",
		},
		{
			name:    "unknown role",
			mutate:  func(cfg *Config) { cfg.Users[0].Role = "Sensei" },
			message: "validation failed",
		},
		{
			name: "duplicate username",
			mutate: func(cfg *Config) {
				cfg.Users = append(cfg.Users, UserConfig{Username: "admin", Role: "TI", Password: "secret"})
			},
			message: "duplicate username",
		},
		{
			name:    "invalid rrule",
			mutate:  func(cfg *Config) { cfg.RecurringEvents[0].RRule = "INVALID_RRULE_SYNTAX" },
			message: "invalid rrule",
		},
		{
			name:    "empty rrule",
			mutate:  func(cfg *Config) { cfg.RecurringEvents[0].RRule = "" },
			message: "validation failed",
		},
		{
			name:    "unknown event type",
			mutate:  func(cfg *Config) { cfg.RecurringEvents[0].Type = "Party" },
			message: "invalid event type",
		},
		{
			name:    "custom event without text",
			mutate:  func(cfg *Config) { cfg.RecurringEvents[0].Type = model.EventTypeCustom },
			message: "custom events need text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := Validate(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidate_ComplexValidRRule(t *testing.T) {
	cfg := validConfig()
	cfg.RecurringEvents = []RecurringEventConfig{
		{RRule: "FREQ=MONTHLY;BYDAY=1SU;BYMONTH=1,4,7,10", Type: "Promotion", Color: "purple"},
	}

	err := Validate(cfg)
	assert.NoError(t, err)
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "2023-11-01", cfg.Epoch)
	assert.Equal(t, 3, cfg.PositionCapacity)
	assert.Len(t, cfg.Users, 4)

	weekly, err := cfg.Weekly()
	require.NoError(t, err)
	assert.Equal(t, schedule.Default().Days(), weekly.Days())
	for _, day := range weekly.Days() {
		assert.Equal(t, schedule.Default().Templates(day), weekly.Templates(day), day.String())
	}

	policy := cfg.Policy()
	assert.Equal(t, model.Positions{Lead: true}, policy.Defaults("Black Belt"))
	assert.Equal(t, model.Positions{Lead: true, Desk: true, Assist: true}, policy.Defaults("Open Mat"))

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestCalendar(t *testing.T) {
	cfg := validConfig()

	cal, err := cfg.Calendar()
	require.NoError(t, err)

	assert.Equal(t, "America/New_York", cal.Location().String())
	assert.Equal(t, "2023-11-01", cal.Epoch().Format("2006-01-02"))
	assert.Equal(t, "5-0", cal.OccurrenceID(time.Date(2023, time.November, 6, 20, 0, 0, 0, cal.Location()), 0))
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "00:00", want: 0},
		{in: "12:00", want: 48},
		{in: "16:30", want: 66},
		{in: "23:45", want: 95},
		{in: "16:20", wantErr: true},
		{in: "4pm", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadFromPath_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.yaml")

	validConfig := `
epoch: "2024-01-07"
timezone: "Europe/London"
positionCapacity: 2
fallbackClassType: "Kids"
classDefaults:
  Kids: { lead: true, desk: true, assist: true }
schedule:
  Saturday:
    - start: "10:00"
      end: "11:00"
      type: "Kids"
      color: "blue"
users:
  - username: "sensei"
    role: "Admin"
    password: "secret"
    email: "sensei@example.com"
recurringEvents:
  - rrule: "FREQ=WEEKLY;BYDAY=SA"
    type: "Custom"
    text: "Open mat"
    color: "orange"
loopPoints: [4, 10]
`

	err := os.WriteFile(configPath, []byte(validConfig), 0644)
	require.NoError(t, err)

	cfg, err := LoadFromPath(configPath)
	require.NoError(t, err)

	assert.Equal(t, "2024-01-07", cfg.Epoch)
	assert.Equal(t, "Europe/London", cfg.Timezone)
	assert.Equal(t, 2, cfg.PositionCapacity)
	assert.Equal(t, []int{4, 10}, cfg.LoopPoints)

	require.Len(t, cfg.Users, 1)
	assert.Equal(t, "sensei@example.com", cfg.Users[0].Email)
	assert.Nil(t, cfg.Users[0].Preferences)

	require.Len(t, cfg.RecurringEvents, 1)
	assert.Equal(t, "Open mat", cfg.RecurringEvents[0].Text)

	weekly, err := cfg.Weekly()
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Saturday}, weekly.Days())
	assert.Equal(t, model.ClassTemplate{StartTime: 40, EndTime: 44, Type: "Kids", Color: "blue"}, weekly.Templates(time.Saturday)[0])
}

func TestLoadFromPath_InvalidRRule(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_rrule.yaml")

	invalidConfig := `
epoch: "2023-11-01"
fallbackClassType: "Dragons"
classDefaults:
  Dragons: { lead: true, desk: true, assist: true }
schedule:
  Sunday:
    - { start: "09:00", end: "09:30", type: "Dragons" }
recurringEvents:
  - rrule: "INVALID_RRULE_SYNTAX"
    type: "Holiday"
    color: "red"
`

	err := os.WriteFile(configPath, []byte(invalidConfig), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule")
}

func TestLoadFromPath_MissingRequiredField(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_config.yaml")

	invalidConfig := `
epoch: "2023-11-01"
# Missing fallbackClassType and classDefaults
schedule:
  Sunday:
    - { start: "09:00", end: "09:30", type: "Dragons" }
`

	err := os.WriteFile(configPath, []byte(invalidConfig), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoadFromPath_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid_yaml.yaml")

	invalidYAML := `
epoch: "2023-11-01"
  invalid indentation
fallbackClassType: "Dragons"
`

	err := os.WriteFile(configPath, []byte(invalidYAML), 0644)
	require.NoError(t, err)

	_, err = LoadFromPath(configPath)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromPath_FileNotFound(t *testing.T) {
	_, err := LoadFromPath("/nonexistent/path/config.yaml")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadWithEnv(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Setenv("HOME", tmpDir)

	_, err := LoadWithEnv("test")
	assert.ErrorIs(t, err, ErrConfigNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "studio_config.test.yaml"), defaultConfig, 0644))

	cfg, err := LoadWithEnv("test")
	require.NoError(t, err)
	assert.Equal(t, "2023-11-01", cfg.Epoch)
}

func TestConfigFileName(t *testing.T) {
	assert.Equal(t, "studio_config.yaml", configFileName(""))
	assert.Equal(t, "studio_config.prod.yaml", configFileName("prod"))
}
