package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options controls where InitLogger writes
type Options struct {
	// Dir holds the JSON log files
	Dir string
	// ConsoleLevel is the minimum level echoed to the terminal
	ConsoleLevel zapcore.Level
	// Console receives the human-readable output
	Console zapcore.WriteSyncer
	Now     func() time.Time
}

// Option adjusts Options
type Option func(*Options)

// WithDir sets the log file directory
func WithDir(dir string) Option {
	return func(o *Options) {
		o.Dir = dir
	}
}

// WithConsoleLevel sets the minimum console level
func WithConsoleLevel(level zapcore.Level) Option {
	return func(o *Options) {
		o.ConsoleLevel = level
	}
}

// WithConsole replaces stdout as the console destination
func WithConsole(ws zapcore.WriteSyncer) Option {
	return func(o *Options) {
		o.Console = ws
	}
}

// InitLogger initializes a zap logger with console and file outputs
// env is used to prefix the log file name
func InitLogger(env string, opts ...Option) (*zap.Logger, error) {
	o := Options{
		Dir:          "logs",
		ConsoleLevel: zapcore.InfoLevel,
		Console:      zapcore.AddSync(os.Stdout),
		Now:          time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}

	// Create logs directory if it doesn't exist
	if err := os.MkdirAll(o.Dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create logs directory: %w", err)
	}

	logFile, err := os.OpenFile(LogFilePath(o.Dir, env, o.Now()), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	// Console: colored and human-readable
	consoleEncoderConfig := zap.NewDevelopmentEncoderConfig()
	consoleEncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	consoleEncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder

	// File: JSON with every debug line
	fileEncoderConfig := zap.NewProductionEncoderConfig()
	fileEncoderConfig.TimeKey = "timestamp"
	fileEncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoderConfig), o.Console, o.ConsoleLevel),
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoderConfig), zapcore.AddSync(logFile), zapcore.DebugLevel),
	)

	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, nil
}

// LogFilePath returns the file a session started at t logs to
func LogFilePath(dir, env string, t time.Time) string {
	if env == "" {
		env = "default"
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s.log", env, t.Format("2006-01-02_15-04-05")))
}
