package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/jakechorley/dojo-roster/cmd/cli/commands"
	"github.com/jakechorley/dojo-roster/internal/config"
	"github.com/jakechorley/dojo-roster/pkg/utils/logging"
)

var (
	env        string
	configPath string
	loginAs    string
	password   string
	quiet      bool
	app        = &commands.AppContext{}
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "cli",
		Short: "Dojo Roster CLI - Sign up for classes and track instructor credits",
		Long:  `A CLI tool for the studio class calendar: class signups, instructor credits, week planning and member accounts.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app.Logger != nil {
				app.Logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	// Add persistent flags
	rootCmd.PersistentFlags().StringVarP(&env, "env", "e", "", "Environment (required: test, prod, etc.)")
	rootCmd.MarkPersistentFlagRequired("env")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to a config file (default: studio_config.<env>.yaml, then built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&loginAs, "as", "", "Log in as this user before running the command")
	rootCmd.PersistentFlags().StringVar(&password, "password", "", "Password for --as")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log warnings and errors to the console")

	// Add all commands
	rootCmd.AddCommand(commands.All(app)...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config and the studio state
func initApp() error {
	var opts []logging.Option
	if quiet {
		opts = append(opts, logging.WithConsoleLevel(zapcore.WarnLevel))
	}

	// Initialize logger
	logger, err := logging.InitLogger(env, opts...)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	logger.Info("Starting application", zap.String("environment", env))

	// Load configuration
	logger.Info("Loading configuration")
	cfg, err := loadConfig(logger)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("Configuration loaded successfully",
		zap.String("epoch", cfg.Epoch),
		zap.Int("users", len(cfg.Users)))

	if err := app.Init(cfg, logger, time.Now); err != nil {
		return fmt.Errorf("failed to initialize studio: %w", err)
	}
	logger.Info("Studio initialized", zap.Int("week", app.Session.Week))

	if loginAs != "" {
		if _, err := app.Login(loginAs, password); err != nil {
			return fmt.Errorf("failed to log in as %s: %w", loginAs, err)
		}
	}

	return nil
}

func loadConfig(logger *zap.Logger) (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromPath(configPath)
	}

	cfg, err := config.LoadWithEnv(env)
	if errors.Is(err, config.ErrConfigNotFound) {
		logger.Info("No config file found, using built-in defaults")
		return config.Default()
	}
	return cfg, err
}
