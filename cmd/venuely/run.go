package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"venuely/api/pkg/cli"
	"venuely/api/pkg/config"
	"venuely/api/pkg/middleware"
	"venuely/api/pkg/server"
	"venuely/api/pkg/telemetry/logging"
	"venuely/api/pkg/telemetry/metrics"
)

var runFlags struct {
	port     int
	logLevel string
	dryRun   bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the API server",
	Long: `Start the API server with the resolved configuration.

Configuration comes from defaults, then the optional YAML file, then the
environment (PORT, APP_ENV or NODE_ENV, ADMIN_API_KEY, MONITORING_API_KEY,
VENUELY_*). Flags override all of them.

Examples:
  # Start with defaults
  venuely run

  # Start with a config file
  venuely run --config /etc/venuely/config.yaml

  # Override the port
  venuely run --port 8080

  # Validate config without starting the server
  venuely run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().IntVarP(&runFlags.port, "port", "p", -1, "override listen port")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Config{
		Level:  cfg.Telemetry.Logging.Level,
		Format: cfg.Telemetry.Logging.Format,
		Fields: []logging.ContextFields{middleware.LogFields},
	})
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger.Logger)

	if runFlags.dryRun {
		fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration valid")
		return nil
	}

	if names := cfg.PlaceholderKeys(); len(names) > 0 {
		logger.Warn("API keys use insecure placeholder values",
			"keys", names,
			"environment", cfg.Environment,
		)
	}

	collector := metrics.NewCollector(cfg.Telemetry.Metrics, prometheus.NewRegistry())

	lc := server.New(cfg, server.Options{
		Version:   Version,
		Commit:    GitCommit,
		BuildTime: BuildDate,
		Logger:    logger.Logger,
		Metrics:   collector,
	})

	if cfg.Path != "" {
		watcher, err := config.NewWatcher(cfg.Path, logger.Logger)
		if err != nil {
			logger.Warn("config file changes will not be applied", "path", cfg.Path, "error", err)
		} else {
			defer watcher.Close()
			lc.Go("config-watcher", func(ctx context.Context) error {
				err := watcher.Watch(ctx, func(next *config.Config) {
					applyReload(logger, next)
				})
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return err
			})
		}
	}

	code := lc.Run(cmd.Context())
	if code == server.ExitOK {
		return nil
	}

	var bindErr *server.BindError
	if errors.As(lc.Err(), &bindErr) && bindErr.Kind == server.BindOther {
		return cli.NewCommandError("run", bindErr)
	}
	return &cli.ExitError{Code: code}
}

// loadRunConfig resolves the configuration and applies flag overrides.
func loadRunConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath())
	if err != nil {
		return nil, cli.NewConfigError("config", err.Error())
	}

	if runFlags.port >= 0 {
		cfg.Server.Port = runFlags.port
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}
	if err := config.Validate(cfg); err != nil {
		return nil, cli.NewConfigError("flags", err.Error())
	}
	return cfg, nil
}

// applyReload applies the fields that may change while running.
func applyReload(logger *logging.Logger, next *config.Config) {
	level := next.Telemetry.Logging.Level
	if runFlags.logLevel != "" {
		level = runFlags.logLevel
	}
	if err := logger.SetLevel(level); err != nil {
		logger.Warn("ignoring invalid log level from config file", "level", level, "error", err)
		return
	}
	logger.Info("log level updated", "level", level)
}
