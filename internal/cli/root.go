package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Lixing-Zhang/restaurant-pos/internal/config"
	"github.com/Lixing-Zhang/restaurant-pos/internal/repository"
	"github.com/Lixing-Zhang/restaurant-pos/pkg/logger"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
}

// NewRootCommand creates the root command of the pos binary.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "pos",
		Short:         "Restaurant point of sale",
		Long:          "Order entry, table history and sales dashboard for a restaurant, plus catalog and staff administration.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "YAML config file (overrides CONFIG_FILE)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewProductCommand(opts))
	cmd.AddCommand(NewOrderCommand(opts))
	cmd.AddCommand(NewUserCommand(opts))

	return cmd
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

// app is the configuration, logger and store shared by every command
type app struct {
	cfg   *config.Config
	log   *slog.Logger
	store *repository.SQLStore
}

// loadConfig reads the configuration and applies the global flag overrides
func loadConfig(opts *RootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newApp loads config, builds the logger writing to logOut and opens the store
func newApp(ctx context.Context, opts *RootOptions, logOut io.Writer, skipMigrations bool) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	log := logger.NewWithWriter(logOut, cfg.LogLevel, cfg.LogFormat)

	store, err := repository.Open(ctx, repository.Options{
		Driver:         cfg.Database.Driver,
		DSN:            cfg.DSN(),
		MaxOpenConns:   cfg.Database.MaxOpenConns,
		SkipMigrations: skipMigrations,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	return &app{cfg: cfg, log: log, store: store}, nil
}

func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close database", "error", err)
	}
}
