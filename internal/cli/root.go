// Package cli implements postctl, the operator tool for loading data into the
// postboard backend and inspecting what the feed serves.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jdholdren/postboard/internal/database"
	"github.com/jdholdren/postboard/internal/ingest"
	"github.com/jdholdren/postboard/internal/logger"
)

// RootOptions holds what every command shares.
type RootOptions struct {
	// Fs is where input files are read from and dead letters written to.
	Fs afero.Fs
	// Lookuper resolves environment configuration.
	Lookuper envconfig.Lookuper
	// Retry overrides how import batches are retried. Zero uses
	// ingest.DefaultRetryPolicy.
	Retry   ingest.RetryPolicy
	Verbose bool
}

type config struct {
	BackendURL     string `env:"BACKEND_URL, required"`
	ServiceRoleKey string `env:"SERVICE_ROLE_KEY, required"`
	LoggerFormat   string `env:"LOGGER_FORMAT, default=text"`
}

// NewRootCommand creates the root command for postctl.
func NewRootCommand(opts *RootOptions) *cobra.Command {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Lookuper == nil {
		opts.Lookuper = envconfig.OsLookuper()
	}

	cmd := &cobra.Command{
		Use:   "postctl",
		Short: "Operate a postboard backend",
		Long: `Tools for a postboard backend: apply the schema, seed users,
import posts in bulk, and page through the feed.

BACKEND_URL and SERVICE_ROLE_KEY must be set, either in the environment
or in a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewFeedCommand(opts))

	return cmd
}

// setup loads configuration and installs the logger. Missing configuration
// fails before any work is done.
func setup(cmd *cobra.Command, opts *RootOptions) (config, error) {
	var cfg config
	if err := envconfig.ProcessWith(cmd.Context(), &envconfig.Config{
		Target:   &cfg,
		Lookuper: opts.Lookuper,
	}); err != nil {
		return config{}, fmt.Errorf("BACKEND_URL and SERVICE_ROLE_KEY are required, set them in .env: %w", err)
	}

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(logger.New(cmd.ErrOrStderr(), cfg.LoggerFormat, level))

	return cfg, nil
}

func connect(ctx context.Context, cfg config) (*sqlx.DB, database.Repo, error) {
	dbx, dialect, err := database.Open(ctx, cfg.BackendURL, cfg.ServiceRoleKey)
	if err != nil {
		return nil, database.Repo{}, err
	}

	return dbx, database.New(dbx, dialect), nil
}

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the schema to the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := setup(cmd, opts)
			if err != nil {
				return err
			}

			dbx, dialect, err := database.Open(cmd.Context(), cfg.BackendURL, cfg.ServiceRoleKey)
			if err != nil {
				return err
			}
			defer dbx.Close()

			if err := database.RunMigrations(dbx, dialect); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date.")
			return nil
		},
	}
}
