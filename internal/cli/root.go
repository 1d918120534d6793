// Package cli implements the bulldoggy command line.
package cli

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/eleven-am/bulldoggy/internal/config"
	"github.com/eleven-am/bulldoggy/internal/database"
	"github.com/eleven-am/bulldoggy/internal/logger"
	"github.com/eleven-am/bulldoggy/pkg/bulldoggy"
)

// Global configuration variables
var (
	configFile string
	appConfig  *config.Config
	configErr  error
	debug      bool
	verbose    bool
)

func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bulldoggy",
		Short: "Bulldoggy - the reminders app",
		Long: `Bulldoggy is a small multi-user reminders app.

Users log in, keep named reminder lists and strike items off them, either
through the web pages or the JSON API under /api.`,
		Version:       bulldoggy.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			appConfig, configErr = config.Load(configFile)
			if configErr != nil && verbose {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to load config file: %v\n", configErr)
			}
			configureLogging(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: $"+config.EnvConfigPath+" or bulldoggy.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable verbose output")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newResetCmd())
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func configureLogging(cmd *cobra.Command) {
	opts := logger.Options{Level: logger.LevelInfo, Output: cmd.ErrOrStderr()}

	if appConfig != nil {
		level, err := logger.ParseLevel(appConfig.Log.Level)
		if err != nil && verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v, using info\n", err)
		}
		opts.Level = level
		opts.Format = appConfig.Log.Format
	}
	if debug {
		opts.Level = logger.LevelDebug
	}

	logger.Configure(opts)
}

// requireConfig returns the loaded configuration or the reason it failed.
func requireConfig() (*config.Config, error) {
	if appConfig != nil {
		return appConfig, nil
	}
	if configErr != nil {
		return nil, configErr
	}
	return nil, fmt.Errorf("no configuration loaded")
}

// openDatabase connects using cfg and makes sure the schema exists.
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	dbConfig := database.NewDBConfig(cfg.Database.Driver, cfg.Database.URL)
	if cfg.Database.MaxConnections > 0 {
		dbConfig.MaxOpenConns = cfg.Database.MaxConnections
		if dbConfig.MaxIdleConns > cfg.Database.MaxConnections {
			dbConfig.MaxIdleConns = cfg.Database.MaxConnections
		}
	}

	db, err := dbConfig.Connect(ctx)
	if err != nil {
		return nil, err
	}

	if err := database.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
