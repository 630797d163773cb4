package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/saltyorg/schoolbook/internal/config"
	"github.com/saltyorg/schoolbook/internal/database"
	"github.com/saltyorg/schoolbook/internal/logging"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// CLI flags
var (
	configPath string
	envFile    string
	dbPath     string
	logFile    string
	logBeside  bool
	verbosity  int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "schoolbook",
		Short: "Schoolbook - school registry store",
		Long: `Schoolbook manages the SQLite store holding schools, classes, teachers,
students, ID cards, grades and grade averages. Running it without a
subcommand creates the schema if it does not exist yet.`,
		SilenceUsage: true,
		RunE:         runInit,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "schoolbook.toml", "TOML config file (missing file is ignored)")
	flags.StringVar(&envFile, "env-file", ".env", "dotenv file read below the process environment")
	flags.StringVarP(&dbPath, "db", "d", "", "SQLite database path (overrides config and SCHOOLBOOK_DATABASE_PATH)")
	flags.StringVar(&logFile, "log-file", "", "Log file path (overrides config and SCHOOLBOOK_LOGGING_FILE)")
	flags.BoolVar(&logBeside, "log-beside-db", false, "Write schoolbook.log next to the database when no log file is set")
	flags.CountVarP(&verbosity, "verbose", "v", "Increase verbosity (-v debug, -vv trace)")

	rootCmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Create the database schema if it does not exist",
			RunE:  runInit,
		},
		&cobra.Command{
			Use:   "optimize",
			Short: "Refresh SQLite planner statistics",
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := setup()
				if err != nil {
					return err
				}
				return repo.Optimize()
			},
		},
		&cobra.Command{
			Use:   "vacuum",
			Short: "Rebuild the database file to reclaim unused space",
			RunE: func(cmd *cobra.Command, args []string) error {
				repo, err := setup()
				if err != nil {
					return err
				}
				return repo.Vacuum()
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Show version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "schoolbook %s (commit: %s, built: %s)\n", version, commit, date)
			},
		},
	)

	return rootCmd
}

func runInit(cmd *cobra.Command, args []string) error {
	repo, err := setup()
	if err != nil {
		return err
	}

	if err := repo.EnsureSchema(); err != nil {
		log.Error().Err(err).Str("database", repo.Path()).Msg("Failed to create database schema")
		return err
	}

	schemaVersion, err := repo.CurrentSchemaVersion()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d ready at %s\n", schemaVersion, repo.Path())
	return nil
}

// setup loads configuration, applies flag overrides, configures logging
// and builds the repository.
func setup() (*database.Repository, error) {
	cfg, err := config.Load(config.LoadOptions{
		ConfigPath: configPath,
		EnvFile:    envFile,
	})
	if err != nil {
		return nil, err
	}

	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
	if logBeside {
		cfg.Logging.BesideDatabase = true
	}
	cfg.Logging.File = logging.ResolveFile(cfg)
	switch {
	case verbosity == 1:
		cfg.Logging.Level = zerolog.DebugLevel.String()
	case verbosity >= 2:
		cfg.Logging.Level = zerolog.TraceLevel.String()
	}

	logging.Apply(cfg.Logging)

	log.Debug().
		Str("version", version).
		Str("database", cfg.Database.Path).
		Str("journal_mode", cfg.Database.JournalMode).
		Dur("busy_timeout", cfg.Database.BusyTimeout).
		Msg("Starting Schoolbook")

	return database.New(cfg.Database.Path,
		database.WithBusyTimeout(cfg.Database.BusyTimeout),
		database.WithJournalMode(cfg.Database.JournalMode),
	)
}
