package cmd

import (
	"fmt"
	"os"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/iocache"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromConfig reads the history backend settings, treating an empty backend as none.
func historyBackendFromConfig() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.NoneBackend
	if b := viper.GetString("history-backend"); b != "" {
		backend = schema.DatabaseBackend(b)
	}
	connStr := viper.GetString("history-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	// No embedding cache for history commands
	if err := iocache.InitStores("", "", backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historySetupWrapper wraps historySetup to provide PreRunE for history commands.
func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads the history backend without opening the store,
// so migrations can run against a fresh database.
func historyMigrateSetup() error {
	backend, connStr, err := historyBackendFromConfig()
	if err != nil {
		return err
	}

	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyMigrateSetupWrapper wraps historyMigrateSetup to provide PreRunE for migrate command.
func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// requireHistoryStore returns the open history store or exits.
func requireHistoryStore() contract.HistoryStore {
	store := iocache.Manager.GetHistoryStore()
	if store == nil {
		contract.LogFatal("History is unavailable", fmt.Errorf("history backend is not configured"))
	}
	return store
}

// historyCmd focused on ranking history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded ranking runs and exports",
	Long: `Manage the history of ranking runs.

When enabled, path2prep records every ranking request, storing:
- Run metadata (engine, user, timestamp, duration, parameters)
- Every ranked candidate with its rank, score, label and method

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled, default)

Subcommands:
  status  - Show history statistics
  show    - Show the latest ranking of one user
  export  - Export runs and results to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  path2prep history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  path2prep history export --history-backend sqlite --output-file history`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded ranking runs",
	Long: `Delete all stored ranking runs and their results.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  path2prep history export --history-backend sqlite --output-file backup
  path2prep history clear --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// The store holds the SQLite file open; release it before removal.
		iocache.CloseStores()
		dbFile := iocache.DefaultDBFilePath(cfg.HistoryDBConnect, true)
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFile, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about recorded ranking runs.

Displays:
- Backend type and connection status
- Total number of runs and ranked results
- Last and oldest run timestamps
- Database table sizes

Examples:
  path2prep history status --history-backend sqlite`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := requireHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(os.Stdout, status)
	},
}

// historyShowCmd prints the latest recorded ranking of one user.
var historyShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Display the latest recorded ranking of a user",
	Long: `Show the results of the most recent finished ranking run for one user
and engine, in rank order.

Examples:
  path2prep history show --history-backend sqlite --user asha
  path2prep history show --history-backend sqlite --user asha --engine scholarship`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		user := viper.GetString("user")
		if user == "" {
			contract.LogFatal("Cannot show history", fmt.Errorf("--user is required"))
		}
		engine := schema.CandidateKind(viper.GetString("engine"))
		if _, ok := schema.ValidCandidateKinds[engine]; !ok {
			contract.LogFatal("Cannot show history", fmt.Errorf("unknown engine %q (use career or scholarship)", engine))
		}
		records, err := requireHistoryStore().GetLatestResults(user, engine)
		if err != nil {
			contract.LogFatal("Failed to read history", err)
		}
		iocache.PrintLatestResults(os.Stdout, user, engine, records)
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export ranking history to Parquet for analytics",
	Long: `Export all recorded ranking data to Parquet.

Writes two files next to --output-file:
- <output-file>.rank_runs.parquet    - one row per ranking run
- <output-file>.rank_results.parquet - one row per ranked candidate

Requires: --output-file parameter

Examples:
  path2prep history export --history-backend sqlite --output-file history
  duckdb -c "SELECT * FROM read_parquet('history.rank_results.parquet') LIMIT 10"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ExecuteHistoryExport(os.Stdout, requireHistoryStore(), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the ranking history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  path2prep history migrate --history-backend sqlite

  # Migrate to specific version
  path2prep history migrate --history-backend postgresql --history-db-connect "..." --target-version 1

  # Rollback to initial state
  path2prep history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(os.Stdout, cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
