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

// cacheSetup loads minimal configuration needed for cache operations.
// This is used by commands that need cache access without full shared setup.
func cacheSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	connStr := viper.GetString("cache-db-connect")

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	// No history tracking for cache commands
	if err := iocache.InitStores(backend, connStr, "", ""); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// cacheSetupWrapper wraps cacheSetup to provide PreRunE for cache commands.
func cacheSetupWrapper(_ *cobra.Command, _ []string) error {
	return cacheSetup()
}

// cacheCmd focused on embedding cache management.
//
// Note: Cache subcommands skip sharedSetup so they never load models or pools.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the sentence embedding cache (improves performance)",
	Long: `Manage the cache of scholarship text embeddings.

path2prep stores the embedding of every scholarship text it encodes, keyed by a
hash of the model and the text. Repeated runs against the same pool skip the
transformer entirely.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status - Show cache statistics and connection info
  clear  - Remove all cached embeddings

Examples:
  # Check cache status
  path2prep cache status

  # Clear cache after swapping the embedding model
  path2prep cache clear`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached embeddings",
	Long: `Delete all cached embeddings from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Drops the cache table

Examples:
  # Clear SQLite cache (default)
  path2prep cache clear

  # Clear MySQL cache (set connection string via env variable)
  PATH2PREP_CACHE_BACKEND=mysql PATH2PREP_CACHE_DB_CONNECT="..." path2prep cache clear`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		dbFile := iocache.DefaultDBFilePath(cfg.CacheDBConnect, false)
		if err := iocache.ClearCache(cfg.CacheBackend, dbFile, cfg.CacheDBConnect); err != nil {
			contract.LogFatal("Failed to clear cache", err)
		}
		fmt.Println("Cache cleared successfully.")
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show detailed information about the embedding cache.

Displays:
- Backend type and connection status
- Total number of cached embeddings
- Last and oldest cache entry timestamps
- Cache table size

Examples:
  path2prep cache status`,
	PreRunE: cacheSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := iocache.Manager.GetEmbeddingStore()
		if store == nil {
			contract.LogFatal("Failed to get cache status", fmt.Errorf("cache backend is not configured"))
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get cache status", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
	},
}
