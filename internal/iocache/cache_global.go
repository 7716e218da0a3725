package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
)

// embeddingTable is the name of the table for embedding vectors.
const embeddingTable = "embedding_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// NewManager opens both stores and returns a manager that owns them.
// An empty backend leaves the matching store nil.
func NewManager(cacheBackend schema.DatabaseBackend, cacheConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) (*CacheStoreManager, error) {
	mgr := &CacheStoreManager{}

	if cacheBackend != "" {
		store, err := NewCacheStore(embeddingTable, cacheBackend, cacheConnStr)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize embedding cache: %w", err)
		}
		mgr.embedding = store
	}

	if historyBackend != "" {
		store, err := NewHistoryStore(historyBackend, historyConnStr)
		if err != nil {
			if mgr.embedding != nil {
				_ = mgr.embedding.Close()
			}
			return nil, fmt.Errorf("failed to initialize history store: %w", err)
		}
		mgr.history = store
	}
	return mgr, nil
}

// Close closes every store the manager holds.
func (mgr *CacheStoreManager) Close() {
	mgr.Lock()
	defer mgr.Unlock()
	if mgr.embedding != nil {
		_ = mgr.embedding.Close()
		mgr.embedding = nil
	}
	if mgr.history != nil {
		_ = mgr.history.Close()
		mgr.history = nil
	}
}

// InitStores initializes the global manager with the embedding cache and history stores.
// Either backend can be empty to skip that store.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error
	initOnce.Do(func() {
		mgr, err := NewManager(cacheBackend, cacheConnStr, historyBackend, historyConnStr)
		if err != nil {
			initErr = err
			return
		}
		Manager.Lock()
		Manager.embedding = mgr.embedding
		Manager.history = mgr.history
		Manager.Unlock()
	})
	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(Manager.Close)
}

// ClearCache clears the embedding cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, embeddingTable)
}

// ClearHistory clears the ranking history for the specified backend.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, rankResultsTable, rankRunsTable)
}

func clearStore(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, table := range tables {
			if err := clearSQLTable(backend, connStr, table); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	driver, err := driverName(backend)
	if err != nil {
		return err
	}
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", backend, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}

// DefaultDBFilePath returns the SQLite file used by a store when no connection string is set.
func DefaultDBFilePath(connStr string, history bool) string {
	if connStr != "" {
		return connStr
	}
	if history {
		return contract.GetHistoryDBFilePath()
	}
	return contract.GetCacheDBFilePath()
}
