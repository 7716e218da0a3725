// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/garima1kafle/path2prep/schema"
)

// CacheManager defines the interface for managing the persistent stores.
// This allows the store layer to be mocked for testing.
type CacheManager interface {
	GetEmbeddingStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for materializing ranking runs and their results.
type HistoryStore interface {
	// BeginRun creates a new ranking run and returns its unique ID
	BeginRun(startTime time.Time, engine schema.CandidateKind, user string, configParams map[string]any) (int64, error)

	// RecordResults stores the ranked results of a run
	RecordResults(runID int64, recordedAt time.Time, results []schema.ScoredCandidate) error

	// EndRun updates the ranking run with completion data
	EndRun(runID int64, endTime time.Time, totalResults int) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run ordered by ID
	GetAllRuns() ([]schema.RankRunRecord, error)

	// GetAllResults returns every recorded result ordered by run and rank
	GetAllResults() ([]schema.RankResultRecord, error)

	// GetLatestResults returns the results of the latest finished run for a user and engine
	GetLatestResults(user string, engine schema.CandidateKind) ([]schema.RankResultRecord, error)

	// Close closes the underlying connection
	Close() error
}
