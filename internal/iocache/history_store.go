package iocache

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/goccy/go-json"
)

// Table names for ranking history.
const (
	rankRunsTable    = "path2prep_rank_runs"
	rankResultsTable = "path2prep_rank_results"
)

// HistoryStoreImpl implements the HistoryStore interface.
type HistoryStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.HistoryStore = &HistoryStoreImpl{} // Compile-time check

// NewHistoryStore creates a new HistoryStore with the specified backend.
// The none backend returns a store that records nothing.
func NewHistoryStore(backend schema.DatabaseBackend, connStr string) (contract.HistoryStore, error) {
	if backend == schema.NoneBackend {
		return &HistoryStoreImpl{backend: backend}, nil
	}

	db, err := openDB(backend, connStr, contract.GetHistoryDBFilePath())
	if err != nil {
		return nil, err
	}
	if err := createHistoryTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create history tables: %w", err)
	}
	return &HistoryStoreImpl{db: db, backend: backend}, nil
}

// createHistoryTables creates the history tables when they are missing.
// The statements match the first two embedded migrations.
func createHistoryTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{rankRunsTable, getCreateRankRunsQuery(backend)},
		{rankResultsTable, getCreateRankResultsQuery(backend)},
	}
	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}
	return nil
}

// getCreateRankRunsQuery returns the CREATE TABLE query for path2prep_rank_runs.
func getCreateRankRunsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(rankRunsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				engine VARCHAR(32) NOT NULL,
				user_name VARCHAR(255) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms INT,
				total_results INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				engine TEXT NOT NULL,
				user_name TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms INT,
				total_results INT NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				engine TEXT NOT NULL,
				user_name TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				total_results INTEGER NOT NULL DEFAULT 0,
				config_params TEXT
			);
		`, quoted)
	}
}

// getCreateRankResultsQuery returns the CREATE TABLE query for path2prep_rank_results.
func getCreateRankResultsQuery(backend schema.DatabaseBackend) string {
	quoted := quoteTableName(rankResultsTable, backend)
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				rank_position INT NOT NULL,
				candidate_name VARCHAR(512) NOT NULL,
				candidate_kind VARCHAR(32) NOT NULL,
				score DOUBLE NOT NULL,
				method VARCHAR(64) NOT NULL,
				label VARCHAR(16) NOT NULL,
				recorded_at DATETIME(6) NOT NULL,
				PRIMARY KEY (run_id, rank_position)
			);
		`, quoted)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT NOT NULL,
				rank_position INT NOT NULL,
				candidate_name TEXT NOT NULL,
				candidate_kind TEXT NOT NULL,
				score DOUBLE PRECISION NOT NULL,
				method TEXT NOT NULL,
				label TEXT NOT NULL,
				recorded_at TIMESTAMPTZ NOT NULL,
				PRIMARY KEY (run_id, rank_position)
			);
		`, quoted)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER NOT NULL,
				rank_position INTEGER NOT NULL,
				candidate_name TEXT NOT NULL,
				candidate_kind TEXT NOT NULL,
				score REAL NOT NULL,
				method TEXT NOT NULL,
				label TEXT NOT NULL,
				recorded_at TEXT NOT NULL,
				PRIMARY KEY (run_id, rank_position)
			);
		`, quoted)
	}
}

// BeginRun creates a new ranking run and returns its unique ID.
func (hs *HistoryStoreImpl) BeginRun(startTime time.Time, engine schema.CandidateKind, user string, configParams map[string]any) (int64, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quoted := quoteTableName(rankRunsTable, hs.backend)
	args := []any{string(engine), user, formatTime(startTime, hs.backend), string(configJSON)}

	var runID int64
	switch hs.backend {
	case schema.PostgreSQLBackend:
		query := fmt.Sprintf(`INSERT INTO %s (engine, user_name, start_time, config_params) VALUES ($1, $2, $3, $4) RETURNING run_id`, quoted)
		err = hs.db.QueryRow(query, args...).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (engine, user_name, start_time, config_params) VALUES (?, ?, ?, ?)`, quoted)
		var result sql.Result
		result, err = hs.db.Exec(query, args...)
		if err == nil {
			runID, err = result.LastInsertId()
		}
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert ranking run: %w", err)
	}
	return runID, nil
}

// RecordResults stores the ranked results of a run in one transaction.
func (hs *HistoryStoreImpl) RecordResults(runID int64, recordedAt time.Time, results []schema.ScoredCandidate) error {
	if hs.backend == schema.NoneBackend || hs.db == nil || len(results) == 0 {
		return nil
	}

	tx, err := hs.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := fmt.Sprintf(`INSERT INTO %s (run_id, rank_position, candidate_name, candidate_kind, score, method, label, recorded_at) VALUES (%s)`,
		quoteTableName(rankResultsTable, hs.backend), strings.Join(placeholders(hs.backend, 8), ", "))
	stmt, err := tx.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare result insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	at := formatTime(recordedAt, hs.backend)
	for _, r := range results {
		if _, err := stmt.Exec(runID, r.Rank, r.Candidate.Name, string(r.Candidate.Kind), r.Score,
			string(r.Method), schema.GetPlainLabel(r.Score), at); err != nil {
			return fmt.Errorf("failed to insert result %d of run %d: %w", r.Rank, runID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit results: %w", err)
	}
	return nil
}

// EndRun updates the ranking run with completion data.
func (hs *HistoryStoreImpl) EndRun(runID int64, endTime time.Time, totalResults int) error {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil
	}

	quoted := quoteTableName(rankRunsTable, hs.backend)
	ph := placeholders(hs.backend, 4)

	start := timeScanner{backend: hs.backend}
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quoted, ph[0])
	if err := hs.db.QueryRow(query, runID).Scan(start.dest()); err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}
	startTime, err := start.value()
	if err != nil {
		return err
	}
	var durationMs int64
	if startTime != nil {
		durationMs = endTime.Sub(*startTime).Milliseconds()
	}

	update := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, total_results = %s WHERE run_id = %s`,
		quoted, ph[0], ph[1], ph[2], ph[3])
	if _, err := hs.db.Exec(update, formatTime(endTime, hs.backend), durationMs, totalResults, runID); err != nil {
		return fmt.Errorf("failed to update ranking run: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (hs *HistoryStoreImpl) Close() error {
	if hs.db != nil {
		return hs.db.Close()
	}
	return nil
}

// GetStatus returns status information about the history store.
func (hs *HistoryStoreImpl) GetStatus() (schema.HistoryStatus, error) {
	status := schema.HistoryStatus{
		Backend:    string(hs.backend),
		Connected:  hs.db != nil,
		TableSizes: make(map[string]int64),
	}
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return status, nil
	}

	quoted := quoteTableName(rankRunsTable, hs.backend)
	if err := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoted)).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}

	if status.TotalRuns > 0 {
		last := timeScanner{backend: hs.backend}
		row := hs.db.QueryRow(fmt.Sprintf("SELECT run_id, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quoted))
		if err := row.Scan(&status.LastRunID, last.dest()); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		if t, err := last.value(); err != nil {
			return status, err
		} else if t != nil {
			status.LastRunTime = *t
		}

		oldest := timeScanner{backend: hs.backend}
		row = hs.db.QueryRow(fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quoted))
		if err := row.Scan(oldest.dest()); err != nil {
			return status, fmt.Errorf("failed to get oldest run time: %w", err)
		}
		if t, err := oldest.value(); err != nil {
			return status, err
		} else if t != nil {
			status.OldestRunTime = *t
		}

		row = hs.db.QueryRow(fmt.Sprintf("SELECT COALESCE(SUM(total_results), 0) FROM %s", quoted))
		if err := row.Scan(&status.TotalResults); err != nil {
			return status, fmt.Errorf("failed to get total results: %w", err)
		}
	}

	for _, table := range []string{rankRunsTable, rankResultsTable} {
		var count int64
		row := hs.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(table, hs.backend)))
		if err := row.Scan(&count); err != nil {
			return status, fmt.Errorf("failed to get count for table %s: %w", table, err)
		}
		status.TableSizes[table] = count
	}
	return status, nil
}

// GetAllRuns retrieves every ranking run ordered by ID.
func (hs *HistoryStoreImpl) GetAllRuns() ([]schema.RankRunRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT run_id, engine, user_name, start_time, end_time, run_duration_ms, total_results, config_params FROM %s ORDER BY run_id`,
		quoteTableName(rankRunsTable, hs.backend))
	rows, err := hs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RankRunRecord
	for rows.Next() {
		var record schema.RankRunRecord
		start := timeScanner{backend: hs.backend}
		end := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RunID, &record.Engine, &record.User, start.dest(), end.dest(),
			&record.RunDurationMs, &record.TotalResults, &record.ConfigParams); err != nil {
			return nil, fmt.Errorf("failed to scan ranking run: %w", err)
		}
		startTime, err := start.value()
		if err != nil {
			return nil, err
		}
		if startTime != nil {
			record.StartTime = *startTime
		}
		if record.EndTime, err = end.value(); err != nil {
			return nil, err
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking runs: %w", err)
	}
	return results, nil
}

// GetAllResults retrieves every recorded result ordered by run and rank.
func (hs *HistoryStoreImpl) GetAllResults() ([]schema.RankResultRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY run_id, rank_position`,
		resultColumns, quoteTableName(rankResultsTable, hs.backend))
	return hs.queryResults(query)
}

// GetLatestResults retrieves the results of the most recent finished run for
// one user and engine, ordered by rank. No finished run yields an empty slice.
func (hs *HistoryStoreImpl) GetLatestResults(user string, engine schema.CandidateKind) ([]schema.RankResultRecord, error) {
	if hs.backend == schema.NoneBackend || hs.db == nil {
		return nil, nil
	}

	ph := placeholders(hs.backend, 2)
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE run_id = (SELECT MAX(run_id) FROM %s WHERE user_name = %s AND engine = %s AND end_time IS NOT NULL) ORDER BY rank_position`,
		resultColumns, quoteTableName(rankResultsTable, hs.backend), quoteTableName(rankRunsTable, hs.backend), ph[0], ph[1])
	return hs.queryResults(query, user, string(engine))
}

const resultColumns = "run_id, rank_position, candidate_name, candidate_kind, score, method, label, recorded_at"

func (hs *HistoryStoreImpl) queryResults(query string, args ...any) ([]schema.RankResultRecord, error) {
	rows, err := hs.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ranking results: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RankResultRecord
	for rows.Next() {
		var record schema.RankResultRecord
		recorded := timeScanner{backend: hs.backend}
		if err := rows.Scan(&record.RunID, &record.Rank, &record.CandidateName, &record.CandidateKind,
			&record.Score, &record.Method, &record.Label, recorded.dest()); err != nil {
			return nil, fmt.Errorf("failed to scan ranking result: %w", err)
		}
		t, err := recorded.value()
		if err != nil {
			return nil, err
		}
		if t != nil {
			record.RecordedAt = *t
		}
		results = append(results, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking results: %w", err)
	}
	return results, nil
}
