package iocache

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/garima1kafle/path2prep/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rankedScholarships() []schema.ScoredCandidate {
	return []schema.ScoredCandidate{
		{Rank: 1, Candidate: schema.Candidate{Name: "DAAD", Kind: schema.ScholarshipKind}, Score: 0.81, Method: schema.MethodBlend},
		{Rank: 2, Candidate: schema.Candidate{Name: "Fulbright", Kind: schema.ScholarshipKind}, Score: 0.42, Method: schema.MethodBlend},
		{Rank: 3, Candidate: schema.Candidate{Name: "Nursing Grant", Kind: schema.ScholarshipKind}, Score: 0.1, Method: schema.MethodBlend},
	}
}

func TestHistoryStore_NoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	require.NotNil(t, store)

	runID, err := store.BeginRun(time.Now(), schema.ScholarshipKind, "asha", map[string]any{"top_k": 3})
	assert.NoError(t, err)
	assert.Equal(t, int64(0), runID)

	assert.NoError(t, store.RecordResults(1, time.Now(), rankedScholarships()))
	assert.NoError(t, store.EndRun(1, time.Now(), 3))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)

	runs, err := store.GetAllRuns()
	assert.NoError(t, err)
	assert.Empty(t, runs)

	assert.NoError(t, store.Close())
}

func TestHistoryStore_SQLite(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	require.NotNil(t, store)
	defer func() { _ = store.Close() }()

	startTime := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun(startTime, schema.ScholarshipKind, "asha", map[string]any{
		"top_k":     3,
		"pool_size": 3,
	})
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))

	results := rankedScholarships()
	require.NoError(t, store.RecordResults(runID, startTime.Add(time.Second), results))
	require.NoError(t, store.EndRun(runID, startTime.Add(1500*time.Millisecond), len(results)))

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	run := runs[0]
	assert.Equal(t, runID, run.RunID)
	assert.Equal(t, "scholarship", run.Engine)
	assert.Equal(t, "asha", run.User)
	assert.True(t, startTime.Equal(run.StartTime))
	require.NotNil(t, run.EndTime)
	require.NotNil(t, run.RunDurationMs)
	assert.Equal(t, int32(1500), *run.RunDurationMs)
	assert.Equal(t, int32(3), run.TotalResults)
	require.NotNil(t, run.ConfigParams)
	assert.JSONEq(t, `{"top_k":3,"pool_size":3}`, *run.ConfigParams)

	stored, err := store.GetAllResults()
	require.NoError(t, err)
	require.Len(t, stored, 3)
	assert.Equal(t, int32(1), stored[0].Rank)
	assert.Equal(t, "DAAD", stored[0].CandidateName)
	assert.Equal(t, "scholarship", stored[0].CandidateKind)
	assert.InDelta(t, 0.81, stored[0].Score, 1e-9)
	assert.Equal(t, "bert_tfidf_ensemble", stored[0].Method)
	assert.Equal(t, schema.StrongMatch, stored[0].Label)
	assert.Equal(t, schema.WeakMatch, stored[2].Label)
	assert.True(t, startTime.Add(time.Second).Equal(stored[0].RecordedAt))

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "sqlite", status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, 1, status.TotalRuns)
	assert.Equal(t, runID, status.LastRunID)
	assert.Equal(t, 3, status.TotalResults)
	assert.Equal(t, int64(1), status.TableSizes[rankRunsTable])
	assert.Equal(t, int64(3), status.TableSizes[rankResultsTable])
}

func TestHistoryStore_SQLiteMultipleRuns(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	first, err := store.BeginRun(time.Now(), schema.CareerKind, "asha", nil)
	require.NoError(t, err)
	second, err := store.BeginRun(time.Now(), schema.ScholarshipKind, "ravi", nil)
	require.NoError(t, err)
	assert.Greater(t, second, first)

	runs, err := store.GetAllRuns()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "career", runs[0].Engine)
	assert.Nil(t, runs[0].EndTime)
	assert.Nil(t, runs[0].RunDurationMs)
}

func TestHistoryStore_RecordEmptyResults(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(time.Now(), schema.CareerKind, "asha", nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordResults(runID, time.Now(), nil))

	stored, err := store.GetAllResults()
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestHistoryStore_EndUnknownRun(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	assert.Error(t, store.EndRun(42, time.Now(), 0))
}

func TestMigrateHistory(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "history.db")
	var out bytes.Buffer

	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "to version 2")

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, -1))
	assert.Contains(t, out.String(), "already at the latest version")

	// Tables created by migrations are usable by the store.
	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	runID, err := store.BeginRun(time.Now(), schema.CareerKind, "asha", nil)
	require.NoError(t, err)
	assert.Greater(t, runID, int64(0))
	require.NoError(t, store.Close())

	out.Reset()
	require.NoError(t, MigrateHistory(&out, schema.SQLiteBackend, dbPath, 0))
	assert.Contains(t, out.String(), "rolled back")
}

func TestMigrateHistory_NoneBackend(t *testing.T) {
	assert.Error(t, MigrateHistory(&bytes.Buffer{}, schema.NoneBackend, "", -1))
}

func TestExecuteHistoryExport(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	t.Run("requires output file", func(t *testing.T) {
		assert.Error(t, ExecuteHistoryExport(&bytes.Buffer{}, store, ""))
	})

	t.Run("empty history", func(t *testing.T) {
		assert.Error(t, ExecuteHistoryExport(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "empty")))
	})

	t.Run("writes parquet files", func(t *testing.T) {
		now := time.Now()
		runID, err := store.BeginRun(now, schema.ScholarshipKind, "asha", nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordResults(runID, now, rankedScholarships()))
		require.NoError(t, store.EndRun(runID, now, 3))

		base := filepath.Join(t.TempDir(), "history")
		var out bytes.Buffer
		require.NoError(t, ExecuteHistoryExport(&out, store, base))
		assert.Contains(t, out.String(), "Exported 1 ranking runs")
		assert.Contains(t, out.String(), "Exported 3 ranking results")

		for _, suffix := range []string{".rank_runs.parquet", ".rank_results.parquet"} {
			info, err := os.Stat(base + suffix)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
	})
}

func TestHistoryStore_GetLatestResults(t *testing.T) {
	store, err := NewHistoryStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	record := func(user string, engine schema.CandidateKind, results []schema.ScoredCandidate, finish bool) int64 {
		runID, err := store.BeginRun(time.Now(), engine, user, nil)
		require.NoError(t, err)
		require.NoError(t, store.RecordResults(runID, time.Now(), results))
		if finish {
			require.NoError(t, store.EndRun(runID, time.Now(), len(results)))
		}
		return runID
	}

	all := rankedScholarships()
	record("asha", schema.ScholarshipKind, all, true)
	latest := record("asha", schema.ScholarshipKind, []schema.ScoredCandidate{all[1], all[0]}, true)
	record("asha", schema.ScholarshipKind, all[:1], false)
	record("ravi", schema.ScholarshipKind, all[2:], true)

	got, err := store.GetLatestResults("asha", schema.ScholarshipKind)
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, r := range got {
		assert.Equal(t, latest, r.RunID)
	}
	assert.Equal(t, int32(1), got[0].Rank)
	assert.Equal(t, "DAAD", got[0].CandidateName)
	assert.Equal(t, int32(2), got[1].Rank)
	assert.Equal(t, "Fulbright", got[1].CandidateName)

	got, err = store.GetLatestResults("asha", schema.CareerKind)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = store.GetLatestResults("nobody", schema.ScholarshipKind)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestHistoryStore_GetLatestResultsNoneBackend(t *testing.T) {
	store, err := NewHistoryStore(schema.NoneBackend, "")
	require.NoError(t, err)
	got, err := store.GetLatestResults("asha", schema.CareerKind)
	assert.NoError(t, err)
	assert.Nil(t, got)
}
