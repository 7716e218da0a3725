// Package parquet provides data structures and functions for exporting ranking
// runs and results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/garima1kafle/path2prep/schema"
	"github.com/parquet-go/parquet-go"
)

// RankRun represents a single ranking run with metadata.
// This struct maps to the path2prep_rank_runs database table.
type RankRun struct {
	// RunID is the unique identifier for this ranking run
	RunID int64 `parquet:"run_id,snappy"`

	// Engine is the candidate kind that was ranked (career or scholarship)
	Engine string `parquet:"engine,snappy"`

	// User identifies the profile the run was computed for
	User string `parquet:"user,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int32 `parquet:"run_duration_ms,optional,snappy"`

	// TotalResults is the number of results returned by the run
	TotalResults int32 `parquet:"total_results,snappy"`

	// ConfigParams contains the JSON-encoded request parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RankResult is one ranked candidate of a run.
// This struct maps to the path2prep_rank_results database table.
type RankResult struct {
	RunID         int64     `parquet:"run_id,snappy"`
	Rank          int32     `parquet:"rank,snappy"`
	CandidateName string    `parquet:"candidate_name,snappy"`
	CandidateKind string    `parquet:"candidate_kind,snappy"`
	Score         float64   `parquet:"score,snappy"`
	Method        string    `parquet:"method,snappy"`
	Label         string    `parquet:"label,snappy"`
	RecordedAt    time.Time `parquet:"recorded_at,snappy"`
}

// WriteRankRunsParquet writes a slice of RankRun structs to a Parquet file.
func WriteRankRunsParquet(data []RankRun, outputPath string) error {
	return writeRows(data, outputPath)
}

// WriteRankResultsParquet writes a slice of RankResult structs to a Parquet file.
func WriteRankResultsParquet(data []RankResult, outputPath string) error {
	return writeRows(data, outputPath)
}

// writeRows creates outputPath and writes all rows with a schema inferred from T.
func writeRows[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// ConvertRankRunRecords converts schema.RankRunRecord to RankRun for Parquet export.
func ConvertRankRunRecords(records []schema.RankRunRecord) []RankRun {
	result := make([]RankRun, len(records))
	for i, record := range records {
		result[i] = RankRun{
			RunID:         record.RunID,
			Engine:        record.Engine,
			User:          record.User,
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			TotalResults:  record.TotalResults,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertRankResultRecords converts schema.RankResultRecord to RankResult for Parquet export.
func ConvertRankResultRecords(records []schema.RankResultRecord) []RankResult {
	result := make([]RankResult, len(records))
	for i, record := range records {
		result[i] = RankResult(record)
	}
	return result
}

// ConvertScoredCandidates turns a fresh ranking into rows. RunID stays 0
// because the results were never materialized.
func ConvertScoredCandidates(results []schema.ScoredCandidate, kind schema.CandidateKind, recordedAt time.Time) []RankResult {
	rows := make([]RankResult, len(results))
	for i, r := range results {
		rows[i] = RankResult{
			Rank:          int32(r.Rank),
			CandidateName: r.Candidate.Name,
			CandidateKind: string(kind),
			Score:         r.Score,
			Method:        string(r.Method),
			Label:         schema.GetPlainLabel(r.Score),
			RecordedAt:    recordedAt,
		}
	}
	return rows
}
