package schema

import "time"

// RankRunRecord represents a row from the path2prep_rank_runs table.
type RankRunRecord struct {
	RunID         int64
	Engine        string
	User          string
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	TotalResults  int32
	ConfigParams  *string
}

// RankResultRecord represents a row from the path2prep_rank_results table.
type RankResultRecord struct {
	RunID         int64
	Rank          int32
	CandidateName string
	CandidateKind string
	Score         float64
	Method        string
	Label         string
	RecordedAt    time.Time
}
