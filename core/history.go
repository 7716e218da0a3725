package core

import (
	"context"
	"fmt"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/schema"
)

// RankRequest is one ranking call with the settings worth recording.
type RankRequest struct {
	Profile *schema.Profile
	Pool    []schema.Candidate
	TopK    int
	User    string
	Source  string // cli, http or mcp
}

// RankAndRecord runs the ranker and materializes the run in the history
// store when one is configured. History failures are logged, never returned.
func RankAndRecord(ctx context.Context, ranker Ranker, history contract.HistoryStore, req RankRequest) ([]schema.ScoredCandidate, error) {
	if req.TopK <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, req.TopK)
	}
	var runID int64
	if history != nil {
		configParams := map[string]any{
			"top_k":     req.TopK,
			"pool_size": len(req.Pool),
			"source":    req.Source,
			"profile":   req.Profile != nil,
		}
		if id := RequestIDFrom(ctx); id != "" {
			configParams["request_id"] = id
		}
		var err error
		runID, err = history.BeginRun(time.Now(), ranker.Kind(), req.User, configParams)
		if err != nil {
			log := rankLogger(ctx, ranker.Kind())
			log.Warn().Err(err).Msg("Ranking history initialization failed")
		} else if runID > 0 {
			ctx = withRunID(ctx, runID)
		}
	}

	results, err := ranker.Rank(ctx, req.Profile, req.Pool, req.TopK)
	if err != nil {
		return nil, err
	}

	if history != nil && runID > 0 {
		log := rankLogger(ctx, ranker.Kind())
		now := time.Now()
		if err := history.RecordResults(runID, now, results); err != nil {
			log.Warn().Err(err).Msg("Failed to record ranking results")
		}
		if err := history.EndRun(runID, now, len(results)); err != nil {
			log.Warn().Err(err).Msg("Failed to finalize ranking history")
		}
	}
	return results, nil
}
