package core

import (
	"context"
	"fmt"

	"github.com/garima1kafle/path2prep/core/algo"
	"github.com/garima1kafle/path2prep/internal/logging"
	"github.com/garima1kafle/path2prep/internal/metrics"
	"github.com/garima1kafle/path2prep/internal/textsim"
	"github.com/garima1kafle/path2prep/schema"
	"github.com/rs/zerolog"
)

// backendScores are one backend's scores aligned with the pool.
type backendScores struct {
	method schema.Method
	weight float64
	scores []float64
}

// defaultResults returns the first topK pool entries with the default score.
func defaultResults(pool []schema.Candidate, topK int) []schema.ScoredCandidate {
	scores := algo.Uniform(len(pool), schema.DefaultScore)
	order := algo.TopIndices(scores, topK)
	out := make([]schema.ScoredCandidate, len(order))
	for rank, idx := range order {
		out[rank] = schema.ScoredCandidate{
			Rank:      rank + 1,
			Candidate: pool[idx],
			Score:     scores[idx],
			Method:    schema.MethodDefault,
		}
	}
	return out
}

// combineAndSelect blends the backends and keeps the topK best candidates.
// ok is false when no backend contributed.
func combineAndSelect(pool []schema.Candidate, topK int, backends []backendScores, method schema.Method) ([]schema.ScoredCandidate, bool) {
	parts := make([]algo.Part, len(backends))
	for i, b := range backends {
		parts[i] = algo.Part{Weight: b.weight, Scores: b.scores}
	}
	combined, ok := algo.Combine(len(pool), parts...)
	if !ok {
		return nil, false
	}
	order := algo.TopIndices(combined, topK)
	out := make([]schema.ScoredCandidate, len(order))
	for rank, idx := range order {
		breakdown := make(map[schema.Method]float64, len(backends))
		for _, b := range backends {
			breakdown[b.method] = b.scores[idx]
		}
		out[rank] = schema.ScoredCandidate{
			Rank:      rank + 1,
			Candidate: pool[idx],
			Score:     textsim.Clamp01(combined[idx]),
			Method:    method,
			Breakdown: breakdown,
		}
	}
	return out, true
}

// guard runs one backend and turns a panic into an error so the backend can
// be excluded from the current call.
func guard(fn func() ([]float64, error)) (scores []float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("backend panic: %v", r)
		}
	}()
	return fn()
}

// backendFailed logs and counts a backend excluded from the current call.
func backendFailed(log *zerolog.Logger, kind schema.CandidateKind, method schema.Method, err error) {
	log.Warn().Err(err).Str("backend", string(method)).Msg("Backend failed; excluded for this call")
	metrics.RecordBackendFailure(string(kind), string(method))
}

// rankLogger returns the component logger for one ranking call.
func rankLogger(ctx context.Context, kind schema.CandidateKind) zerolog.Logger {
	l := logging.Component(string(kind))
	if id := RequestIDFrom(ctx); id != "" {
		l = l.With().Str("request_id", id).Logger()
	}
	if runID, ok := getRunID(ctx); ok {
		l = l.With().Int64("run_id", runID).Logger()
	}
	return l
}
