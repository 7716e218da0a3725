package core

import (
	"context"
	"fmt"
	"time"

	"github.com/garima1kafle/path2prep/internal/classifier"
	"github.com/garima1kafle/path2prep/internal/features"
	"github.com/garima1kafle/path2prep/internal/metrics"
	"github.com/garima1kafle/path2prep/internal/textsim"
	"github.com/garima1kafle/path2prep/schema"
)

// CareerEngine ranks careers with a weighted ensemble of classifiers.
type CareerEngine struct {
	registry *classifier.Registry
	weights  map[schema.Method]float64
	labelIdx map[string]int
}

var _ Ranker = &CareerEngine{} // Compile-time check

// NewCareerEngine builds the engine over a loaded registry. Nil weights
// select the defaults.
func NewCareerEngine(registry *classifier.Registry, weights map[schema.Method]float64) *CareerEngine {
	if weights == nil {
		weights = schema.GetDefaultWeights(schema.CareerKind)
	}
	labelIdx := make(map[string]int, len(registry.Labels()))
	for i, label := range registry.Labels() {
		if _, dup := labelIdx[label]; !dup {
			labelIdx[label] = i
		}
	}
	return &CareerEngine{registry: registry, weights: weights, labelIdx: labelIdx}
}

// Kind implements Ranker.
func (e *CareerEngine) Kind() schema.CandidateKind {
	return schema.CareerKind
}

// Backends implements Ranker.
func (e *CareerEngine) Backends() []schema.BackendStatus {
	return e.registry.Status()
}

// Rank implements Ranker. Each candidate scores the ensemble probability of
// the label equal to its name; labels the models never saw score 0.
func (e *CareerEngine) Rank(ctx context.Context, profile *schema.Profile, pool []schema.Candidate, topK int) ([]schema.ScoredCandidate, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}
	start := time.Now()
	method := schema.MethodDefault
	defer func() { metrics.RecordRank(string(schema.CareerKind), string(method), start) }()

	if len(pool) == 0 {
		return []schema.ScoredCandidate{}, nil
	}
	log := rankLogger(ctx, schema.CareerKind)

	x := features.Vectorize(features.ExtractFeatures(profile), e.registry.Columns())
	if len(x) == 0 {
		log.Debug().Msg("No profile features; using default scores")
		return defaultResults(pool, topK), nil
	}

	var contributed []backendScores
	for _, m := range schema.ClassifierMethods {
		c, ok := e.registry.Classifier(m)
		if !ok || e.weights[m] <= 0 {
			continue
		}
		scores, err := guard(func() ([]float64, error) {
			return e.scorePool(ctx, c, x, pool)
		})
		if err != nil {
			backendFailed(&log, schema.CareerKind, m, err)
			continue
		}
		contributed = append(contributed, backendScores{method: m, weight: e.weights[m], scores: scores})
	}

	switch len(contributed) {
	case 0:
		log.Debug().Msg("No classifier available; using default scores")
		return defaultResults(pool, topK), nil
	case 1:
		method = contributed[0].method
	default:
		method = schema.MethodEnsemble
	}
	results, ok := combineAndSelect(pool, topK, contributed, method)
	if !ok {
		method = schema.MethodDefault
		return defaultResults(pool, topK), nil
	}
	return results, nil
}

// scorePool maps one classifier's distribution onto the pool.
func (e *CareerEngine) scorePool(ctx context.Context, c classifier.Classifier, x []float64, pool []schema.Candidate) ([]float64, error) {
	proba, err := c.PredictProba(ctx, x)
	if err != nil {
		return nil, err
	}
	if len(proba) != len(e.registry.Labels()) {
		return nil, fmt.Errorf("%s returned %d probabilities for %d labels", c.Name(), len(proba), len(e.registry.Labels()))
	}
	scores := make([]float64, len(pool))
	for i, cand := range pool {
		if idx, ok := e.labelIdx[cand.Name]; ok {
			scores[i] = textsim.Clamp01(proba[idx])
		}
	}
	return scores, nil
}
