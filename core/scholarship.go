package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garima1kafle/path2prep/internal/embed"
	"github.com/garima1kafle/path2prep/internal/features"
	"github.com/garima1kafle/path2prep/internal/metrics"
	"github.com/garima1kafle/path2prep/internal/textsim"
	"github.com/garima1kafle/path2prep/schema"
)

// ScholarshipMatcher ranks scholarships by blending lexical and embedding
// similarity between the profile text and each scholarship's text.
type ScholarshipMatcher struct {
	lexical      *textsim.Vectorizer
	embedder     embed.Embedder
	weights      map[schema.Method]float64
	lexicalNote  string
	embedderNote string
}

var _ Ranker = &ScholarshipMatcher{} // Compile-time check

// MatcherOptions configure a ScholarshipMatcher. A nil Lexical or Embedder
// marks that backend unavailable; the matching note explains why.
type MatcherOptions struct {
	Lexical      *textsim.Vectorizer
	LexicalNote  string
	Embedder     embed.Embedder
	EmbedderNote string
	Weights      map[schema.Method]float64
}

// NewScholarshipMatcher builds the matcher. Availability is fixed here.
func NewScholarshipMatcher(opts MatcherOptions) *ScholarshipMatcher {
	weights := opts.Weights
	if weights == nil {
		weights = schema.GetDefaultWeights(schema.ScholarshipKind)
	}
	return &ScholarshipMatcher{
		lexical:      opts.Lexical,
		embedder:     opts.Embedder,
		weights:      weights,
		lexicalNote:  opts.LexicalNote,
		embedderNote: opts.EmbedderNote,
	}
}

// Kind implements Ranker.
func (m *ScholarshipMatcher) Kind() schema.CandidateKind {
	return schema.ScholarshipKind
}

// Backends implements Ranker.
func (m *ScholarshipMatcher) Backends() []schema.BackendStatus {
	status := func(name schema.Method, available bool, note string) schema.BackendStatus {
		s := schema.BackendStatus{Engine: schema.ScholarshipKind, Name: name, Available: available}
		if !available {
			s.Reason = note
			if s.Reason == "" {
				s.Reason = "not configured"
			}
		}
		return s
	}
	return []schema.BackendStatus{
		status(schema.MethodTFIDF, m.lexical != nil, m.lexicalNote),
		status(schema.MethodEmbedding, m.embedder != nil, m.embedderNote),
	}
}

// Rank implements Ranker.
func (m *ScholarshipMatcher) Rank(ctx context.Context, profile *schema.Profile, pool []schema.Candidate, topK int) ([]schema.ScoredCandidate, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, topK)
	}
	start := time.Now()
	method := schema.MethodDefault
	defer func() { metrics.RecordRank(string(schema.ScholarshipKind), string(method), start) }()

	if len(pool) == 0 {
		return []schema.ScoredCandidate{}, nil
	}
	log := rankLogger(ctx, schema.ScholarshipKind)

	profileText := features.ProfileText(profile)
	if strings.TrimSpace(profileText) == "" {
		log.Debug().Msg("Empty profile text; using default scores")
		return defaultResults(pool, topK), nil
	}
	candidateTexts := make([]string, len(pool))
	for i, c := range pool {
		candidateTexts[i] = features.CandidateText(c)
	}

	var contributed []backendScores
	if m.lexical != nil && m.weights[schema.MethodTFIDF] > 0 {
		scores, err := guard(func() ([]float64, error) {
			return m.lexicalScores(profileText, candidateTexts), nil
		})
		if err != nil {
			backendFailed(&log, schema.ScholarshipKind, schema.MethodTFIDF, err)
		} else {
			contributed = append(contributed, backendScores{
				method: schema.MethodTFIDF, weight: m.weights[schema.MethodTFIDF], scores: scores,
			})
		}
	}
	if m.embedder != nil && m.weights[schema.MethodEmbedding] > 0 {
		scores, err := guard(func() ([]float64, error) {
			return m.embeddingScores(ctx, profileText, candidateTexts)
		})
		if err != nil {
			backendFailed(&log, schema.ScholarshipKind, schema.MethodEmbedding, err)
		} else {
			contributed = append(contributed, backendScores{
				method: schema.MethodEmbedding, weight: m.weights[schema.MethodEmbedding], scores: scores,
			})
		}
	}

	switch len(contributed) {
	case 0:
		log.Debug().Msg("No similarity backend available; using default scores")
		return defaultResults(pool, topK), nil
	case 1:
		method = contributed[0].method
	default:
		method = schema.MethodBlend
	}
	results, ok := combineAndSelect(pool, topK, contributed, method)
	if !ok {
		method = schema.MethodDefault
		return defaultResults(pool, topK), nil
	}
	return results, nil
}

// lexicalScores compares preprocessed texts with a vectorizer fitted for this call only.
func (m *ScholarshipMatcher) lexicalScores(profileText string, candidateTexts []string) []float64 {
	docs := make([]string, len(candidateTexts))
	for i, t := range candidateTexts {
		docs[i] = features.Preprocess(t)
	}
	return m.lexical.Similarities(features.Preprocess(profileText), docs)
}

// embeddingScores compares raw texts in embedding space.
func (m *ScholarshipMatcher) embeddingScores(ctx context.Context, profileText string, candidateTexts []string) ([]float64, error) {
	profileVec, err := m.embedder.EmbedText(ctx, profileText)
	if err != nil {
		return nil, fmt.Errorf("embed profile: %w", err)
	}
	candidateVecs, err := m.embedder.EmbedTexts(ctx, candidateTexts)
	if err != nil {
		return nil, fmt.Errorf("embed candidates: %w", err)
	}
	scores := make([]float64, len(candidateVecs))
	for i, v := range candidateVecs {
		scores[i] = textsim.CosineDense(profileVec, v)
	}
	return scores, nil
}
