// Package core has the ranking engines and the orchestration around them.
package core

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/garima1kafle/path2prep/internal/classifier"
	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/embed"
	"github.com/garima1kafle/path2prep/internal/logging"
	"github.com/garima1kafle/path2prep/internal/textsim"
	"github.com/garima1kafle/path2prep/schema"
)

// ErrInvalidTopK is returned when a caller asks for a non-positive number of results.
var ErrInvalidTopK = errors.New("top_k must be a positive integer")

// ErrHistoryDisabled is returned by history lookups when no history backend is configured.
var ErrHistoryDisabled = errors.New("ranking history is not enabled")

// Ranker scores a candidate pool for one profile and keeps the best topK.
//
// Rank never fails on backend, profile or pool problems. A nil profile, an
// empty pool or unavailable backends all produce well-defined results; only
// a non-positive topK is rejected.
type Ranker interface {
	Kind() schema.CandidateKind
	Rank(ctx context.Context, profile *schema.Profile, pool []schema.Candidate, topK int) ([]schema.ScoredCandidate, error)
	Backends() []schema.BackendStatus
}

// Engines holds one ranker per candidate kind. It is built once and shared
// read-only across ranking calls.
type Engines struct {
	Career      *CareerEngine
	Scholarship *ScholarshipMatcher

	registry *classifier.Registry
	embedder embed.Embedder
}

// For returns the ranker of the given kind.
func (e *Engines) For(kind schema.CandidateKind) Ranker {
	if kind == schema.ScholarshipKind {
		return e.Scholarship
	}
	return e.Career
}

// Backends returns the availability of every backend of both engines.
func (e *Engines) Backends() []schema.BackendStatus {
	return append(e.Career.Backends(), e.Scholarship.Backends()...)
}

// Close releases native model resources.
func (e *Engines) Close() error {
	var errs []error
	if e.registry != nil {
		errs = append(errs, e.registry.Close())
	}
	if e.embedder != nil {
		errs = append(errs, e.embedder.Close())
	}
	return errors.Join(errs...)
}

// BuildEngines loads every model named by cfg. Missing or broken artifacts
// only make the matching backend unavailable. mgr may be nil, in which case
// embeddings are memoised in memory only.
func BuildEngines(cfg *contract.Config, mgr contract.CacheManager) *Engines {
	log := logging.Component("engines")

	registry := classifier.Load(classifier.LoadConfig{
		Dir:        cfg.ModelsDir,
		OrtLibPath: cfg.OrtLibPath,
	})

	opts := MatcherOptions{Weights: cfg.WeightsFor(schema.ScholarshipKind)}
	if cfg.LexicalEnabled {
		opts.Lexical = textsim.NewVectorizer()
	} else {
		opts.LexicalNote = "disabled by configuration"
	}

	var store contract.CacheStore
	if mgr != nil {
		store = mgr.GetEmbeddingStore()
	}
	embedder, err := embed.New(embedConfig(cfg), store)
	if err != nil {
		opts.EmbedderNote = err.Error()
	} else {
		opts.Embedder = embedder
	}

	engines := &Engines{
		Career:      NewCareerEngine(registry, cfg.WeightsFor(schema.CareerKind)),
		Scholarship: NewScholarshipMatcher(opts),
		registry:    registry,
	}
	if embedder != nil {
		engines.embedder = embedder
	}
	for _, s := range engines.Backends() {
		ev := log.Debug().Str("engine", string(s.Engine)).Str("backend", string(s.Name)).Bool("available", s.Available)
		if s.Reason != "" {
			ev = ev.Str("reason", s.Reason)
		}
		ev.Msg("Backend resolved")
	}
	return engines
}

// embedConfig derives the embedder paths. Unset paths default to the
// sentence-transformers export inside the models directory.
func embedConfig(cfg *contract.Config) embed.Config {
	modelPath := cfg.EmbedModelPath
	if modelPath == "" {
		modelPath = filepath.Join(cfg.ModelsDir, "all-MiniLM-L6-v2", "model.onnx")
	}
	tokenizerPath := cfg.EmbedTokenizerPath
	if tokenizerPath == "" {
		tokenizerPath = filepath.Join(filepath.Dir(modelPath), "tokenizer.json")
	}
	return embed.Config{
		OrtLibPath:    cfg.OrtLibPath,
		ModelPath:     modelPath,
		TokenizerPath: tokenizerPath,
		MaxSeqLen:     cfg.EmbedMaxSeqLen,
		Dim:           cfg.EmbedDim,
	}
}
