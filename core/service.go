package core

import (
	"context"
	"fmt"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/corpus"
	"github.com/garima1kafle/path2prep/internal/logging"
	"github.com/garima1kafle/path2prep/schema"
)

// Service ranks pools from a corpus source with engines built once per
// process. The HTTP and MCP servers share one Service.
type Service struct {
	Engines *Engines
	Source  corpus.Source
	History contract.HistoryStore // nil disables history
}

// NewService wires engines built from cfg to the files named by cfg.
func NewService(cfg *contract.Config, mgr contract.CacheManager) *Service {
	svc := &Service{
		Engines: BuildEngines(cfg, mgr),
		Source: &corpus.FileSource{
			ProfilesPath:     cfg.ProfilePath,
			CareersPath:      cfg.CareersPath,
			ScholarshipsPath: cfg.ScholarshipsPath,
		},
	}
	if mgr != nil {
		svc.History = mgr.GetHistoryStore()
	}
	return svc
}

// Query is one ranking call. An inline Profile wins over a lookup of User
// in the source.
type Query struct {
	Kind    schema.CandidateKind
	Profile *schema.Profile
	User    string
	TopK    int
	Source  string
}

// Rank resolves the profile and pool of q and ranks them.
func (s *Service) Rank(ctx context.Context, q Query) ([]schema.ScoredCandidate, error) {
	if q.TopK <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidTopK, q.TopK)
	}
	if _, ok := schema.ValidCandidateKinds[q.Kind]; !ok {
		return nil, fmt.Errorf("unknown candidate kind %q", q.Kind)
	}

	profile := q.Profile
	if profile == nil {
		p, err := s.Source.Profile(ctx, q.User)
		if err != nil {
			return nil, fmt.Errorf("failed to load profile of %q: %w", q.User, err)
		}
		if p == nil {
			log := logging.Component(string(q.Kind))
			log.Info().Str("user", q.User).Msg("No profile found; using default scores")
		}
		profile = p
	}
	pool, err := s.Source.Candidates(ctx, q.Kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s pool: %w", q.Kind, err)
	}

	user := q.User
	if user == "" && profile != nil {
		user = profile.User
	}
	return RankAndRecord(ctx, s.Engines.For(q.Kind), s.History, RankRequest{
		Profile: profile,
		Pool:    pool,
		TopK:    q.TopK,
		User:    user,
		Source:  q.Source,
	})
}

// LatestResults returns the results of the latest finished run of kind for user.
func (s *Service) LatestResults(user string, kind schema.CandidateKind) ([]schema.RankResultRecord, error) {
	if _, ok := schema.ValidCandidateKinds[kind]; !ok {
		return nil, fmt.Errorf("unknown candidate kind %q", kind)
	}
	if s.History == nil {
		return nil, ErrHistoryDisabled
	}
	return s.History.GetLatestResults(user, kind)
}

// Backends returns the availability of every backend.
func (s *Service) Backends() []schema.BackendStatus {
	return s.Engines.Backends()
}

// Close releases the engines.
func (s *Service) Close() error {
	return s.Engines.Close()
}
