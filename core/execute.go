package core

import (
	"context"
	"time"

	"github.com/garima1kafle/path2prep/internal/contract"
	"github.com/garima1kafle/path2prep/internal/outwriter"
	"github.com/garima1kafle/path2prep/schema"
)

// ExecutorFunc defines the function signature for executing CLI commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// ExecuteCareers ranks careers for the configured profile and prints them.
func ExecuteCareers(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeRanking(ctx, cfg, mgr, schema.CareerKind)
}

// ExecuteScholarships matches scholarships for the configured profile and prints them.
func ExecuteScholarships(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	return executeRanking(ctx, cfg, mgr, schema.ScholarshipKind)
}

// ExecuteBackends prints which scoring backends are available.
func ExecuteBackends(_ context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	engines := BuildEngines(cfg, mgr)
	defer func() { _ = engines.Close() }()
	return outwriter.PrintBackends(engines.Backends(), cfg)
}

func executeRanking(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, kind schema.CandidateKind) error {
	start := time.Now()
	svc := NewService(cfg, mgr)
	defer func() { _ = svc.Close() }()

	results, err := svc.Rank(ctx, Query{
		Kind:   kind,
		User:   cfg.User,
		TopK:   cfg.TopKFor(kind),
		Source: "cli",
	})
	if err != nil {
		return err
	}
	return outwriter.PrintResults(results, kind, cfg, time.Since(start))
}
