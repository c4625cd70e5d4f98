// Package ingest decides whether and when the one-shot load runs.
package ingest

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Service gates the ingestion pipeline behind index occupancy.
type Service struct {
	repo   IndexRepo
	runner Runner
	logger *zap.Logger
}

// New creates an ingestion service.
func New(repo IndexRepo, runner Runner, logger *zap.Logger) *Service {
	return &Service{repo: repo, runner: runner, logger: logger}
}

// Bootstrap ensures the index exists and runs the load only when the
// index is empty. The check and the load are not atomic, so two replicas
// starting against an empty index can both ingest; run a single replica
// for the first start.
func (s *Service) Bootstrap(ctx context.Context) error {
	if err := s.repo.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure index: %w", err)
	}

	n, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count index: %w", err)
	}
	if n > 0 {
		s.logger.Info("Index already populated, skipping ingestion", zap.Int64("documents", n))
		return nil
	}

	s.logger.Info("Index empty, starting ingestion")
	sum, err := s.runner.Run(ctx)
	if err != nil {
		return fmt.Errorf("run ingestion: %w", err)
	}

	s.logger.Info("Ingestion complete",
		zap.Int64("rows_read", sum.RowsRead),
		zap.Int64("indexed", sum.Indexed),
		zap.Int64("skipped", sum.Skipped),
		zap.Int64("failed", sum.Failed),
		zap.Duration("duration", sum.Duration),
	)
	return nil
}
