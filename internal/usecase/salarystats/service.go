// Package salarystats answers salary queries: validate, aggregate, scale.
package salarystats

import (
	"context"

	"github.com/openlabor/wagedex/internal/domain/query"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

// Service handles salary statistics queries.
type Service struct {
	repo  Repository
	cache Cache
}

// New creates a salary stats service. cache can be nil.
func New(repo Repository, cache Cache) *Service {
	return &Service{repo: repo, cache: cache}
}

// Query validates the (title, location) pair and returns display-scaled
// statistics for the matching records. Cached entries are already scaled.
func (s *Service) Query(ctx context.Context, title, location string) (salary.Stats, error) {
	spec, err := query.Build(title, location)
	if err != nil {
		return salary.Stats{}, err
	}

	key := spec.CacheKey()
	if s.cache != nil {
		if stats, ok := s.cache.Get(ctx, key); ok {
			return stats, nil
		}
	}

	raw, err := s.repo.Stats(ctx, spec)
	if err != nil {
		return salary.Stats{}, err
	}

	stats := raw.Scale()
	if s.cache != nil {
		s.cache.Set(ctx, key, stats)
	}
	return stats, nil
}
