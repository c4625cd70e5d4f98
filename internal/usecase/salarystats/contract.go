package salarystats

import (
	"context"

	"github.com/openlabor/wagedex/internal/domain/query"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

// Repository runs aggregation queries against the wage index.
type Repository interface {
	Stats(ctx context.Context, spec query.Spec) (salary.Stats, error)
}

// Cache stores scaled statistics per query key. Both calls are
// best-effort: a miss or a write failure never fails the request.
type Cache interface {
	Get(ctx context.Context, queryKey string) (salary.Stats, bool)
	Set(ctx context.Context, queryKey string, stats salary.Stats)
}
