package ingest

import (
	"context"

	"github.com/openlabor/wagedex/internal/ingest"
)

// IndexRepo manages the wage index lifecycle.
type IndexRepo interface {
	Ensure(ctx context.Context) error
	Count(ctx context.Context) (int64, error)
}

// Runner executes one full ingestion pass.
type Runner interface {
	Run(ctx context.Context) (ingest.Summary, error)
}
