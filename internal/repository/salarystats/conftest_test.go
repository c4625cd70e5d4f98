package salarystats

import (
	"context"
	"testing"

	"github.com/openlabor/wagedex/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchStatsFn func(ctx context.Context, q *db.StatsQuery) (*db.StatsResult, error)
	lastQuery     *db.StatsQuery
}

func (m *mockStore) SearchStats(ctx context.Context, q *db.StatsQuery) (*db.StatsResult, error) {
	m.lastQuery = q
	if m.searchStatsFn != nil {
		return m.searchStatsFn(ctx, q)
	}
	return &db.StatsResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms, "wages"), ms
}

func fptr(v float64) *float64 { return &v }
