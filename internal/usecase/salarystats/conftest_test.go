package salarystats

import (
	"context"

	"github.com/openlabor/wagedex/internal/domain/query"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

// --- Mocks ---

type mockRepo struct {
	stats    salary.Stats
	err      error
	called   int
	lastSpec query.Spec
}

func (m *mockRepo) Stats(_ context.Context, spec query.Spec) (salary.Stats, error) {
	m.called++
	m.lastSpec = spec
	return m.stats, m.err
}

type mockCache struct {
	entries map[string]salary.Stats
	gets    int
	sets    int
	lastKey string
}

func newMockCache() *mockCache {
	return &mockCache{entries: map[string]salary.Stats{}}
}

func (m *mockCache) Get(_ context.Context, key string) (salary.Stats, bool) {
	m.gets++
	m.lastKey = key
	s, ok := m.entries[key]
	return s, ok
}

func (m *mockCache) Set(_ context.Context, key string, stats salary.Stats) {
	m.sets++
	m.entries[key] = stats
}

func fptr(v float64) *float64 { return &v }
