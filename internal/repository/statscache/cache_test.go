package statscache

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/openlabor/wagedex/internal/db"
	"github.com/openlabor/wagedex/internal/domain/salary"
)

type mockStore struct {
	data   map[string][]byte
	getErr error
	setErr error
}

func newMockStore() *mockStore {
	return &mockStore{data: map[string][]byte{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) SetWithTTL(_ context.Context, key string, value []byte, _ time.Duration) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.data[key] = value
	return nil
}

func fptr(v float64) *float64 { return &v }

func TestCacheRoundTrip(t *testing.T) {
	ms := newMockStore()
	c := New(ms, time.Hour, nil, zap.NewNop())

	stats := salary.Stats{DataPoints: 5, Mean: fptr(85123.45), P25: fptr(60500), P50: fptr(80000), P75: fptr(110999)}
	c.Set(context.Background(), "director|dallas", stats)

	got, ok := c.Get(context.Background(), "director|dallas")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.DataPoints != 5 {
		t.Errorf("DataPoints = %d, want 5", got.DataPoints)
	}
	if got.Mean == nil || *got.Mean != 85123.45 {
		t.Errorf("Mean = %v, want 85123.45", got.Mean)
	}
}

func TestCacheMiss(t *testing.T) {
	c := New(newMockStore(), time.Hour, nil, zap.NewNop())
	if _, ok := c.Get(context.Background(), "nothing"); ok {
		t.Error("expected miss on empty cache")
	}
}

func TestCacheNullStats(t *testing.T) {
	// Zero-match results are cached too; nils must survive the round trip.
	ms := newMockStore()
	c := New(ms, time.Hour, nil, zap.NewNop())

	c.Set(context.Background(), "nosuchjob|", salary.Stats{DataPoints: 0})
	got, ok := c.Get(context.Background(), "nosuchjob|")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Mean != nil || got.P25 != nil || got.P50 != nil || got.P75 != nil {
		t.Errorf("nil stats not preserved: %+v", got)
	}
}

func TestCacheDegradesOnStoreErrors(t *testing.T) {
	ms := newMockStore()
	ms.getErr = errors.New("connection refused")
	c := New(ms, time.Hour, nil, zap.NewNop())

	if _, ok := c.Get(context.Background(), "director|"); ok {
		t.Error("store error must read as a miss")
	}

	// Set errors are swallowed.
	ms.setErr = errors.New("connection refused")
	c.Set(context.Background(), "director|", salary.Stats{DataPoints: 1})
}

func TestCacheKeysAreNamespacedAndHashed(t *testing.T) {
	ms := newMockStore()
	c := New(ms, time.Hour, nil, zap.NewNop())
	c.Set(context.Background(), "a|b", salary.Stats{})

	for k := range ms.data {
		if len(k) != len(cacheKeyPrefix)+64 {
			t.Errorf("key %q not a prefixed sha256", k)
		}
	}
}
