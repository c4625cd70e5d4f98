package wageindex

import (
	"context"
	"errors"
	"testing"

	"github.com/openlabor/wagedex/internal/db"
	"github.com/openlabor/wagedex/internal/domain/wage"
)

type mockStore struct {
	ensureErr error
	count     int64
	countErr  error
	bulkFn    func(ctx context.Context, index string, docs []db.Document) (db.BulkResult, error)
	lastDocs  []db.Document
	lastIndex string
}

func (m *mockStore) EnsureIndex(_ context.Context, index string) error {
	m.lastIndex = index
	return m.ensureErr
}

func (m *mockStore) Count(_ context.Context, index string) (int64, error) {
	m.lastIndex = index
	return m.count, m.countErr
}

func (m *mockStore) BulkIndex(ctx context.Context, index string, docs []db.Document) (db.BulkResult, error) {
	m.lastIndex = index
	m.lastDocs = docs
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, docs)
	}
	return db.BulkResult{Indexed: len(docs)}, nil
}

func TestBulkIndexMapsRecords(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms, "wages")

	records := []wage.Record{
		{ID: "id-1", JobTitle: "director", CityState: "dallas texas", Salary: 120.5},
	}
	indexed, failed, err := repo.BulkIndex(context.Background(), records)
	if err != nil {
		t.Fatalf("BulkIndex: %v", err)
	}
	if indexed != 1 || failed != 0 {
		t.Errorf("indexed/failed = %d/%d, want 1/0", indexed, failed)
	}
	if ms.lastIndex != "wages" {
		t.Errorf("index = %q, want wages", ms.lastIndex)
	}
	doc := ms.lastDocs[0]
	if doc.ID != "id-1" {
		t.Errorf("doc ID = %q", doc.ID)
	}
	if doc.Fields["job_title"] != "director" || doc.Fields["city_state"] != "dallas texas" {
		t.Errorf("doc fields = %v", doc.Fields)
	}
	if doc.Fields["salary"] != 120.5 {
		t.Errorf("salary = %v, want 120.5", doc.Fields["salary"])
	}
}

func TestCountAndEnsureWrapErrors(t *testing.T) {
	wantErr := errors.New("boom")
	repo := New(&mockStore{ensureErr: wantErr, countErr: wantErr}, "wages")

	if err := repo.Ensure(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Ensure err = %v", err)
	}
	if _, err := repo.Count(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Count err = %v", err)
	}
}
