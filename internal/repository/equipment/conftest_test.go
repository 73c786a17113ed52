package equipment

import (
	"context"
	"testing"
	"time"

	"github.com/surplusgrid/equisearch/internal/db"
	domequip "github.com/surplusgrid/equisearch/internal/domain/equipment"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	jsonSetMultiFn func(ctx context.Context, items []db.JSONSetItem) error
	jsonGetFn      func(ctx context.Context, key string, paths ...string) ([]byte, error)
	delFn          func(ctx context.Context, key string) error
	existsFn       func(ctx context.Context, key string) (bool, error)
	searchFn       func(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error)
	searchCountFn  func(ctx context.Context, q *db.FilterQuery) (int, error)
	createIndexFn  func(ctx context.Context, def *db.IndexDefinition) error
	indexExistsFn  func(ctx context.Context, name string) (bool, error)
}

func (m *mockStore) JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error {
	if m.jsonSetMultiFn != nil {
		return m.jsonSetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error) {
	if m.jsonGetFn != nil {
		return m.jsonGetFn(ctx, key, paths...)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Search(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchCount(ctx context.Context, q *db.FilterQuery) (int, error) {
	if m.searchCountFn != nil {
		return m.searchCountFn(ctx, q)
	}
	return 0, nil
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createIndexFn != nil {
		return m.createIndexFn(ctx, def)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.indexExistsFn != nil {
		return m.indexExistsFn(ctx, name)
	}
	return false, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	repo := New(ms, NewSharedPartition("equisearch:"))
	return repo, ms
}

func testDocument(t *testing.T, marketplace bool) domequip.Document {
	t.Helper()
	doc, err := domequip.New("pump-1", "acme", "Centrifugal pump CX-200", "pumps",
		domequip.WithSpecifications(
			domequip.Specification{Parameter: "flow", Value: 2000, Unit: "m3/hr"},
			domequip.Specification{Parameter: "pressure", Value: 10, Unit: "bar"},
		),
		domequip.WithLocation(domequip.Location{
			Country: "germany", City: "hamburg", Availability: domequip.AvailabilityImmediate,
		}),
		domequip.WithPrice(domequip.Price{Value: 45000, Currency: "EUR"}),
		domequip.WithCondition(domequip.ConditionUsed),
		domequip.WithMarketplaceListing(marketplace),
		domequip.WithTimestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)),
	)
	if err != nil {
		t.Fatalf("build test document: %v", err)
	}
	return doc
}
