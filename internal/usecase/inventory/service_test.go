package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/domain/equipment"
	domtenant "github.com/surplusgrid/equisearch/internal/domain/tenant"
)

type mockRepo struct {
	mu       sync.Mutex
	upserted []equipment.Document
	upsertFn func(ctx context.Context, doc *equipment.Document, routingKey string) (bool, error)
	deleteFn func(ctx context.Context, tenantID, docID string) error
}

func (m *mockRepo) Upsert(ctx context.Context, doc *equipment.Document, routingKey string) (bool, error) {
	m.mu.Lock()
	m.upserted = append(m.upserted, *doc)
	m.mu.Unlock()
	if m.upsertFn != nil {
		return m.upsertFn(ctx, doc, routingKey)
	}
	return true, nil
}

func (m *mockRepo) Delete(ctx context.Context, tenantID, docID string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, tenantID, docID)
	}
	return nil
}

type mockResolver struct {
	resolveFn func(ctx context.Context, id string) (domtenant.Tenant, error)
}

func (m *mockResolver) Resolve(ctx context.Context, id string) (domtenant.Tenant, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, id)
	}
	return domtenant.New(id, "Acme GmbH", "manufacturing")
}

func newTestService(t *testing.T, repo *mockRepo, resolver *mockResolver) *Service {
	t.Helper()
	svc, err := New(repo, resolver, Options{Workers: 4, MaxBulkSize: 100}, zap.NewNop())
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	t.Cleanup(svc.Release)
	return svc
}

func testDoc(t *testing.T, id string, marketplace bool) equipment.Document {
	t.Helper()
	doc, err := equipment.New(id, "acme", "Pump "+id, "pumps",
		equipment.WithMarketplaceListing(marketplace))
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	return doc
}

func TestIndex_HappyPath(t *testing.T) {
	repo := &mockRepo{upsertFn: func(_ context.Context, doc *equipment.Document, routingKey string) (bool, error) {
		if routingKey != domtenant.RoutingKey("acme") {
			t.Errorf("unexpected routing key: %s", routingKey)
		}
		if !doc.MarketplaceListing() {
			t.Error("listing flag lost for a tenant with access")
		}
		return true, nil
	}}

	created, err := newTestService(t, repo, &mockResolver{}).Index(context.Background(), testDoc(t, "pump-1", true))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created")
	}
}

func TestIndex_UnknownTenant(t *testing.T) {
	resolver := &mockResolver{resolveFn: func(_ context.Context, _ string) (domtenant.Tenant, error) {
		return domtenant.Tenant{}, domain.ErrTenantNotFound
	}}
	repo := &mockRepo{upsertFn: func(_ context.Context, _ *equipment.Document, _ string) (bool, error) {
		t.Error("no write for an unknown tenant")
		return false, nil
	}}

	_, err := newTestService(t, repo, resolver).Index(context.Background(), testDoc(t, "pump-1", false))
	if !errors.Is(err, domain.ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestIndex_StripsListingWithoutAccess(t *testing.T) {
	resolver := &mockResolver{resolveFn: func(_ context.Context, id string) (domtenant.Tenant, error) {
		tn, err := domtenant.New(id, "Acme GmbH", "manufacturing")
		if err != nil {
			return domtenant.Tenant{}, err
		}
		return tn.WithMarketplaceAccess(false), nil
	}}
	repo := &mockRepo{upsertFn: func(_ context.Context, doc *equipment.Document, _ string) (bool, error) {
		if doc.MarketplaceListing() {
			t.Error("listing flag must be stripped without marketplace access")
		}
		return true, nil
	}}

	if _, err := newTestService(t, repo, resolver).Index(context.Background(), testDoc(t, "pump-1", true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBulkLoad_AllIndexed(t *testing.T) {
	repo := &mockRepo{}
	docs := []equipment.Document{
		testDoc(t, "pump-1", false),
		testDoc(t, "pump-2", false),
		testDoc(t, "pump-3", true),
	}

	report, err := newTestService(t, repo, &mockResolver{}).BulkLoad(context.Background(), "acme", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indexed != 3 || report.Failed != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
	if len(repo.upserted) != 3 {
		t.Errorf("expected 3 writes, got %d", len(repo.upserted))
	}
}

func TestBulkLoad_PartialFailure(t *testing.T) {
	repo := &mockRepo{upsertFn: func(_ context.Context, doc *equipment.Document, _ string) (bool, error) {
		if doc.ID() == "pump-2" {
			return false, errors.New("write failed")
		}
		return true, nil
	}}
	docs := []equipment.Document{
		testDoc(t, "pump-1", false),
		testDoc(t, "pump-2", false),
		testDoc(t, "pump-3", false),
	}

	report, err := newTestService(t, repo, &mockResolver{}).BulkLoad(context.Background(), "acme", docs)
	if err != nil {
		t.Fatalf("per-document failures must not fail the batch, got %v", err)
	}
	if report.Indexed != 2 || report.Failed != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestBulkLoad_ForeignDocumentsRejected(t *testing.T) {
	repo := &mockRepo{}
	foreign, err := equipment.New("pump-x", "globex", "Pump X", "pumps")
	if err != nil {
		t.Fatalf("build document: %v", err)
	}
	docs := []equipment.Document{testDoc(t, "pump-1", false), foreign}

	report, err := newTestService(t, repo, &mockResolver{}).BulkLoad(context.Background(), "acme", docs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indexed != 1 || report.Failed != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestBulkLoad_SizeLimit(t *testing.T) {
	svc, err := New(&mockRepo{}, &mockResolver{}, Options{Workers: 2, MaxBulkSize: 2}, zap.NewNop())
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	t.Cleanup(svc.Release)

	docs := []equipment.Document{
		testDoc(t, "pump-1", false),
		testDoc(t, "pump-2", false),
		testDoc(t, "pump-3", false),
	}
	if _, err := svc.BulkLoad(context.Background(), "acme", docs); err == nil {
		t.Fatal("expected bulk size error")
	}
}

func TestDelete_PassesThroughNotFound(t *testing.T) {
	repo := &mockRepo{deleteFn: func(_ context.Context, _, _ string) error {
		return domain.ErrDocumentNotFound
	}}

	err := newTestService(t, repo, &mockResolver{}).Delete(context.Background(), "acme", "ghost")
	if !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}
