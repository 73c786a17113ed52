// Package inventory implements document indexing: single upserts, bulk loads
// over a worker pool, and deletes.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/domain/equipment"
	domtenant "github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// Options bound the bulk loader.
type Options struct {
	// Workers is the bulk worker pool size.
	Workers int
	// MaxBulkSize caps documents per bulk request.
	MaxBulkSize int
}

// Report summarizes a bulk load.
type Report struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// Service indexes equipment documents on behalf of their owning tenant.
type Service struct {
	repo     Repository
	resolver Resolver
	pool     *ants.Pool
	opts     Options
	logger   *zap.Logger
}

// New creates an inventory service with its bulk worker pool.
func New(repo Repository, resolver Resolver, opts Options, logger *zap.Logger) (*Service, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create bulk worker pool: %w", err)
	}
	return &Service{repo: repo, resolver: resolver, pool: pool, opts: opts, logger: logger}, nil
}

// Release releases the worker pool. The service must not be used afterwards.
func (s *Service) Release() {
	s.pool.Release()
}

// Index upserts one document. The owning tenant must be registered; a tenant
// without marketplace access cannot publish listings, so the flag is stripped
// before the write. Returns true if the document was created.
func (s *Service) Index(ctx context.Context, doc equipment.Document) (bool, error) {
	t, err := s.resolver.Resolve(ctx, doc.TenantID())
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return false, domain.ErrTenantNotFound
		}
		return false, fmt.Errorf("resolve owner %s: %w", doc.TenantID(), err)
	}

	doc = enforceMarketplaceAccess(doc, &t)
	created, err := s.repo.Upsert(ctx, &doc, t.RoutingKey())
	if err != nil {
		return false, fmt.Errorf("index document %s: %w", doc.ID(), err)
	}
	return created, nil
}

// BulkLoad indexes a batch for one tenant across the worker pool. Per-document
// failures are counted, logged and do not stop the batch.
func (s *Service) BulkLoad(ctx context.Context, tenantID string, docs []equipment.Document) (Report, error) {
	if s.opts.MaxBulkSize > 0 && len(docs) > s.opts.MaxBulkSize {
		return Report{}, fmt.Errorf("bulk size %d exceeds limit %d", len(docs), s.opts.MaxBulkSize)
	}

	t, err := s.resolver.Resolve(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return Report{}, domain.ErrTenantNotFound
		}
		return Report{}, fmt.Errorf("resolve tenant %s: %w", tenantID, err)
	}

	var wg sync.WaitGroup
	var indexed, failed atomic.Int64
	for i := range docs {
		doc := enforceMarketplaceAccess(docs[i], &t)
		if doc.TenantID() != tenantID {
			failed.Add(1)
			s.logger.Warn("bulk document owned by another tenant, skipping",
				zap.String("tenant_id", tenantID), zap.String("doc_id", doc.ID()))
			continue
		}

		wg.Add(1)
		err := s.pool.Submit(func() {
			defer wg.Done()
			if _, err := s.repo.Upsert(ctx, &doc, t.RoutingKey()); err != nil {
				failed.Add(1)
				s.logger.Error("bulk index failed",
					zap.String("tenant_id", tenantID),
					zap.String("doc_id", doc.ID()),
					zap.Error(err))
				return
			}
			indexed.Add(1)
		})
		if err != nil {
			wg.Done()
			failed.Add(1)
			s.logger.Error("bulk submit failed",
				zap.String("doc_id", doc.ID()), zap.Error(err))
		}
	}
	wg.Wait()

	return Report{Indexed: int(indexed.Load()), Failed: int(failed.Load())}, nil
}

// Delete removes a document from the tenant's inventory.
func (s *Service) Delete(ctx context.Context, tenantID, docID string) error {
	if _, err := s.resolver.Resolve(ctx, tenantID); err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return domain.ErrTenantNotFound
		}
		return fmt.Errorf("resolve tenant %s: %w", tenantID, err)
	}
	if err := s.repo.Delete(ctx, tenantID, docID); err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("delete document %s: %w", docID, err)
	}
	return nil
}

// enforceMarketplaceAccess strips the marketplace flag from listings of
// tenants without marketplace access.
func enforceMarketplaceAccess(doc equipment.Document, t *domtenant.Tenant) equipment.Document {
	if !doc.MarketplaceListing() || t.MarketplaceAccess() {
		return doc
	}
	return equipment.Reconstruct(
		doc.ID(), doc.TenantID(), doc.Name(), doc.Description(),
		doc.Category(), doc.Subcategory(), doc.Manufacturer(), doc.Model(),
		doc.Specifications(), doc.Location(), doc.Price(), doc.Condition(),
		false, doc.Timestamp(),
	)
}
