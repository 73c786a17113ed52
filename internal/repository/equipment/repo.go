// Package equipment persists equipment documents in RedisJSON and serves
// compiled filter searches over them through FT indexes.
package equipment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/surplusgrid/equisearch/internal/db"
	"github.com/surplusgrid/equisearch/internal/domain"
	domequip "github.com/surplusgrid/equisearch/internal/domain/equipment"
	"github.com/surplusgrid/equisearch/internal/domain/search/filter"
	"github.com/surplusgrid/equisearch/internal/domain/search/result"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// store is the consumer interface for equipment documents (ISP).
type store interface {
	JSONSetMulti(ctx context.Context, items []db.JSONSetItem) error
	JSONGet(ctx context.Context, key string, paths ...string) ([]byte, error)
	Del(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Search(ctx context.Context, q *db.FilterQuery) (*db.SearchResult, error)
	SearchCount(ctx context.Context, q *db.FilterQuery) (int, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	IndexExists(ctx context.Context, name string) (bool, error)
}

// storeErr surfaces connectivity failures as domain sentinels. Other store
// errors pass through untouched.
func storeErr(err error) error {
	switch {
	case errors.Is(err, db.ErrTimeout):
		return fmt.Errorf("%w: %v", domain.ErrStoreTimeout, err)
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return err
}

// Repo implements the equipment repository over a partitioning policy.
type Repo struct {
	store store
	part  Partitioner
}

// New creates an equipment repository.
func New(s store, part Partitioner) *Repo {
	return &Repo{store: s, part: part}
}

// EnsureIndexes creates the policy's shared indexes if missing.
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	defs, err := r.part.Indexes()
	if err != nil {
		return fmt.Errorf("build indexes: %w", err)
	}
	return r.createMissing(ctx, defs)
}

// EnsureTenantIndexes creates per-tenant indexes if the policy uses them.
func (r *Repo) EnsureTenantIndexes(ctx context.Context, t *tenant.Tenant) error {
	defs, err := r.part.TenantIndexes(t)
	if err != nil {
		return fmt.Errorf("build tenant indexes: %w", err)
	}
	return r.createMissing(ctx, defs)
}

func (r *Repo) createMissing(ctx context.Context, defs []*db.IndexDefinition) error {
	for _, def := range defs {
		exists, err := r.store.IndexExists(ctx, def.Name)
		if err != nil {
			return fmt.Errorf("check index %s: %w", def.Name, storeErr(err))
		}
		if exists {
			continue
		}
		if err := r.store.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
			return fmt.Errorf("create index %s: %w", def.Name, storeErr(err))
		}
	}
	return nil
}

// Upsert writes a document as a full replacement. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, doc *domequip.Document, routingKey string) (bool, error) {
	data, err := json.Marshal(buildJSONDoc(doc, routingKey))
	if err != nil {
		return false, fmt.Errorf("marshal document: %w", err)
	}

	primary := r.part.Keys(doc.TenantID(), doc.ID())[0]
	exists, err := r.store.Exists(ctx, primary)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", primary, storeErr(err))
	}

	items := r.part.WriteItems(doc.TenantID(), doc.ID(), doc.MarketplaceListing(), data)
	if err := r.store.JSONSetMulti(ctx, items); err != nil {
		return false, fmt.Errorf("json.set %s: %w", primary, storeErr(err))
	}

	// A listing withdrawn from the marketplace may leave a stale copy behind.
	if exists && !doc.MarketplaceListing() {
		for _, key := range r.part.Keys(doc.TenantID(), doc.ID())[1:] {
			if err := r.store.Del(ctx, key); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
				return false, fmt.Errorf("del stale copy %s: %w", key, storeErr(err))
			}
		}
	}

	return !exists, nil
}

// Get returns a document by tenant and id.
func (r *Repo) Get(ctx context.Context, tenantID, docID string) (domequip.Document, error) {
	key := r.part.Keys(tenantID, docID)[0]
	raw, err := r.store.JSONGet(ctx, key, "$")
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domequip.Document{}, domain.ErrDocumentNotFound
		}
		return domequip.Document{}, fmt.Errorf("json.get %s: %w", key, storeErr(err))
	}
	return parseJSONGetResult(raw)
}

// Delete removes a document and any marketplace copy.
func (r *Repo) Delete(ctx context.Context, tenantID, docID string) error {
	keys := r.part.Keys(tenantID, docID)

	exists, err := r.store.Exists(ctx, keys[0])
	if err != nil {
		return fmt.Errorf("check exists %s: %w", keys[0], storeErr(err))
	}
	if !exists {
		return domain.ErrDocumentNotFound
	}

	for _, key := range keys {
		if err := r.store.Del(ctx, key); err != nil && !errors.Is(err, db.ErrKeyNotFound) {
			return fmt.Errorf("del %s: %w", key, storeErr(err))
		}
	}
	return nil
}

// SearchTenant runs a compiled filter against one tenant's inventory.
func (r *Repo) SearchTenant(ctx context.Context, t *tenant.Tenant, f filter.Expression, limit int) ([]result.Result, error) {
	q, err := r.part.TenantQuery(t, f, limit)
	if err != nil {
		return nil, fmt.Errorf("scope tenant query: %w", err)
	}
	return r.search(ctx, q)
}

// SearchMarketplace runs a compiled filter against cross-tenant marketplace
// listings, excluding the requester's own.
func (r *Repo) SearchMarketplace(ctx context.Context, requesterID string, f filter.Expression, limit int) ([]result.Result, error) {
	q, err := r.part.MarketplaceQuery(requesterID, f, limit)
	if err != nil {
		return nil, fmt.Errorf("scope marketplace query: %w", err)
	}
	return r.search(ctx, q)
}

// SearchInternal runs a compiled filter against the internal pool: unlisted
// documents across all tenants.
func (r *Repo) SearchInternal(ctx context.Context, f filter.Expression, limit int) ([]result.Result, error) {
	q, err := r.part.InternalQuery(f, limit)
	if err != nil {
		return nil, fmt.Errorf("scope internal query: %w", err)
	}
	return r.search(ctx, q)
}

// SearchPartner runs a compiled filter against every marketplace listing.
func (r *Repo) SearchPartner(ctx context.Context, f filter.Expression, limit int) ([]result.Result, error) {
	q, err := r.part.PartnerQuery(f, limit)
	if err != nil {
		return nil, fmt.Errorf("scope partner query: %w", err)
	}
	return r.search(ctx, q)
}

// CountTenant returns the number of documents in a tenant's inventory.
func (r *Repo) CountTenant(ctx context.Context, t *tenant.Tenant) (int, error) {
	q, err := r.part.TenantQuery(t, filter.Expression{}, 1)
	if err != nil {
		return 0, fmt.Errorf("scope tenant query: %w", err)
	}
	n, err := r.store.SearchCount(ctx, q)
	if err != nil {
		return 0, fmt.Errorf("search count %s: %w", q.IndexName, storeErr(err))
	}
	return n, nil
}

func (r *Repo) search(ctx context.Context, q *db.FilterQuery) ([]result.Result, error) {
	res, err := r.store.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", q.IndexName, storeErr(err))
	}

	hits := make([]result.Result, 0, len(res.Entries))
	for _, entry := range res.Entries {
		jsonStr := entry.Fields["$"]
		if jsonStr == "" {
			continue
		}
		doc, err := parseSearchField(jsonStr)
		if err != nil {
			// Skip hits that fail to decode; the index may briefly lag a write.
			continue
		}
		hits = append(hits, result.New(doc, entry.Score))
	}
	return hits, nil
}
