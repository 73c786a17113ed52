package equipment

import (
	"fmt"

	"github.com/surplusgrid/equisearch/internal/db"
	"github.com/surplusgrid/equisearch/internal/domain/search"
	"github.com/surplusgrid/equisearch/internal/domain/search/filter"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// Partitioner decides where a tenant's documents live and how tenant
// isolation is expressed at query time.
type Partitioner interface {
	// Indexes returns index definitions that must exist before any writes.
	Indexes() ([]*db.IndexDefinition, error)
	// TenantIndexes returns index definitions created when a tenant registers.
	TenantIndexes(t *tenant.Tenant) ([]*db.IndexDefinition, error)
	// WriteItems returns the JSON.SET items persisting one marshaled document.
	WriteItems(tenantID, docID string, marketplace bool, data []byte) []db.JSONSetItem
	// Keys returns every key a document may occupy.
	Keys(tenantID, docID string) []string
	// TenantQuery scopes a filter expression to one tenant's inventory.
	TenantQuery(t *tenant.Tenant, f filter.Expression, limit int) (*db.FilterQuery, error)
	// MarketplaceQuery scopes a filter expression to marketplace listings of
	// every tenant except the requester.
	MarketplaceQuery(requesterID string, f filter.Expression, limit int) (*db.FilterQuery, error)
	// InternalQuery scopes a filter expression to the internal inventory pool:
	// everything not listed on the marketplace, across all tenants.
	InternalQuery(f filter.Expression, limit int) (*db.FilterQuery, error)
	// PartnerQuery scopes a filter expression to the partner pool: every
	// marketplace listing, no requester exclusion.
	PartnerQuery(f filter.Expression, limit int) (*db.FilterQuery, error)
}

// SharedPartition keeps every tenant in one index and scopes tenant queries
// with a routing tag clause. Registration is free; isolation rides on the
// compiled filter.
type SharedPartition struct {
	prefix string
}

// NewSharedPartition creates the shared-index policy.
func NewSharedPartition(keyPrefix string) *SharedPartition {
	return &SharedPartition{prefix: keyPrefix}
}

func (p *SharedPartition) docKey(tenantID, docID string) string {
	return fmt.Sprintf("%sequipment:%s:%s", p.prefix, tenantID, docID)
}

// Indexes returns the single shared equipment index.
func (p *SharedPartition) Indexes() ([]*db.IndexDefinition, error) {
	def, err := buildIndex(p.prefix+"equipment:idx", p.prefix+"equipment:")
	if err != nil {
		return nil, err
	}
	return []*db.IndexDefinition{def}, nil
}

// TenantIndexes is a no-op: tenants share the one index.
func (p *SharedPartition) TenantIndexes(_ *tenant.Tenant) ([]*db.IndexDefinition, error) {
	return nil, nil
}

// WriteItems persists the document under its tenant key.
func (p *SharedPartition) WriteItems(tenantID, docID string, _ bool, data []byte) []db.JSONSetItem {
	return []db.JSONSetItem{{Key: p.docKey(tenantID, docID), Path: "$", Data: data}}
}

// Keys returns the single key a document occupies.
func (p *SharedPartition) Keys(tenantID, docID string) []string {
	return []string{p.docKey(tenantID, docID)}
}

// TenantQuery pins the filter to the tenant's routing key.
func (p *SharedPartition) TenantQuery(t *tenant.Tenant, f filter.Expression, limit int) (*db.FilterQuery, error) {
	routing, err := filter.NewMatch(search.FieldRouting, t.RoutingKey())
	if err != nil {
		return nil, err
	}
	scoped, err := f.WithMust(routing)
	if err != nil {
		return nil, err
	}
	return &db.FilterQuery{
		IndexName: p.prefix + "equipment:idx",
		Filters:   scoped,
		Limit:     limit,
	}, nil
}

// MarketplaceQuery restricts hits to marketplace listings and excludes the
// requester's own inventory. No routing clause: the marketplace spans tenants.
func (p *SharedPartition) MarketplaceQuery(requesterID string, f filter.Expression, limit int) (*db.FilterQuery, error) {
	listed, err := filter.NewMatch(search.FieldMarketplace, "true")
	if err != nil {
		return nil, err
	}
	scoped, err := f.WithMust(listed)
	if err != nil {
		return nil, err
	}
	own, err := filter.NewMatch(search.FieldTenant, requesterID)
	if err != nil {
		return nil, err
	}
	scoped, err = scoped.WithMustNot(own)
	if err != nil {
		return nil, err
	}
	return &db.FilterQuery{
		IndexName: p.prefix + "equipment:idx",
		Filters:   scoped,
		Limit:     limit,
	}, nil
}

// InternalQuery pins the filter to unlisted documents across the shared index.
func (p *SharedPartition) InternalQuery(f filter.Expression, limit int) (*db.FilterQuery, error) {
	return p.poolQuery(f, "false", limit)
}

// PartnerQuery pins the filter to marketplace listings across the shared index.
func (p *SharedPartition) PartnerQuery(f filter.Expression, limit int) (*db.FilterQuery, error) {
	return p.poolQuery(f, "true", limit)
}

func (p *SharedPartition) poolQuery(f filter.Expression, marketplace string, limit int) (*db.FilterQuery, error) {
	listed, err := filter.NewMatch(search.FieldMarketplace, marketplace)
	if err != nil {
		return nil, err
	}
	scoped, err := f.WithMust(listed)
	if err != nil {
		return nil, err
	}
	return &db.FilterQuery{
		IndexName: p.prefix + "equipment:idx",
		Filters:   scoped,
		Limit:     limit,
	}, nil
}

// TenantPartition gives every tenant its own index plus one shared
// marketplace index. Marketplace-listed documents are dual-written; the two
// copies are not updated atomically, a stale marketplace copy is accepted
// until the next re-index.
type TenantPartition struct {
	prefix string
}

// NewTenantPartition creates the index-per-tenant policy.
func NewTenantPartition(keyPrefix string) *TenantPartition {
	return &TenantPartition{prefix: keyPrefix}
}

func (p *TenantPartition) docKey(tenantID, docID string) string {
	return fmt.Sprintf("%sequipment:%s:%s", p.prefix, tenantID, docID)
}

func (p *TenantPartition) marketKey(tenantID, docID string) string {
	return fmt.Sprintf("%smarketplace:%s:%s", p.prefix, tenantID, docID)
}

func (p *TenantPartition) tenantIndexName(tenantID string) string {
	return fmt.Sprintf("%sequipment:%s:idx", p.prefix, tenantID)
}

// Indexes returns the shared marketplace index.
func (p *TenantPartition) Indexes() ([]*db.IndexDefinition, error) {
	def, err := buildIndex(p.prefix+"marketplace:idx", p.prefix+"marketplace:")
	if err != nil {
		return nil, err
	}
	return []*db.IndexDefinition{def}, nil
}

// TenantIndexes returns the tenant's private index, created at registration.
func (p *TenantPartition) TenantIndexes(t *tenant.Tenant) ([]*db.IndexDefinition, error) {
	def, err := buildIndex(p.tenantIndexName(t.ID()), fmt.Sprintf("%sequipment:%s:", p.prefix, t.ID()))
	if err != nil {
		return nil, err
	}
	return []*db.IndexDefinition{def}, nil
}

// WriteItems persists the tenant copy and, for marketplace listings, the
// marketplace copy in the same pipeline.
func (p *TenantPartition) WriteItems(tenantID, docID string, marketplace bool, data []byte) []db.JSONSetItem {
	items := []db.JSONSetItem{{Key: p.docKey(tenantID, docID), Path: "$", Data: data}}
	if marketplace {
		items = append(items, db.JSONSetItem{Key: p.marketKey(tenantID, docID), Path: "$", Data: data})
	}
	return items
}

// Keys returns both keys a document may occupy.
func (p *TenantPartition) Keys(tenantID, docID string) []string {
	return []string{p.docKey(tenantID, docID), p.marketKey(tenantID, docID)}
}

// TenantQuery targets the tenant's private index; no routing clause needed.
func (p *TenantPartition) TenantQuery(t *tenant.Tenant, f filter.Expression, limit int) (*db.FilterQuery, error) {
	return &db.FilterQuery{
		IndexName: p.tenantIndexName(t.ID()),
		Filters:   f,
		Limit:     limit,
	}, nil
}

// MarketplaceQuery targets the marketplace index and excludes the requester's
// own listings. Every document there is marketplace-listed by construction.
func (p *TenantPartition) MarketplaceQuery(requesterID string, f filter.Expression, limit int) (*db.FilterQuery, error) {
	own, err := filter.NewMatch(search.FieldTenant, requesterID)
	if err != nil {
		return nil, err
	}
	scoped, err := f.WithMustNot(own)
	if err != nil {
		return nil, err
	}
	return &db.FilterQuery{
		IndexName: p.prefix + "marketplace:idx",
		Filters:   scoped,
		Limit:     limit,
	}, nil
}

// InternalQuery is unsupported: unlisted documents live in per-tenant indexes
// with no cross-tenant view. Callers degrade the internal pool to empty.
func (p *TenantPartition) InternalQuery(_ filter.Expression, _ int) (*db.FilterQuery, error) {
	return nil, fmt.Errorf("internal pool has no cross-tenant index under per-tenant partitioning")
}

// PartnerQuery targets the marketplace index with no requester exclusion.
func (p *TenantPartition) PartnerQuery(f filter.Expression, limit int) (*db.FilterQuery, error) {
	return &db.FilterQuery{
		IndexName: p.prefix + "marketplace:idx",
		Filters:   f,
		Limit:     limit,
	}, nil
}
