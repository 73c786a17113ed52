package tenant

import (
	"context"

	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// Registry persists tenant records.
type Registry interface {
	Register(ctx context.Context, t *tenant.Tenant) error
	Get(ctx context.Context, id string) (tenant.Tenant, error)
	List(ctx context.Context) ([]tenant.Tenant, error)
}

// Indexer provisions per-tenant search indexes where the partitioning policy
// uses them.
type Indexer interface {
	EnsureTenantIndexes(ctx context.Context, t *tenant.Tenant) error
}
