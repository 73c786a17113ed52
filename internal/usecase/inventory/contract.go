package inventory

import (
	"context"

	"github.com/surplusgrid/equisearch/internal/domain/equipment"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// Repository persists equipment documents.
type Repository interface {
	Upsert(ctx context.Context, doc *equipment.Document, routingKey string) (bool, error)
	Delete(ctx context.Context, tenantID, docID string) error
}

// Resolver resolves tenant ids to registered tenants.
type Resolver interface {
	Resolve(ctx context.Context, id string) (tenant.Tenant, error)
}
