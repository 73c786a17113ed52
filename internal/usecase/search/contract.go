package search

import (
	"context"

	"github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/domain/search/filter"
	"github.com/surplusgrid/equisearch/internal/domain/search/result"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// Extractor turns free-text queries into structured intents.
type Extractor interface {
	Extract(ctx context.Context, query string) intent.Intent
}

// Resolver resolves tenant ids to registered tenants.
type Resolver interface {
	Resolve(ctx context.Context, id string) (tenant.Tenant, error)
}

// Repository runs compiled filters against the document store partitions.
type Repository interface {
	SearchTenant(ctx context.Context, t *tenant.Tenant, f filter.Expression, limit int) ([]result.Result, error)
	SearchMarketplace(ctx context.Context, requesterID string, f filter.Expression, limit int) ([]result.Result, error)
	SearchInternal(ctx context.Context, f filter.Expression, limit int) ([]result.Result, error)
	SearchPartner(ctx context.Context, f filter.Expression, limit int) ([]result.Result, error)
}

// InsightGenerator renders comparative statements for a merged response.
type InsightGenerator interface {
	Generate(tenantHits, marketplaceHits []result.Result, it intent.Intent) []string
}
