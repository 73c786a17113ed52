// Package tenant implements tenant registration and resolution.
package tenant

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	domtenant "github.com/surplusgrid/equisearch/internal/domain/tenant"
)

// Service registers tenants and resolves them for request routing.
type Service struct {
	registry Registry
	indexer  Indexer
	logger   *zap.Logger
}

// New creates a tenant service.
func New(registry Registry, indexer Indexer, logger *zap.Logger) *Service {
	return &Service{registry: registry, indexer: indexer, logger: logger}
}

// Register creates a tenant, derives its routing key and provisions its
// indexes. Registering an existing id returns domain.ErrTenantExists.
func (s *Service) Register(ctx context.Context, id, name, industry string, marketplaceAccess bool) (domtenant.Tenant, error) {
	t, err := domtenant.New(id, name, industry)
	if err != nil {
		return domtenant.Tenant{}, fmt.Errorf("validate tenant: %w", err)
	}
	if !marketplaceAccess {
		t = t.WithMarketplaceAccess(false)
	}

	if err := s.registry.Register(ctx, &t); err != nil {
		if errors.Is(err, domain.ErrTenantExists) {
			return domtenant.Tenant{}, domain.ErrTenantExists
		}
		return domtenant.Tenant{}, fmt.Errorf("register tenant %s: %w", id, err)
	}

	// The registration record is the source of truth; a failed index build is
	// retried on the tenant's first write.
	if err := s.indexer.EnsureTenantIndexes(ctx, &t); err != nil {
		s.logger.Error("failed to provision tenant indexes",
			zap.String("tenant_id", id), zap.Error(err))
	}

	s.logger.Info("tenant registered",
		zap.String("tenant_id", id),
		zap.String("industry", industry),
		zap.Bool("marketplace_access", t.MarketplaceAccess()))
	return t, nil
}

// Resolve returns the tenant for an id, or domain.ErrTenantNotFound.
func (s *Service) Resolve(ctx context.Context, id string) (domtenant.Tenant, error) {
	t, err := s.registry.Get(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return domtenant.Tenant{}, domain.ErrTenantNotFound
		}
		return domtenant.Tenant{}, fmt.Errorf("resolve tenant %s: %w", id, err)
	}
	return t, nil
}

// List returns all registered tenants.
func (s *Service) List(ctx context.Context) ([]domtenant.Tenant, error) {
	tenants, err := s.registry.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tenants: %w", err)
	}
	return tenants, nil
}
