// Package search orchestrates the query pipeline: intent extraction, filter
// compilation, partition-scoped search and the marketplace fallback.
package search

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/domain/search/result"
	"github.com/surplusgrid/equisearch/internal/metrics"
	"github.com/surplusgrid/equisearch/internal/usecase/query"
)

// Options are the orchestration page sizes and the fallback floor.
type Options struct {
	// TenantPageSize caps hits from the tenant's own inventory.
	TenantPageSize int
	// MarketplacePageSize caps marketplace suggestions.
	MarketplacePageSize int
	// DualPageSize caps each side of a dual-inventory search.
	DualPageSize int
	// InventoryFloor is the tenant hit count below which the marketplace
	// fallback fires.
	InventoryFloor int
}

// Response is a tenant-scoped search result with optional marketplace
// suggestions and insights.
type Response struct {
	Intent                 intent.Intent
	TenantInventory        []result.Result
	MarketplaceSuggestions []result.Result
	Insights               []string
}

// DualResponse is an unscoped search over the two fixed inventory pools.
type DualResponse struct {
	Intent   intent.Intent
	Internal []result.Result
	Partner  []result.Result
}

// Service is the search orchestrator.
type Service struct {
	extractor Extractor
	resolver  Resolver
	repo      Repository
	insights  InsightGenerator
	opts      Options
	logger    *zap.Logger
}

// New creates a search service.
func New(
	extractor Extractor, resolver Resolver, repo Repository,
	insights InsightGenerator, opts Options, logger *zap.Logger,
) *Service {
	return &Service{
		extractor: extractor,
		resolver:  resolver,
		repo:      repo,
		insights:  insights,
		opts:      opts,
		logger:    logger,
	}
}

// SearchWithSuggestions runs a tenant-scoped search and, when the tenant's
// own results are thin, supplements them with marketplace alternatives.
// includeMarketplace false disables the fallback entirely.
//
// An unknown tenant is the only fatal condition. A store failure on either
// leg degrades that leg to empty results so the caller always gets a
// well-formed response.
func (s *Service) SearchWithSuggestions(ctx context.Context, tenantID, queryText string, includeMarketplace bool) (*Response, error) {
	start := time.Now()

	t, err := s.resolver.Resolve(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			return nil, domain.ErrTenantNotFound
		}
		return nil, fmt.Errorf("resolve tenant %s: %w", tenantID, err)
	}

	it := s.extractor.Extract(ctx, queryText)
	f, err := query.Compile(it)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("tenant", "error").Inc()
		return nil, fmt.Errorf("compile query: %w", err)
	}

	status := "ok"
	tenantHits, err := s.repo.SearchTenant(ctx, &t, f, s.opts.TenantPageSize)
	if err != nil {
		s.logger.Error("tenant search failed, degrading to empty results",
			zap.String("tenant_id", tenantID), zap.Error(err))
		tenantHits = nil
		status = "degraded"
	}

	var suggestions []result.Result
	if reason, fallback := s.fallbackReason(it, tenantHits); includeMarketplace && fallback {
		metrics.MarketplaceFallbacksTotal.WithLabelValues(reason).Inc()
		raw, err := s.repo.SearchMarketplace(ctx, t.ID(), f, s.opts.MarketplacePageSize)
		if err != nil {
			s.logger.Error("marketplace search failed, degrading to empty suggestions",
				zap.String("tenant_id", tenantID), zap.Error(err))
			status = "degraded"
		}
		for _, hit := range raw {
			suggestions = append(suggestions, hit.AsSuggestion(result.SuggestionMarketplace))
		}
	}

	metrics.SearchRequestsTotal.WithLabelValues("tenant", status).Inc()
	metrics.SearchRequestDuration.WithLabelValues("tenant").Observe(time.Since(start).Seconds())

	return &Response{
		Intent:                 it,
		TenantInventory:        tenantHits,
		MarketplaceSuggestions: suggestions,
		Insights:               s.insights.Generate(tenantHits, suggestions, it),
	}, nil
}

// fallbackReason decides whether the marketplace leg runs. It fires when the
// tenant inventory is thin, or when a requested spec type is absent from
// every tenant hit (the tenant has nothing comparable to offer).
func (s *Service) fallbackReason(it intent.Intent, tenantHits []result.Result) (string, bool) {
	if len(tenantHits) < s.opts.InventoryFloor {
		return "low_count", true
	}
	for _, st := range it.SpecTypeSet() {
		covered := false
		for i := range tenantHits {
			doc := tenantHits[i].Document()
			if doc.HasParameter(string(st)) {
				covered = true
				break
			}
		}
		if !covered {
			return "missing_spec", true
		}
	}
	return "", false
}

// Search runs one filter against the two fixed inventory pools. Each pool
// degrades to empty independently; the response is never an error.
func (s *Service) Search(ctx context.Context, queryText string) (*DualResponse, error) {
	start := time.Now()

	it := s.extractor.Extract(ctx, queryText)
	f, err := query.Compile(it)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues("dual", "error").Inc()
		return nil, fmt.Errorf("compile query: %w", err)
	}

	status := "ok"
	internal, err := s.repo.SearchInternal(ctx, f, s.opts.DualPageSize)
	if err != nil {
		s.logger.Error("internal pool search failed, degrading to empty results", zap.Error(err))
		internal = nil
		status = "degraded"
	}
	partner, err := s.repo.SearchPartner(ctx, f, s.opts.DualPageSize)
	if err != nil {
		s.logger.Error("partner pool search failed, degrading to empty results", zap.Error(err))
		partner = nil
		status = "degraded"
	}

	metrics.SearchRequestsTotal.WithLabelValues("dual", status).Inc()
	metrics.SearchRequestDuration.WithLabelValues("dual").Observe(time.Since(start).Seconds())

	return &DualResponse{Intent: it, Internal: internal, Partner: partner}, nil
}
