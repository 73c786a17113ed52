// Package chi implements the HTTP API over the go-chi router.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	gochi "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/domain/equipment"
	domtenant "github.com/surplusgrid/equisearch/internal/domain/tenant"
	healthuc "github.com/surplusgrid/equisearch/internal/usecase/health"
	inventoryuc "github.com/surplusgrid/equisearch/internal/usecase/inventory"
	searchuc "github.com/surplusgrid/equisearch/internal/usecase/search"
)

// TenantService registers and resolves tenants.
type TenantService interface {
	Register(ctx context.Context, id, name, industry string, marketplaceAccess bool) (domtenant.Tenant, error)
	Resolve(ctx context.Context, id string) (domtenant.Tenant, error)
	List(ctx context.Context) ([]domtenant.Tenant, error)
}

// SearchService runs tenant-scoped and dual-pool searches.
type SearchService interface {
	SearchWithSuggestions(ctx context.Context, tenantID, query string, includeMarketplace bool) (*searchuc.Response, error)
	Search(ctx context.Context, query string) (*searchuc.DualResponse, error)
}

// InventoryService indexes and removes equipment documents.
type InventoryService interface {
	Index(ctx context.Context, doc equipment.Document) (bool, error)
	BulkLoad(ctx context.Context, tenantID string, docs []equipment.Document) (inventoryuc.Report, error)
	Delete(ctx context.Context, tenantID, docID string) error
}

// HealthService aggregates component health.
type HealthService interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the HTTP API server.
type Server struct {
	tenants       TenantService
	search        SearchService
	inventory     InventoryService
	health        HealthService
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	tenants TenantService,
	search SearchService,
	inventory InventoryService,
	health HealthService,
	logger *zap.Logger,
) *Server {
	s := &Server{
		tenants:   tenants,
		search:    search,
		inventory: inventory,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrTenantNotFound, http.StatusNotFound, "tenant_not_found"),
		sentinelHandler(domain.ErrDocumentNotFound, http.StatusNotFound, "document_not_found"),
		sentinelHandler(domain.ErrTenantExists, http.StatusConflict, "tenant_already_exists"),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusServiceUnavailable, "store_unavailable"),
		sentinelHandler(domain.ErrStoreTimeout, http.StatusGatewayTimeout, "store_timeout"),
	}
	return s
}

// Routes mounts every endpoint on a sub-router.
func (s *Server) Routes(r gochi.Router) {
	r.Route("/api/v1", func(r gochi.Router) {
		r.Post("/tenants", s.registerTenant)
		r.Get("/tenants", s.listTenants)
		r.Get("/tenants/{tenant}", s.getTenant)
		r.Post("/tenants/{tenant}/search", s.searchTenant)
		r.Post("/search", s.searchDual)
		r.Put("/tenants/{tenant}/equipment/{id}", s.upsertEquipment)
		r.Delete("/tenants/{tenant}/equipment/{id}", s.deleteEquipment)
		r.Post("/tenants/{tenant}/equipment/bulk", s.bulkLoadEquipment)
	})
	r.Get("/health", s.healthCheck)
	r.Get("/metrics", s.metrics)
}

// registerTenant handles POST /api/v1/tenants.
func (s *Server) registerTenant(w http.ResponseWriter, r *http.Request) {
	var req registerTenantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.ID == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Tenant id and name are required")
		return
	}

	access := true
	if req.MarketplaceAccess != nil {
		access = *req.MarketplaceAccess
	}

	t, err := s.tenants.Register(r.Context(), req.ID, req.Name, req.Industry, access)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.Header().Set("Location", "/api/v1/tenants/"+t.ID())
	writeJSON(w, http.StatusCreated, tenantToDTO(&t))
}

// listTenants handles GET /api/v1/tenants.
func (s *Server) listTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.tenants.List(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]tenantResponse, len(tenants))
	for i := range tenants {
		items[i] = tenantToDTO(&tenants[i])
	}
	writeJSON(w, http.StatusOK, tenantListResponse{Items: items, Total: len(items)})
}

// getTenant handles GET /api/v1/tenants/{tenant}.
func (s *Server) getTenant(w http.ResponseWriter, r *http.Request) {
	t, err := s.tenants.Resolve(r.Context(), gochi.URLParam(r, "tenant"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tenantToDTO(&t))
}

// searchTenant handles POST /api/v1/tenants/{tenant}/search.
func (s *Server) searchTenant(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query is required")
		return
	}

	includeMarketplace := true
	if req.IncludeMarketplace != nil {
		includeMarketplace = *req.IncludeMarketplace
	}

	resp, err := s.search.SearchWithSuggestions(r.Context(), gochi.URLParam(r, "tenant"), req.Query, includeMarketplace)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, searchResponseToDTO(resp))
}

// searchDual handles POST /api/v1/search.
func (s *Server) searchDual(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "validation_failed", "Query is required")
		return
	}

	resp, err := s.search.Search(r.Context(), req.Query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dualResponseToDTO(resp))
}

// upsertEquipment handles PUT /api/v1/tenants/{tenant}/equipment/{id}.
func (s *Server) upsertEquipment(w http.ResponseWriter, r *http.Request) {
	tenantID := gochi.URLParam(r, "tenant")
	docID := gochi.URLParam(r, "id")

	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	req.ID = docID

	doc, err := documentFromRequest(tenantID, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}

	created, err := s.inventory.Index(r.Context(), doc)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/api/v1/tenants/%s/equipment/%s", tenantID, docID))
	}
	writeJSON(w, status, documentToDTO(&doc))
}

// deleteEquipment handles DELETE /api/v1/tenants/{tenant}/equipment/{id}.
func (s *Server) deleteEquipment(w http.ResponseWriter, r *http.Request) {
	err := s.inventory.Delete(r.Context(), gochi.URLParam(r, "tenant"), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// bulkLoadEquipment handles POST /api/v1/tenants/{tenant}/equipment/bulk.
func (s *Server) bulkLoadEquipment(w http.ResponseWriter, r *http.Request) {
	tenantID := gochi.URLParam(r, "tenant")

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "Invalid request body: "+err.Error())
		return
	}
	if len(req.Documents) == 0 {
		writeError(w, http.StatusBadRequest, "validation_failed", "At least one document is required")
		return
	}

	docs := make([]equipment.Document, 0, len(req.Documents))
	for _, item := range req.Documents {
		doc, err := documentFromRequest(tenantID, item)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
			return
		}
		docs = append(docs, doc)
	}

	report, err := s.inventory.BulkLoad(r.Context(), tenantID, docs)
	if err != nil {
		if errors.Is(err, domain.ErrTenantNotFound) {
			s.handleDomainError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, bulkReportToDTO(report))
}

// healthCheck handles GET /health.
func (s *Server) healthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// metrics handles GET /metrics.
func (s *Server) metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrTenantNotFound,
		domain.ErrTenantExists,
		domain.ErrDocumentNotFound,
		domain.ErrStoreUnavailable,
		domain.ErrStoreTimeout,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}
