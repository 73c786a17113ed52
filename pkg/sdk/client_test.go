package equisearch

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL)
}

func TestRegisterTenant(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/tenants" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var req RegisterTenantRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.ID != "acme" {
			t.Errorf("expected id acme, got %q", req.ID)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Tenant{
			ID:                "acme",
			Name:              "Acme Industrial",
			RoutingKey:        "b1d5781111d84f7b3fe45a0852e59758cd7a87e5",
			MarketplaceAccess: true,
		})
	})

	tenant, err := client.RegisterTenant(context.Background(), RegisterTenantRequest{
		ID:   "acme",
		Name: "Acme Industrial",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tenant.ID != "acme" || tenant.RoutingKey == "" {
		t.Errorf("unexpected tenant: %+v", tenant)
	}
}

func TestRegisterTenant_Conflict(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "tenant_already_exists",
			"message": "tenant already exists",
		})
	})

	_, err := client.RegisterTenant(context.Background(), RegisterTenantRequest{ID: "acme", Name: "Acme"})
	if !errors.Is(err, ErrTenantExists) {
		t.Fatalf("expected ErrTenantExists, got %v", err)
	}

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %T", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Code != "tenant_already_exists" {
		t.Errorf("unexpected APIError: %+v", apiErr)
	}
}

func TestGetTenant_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "tenant_not_found",
			"message": "tenant not found",
		})
	})

	_, err := client.GetTenant(context.Background(), "ghost")
	if !errors.Is(err, ErrTenantNotFound) {
		t.Fatalf("expected ErrTenantNotFound, got %v", err)
	}
}

func TestListTenants(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tenants" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"items": []Tenant{{ID: "acme"}, {ID: "globex"}},
			"total": 2,
		})
	})

	tenants, err := client.ListTenants(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(tenants) != 2 || tenants[1].ID != "globex" {
		t.Errorf("unexpected tenants: %+v", tenants)
	}
}

func TestSearch(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tenants/acme/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Query != "centrifugal pump 2000 m3/hr" {
			t.Errorf("unexpected query: %q", req.Query)
		}
		if req.IncludeMarketplace != nil {
			t.Errorf("include_marketplace must be omitted by default, got %v", *req.IncludeMarketplace)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(SearchResponse{
			Intent: Intent{Category: "pumps"},
			TenantInventory: []Hit{
				{Document: Document{ID: "doc-1", Name: "Pump A"}, Score: 2},
			},
			MarketplaceSuggestions: []Hit{
				{Document: Document{ID: "mkt-1"}, Score: 1, SuggestionType: "marketplace"},
			},
			Insights: []string{"Marketplace alternatives are 25% cheaper on average."},
		})
	})

	resp, err := client.Search(context.Background(), "acme", "centrifugal pump 2000 m3/hr")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Intent.Category != "pumps" {
		t.Errorf("expected category pumps, got %q", resp.Intent.Category)
	}
	if len(resp.TenantInventory) != 1 || len(resp.MarketplaceSuggestions) != 1 {
		t.Errorf("unexpected hit counts: %d/%d", len(resp.TenantInventory), len(resp.MarketplaceSuggestions))
	}
	if resp.MarketplaceSuggestions[0].SuggestionType != "marketplace" {
		t.Errorf("unexpected suggestion type: %q", resp.MarketplaceSuggestions[0].SuggestionType)
	}
	if len(resp.Insights) != 1 {
		t.Errorf("expected one insight, got %v", resp.Insights)
	}
}

func TestSearchAll(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(DualSearchResponse{
			Internal: []Hit{{Document: Document{ID: "int-1"}}},
			Partner:  []Hit{{Document: Document{ID: "ext-1"}}},
		})
	})

	resp, err := client.SearchAll(context.Background(), "valve")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Internal) != 1 || len(resp.Partner) != 1 {
		t.Errorf("unexpected pool sizes: %d/%d", len(resp.Internal), len(resp.Partner))
	}
}

func TestUpsertEquipment(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/api/v1/tenants/acme/equipment/doc-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(Document{ID: "doc-1", TenantID: "acme", Name: "Pump A", Category: "pumps"})
	})

	doc, err := client.UpsertEquipment(context.Background(), "acme", Document{
		ID:       "doc-1",
		Name:     "Pump A",
		Category: "pumps",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.TenantID != "acme" {
		t.Errorf("expected tenant acme, got %q", doc.TenantID)
	}
}

func TestUpsertEquipment_MissingID(t *testing.T) {
	client := New("http://localhost:0")
	_, err := client.UpsertEquipment(context.Background(), "acme", Document{Name: "Pump A"})
	if err == nil {
		t.Fatal("expected error for missing document id")
	}
}

func TestDeleteEquipment(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/api/v1/tenants/acme/equipment/doc-1" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.DeleteEquipment(context.Background(), "acme", "doc-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteEquipment_NotFound(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"code":    "document_not_found",
			"message": "document not found",
		})
	})

	err := client.DeleteEquipment(context.Background(), "acme", "ghost")
	if !errors.Is(err, ErrDocumentNotFound) {
		t.Fatalf("expected ErrDocumentNotFound, got %v", err)
	}
}

func TestBulkLoad(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/tenants/acme/equipment/bulk" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Documents []Document `json:"documents"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if len(req.Documents) != 2 {
			t.Errorf("expected 2 documents, got %d", len(req.Documents))
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(BulkReport{Indexed: 2, Failed: 0})
	})

	report, err := client.BulkLoad(context.Background(), "acme", []Document{
		{Name: "Pump A", Category: "pumps"},
		{Name: "Pump B", Category: "pumps"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Indexed != 2 || report.Failed != 0 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestHealth_Degraded(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(HealthReport{
			Status: "degraded",
			Checks: map[string]string{"database": "error", "recognizer": "ok"},
		})
	})

	report, err := client.Health(context.Background())
	if err != nil {
		t.Fatalf("degraded health must not error: %v", err)
	}
	if report.Status != "degraded" || report.Checks["database"] != "error" {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestErrorWithoutJSONBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	})

	_, err := client.GetTenant(context.Background(), "acme")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusGatewayTimeout {
		t.Errorf("unexpected status: %d", apiErr.Status)
	}
}
