// Package equisearch provides a Go client for the equisearch HTTP API.
package equisearch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Sentinel errors. Use errors.Is() to check.
var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrTenantExists     = errors.New("tenant already exists")
	ErrDocumentNotFound = errors.New("document not found")
)

// APIError is a non-2xx response from the service.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("equisearch: %s (%d %s)", e.Message, e.Status, e.Code)
}

var errorCodes = map[string]error{
	"tenant_not_found":      ErrTenantNotFound,
	"tenant_already_exists": ErrTenantExists,
	"document_not_found":    ErrDocumentNotFound,
}

// Unwrap maps well-known error codes to sentinel errors.
func (e *APIError) Unwrap() error {
	return errorCodes[e.Code]
}

const defaultTimeout = 30 * time.Second

// Client is the equisearch SDK entry point.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// RegisterTenant registers a tenant.
func (c *Client) RegisterTenant(ctx context.Context, req RegisterTenantRequest) (Tenant, error) {
	var t Tenant
	err := c.do(ctx, http.MethodPost, "/api/v1/tenants", req, &t)
	return t, err
}

// GetTenant returns a tenant by id.
func (c *Client) GetTenant(ctx context.Context, id string) (Tenant, error) {
	var t Tenant
	err := c.do(ctx, http.MethodGet, "/api/v1/tenants/"+url.PathEscape(id), nil, &t)
	return t, err
}

// ListTenants returns all registered tenants.
func (c *Client) ListTenants(ctx context.Context) ([]Tenant, error) {
	var resp struct {
		Items []Tenant `json:"items"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/tenants", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Search runs a tenant-scoped search with marketplace suggestions.
func (c *Client) Search(ctx context.Context, tenantID, query string) (*SearchResponse, error) {
	return c.search(ctx, tenantID, SearchRequest{Query: query})
}

// SearchWithOptions runs a tenant-scoped search with explicit options.
func (c *Client) SearchWithOptions(ctx context.Context, tenantID string, req SearchRequest) (*SearchResponse, error) {
	return c.search(ctx, tenantID, req)
}

func (c *Client) search(ctx context.Context, tenantID string, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	path := "/api/v1/tenants/" + url.PathEscape(tenantID) + "/search"
	if err := c.do(ctx, http.MethodPost, path, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SearchAll runs an unscoped search over the internal and partner pools.
func (c *Client) SearchAll(ctx context.Context, query string) (*DualSearchResponse, error) {
	var resp DualSearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", SearchRequest{Query: query}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpsertEquipment indexes one document under the tenant's inventory.
// doc.ID is required for single upserts.
func (c *Client) UpsertEquipment(ctx context.Context, tenantID string, doc Document) (Document, error) {
	if doc.ID == "" {
		return Document{}, errors.New("equisearch: document id is required")
	}
	path := fmt.Sprintf("/api/v1/tenants/%s/equipment/%s",
		url.PathEscape(tenantID), url.PathEscape(doc.ID))
	var out Document
	err := c.do(ctx, http.MethodPut, path, doc, &out)
	return out, err
}

// DeleteEquipment removes a document from the tenant's inventory.
func (c *Client) DeleteEquipment(ctx context.Context, tenantID, docID string) error {
	path := fmt.Sprintf("/api/v1/tenants/%s/equipment/%s",
		url.PathEscape(tenantID), url.PathEscape(docID))
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// BulkLoad indexes a batch of documents for one tenant. Documents without ids
// get generated ones server-side.
func (c *Client) BulkLoad(ctx context.Context, tenantID string, docs []Document) (BulkReport, error) {
	var report BulkReport
	path := "/api/v1/tenants/" + url.PathEscape(tenantID) + "/equipment/bulk"
	err := c.do(ctx, http.MethodPost, path, map[string]any{"documents": docs}, &report)
	return report, err
}

// Health returns the service health report. A degraded service is not an
// error; inspect the report status.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("equisearch: build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("equisearch: health: %w", err)
	}
	defer resp.Body.Close()

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("equisearch: decode health response: %w", err)
	}
	return report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("equisearch: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("equisearch: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("equisearch: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
			apiErr.Code = payload.Code
			apiErr.Message = payload.Message
		} else {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("equisearch: decode response: %w", err)
	}
	return nil
}
