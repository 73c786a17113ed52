package equisearch

import "time"

// Tenant is a registered tenant.
type Tenant struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Industry          string    `json:"industry,omitempty"`
	RoutingKey        string    `json:"routing_key"`
	MarketplaceAccess bool      `json:"marketplace_access"`
	CreatedAt         time.Time `json:"created_at"`
}

// RegisterTenantRequest registers a new tenant. MarketplaceAccess defaults to
// true when nil.
type RegisterTenantRequest struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Industry          string `json:"industry,omitempty"`
	MarketplaceAccess *bool  `json:"marketplace_access,omitempty"`
}

// Specification is one measured parameter of a document.
type Specification struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

// Location describes where a document sits and how fast it ships.
type Location struct {
	Country      string `json:"country,omitempty"`
	City         string `json:"city,omitempty"`
	Availability string `json:"availability,omitempty"`
}

// Price is a monetary amount in a named currency.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// Document is an equipment listing.
type Document struct {
	ID                 string          `json:"id,omitempty"`
	TenantID           string          `json:"tenant_id,omitempty"`
	Name               string          `json:"name"`
	Description        string          `json:"description,omitempty"`
	Category           string          `json:"category"`
	Subcategory        string          `json:"subcategory,omitempty"`
	Manufacturer       string          `json:"manufacturer,omitempty"`
	Model              string          `json:"model,omitempty"`
	Specifications     []Specification `json:"specifications,omitempty"`
	Location           *Location       `json:"location,omitempty"`
	Price              *Price          `json:"price,omitempty"`
	Condition          string          `json:"condition,omitempty"`
	MarketplaceListing bool            `json:"marketplace_listing"`
	Timestamp          time.Time       `json:"timestamp,omitzero"`
}

// SearchRequest is a free-text search. IncludeMarketplace defaults to true
// when nil and only applies to tenant-scoped searches.
type SearchRequest struct {
	Query              string `json:"query_text"`
	IncludeMarketplace *bool  `json:"include_marketplace,omitempty"`
}

// Intent is the structured reading of a free-text query.
type Intent struct {
	Category             string          `json:"category,omitempty"`
	Specifications       []Specification `json:"specifications,omitempty"`
	Conditions           []string        `json:"conditions,omitempty"`
	Locations            []string        `json:"locations,omitempty"`
	AvailabilityRequired bool            `json:"availability_required"`
	PriceCeiling         *float64        `json:"price_ceiling,omitempty"`
}

// Hit is a single search result.
type Hit struct {
	Document
	Score          float64 `json:"score"`
	SuggestionType string  `json:"suggestion_type,omitempty"`
}

// SearchResponse is a tenant-scoped search result.
type SearchResponse struct {
	Intent                 Intent   `json:"intent"`
	TenantInventory        []Hit    `json:"tenant_inventory"`
	MarketplaceSuggestions []Hit    `json:"marketplace_suggestions"`
	Insights               []string `json:"insights"`
}

// DualSearchResponse is an unscoped search over the two inventory pools.
type DualSearchResponse struct {
	Intent   Intent `json:"intent"`
	Internal []Hit  `json:"internal"`
	Partner  []Hit  `json:"partner"`
}

// BulkReport summarizes a bulk load.
type BulkReport struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

// HealthReport is the aggregated service health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
