package chi

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/surplusgrid/equisearch/internal/domain/equipment"
	"github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/domain/search/result"
	"github.com/surplusgrid/equisearch/internal/domain/tenant"
	inventoryuc "github.com/surplusgrid/equisearch/internal/usecase/inventory"
	searchuc "github.com/surplusgrid/equisearch/internal/usecase/search"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type registerTenantRequest struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Industry          string `json:"industry"`
	MarketplaceAccess *bool  `json:"marketplace_access,omitempty"`
}

type tenantResponse struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Industry          string    `json:"industry,omitempty"`
	RoutingKey        string    `json:"routing_key"`
	MarketplaceAccess bool      `json:"marketplace_access"`
	CreatedAt         time.Time `json:"created_at"`
}

func tenantToDTO(t *tenant.Tenant) tenantResponse {
	return tenantResponse{
		ID:                t.ID(),
		Name:              t.Name(),
		Industry:          t.Industry(),
		RoutingKey:        t.RoutingKey(),
		MarketplaceAccess: t.MarketplaceAccess(),
		CreatedAt:         t.CreatedAt(),
	}
}

type tenantListResponse struct {
	Items []tenantResponse `json:"items"`
	Total int              `json:"total"`
}

type specificationDTO struct {
	Parameter string  `json:"parameter"`
	Value     float64 `json:"value"`
	Unit      string  `json:"unit"`
}

type locationDTO struct {
	Country      string `json:"country,omitempty"`
	City         string `json:"city,omitempty"`
	Availability string `json:"availability,omitempty"`
}

type priceDTO struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

type documentRequest struct {
	ID                 string             `json:"id,omitempty"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	Category           string             `json:"category"`
	Subcategory        string             `json:"subcategory,omitempty"`
	Manufacturer       string             `json:"manufacturer,omitempty"`
	Model              string             `json:"model,omitempty"`
	Specifications     []specificationDTO `json:"specifications,omitempty"`
	Location           *locationDTO       `json:"location,omitempty"`
	Price              *priceDTO          `json:"price,omitempty"`
	Condition          string             `json:"condition,omitempty"`
	MarketplaceListing bool               `json:"marketplace_listing"`
}

// documentFromRequest builds a domain document for a tenant. An empty id gets
// a generated one so bulk payloads can omit ids.
func documentFromRequest(tenantID string, req documentRequest) (equipment.Document, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	opts := []equipment.Option{
		equipment.WithDescription(req.Description),
		equipment.WithSubcategory(req.Subcategory),
		equipment.WithMake(req.Manufacturer, req.Model),
		equipment.WithMarketplaceListing(req.MarketplaceListing),
	}
	if len(req.Specifications) > 0 {
		specs := make([]equipment.Specification, len(req.Specifications))
		for i, sp := range req.Specifications {
			specs[i] = equipment.Specification{Parameter: sp.Parameter, Value: sp.Value, Unit: sp.Unit}
		}
		opts = append(opts, equipment.WithSpecifications(specs...))
	}
	if req.Location != nil {
		opts = append(opts, equipment.WithLocation(equipment.Location{
			Country:      req.Location.Country,
			City:         req.Location.City,
			Availability: req.Location.Availability,
		}))
	}
	if req.Price != nil {
		opts = append(opts, equipment.WithPrice(equipment.Price{
			Value:    req.Price.Value,
			Currency: req.Price.Currency,
		}))
	}
	if req.Condition != "" {
		opts = append(opts, equipment.WithCondition(equipment.Condition(req.Condition)))
	}

	doc, err := equipment.New(id, tenantID, req.Name, req.Category, opts...)
	if err != nil {
		return equipment.Document{}, fmt.Errorf("build document: %w", err)
	}
	return doc, nil
}

type documentResponse struct {
	ID                 string             `json:"id"`
	TenantID           string             `json:"tenant_id"`
	Name               string             `json:"name"`
	Description        string             `json:"description,omitempty"`
	Category           string             `json:"category"`
	Subcategory        string             `json:"subcategory,omitempty"`
	Manufacturer       string             `json:"manufacturer,omitempty"`
	Model              string             `json:"model,omitempty"`
	Specifications     []specificationDTO `json:"specifications,omitempty"`
	Location           *locationDTO       `json:"location,omitempty"`
	Price              *priceDTO          `json:"price,omitempty"`
	Condition          string             `json:"condition,omitempty"`
	MarketplaceListing bool               `json:"marketplace_listing"`
	Timestamp          time.Time          `json:"timestamp"`
}

func documentToDTO(doc *equipment.Document) documentResponse {
	resp := documentResponse{
		ID:                 doc.ID(),
		TenantID:           doc.TenantID(),
		Name:               doc.Name(),
		Description:        doc.Description(),
		Category:           doc.Category(),
		Subcategory:        doc.Subcategory(),
		Manufacturer:       doc.Manufacturer(),
		Model:              doc.Model(),
		Condition:          string(doc.Condition()),
		MarketplaceListing: doc.MarketplaceListing(),
		Timestamp:          doc.Timestamp(),
	}
	if specs := doc.Specifications(); len(specs) > 0 {
		resp.Specifications = make([]specificationDTO, len(specs))
		for i, sp := range specs {
			resp.Specifications[i] = specificationDTO{Parameter: sp.Parameter, Value: sp.Value, Unit: sp.Unit}
		}
	}
	if loc := doc.Location(); loc != (equipment.Location{}) {
		resp.Location = &locationDTO{Country: loc.Country, City: loc.City, Availability: loc.Availability}
	}
	if p := doc.Price(); p.Value > 0 {
		resp.Price = &priceDTO{Value: p.Value, Currency: p.Currency}
	}
	return resp
}

type searchHit struct {
	documentResponse
	Score          float64 `json:"score"`
	SuggestionType string  `json:"suggestion_type,omitempty"`
}

func hitsToDTO(hits []result.Result) []searchHit {
	out := make([]searchHit, len(hits))
	for i := range hits {
		doc := hits[i].Document()
		out[i] = searchHit{
			documentResponse: documentToDTO(&doc),
			Score:            hits[i].Score(),
			SuggestionType:   hits[i].SuggestionType(),
		}
	}
	return out
}

type intentDTO struct {
	Category             string             `json:"category,omitempty"`
	Specifications       []specificationDTO `json:"specifications,omitempty"`
	Conditions           []string           `json:"conditions,omitempty"`
	Locations            []string           `json:"locations,omitempty"`
	AvailabilityRequired bool               `json:"availability_required"`
	PriceCeiling         *float64           `json:"price_ceiling,omitempty"`
}

func intentToDTO(it intent.Intent) intentDTO {
	dto := intentDTO{
		Category:             it.Category(),
		Conditions:           it.Conditions(),
		Locations:            it.Locations(),
		AvailabilityRequired: it.AvailabilityRequired(),
		PriceCeiling:         it.PriceCeiling(),
	}
	if specs := it.Specifications(); len(specs) > 0 {
		dto.Specifications = make([]specificationDTO, len(specs))
		for i, sp := range specs {
			dto.Specifications[i] = specificationDTO{Parameter: string(sp.Type), Value: sp.Value, Unit: sp.Unit}
		}
	}
	return dto
}

// searchRequest is shared by the tenant-scoped and dual search endpoints.
// IncludeMarketplace defaults to true and only applies to tenant searches.
type searchRequest struct {
	Query              string `json:"query_text"`
	IncludeMarketplace *bool  `json:"include_marketplace,omitempty"`
}

type searchResponse struct {
	Intent                 intentDTO   `json:"intent"`
	TenantInventory        []searchHit `json:"tenant_inventory"`
	MarketplaceSuggestions []searchHit `json:"marketplace_suggestions"`
	Insights               []string    `json:"insights"`
}

func searchResponseToDTO(resp *searchuc.Response) searchResponse {
	insights := resp.Insights
	if insights == nil {
		insights = []string{}
	}
	return searchResponse{
		Intent:                 intentToDTO(resp.Intent),
		TenantInventory:        hitsToDTO(resp.TenantInventory),
		MarketplaceSuggestions: hitsToDTO(resp.MarketplaceSuggestions),
		Insights:               insights,
	}
}

type dualSearchResponse struct {
	Intent   intentDTO   `json:"intent"`
	Internal []searchHit `json:"internal"`
	Partner  []searchHit `json:"partner"`
}

func dualResponseToDTO(resp *searchuc.DualResponse) dualSearchResponse {
	return dualSearchResponse{
		Intent:   intentToDTO(resp.Intent),
		Internal: hitsToDTO(resp.Internal),
		Partner:  hitsToDTO(resp.Partner),
	}
}

type bulkRequest struct {
	Documents []documentRequest `json:"documents"`
}

type bulkResponse struct {
	Indexed int `json:"indexed"`
	Failed  int `json:"failed"`
}

func bulkReportToDTO(r inventoryuc.Report) bulkResponse {
	return bulkResponse{Indexed: r.Indexed, Failed: r.Failed}
}
