package equipment

import (
	"encoding/json"
	"fmt"
	"time"

	domequip "github.com/surplusgrid/equisearch/internal/domain/equipment"
)

// docDTO is the stored JSON shape of an equipment document. Specification
// values are additionally projected into per-parameter arrays under "specs"
// so numeric range filters can address one parameter without matching the
// values of another.
type docDTO struct {
	ID             string               `json:"id"`
	TenantID       string               `json:"tenant_id"`
	Routing        string               `json:"routing"`
	Name           string               `json:"name"`
	Description    string               `json:"description,omitempty"`
	Category       string               `json:"category"`
	Subcategory    string               `json:"subcategory,omitempty"`
	Manufacturer   string               `json:"manufacturer,omitempty"`
	Model          string               `json:"model,omitempty"`
	Specifications []specDTO            `json:"specifications,omitempty"`
	Specs          map[string][]float64 `json:"specs,omitempty"`
	Location       locationDTO          `json:"location"`
	Price          priceDTO             `json:"price"`
	Condition      string               `json:"condition,omitempty"`
	Marketplace    bool                 `json:"marketplace_listing"`
	UpdatedAt      time.Time            `json:"updated_at"`
}

type specDTO struct {
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
	Currency string  `json:"currency,omitempty"`
}

// buildJSONDoc converts a domain Document into its stored shape.
func buildJSONDoc(doc *domequip.Document, routingKey string) docDTO {
	specs := doc.Specifications()
	specList := make([]specDTO, 0, len(specs))
	projection := make(map[string][]float64, len(specs))
	for _, s := range specs {
		specList = append(specList, specDTO{Parameter: s.Parameter, Value: s.Value, Unit: s.Unit})
		projection[s.Parameter] = append(projection[s.Parameter], s.Value)
	}

	loc := doc.Location()
	price := doc.Price()

	return docDTO{
		ID:             doc.ID(),
		TenantID:       doc.TenantID(),
		Routing:        routingKey,
		Name:           doc.Name(),
		Description:    doc.Description(),
		Category:       doc.Category(),
		Subcategory:    doc.Subcategory(),
		Manufacturer:   doc.Manufacturer(),
		Model:          doc.Model(),
		Specifications: specList,
		Specs:          projection,
		Location:       locationDTO{Country: loc.Country, City: loc.City, Availability: loc.Availability},
		Price:          priceDTO{Value: price.Value, Currency: price.Currency},
		Condition:      string(doc.Condition()),
		Marketplace:    doc.MarketplaceListing(),
		UpdatedAt:      doc.Timestamp().UTC(),
	}
}

// toDomain hydrates a domain Document from its stored shape.
func (d *docDTO) toDomain() domequip.Document {
	specs := make([]domequip.Specification, 0, len(d.Specifications))
	for _, s := range d.Specifications {
		specs = append(specs, domequip.Specification{Parameter: s.Parameter, Value: s.Value, Unit: s.Unit})
	}
	return domequip.Reconstruct(
		d.ID, d.TenantID, d.Name, d.Description, d.Category, d.Subcategory,
		d.Manufacturer, d.Model, specs,
		domequip.Location{Country: d.Location.Country, City: d.Location.City, Availability: d.Location.Availability},
		domequip.Price{Value: d.Price.Value, Currency: d.Price.Currency},
		domequip.Condition(d.Condition),
		d.Marketplace, d.UpdatedAt,
	)
}

// parseJSONGetResult decodes a JSON.GET "$" reply (an array wrapper around
// the document).
func parseJSONGetResult(raw []byte) (domequip.Document, error) {
	var dtos []docDTO
	if err := json.Unmarshal(raw, &dtos); err != nil {
		return domequip.Document{}, fmt.Errorf("unmarshal document: %w", err)
	}
	if len(dtos) == 0 {
		return domequip.Document{}, fmt.Errorf("empty json.get result")
	}
	return dtos[0].toDomain(), nil
}

// parseSearchField decodes the "$" field of a search hit.
func parseSearchField(jsonStr string) (domequip.Document, error) {
	var dto docDTO
	if err := json.Unmarshal([]byte(jsonStr), &dto); err != nil {
		return domequip.Document{}, fmt.Errorf("unmarshal search hit: %w", err)
	}
	return dto.toDomain(), nil
}
