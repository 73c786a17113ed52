// Package equipment defines the equipment document aggregate and its value types.
package equipment

import (
	"fmt"
	"time"
)

// Condition is the physical state of a piece of equipment.
type Condition string

// Known equipment conditions.
const (
	ConditionNew           Condition = "new"
	ConditionUsed          Condition = "used"
	ConditionRefurbished   Condition = "refurbished"
	ConditionReconditioned Condition = "reconditioned"
)

// Availability buckets for a document's location.
const (
	AvailabilityImmediate = "immediate"
	AvailabilityOnOrder   = "on_order"
	AvailabilityLeadTime  = "lead_time"
)

// Specification is one measured parameter of a document. Parameter is not
// required to be unique within a document.
type Specification struct {
	Parameter string
	Value     float64
	Unit      string
}

// Location describes where a document physically sits and how fast it ships.
type Location struct {
	Country      string
	City         string
	Availability string
}

// Price is a monetary amount in a named currency.
type Price struct {
	Value    float64
	Currency string
}

// Document is an equipment listing owned by exactly one tenant
// (immutable value object; mutation is a full re-index).
type Document struct {
	id           string
	tenantID     string
	name         string
	description  string
	category     string
	subcategory  string
	manufacturer string
	model        string
	specs        []Specification
	location     Location
	price        Price
	condition    Condition
	marketplace  bool
	timestamp    time.Time
}

// New validates and creates a Document.
func New(
	id, tenantID, name, category string,
	opts ...Option,
) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document id is required")
	}
	if tenantID == "" {
		return Document{}, fmt.Errorf("tenant id is required")
	}
	if name == "" {
		return Document{}, fmt.Errorf("document name is required")
	}
	if category == "" {
		return Document{}, fmt.Errorf("category is required")
	}

	d := Document{
		id:        id,
		tenantID:  tenantID,
		name:      name,
		category:  category,
		timestamp: time.Now().UTC(),
	}
	for _, o := range opts {
		o(&d)
	}
	for _, s := range d.specs {
		if s.Parameter == "" || s.Unit == "" {
			return Document{}, fmt.Errorf("specification requires parameter and unit, got %+v", s)
		}
	}
	return d, nil
}

// Option configures optional Document fields at construction.
type Option func(*Document)

// WithDescription sets the free-text description.
func WithDescription(desc string) Option { return func(d *Document) { d.description = desc } }

// WithSubcategory sets the subcategory.
func WithSubcategory(sub string) Option { return func(d *Document) { d.subcategory = sub } }

// WithMake sets manufacturer and model.
func WithMake(manufacturer, model string) Option {
	return func(d *Document) { d.manufacturer = manufacturer; d.model = model }
}

// WithSpecifications sets the specification list.
func WithSpecifications(specs ...Specification) Option {
	return func(d *Document) { d.specs = append([]Specification(nil), specs...) }
}

// WithLocation sets the location.
func WithLocation(loc Location) Option { return func(d *Document) { d.location = loc } }

// WithPrice sets the price.
func WithPrice(p Price) Option { return func(d *Document) { d.price = p } }

// WithCondition sets the condition.
func WithCondition(c Condition) Option { return func(d *Document) { d.condition = c } }

// WithMarketplaceListing flags the document visible to other tenants.
func WithMarketplaceListing(v bool) Option { return func(d *Document) { d.marketplace = v } }

// WithTimestamp overrides the indexing timestamp.
func WithTimestamp(t time.Time) Option { return func(d *Document) { d.timestamp = t } }

// Reconstruct creates a Document without validation (storage hydration).
func Reconstruct(
	id, tenantID, name, description, category, subcategory, manufacturer, model string,
	specs []Specification, loc Location, price Price, condition Condition,
	marketplace bool, timestamp time.Time,
) Document {
	return Document{
		id: id, tenantID: tenantID, name: name, description: description,
		category: category, subcategory: subcategory,
		manufacturer: manufacturer, model: model,
		specs: specs, location: loc, price: price, condition: condition,
		marketplace: marketplace, timestamp: timestamp,
	}
}

// ID returns the document identifier.
func (d *Document) ID() string { return d.id }

// TenantID returns the owning tenant id (or the marketplace-supplier id).
func (d *Document) TenantID() string { return d.tenantID }

// Name returns the display name.
func (d *Document) Name() string { return d.name }

// Description returns the free-text description.
func (d *Document) Description() string { return d.description }

// Category returns the normalized category.
func (d *Document) Category() string { return d.category }

// Subcategory returns the subcategory.
func (d *Document) Subcategory() string { return d.subcategory }

// Manufacturer returns the manufacturer name.
func (d *Document) Manufacturer() string { return d.manufacturer }

// Model returns the manufacturer model.
func (d *Document) Model() string { return d.model }

// Specifications returns the specification entries.
func (d *Document) Specifications() []Specification { return d.specs }

// Location returns the location.
func (d *Document) Location() Location { return d.location }

// Price returns the price.
func (d *Document) Price() Price { return d.price }

// Condition returns the condition.
func (d *Document) Condition() Condition { return d.condition }

// MarketplaceListing reports cross-tenant visibility.
func (d *Document) MarketplaceListing() bool { return d.marketplace }

// Timestamp returns the indexing timestamp.
func (d *Document) Timestamp() time.Time { return d.timestamp }

// HasParameter reports whether any specification entry carries the parameter.
func (d *Document) HasParameter(parameter string) bool {
	for _, s := range d.specs {
		if s.Parameter == parameter {
			return true
		}
	}
	return false
}
