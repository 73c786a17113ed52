// Package intent defines the structured representation of a free-text query.
package intent

// SpecType names a physical dimension family a query can constrain.
type SpecType string

// Known specification types, in extraction scan order.
const (
	SpecFlow        SpecType = "flow"
	SpecPressure    SpecType = "pressure"
	SpecTemperature SpecType = "temperature"
	SpecPower       SpecType = "power"
	SpecCapacity    SpecType = "capacity"
)

// SpecTypes returns all known types in their fixed scan order.
func SpecTypes() []SpecType {
	return []SpecType{SpecFlow, SpecPressure, SpecTemperature, SpecPower, SpecCapacity}
}

// Specification is one extracted numeric constraint. Value and Unit are always
// both present: the extractor never emits a partial entry.
type Specification struct {
	Type  SpecType
	Value float64
	Unit  string
}

// Intent is the structured meaning of a query (immutable; one per query).
// Absent signals leave fields empty — extraction is best-effort and never fails.
type Intent struct {
	category     string
	specs        []Specification
	conditions   []string
	locations    []string
	availability bool
	priceCeiling *float64
}

// New creates an Intent. Slices are copied; the Intent never aliases caller
// memory.
func New(
	category string, specs []Specification, conditions, locations []string,
	availability bool, priceCeiling *float64,
) Intent {
	var ceiling *float64
	if priceCeiling != nil {
		v := *priceCeiling
		ceiling = &v
	}
	return Intent{
		category:     category,
		specs:        append([]Specification(nil), specs...),
		conditions:   append([]string(nil), conditions...),
		locations:    append([]string(nil), locations...),
		availability: availability,
		priceCeiling: ceiling,
	}
}

// Category returns the normalized category, or "" when none was detected.
func (i Intent) Category() string { return i.category }

// Specifications returns extracted specs in order of appearance.
func (i Intent) Specifications() []Specification { return i.specs }

// Conditions returns matched condition words in vocabulary order.
func (i Intent) Conditions() []string { return i.conditions }

// Locations returns recognized location strings, lower-cased, in recognizer order.
func (i Intent) Locations() []string { return i.locations }

// AvailabilityRequired reports whether the query asks for immediate availability.
func (i Intent) AvailabilityRequired() bool { return i.availability }

// PriceCeiling returns the maximum price in base currency units, or nil.
func (i Intent) PriceCeiling() *float64 { return i.priceCeiling }

// IsEmpty reports whether no signal at all was extracted.
func (i Intent) IsEmpty() bool {
	return i.category == "" && len(i.specs) == 0 && len(i.conditions) == 0 &&
		len(i.locations) == 0 && !i.availability && i.priceCeiling == nil
}

// SpecTypeSet returns the distinct requested spec types in order of first appearance.
func (i Intent) SpecTypeSet() []SpecType {
	seen := make(map[SpecType]bool, len(i.specs))
	var out []SpecType
	for _, s := range i.specs {
		if !seen[s.Type] {
			seen[s.Type] = true
			out = append(out, s.Type)
		}
	}
	return out
}
