// Package search defines the index field vocabulary shared by the filter
// compiler and the storage layer. Filter conditions address fields by these
// names; the storage layer aliases its JSON paths to match.
package search

import "github.com/surplusgrid/equisearch/internal/domain/intent"

// Index field names.
const (
	FieldTenant       = "tenant"
	FieldRouting      = "routing"
	FieldCategory     = "category"
	FieldCondition    = "condition"
	FieldCountry      = "country"
	FieldCity         = "city"
	FieldAvailability = "availability"
	FieldMarketplace  = "marketplace"
	FieldPrice        = "price"
)

// SpecField returns the numeric field name for a specification type,
// e.g. "spec_flow".
func SpecField(t intent.SpecType) string {
	return "spec_" + string(t)
}
