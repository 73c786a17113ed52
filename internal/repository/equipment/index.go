package equipment

import (
	"fmt"

	"github.com/surplusgrid/equisearch/internal/db"
	"github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/domain/search"
)

// buildIndex constructs the equipment index schema over the given key
// prefixes. Tag and numeric aliases follow the shared field vocabulary so
// compiled filter expressions address them directly.
func buildIndex(name string, prefixes ...string) (*db.IndexDefinition, error) {
	b := db.NewIndex(name).
		OnJSON().
		Prefix(prefixes...).
		TagAs("$.tenant_id", search.FieldTenant).
		TagAs("$.routing", search.FieldRouting).
		TagAs("$.category", search.FieldCategory).
		TagAs("$.condition", search.FieldCondition).
		TagAs("$.location.country", search.FieldCountry).
		TagAs("$.location.city", search.FieldCity).
		TagAs("$.location.availability", search.FieldAvailability).
		TagAs("$.marketplace_listing", search.FieldMarketplace).
		NumericAs("$.price.value", search.FieldPrice).
		TextAs("$.name", "name").
		TextAs("$.description", "description")

	for _, t := range intent.SpecTypes() {
		b.NumericAs(fmt.Sprintf("$.specs.%s[*]", t), search.SpecField(t))
	}

	return b.Build()
}
