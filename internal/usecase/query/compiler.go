// Package query compiles structured intents into boolean filter expressions.
package query

import (
	"fmt"

	"github.com/surplusgrid/equisearch/internal/domain/equipment"
	"github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/domain/search"
	"github.com/surplusgrid/equisearch/internal/domain/search/filter"
)

// Specification values match within a symmetric tolerance band around the
// requested value: [toleranceLow*v, toleranceHigh*v].
const (
	toleranceLow  = 0.8
	toleranceHigh = 1.2
)

// Compile translates an intent into a filter expression. Every extracted
// signal becomes one must condition; an empty intent compiles to the empty
// expression, which matches the whole target partition.
//
// Clause order is fixed (category, specs, conditions, locations,
// availability, price) so identical intents compile to identical queries.
func Compile(it intent.Intent) (filter.Expression, error) {
	var must []filter.Condition

	if c := it.Category(); c != "" {
		cond, err := filter.NewMatch(search.FieldCategory, c)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("compile category: %w", err)
		}
		must = append(must, cond)
	}

	for _, sp := range it.Specifications() {
		band := filter.Between(sp.Value*toleranceLow, sp.Value*toleranceHigh)
		cond, err := filter.NewRange(search.SpecField(sp.Type), band)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("compile %s spec: %w", sp.Type, err)
		}
		must = append(must, cond)
	}

	if conds := it.Conditions(); len(conds) > 0 {
		cond, err := filter.NewTerms(search.FieldCondition, conds)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("compile conditions: %w", err)
		}
		must = append(must, cond)
	}

	if locs := it.Locations(); len(locs) > 0 {
		cond, err := filter.NewTerms(search.FieldCountry, locs)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("compile locations: %w", err)
		}
		must = append(must, cond)
	}

	if it.AvailabilityRequired() {
		cond, err := filter.NewMatch(search.FieldAvailability, equipment.AvailabilityImmediate)
		if err != nil {
			return filter.Expression{}, fmt.Errorf("compile availability: %w", err)
		}
		must = append(must, cond)
	}

	if p := it.PriceCeiling(); p != nil {
		cond, err := filter.NewRange(search.FieldPrice, filter.AtMost(*p))
		if err != nil {
			return filter.Expression{}, fmt.Errorf("compile price ceiling: %w", err)
		}
		must = append(must, cond)
	}

	expr, err := filter.NewExpression(must, nil, nil)
	if err != nil {
		return filter.Expression{}, fmt.Errorf("compile filter: %w", err)
	}
	return expr, nil
}
