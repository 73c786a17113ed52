// Package result defines the search hit type returned by the document store.
package result

import "github.com/surplusgrid/equisearch/internal/domain/equipment"

// SuggestionMarketplace tags hits sourced from the cross-tenant marketplace.
const SuggestionMarketplace = "marketplace_alternative"

// Result is a single search hit: a document plus its store-assigned score.
type Result struct {
	doc            equipment.Document
	score          float64
	suggestionType string
}

// New creates a search result.
func New(doc equipment.Document, score float64) Result {
	return Result{doc: doc, score: score}
}

// Document returns the matched equipment document.
func (r *Result) Document() equipment.Document { return r.doc }

// Score returns the relevance score (opaque, store-assigned).
func (r *Result) Score() float64 { return r.score }

// SuggestionType returns the suggestion tag, or "" for tenant-owned hits.
func (r *Result) SuggestionType() string { return r.suggestionType }

// AsSuggestion returns a copy tagged with the given suggestion type.
func (r Result) AsSuggestion(suggestionType string) Result {
	r.suggestionType = suggestionType
	return r
}
