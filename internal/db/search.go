package db

import "github.com/surplusgrid/equisearch/internal/domain/search/filter"

// FilterQuery is the input for a compiled filter search. An empty filter
// expression matches every document reachable through the index.
type FilterQuery struct {
	IndexName    string
	Filters      filter.Expression
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single document hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
