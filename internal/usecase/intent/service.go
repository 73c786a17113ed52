// Package intent turns free-text equipment queries into structured intents.
package intent

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"go.uber.org/zap"

	domintent "github.com/surplusgrid/equisearch/internal/domain/intent"
	"github.com/surplusgrid/equisearch/internal/patterns"
)

// Service extracts structured intents from raw query text.
type Service struct {
	tables     TableProvider
	recognizer Recognizer
	logger     *zap.Logger
}

// New creates an intent extraction service.
func New(tables TableProvider, recognizer Recognizer, logger *zap.Logger) *Service {
	return &Service{tables: tables, recognizer: recognizer, logger: logger}
}

// Extract parses a query into an intent. Extraction is best-effort and never
// fails: absent signals leave fields empty, a recognizer outage drops only
// the location signal. Deterministic for a fixed query and table snapshot.
func (s *Service) Extract(ctx context.Context, query string) domintent.Intent {
	t := s.tables.Load()
	lower := strings.ToLower(query)

	return domintent.New(
		extractCategory(lower, t),
		extractSpecifications(lower, t),
		extractConditions(lower, t),
		s.extractLocations(ctx, query),
		extractAvailability(lower, t),
		extractPriceCeiling(lower, t),
	)
}

// extractCategory scans contiguous word spans against the synonym table, up
// to the table's longest synonym. Earliest start wins, then the shortest
// span at that start.
func extractCategory(lower string, t *patterns.Tables) string {
	words := tokenize(lower)
	for start := range words {
		end := start + t.MaxCategoryWords()
		if end > len(words) {
			end = len(words)
		}
		for stop := start + 1; stop <= end; stop++ {
			if c, ok := t.Category(strings.Join(words[start:stop], " ")); ok {
				return c
			}
		}
	}
	return ""
}

// extractSpecifications collects every non-overlapping match per spec type,
// in pattern order then order of appearance. Multiple matches of one type
// are all kept; the compiler treats each as an independent constraint.
func extractSpecifications(lower string, t *patterns.Tables) []domintent.Specification {
	var specs []domintent.Specification
	for _, sp := range t.SpecPatterns() {
		for _, m := range sp.Pattern.FindAllStringSubmatch(lower, -1) {
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			specs = append(specs, domintent.Specification{
				Type:  sp.Type,
				Value: value,
				Unit:  m[2],
			})
		}
	}
	return specs
}

// extractConditions matches the vocabulary by substring, in vocabulary order.
func extractConditions(lower string, t *patterns.Tables) []string {
	var conds []string
	for _, word := range t.ConditionVocabulary() {
		if strings.Contains(lower, word) {
			conds = append(conds, word)
		}
	}
	return conds
}

// extractAvailability reports whether any availability keyword appears.
func extractAvailability(lower string, t *patterns.Tables) bool {
	for _, kw := range t.AvailabilityKeywords() {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// extractPriceCeiling tries the ordered price patterns; the first match wins.
// A trailing k/m suffix multiplies the amount by 1e3/1e6.
func extractPriceCeiling(lower string, t *patterns.Tables) *float64 {
	for _, re := range t.PricePatterns() {
		m := re.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		value, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		switch m[2] {
		case "k":
			value *= 1e3
		case "m":
			value *= 1e6
		}
		return &value
	}
	return nil
}

// extractLocations runs the recognizer; failures degrade to no locations.
func (s *Service) extractLocations(ctx context.Context, query string) []string {
	entities, err := s.recognizer.Recognize(ctx, query)
	if err != nil {
		s.logger.Warn("location recognition failed, continuing without locations",
			zap.Error(err))
		return nil
	}

	var locations []string
	for _, e := range entities {
		if e.IsLocation() {
			locations = append(locations, strings.ToLower(e.Text))
		}
	}
	return locations
}

func tokenize(lower string) []string {
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
