// Package recognizer provides entity recognizers for query text: an offline
// gazetteer lookup and a fallback combinator over a remote provider.
package recognizer

import (
	"context"
	"strings"
	"unicode"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/patterns"
)

// maxSpanWords bounds gazetteer lookups to phrases like "united kingdom".
const maxSpanWords = 3

// Gazetteer recognizes place names by dictionary lookup. It is the offline
// default and the fallback when a remote provider is down. Recognition never
// fails: unknown text simply yields no entities.
type Gazetteer struct {
	tables *patterns.Handle
}

// NewGazetteer creates a gazetteer recognizer over the given pattern tables.
func NewGazetteer(tables *patterns.Handle) *Gazetteer {
	return &Gazetteer{tables: tables}
}

// Recognize scans the text for known place names, longest span first.
func (g *Gazetteer) Recognize(_ context.Context, text string) ([]domain.Entity, error) {
	gaz := g.tables.Load().Gazetteer()
	words := tokenize(strings.ToLower(text))

	var entities []domain.Entity
	for i := 0; i < len(words); {
		matched := 0
		for span := min(maxSpanWords, len(words)-i); span >= 1; span-- {
			phrase := strings.Join(words[i:i+span], " ")
			if label, ok := gaz[phrase]; ok {
				entities = append(entities, domain.Entity{Text: phrase, Label: label})
				matched = span
				break
			}
		}
		if matched > 0 {
			i += matched
		} else {
			i++
		}
	}
	return entities, nil
}

// tokenize splits on anything that is not a letter or digit.
func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
