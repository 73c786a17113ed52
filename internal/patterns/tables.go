// Package patterns holds the static extraction configuration: category
// synonyms, specification unit patterns, price phrase patterns, and keyword
// vocabularies. A Tables value is immutable once built; hot reload builds a
// fresh value and swaps it at the consumer.
package patterns

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/surplusgrid/equisearch/internal/domain/intent"
)

// SpecPattern pairs a specification type with its numeric+unit regex.
// The value is captured in group 1, the unit in group 2.
type SpecPattern struct {
	Type    intent.SpecType
	Pattern *regexp.Regexp
}

// Tables is the compiled, immutable pattern configuration.
type Tables struct {
	categories           map[string]string
	maxCategoryWords     int
	specPatterns         []SpecPattern
	pricePatterns        []*regexp.Regexp
	availabilityKeywords []string
	conditionVocabulary  []string
	gazetteer            map[string]string
}

// Category resolves a lower-cased phrase to its normalized category.
func (t *Tables) Category(phrase string) (string, bool) {
	c, ok := t.categories[phrase]
	return c, ok
}

// MaxCategoryWords returns the word count of the longest category synonym.
// Spans longer than this cannot match and need not be looked up.
func (t *Tables) MaxCategoryWords() int { return t.maxCategoryWords }

// SpecPatterns returns the specification patterns in fixed scan order.
func (t *Tables) SpecPatterns() []SpecPattern { return t.specPatterns }

// PricePatterns returns the ordered price phrase patterns. Each pattern
// captures the numeric amount in group 1 and an optional k/m suffix in group 2.
func (t *Tables) PricePatterns() []*regexp.Regexp { return t.pricePatterns }

// AvailabilityKeywords returns the availability trigger substrings.
func (t *Tables) AvailabilityKeywords() []string { return t.availabilityKeywords }

// ConditionVocabulary returns the condition words in vocabulary order.
func (t *Tables) ConditionVocabulary() []string { return t.conditionVocabulary }

// Gazetteer returns the place-name → entity-label map used by the offline
// recognizer.
func (t *Tables) Gazetteer() map[string]string { return t.gazetteer }

// Config is the serializable form of Tables (yaml pattern files).
type Config struct {
	Categories           map[string]string `yaml:"categories"`
	Specifications       []SpecConfig      `yaml:"specifications"`
	PricePatterns        []string          `yaml:"price_patterns"`
	AvailabilityKeywords []string          `yaml:"availability_keywords"`
	ConditionVocabulary  []string          `yaml:"condition_vocabulary"`
	Gazetteer            map[string]string `yaml:"gazetteer"`
}

// SpecConfig is one specification pattern entry in a pattern file.
type SpecConfig struct {
	Type    string `yaml:"type"`
	Pattern string `yaml:"pattern"`
}

// Compile validates the config and builds immutable Tables.
func (c Config) Compile() (*Tables, error) {
	t := &Tables{
		categories:           make(map[string]string, len(c.Categories)),
		availabilityKeywords: append([]string(nil), c.AvailabilityKeywords...),
		conditionVocabulary:  append([]string(nil), c.ConditionVocabulary...),
		gazetteer:            make(map[string]string, len(c.Gazetteer)),
	}
	for k, v := range c.Categories {
		t.categories[k] = v
		if n := len(strings.Fields(k)); n > t.maxCategoryWords {
			t.maxCategoryWords = n
		}
	}
	for k, v := range c.Gazetteer {
		t.gazetteer[k] = v
	}
	for _, s := range c.Specifications {
		re, err := regexp.Compile(s.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compile spec pattern %q: %w", s.Type, err)
		}
		if re.NumSubexp() < 2 {
			return nil, fmt.Errorf("spec pattern %q must capture value and unit", s.Type)
		}
		t.specPatterns = append(t.specPatterns, SpecPattern{Type: intent.SpecType(s.Type), Pattern: re})
	}
	for i, p := range c.PricePatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("compile price pattern %d: %w", i, err)
		}
		t.pricePatterns = append(t.pricePatterns, re)
	}
	return t, nil
}

// LoadFile reads a yaml pattern file and compiles it.
func LoadFile(path string) (*Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read pattern file: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse pattern file: %w", err)
	}
	return cfg.Compile()
}

// Default returns the built-in tables.
func Default() *Tables {
	t, err := DefaultConfig().Compile()
	if err != nil {
		panic(err) // built-in patterns must compile
	}
	return t
}

// DefaultConfig returns the built-in pattern configuration.
func DefaultConfig() Config {
	return Config{
		Categories: map[string]string{
			"pump": "pumps", "pumps": "pumps",
			"compressor": "compressors", "compressors": "compressors",
			"turbine": "turbines", "turbines": "turbines",
			"valve": "valves", "valves": "valves",
			"heat exchanger": "heat_exchangers", "heat exchangers": "heat_exchangers",
			"boiler": "boilers", "boilers": "boilers",
			"filter": "filtration", "filters": "filtration",
			"mill": "mills", "mills": "mills",
			"reactor": "reactors", "reactors": "reactors",
			"dryer": "dryers", "dryers": "dryers",
		},
		Specifications: []SpecConfig{
			{Type: string(intent.SpecFlow), Pattern: `(?i)(\d+(?:\.\d+)?)\s*(m3/hr?|m³/hr?|gpm|l/hr)`},
			{Type: string(intent.SpecPressure), Pattern: `(?i)(\d+(?:\.\d+)?)\s*(bar|psi|kpa)`},
			{Type: string(intent.SpecTemperature), Pattern: `(?i)(\d+(?:\.\d+)?)\s*(°?c|°?f|celsius|fahrenheit)\b`},
			{Type: string(intent.SpecPower), Pattern: `(?i)(\d+(?:\.\d+)?)\s*(kw|mw|hp)`},
			{Type: string(intent.SpecCapacity), Pattern: `(?i)(\d+(?:\.\d+)?)\s*(tons?/hr|kg/hr|t/hr)`},
		},
		PricePatterns: []string{
			`(?:under|less than|max|maximum|up to)\s*[$€£]?\s*(\d+(?:\.\d+)?)\s*([km])?\b`,
			`[$€£]\s*(\d+(?:\.\d+)?)\s*([km])?\b`,
			`(\d+(?:\.\d+)?)\s*([km])?\s*(?:dollars|euros|pounds)`,
		},
		AvailabilityKeywords: []string{"available", "in stock", "immediate", "ready"},
		ConditionVocabulary:  []string{"new", "used", "refurbished", "reconditioned"},
		Gazetteer: map[string]string{
			"germany": "GPE", "uk": "GPE", "united kingdom": "GPE", "usa": "GPE",
			"united states": "GPE", "france": "GPE", "italy": "GPE", "spain": "GPE",
			"netherlands": "GPE", "china": "GPE", "india": "GPE", "japan": "GPE",
			"brazil": "GPE", "canada": "GPE", "poland": "GPE", "sweden": "GPE",
			"norway": "GPE", "switzerland": "GPE", "austria": "GPE", "belgium": "GPE",
			"berlin": "LOC", "hamburg": "LOC", "munich": "LOC", "london": "LOC",
			"manchester": "LOC", "houston": "LOC", "chicago": "LOC", "rotterdam": "LOC",
			"shanghai": "LOC", "mumbai": "LOC",
		},
	}
}
