package domain

import "context"

// Entity labels emitted by named-entity recognizers. Only location-family
// labels are consumed by intent extraction.
const (
	LabelGeopolitical = "GPE"
	LabelLocation     = "LOC"
)

// Entity is a labeled span produced by a recognizer.
type Entity struct {
	Text  string
	Label string
}

// IsLocation reports whether the entity carries a location-family label.
func (e Entity) IsLocation() bool {
	return e.Label == LabelGeopolitical || e.Label == LabelLocation
}

// Recognizer extracts named entities from free text. Implementations live at
// the transport edge (LLM-backed) or in-process (gazetteer).
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]Entity, error)
}
