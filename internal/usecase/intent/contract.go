package intent

import (
	"context"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/patterns"
)

// Recognizer extracts place entities from query text.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]domain.Entity, error)
}

// TableProvider supplies the current pattern tables. Hot reload swaps the
// value behind the provider; every Extract call sees one consistent snapshot.
type TableProvider interface {
	Load() *patterns.Tables
}
