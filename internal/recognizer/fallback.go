package recognizer

import (
	"context"

	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/metrics"
)

// Fallback routes recognition to a primary provider and falls back to a
// secondary one when the primary fails. Extraction stays best-effort: the
// caller sees an error only if both recognizers fail.
type Fallback struct {
	primary   domain.Recognizer
	secondary domain.Recognizer
	logger    *zap.Logger
}

// NewFallback creates a fallback recognizer chain.
func NewFallback(primary, secondary domain.Recognizer, logger *zap.Logger) *Fallback {
	return &Fallback{primary: primary, secondary: secondary, logger: logger}
}

// Recognize implements domain.Recognizer.
func (f *Fallback) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	entities, err := f.primary.Recognize(ctx, text)
	if err == nil {
		return entities, nil
	}

	f.logger.Warn("primary recognizer failed, using fallback", zap.Error(err))
	metrics.RecognizerFallbacksTotal.Inc()

	return f.secondary.Recognize(ctx, text)
}
