// Package openai provides an entity recognizer backed by an OpenAI-compatible
// chat completion API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/surplusgrid/equisearch/internal/domain"
	"github.com/surplusgrid/equisearch/internal/metrics"
)

const systemPrompt = `You are a named-entity tagger. Extract place names from the user's ` +
	`equipment search query. Reply with a JSON array only, no prose. Each element is ` +
	`{"text": "<place, lower-cased>", "label": "GPE"} for countries and ` +
	`{"text": "<place, lower-cased>", "label": "LOC"} for cities and regions. ` +
	`Reply [] when the query names no place.`

// Recognizer extracts location entities via an OpenAI-compatible chat API.
type Recognizer struct {
	client   *openai.Client
	model    string
	provider string
	logger   *zap.Logger
}

// Config holds the recognizer provider settings.
type Config struct {
	APIKey   string
	BaseURL  string
	Model    string
	Provider string
	Logger   *zap.Logger
}

// NewRecognizer creates an OpenAI-compatible entity recognizer.
func NewRecognizer(cfg *Config) *Recognizer {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	provider := cfg.Provider
	if provider == "" {
		provider = "openai"
	}

	return &Recognizer{
		client:   openai.NewClientWithConfig(clientCfg),
		model:    cfg.Model,
		provider: provider,
		logger:   cfg.Logger,
	}
}

// Recognize implements domain.Recognizer with transport-level metrics.
func (r *Recognizer) Recognize(ctx context.Context, text string) ([]domain.Entity, error) {
	req := openai.ChatCompletionRequest{
		Model:       r.model,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	}

	start := time.Now()

	resp, err := r.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "error").Inc()
		return nil, parseAPIError(err)
	}

	if len(resp.Choices) == 0 {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "error").Inc()
		return nil, fmt.Errorf("empty completion response: %w", domain.ErrRecognizerUnavailable)
	}

	entities, err := parseEntities(resp.Choices[0].Message.Content)
	if err != nil {
		metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "error").Inc()
		return nil, err
	}

	metrics.RecognizerRequestsTotal.WithLabelValues(r.provider, "success").Inc()
	metrics.RecognizerRequestDuration.WithLabelValues(r.provider).Observe(duration.Seconds())

	return entities, nil
}

// HealthCheck verifies API availability via ListModels (free endpoint).
func (r *Recognizer) HealthCheck(ctx context.Context) error {
	if _, err := r.client.ListModels(ctx); err != nil {
		return fmt.Errorf("list models: %w", err)
	}
	return nil
}

// parseEntities decodes the model's JSON reply. Models occasionally wrap the
// array in a markdown fence; strip it before decoding.
func parseEntities(content string) ([]domain.Entity, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var raw []struct {
		Text  string `json:"text"`
		Label string `json:"label"`
	}
	if err := json.Unmarshal([]byte(content), &raw); err != nil {
		return nil, fmt.Errorf("malformed entity reply: %w", domain.ErrRecognizerUnavailable)
	}

	entities := make([]domain.Entity, 0, len(raw))
	for _, e := range raw {
		if e.Text == "" {
			continue
		}
		if e.Label != domain.LabelGeopolitical && e.Label != domain.LabelLocation {
			continue
		}
		entities = append(entities, domain.Entity{
			Text:  strings.ToLower(e.Text),
			Label: e.Label,
		})
	}
	return entities, nil
}

// parseAPIError extracts a human-readable error from the API response.
// All errors are wrapped with domain.ErrRecognizerUnavailable for fallback routing.
func parseAPIError(err error) error {
	wrap := domain.ErrRecognizerUnavailable

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		detail := extractDetail(reqErr.Body)
		if detail != "" {
			return fmt.Errorf("recognizer API error %d: %s: %w",
				reqErr.HTTPStatusCode, detail, wrap)
		}
		return fmt.Errorf("recognizer API error %d: %s: %w",
			reqErr.HTTPStatusCode, string(reqErr.Body), wrap)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("recognizer API error %d: %s: %w",
			apiErr.HTTPStatusCode, apiErr.Message, wrap)
	}

	return fmt.Errorf("recognizer request failed: %w", wrap)
}

// extractDetail extracts the "detail" field from a JSON error body.
func extractDetail(body []byte) string {
	var parsed struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(body, &parsed) == nil && parsed.Detail != "" {
		return parsed.Detail
	}
	return ""
}
