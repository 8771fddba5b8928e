package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"linkreach/internal/config"
	"linkreach/internal/domain"
)

// Factory builds note providers from per-invocation credentials. Unlike a
// pooled provider cache, instances are never reused: the API key belongs to
// the caller of one invocation and must not be retained.
type Factory struct {
	cfg    *config.Config
	logger *slog.Logger
}

func NewFactory(cfg *config.Config, logger *slog.Logger) *Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Factory{cfg: cfg, logger: logger}
}

// Build constructs the named backend with the caller's API key. An empty name
// selects the configured default; an empty model selects the per-backend
// default.
func (f *Factory) Build(ctx context.Context, name, apiKey, model string) (domain.NoteProvider, error) {
	if name == "" {
		name = f.cfg.LLM.DefaultProvider
	}
	name = strings.ToLower(name)
	if model == "" {
		model = f.cfg.LLM.Models[name]
	}
	if apiKey == "" {
		return nil, fmt.Errorf("provider %s: no API key supplied", name)
	}

	switch name {
	case "anthropic":
		return NewAnthropic(AnthropicConfig{APIKey: apiKey, Model: model, Logger: f.logger}), nil
	case "openai":
		return NewOpenAI(OpenAIConfig{APIKey: apiKey, Model: model, Logger: f.logger}), nil
	case "google", "gemini":
		return NewGemini(ctx, GeminiConfig{APIKey: apiKey, Model: model, Logger: f.logger})
	default:
		return nil, fmt.Errorf("unknown provider: %s", name)
	}
}

// DefaultModel reports the model a backend uses when none is configured.
func DefaultModel(name string) string {
	switch strings.ToLower(name) {
	case "anthropic":
		return anthropicDefaultModel
	case "openai":
		return openaiDefaultModel
	default:
		return geminiDefaultModel
	}
}
