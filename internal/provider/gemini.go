package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"google.golang.org/genai"

	"linkreach/internal/domain"
)

const geminiDefaultModel = "gemini-2.0-flash-exp"

// Gemini implements domain.NoteProvider on the official Gemini SDK.
type Gemini struct {
	client *genai.Client
	model  string
	logger *slog.Logger
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string // override for proxies/tests
	Logger  *slog.Logger
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*Gemini, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("gemini: API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = geminiDefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	cc := &genai.ClientConfig{
		APIKey:  strings.TrimSpace(cfg.APIKey),
		Backend: genai.BackendGeminiAPI,
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		cc.HTTPOptions.BaseURL = strings.TrimSpace(cfg.BaseURL)
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, err
	}
	return &Gemini{client: client, model: cfg.Model, logger: cfg.Logger}, nil
}

func (g *Gemini) Name() string { return "google" }

func (g *Gemini) GenerateNote(ctx context.Context, req domain.NoteRequest) (string, error) {
	system, user := buildPrompts(req)

	var temp float32 = 0.7
	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(system+"\n\n"+user),
		&genai.GenerateContentConfig{
			CandidateCount:  1,
			MaxOutputTokens: noteMaxTokens,
			Temperature:     &temp,
		},
	)
	if err != nil {
		return "", classifyGeminiErr(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: empty completion")
	}
	return text, nil
}

func classifyGeminiErr(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429:
			return fmt.Errorf("gemini: %w", domain.ErrProviderRateLimited)
		// Gemini reports a bad key as 400, not 401.
		case apiErr.Code == 400 || apiErr.Code == 401 || apiErr.Code == 403:
			return fmt.Errorf("gemini: invalid API key: %w", domain.ErrProviderAuth)
		}
	}
	return fmt.Errorf("gemini request: %w", err)
}
