package provider

import (
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"polyprompt/config"
	"polyprompt/model"
)

// GeminiProvider uses Gemini's OpenAI-compatible endpoint, so it shares the
// chat completions client with the OpenAI backends.
type GeminiProvider struct {
	chatCompletions
}

func NewGeminiProvider(settings *config.ProviderSettings, logger *slog.Logger) (*GeminiProvider, error) {
	b, err := newBase(model.IdentityGemini, settings, logger, openaiStatus)
	if err != nil {
		return nil, err
	}

	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL(model.IdentityGemini)
	}
	if _, err := parseBaseURL(baseURL); err != nil {
		return nil, fmt.Errorf("gemini: %w", err)
	}

	p := &GeminiProvider{}
	p.chatCompletions = chatCompletions{
		base: b,
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(settings.APIKey),
		),
		modelFor: p.GetModel,
	}
	return p, nil
}

func (p *GeminiProvider) GetModel() string {
	if p.settings.Model == "" {
		return config.DefaultGeminiModel
	}
	return p.settings.Model
}

func (p *GeminiProvider) IsConfigured() bool {
	return p.settings.APIKey != ""
}
