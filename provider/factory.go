package provider

import (
	"fmt"
	"log/slog"

	"polyprompt/config"
	"polyprompt/model"
)

// NewProvider creates the provider for id bound to settings.
//
// This is the centralized factory for every backend. The switch is exhaustive
// over model.AllIdentities; anything else is an error.
//
// Returns an error if:
//   - The identity is unknown
//   - settings is nil
//   - The provider-specific constructor fails (e.g., malformed endpoint)
//
// Example:
//
//	p, err := provider.NewProvider(model.IdentityClaude, &cfg.Claude, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
func NewProvider(id model.Identity, settings *config.ProviderSettings, logger *slog.Logger) (model.Provider, error) {
	var (
		p   model.Provider
		err error
	)

	// Each branch assigns through a typed variable so a failed constructor
	// never yields a non-nil interface wrapping a nil pointer.
	switch id {
	case model.IdentityClaude:
		var c *ClaudeProvider
		if c, err = NewClaudeProvider(settings, logger); err == nil {
			p = c
		}
	case model.IdentityOpenAI:
		var o *OpenAIProvider
		if o, err = NewOpenAIProvider(settings, logger); err == nil {
			p = o
		}
	case model.IdentityAzureOpenAI:
		var a *AzureOpenAIProvider
		if a, err = NewAzureOpenAIProvider(settings, logger); err == nil {
			p = a
		}
	case model.IdentityGemini:
		var g *GeminiProvider
		if g, err = NewGeminiProvider(settings, logger); err == nil {
			p = g
		}
	case model.IdentityOllama:
		var o *OllamaProvider
		if o, err = NewOllamaProvider(settings, logger); err == nil {
			p = o
		}
	default:
		return nil, fmt.Errorf("unknown provider type: %s", id)
	}

	if err != nil {
		return nil, err
	}
	return p, nil
}
