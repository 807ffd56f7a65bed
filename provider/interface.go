// Package provider implements model.Provider for every supported chat backend
// and the registry that decides which of them are usable.
//
// polyprompt talks to several hosted LLM APIs (Claude, OpenAI, Azure OpenAI,
// Gemini) and a local Ollama server through the one model.Provider contract,
// so the dispatch layer and the CLI never see SDK types.
//
// # Architecture
//
//   - model.Provider defines the contract (interface)
//   - ClaudeProvider wraps anthropic-sdk-go
//   - OpenAIProvider, AzureOpenAIProvider and GeminiProvider share the
//     openai-go chat completions client
//   - OllamaProvider wraps the ollama package client
//   - NewProvider() is the factory that maps an identity to its constructor
//   - BuildRegistry() / InitializeRegistry() build every provider best-effort
//
// # Usage
//
//	cfg, _ := config.Load("")
//	reg := provider.InitializeRegistry(cfg, logger)
//	p, err := reg.GetDefaultProvider()
//	if err != nil {
//	    // handle error
//	}
//	answer, err := p.SendMessage(ctx, "Hello")
package provider

import "polyprompt/model"

// Builder constructs one provider. BuildRegistry runs each builder in
// isolation, so a builder may fail or panic without affecting the others.
type Builder func() (model.Provider, error)

var (
	_ model.Provider = (*ClaudeProvider)(nil)
	_ model.Provider = (*OpenAIProvider)(nil)
	_ model.Provider = (*AzureOpenAIProvider)(nil)
	_ model.Provider = (*GeminiProvider)(nil)
	_ model.Provider = (*OllamaProvider)(nil)

	_ model.Pinger = (*ClaudeProvider)(nil)
	_ model.Pinger = (*OpenAIProvider)(nil)
	_ model.Pinger = (*AzureOpenAIProvider)(nil)
	_ model.Pinger = (*GeminiProvider)(nil)
	_ model.Pinger = (*OllamaProvider)(nil)

	_ model.ModelLister = (*ClaudeProvider)(nil)
	_ model.ModelLister = (*OpenAIProvider)(nil)
	_ model.ModelLister = (*AzureOpenAIProvider)(nil)
	_ model.ModelLister = (*GeminiProvider)(nil)
	_ model.ModelLister = (*OllamaProvider)(nil)
)
