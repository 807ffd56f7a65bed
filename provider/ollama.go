package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ollama/ollama/api"

	"polyprompt/config"
	"polyprompt/model"
	"polyprompt/ollama"
)

// errStreamStopped is returned from the chunk callback to abort an Ollama
// stream once the consumer has stopped reading.
var errStreamStopped = errors.New("stream stopped by consumer")

// OllamaProvider wraps the ollama.Client to implement model.Provider against a
// local Ollama server. It is configured when a host is set.
type OllamaProvider struct {
	base
	client *ollama.Client
}

// NewOllamaProvider creates an Ollama provider. With an empty host the client
// points at the default local address but IsConfigured reports false.
func NewOllamaProvider(settings *config.ProviderSettings, logger *slog.Logger) (*OllamaProvider, error) {
	b, err := newBase(model.IdentityOllama, settings, logger, ollamaStatus)
	if err != nil {
		return nil, err
	}

	client, err := ollama.NewClient(settings.Host, settings.Model, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Ollama client: %w", err)
	}

	return &OllamaProvider{base: b, client: client}, nil
}

func (p *OllamaProvider) GetModel() string {
	return p.client.GetModel()
}

func (p *OllamaProvider) IsConfigured() bool {
	return p.settings.Host != ""
}

func (p *OllamaProvider) SendMessage(ctx context.Context, text string) (string, error) {
	return p.SendChat(ctx, []model.ChatTurn{model.UserTurn(text)})
}

func (p *OllamaProvider) SendMessageStream(ctx context.Context, text string) model.Stream {
	return p.SendChatStream(ctx, []model.ChatTurn{model.UserTurn(text)})
}

func (p *OllamaProvider) SendChat(ctx context.Context, turns []model.ChatTurn) (string, error) {
	msgs := toOllamaMessages(p.normalizeTurns(turns))

	return p.complete(ctx, p.GetModel(), lastContent(turns), func(ctx context.Context) (string, error) {
		var sb strings.Builder
		err := p.client.Chat(ctx, msgs, int(p.maxTokens()), false, func(chunk string) error {
			sb.WriteString(chunk)
			return nil
		})
		return sb.String(), err
	})
}

func (p *OllamaProvider) SendChatStream(ctx context.Context, turns []model.ChatTurn) model.Stream {
	msgs := toOllamaMessages(p.normalizeTurns(turns))

	return p.stream(ctx, p.GetModel(), lastContent(turns), func(ctx context.Context, emit func(string) bool) error {
		err := p.client.Chat(ctx, msgs, int(p.maxTokens()), true, func(chunk string) error {
			if !emit(chunk) {
				return errStreamStopped
			}
			return nil
		})
		if errors.Is(err, errStreamStopped) {
			return nil
		}
		return err
	})
}

// ListModels lists the models pulled on the Ollama server.
func (p *OllamaProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	models, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, p.fail(err)
	}

	result := make([]model.ModelInfo, len(models))
	for i, m := range models {
		result[i] = model.ModelInfo{Name: m.Name, Size: m.Size, Provider: p.id}
	}
	return result, nil
}

func (p *OllamaProvider) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return p.fail(err)
	}
	return nil
}

func ollamaStatus(err error) int {
	var statusErr api.StatusError
	if errors.As(err, &statusErr) {
		return statusErr.StatusCode
	}
	return 0
}
