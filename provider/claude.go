package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"polyprompt/config"
	"polyprompt/model"
)

// ClaudeProvider implements model.Provider using Anthropic's official Go SDK.
type ClaudeProvider struct {
	base
	client anthropic.Client
}

// NewClaudeProvider creates a Claude provider bound to settings.
//
// An empty API key is accepted; the provider then reports IsConfigured false.
// Construction fails only for a malformed base URL or negative max tokens.
func NewClaudeProvider(settings *config.ProviderSettings, logger *slog.Logger) (*ClaudeProvider, error) {
	b, err := newBase(model.IdentityClaude, settings, logger, anthropicStatus)
	if err != nil {
		return nil, err
	}

	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL(model.IdentityClaude)
	}
	if _, err := parseBaseURL(baseURL); err != nil {
		return nil, fmt.Errorf("claude: %w", err)
	}

	client := anthropic.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(settings.APIKey),
	)

	return &ClaudeProvider{base: b, client: client}, nil
}

func (p *ClaudeProvider) GetModel() string {
	if p.settings.Model == "" {
		return config.DefaultClaudeModel
	}
	return p.settings.Model
}

func (p *ClaudeProvider) IsConfigured() bool {
	return p.settings.APIKey != ""
}

func (p *ClaudeProvider) SendMessage(ctx context.Context, text string) (string, error) {
	return p.SendChat(ctx, []model.ChatTurn{model.UserTurn(text)})
}

func (p *ClaudeProvider) SendMessageStream(ctx context.Context, text string) model.Stream {
	return p.SendChatStream(ctx, []model.ChatTurn{model.UserTurn(text)})
}

func (p *ClaudeProvider) SendChat(ctx context.Context, turns []model.ChatTurn) (string, error) {
	params := p.params(turns)

	return p.complete(ctx, p.GetModel(), lastContent(turns), func(ctx context.Context) (string, error) {
		msg, err := p.client.Messages.New(ctx, params)
		if err != nil {
			return "", err
		}
		return firstText(msg.Content), nil
	})
}

func (p *ClaudeProvider) SendChatStream(ctx context.Context, turns []model.ChatTurn) model.Stream {
	params := p.params(turns)

	return p.stream(ctx, p.GetModel(), lastContent(turns), func(ctx context.Context, emit func(string) bool) error {
		stream := p.client.Messages.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			event := stream.Current()
			switch ev := event.AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				if delta, ok := ev.Delta.AsAny().(anthropic.TextDelta); ok {
					if !emit(delta.Text) {
						return nil
					}
				}
			}
		}
		return stream.Err()
	})
}

// ListModels asks the Models API for the models this key can use.
func (p *ClaudeProvider) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	page, err := p.client.Models.List(ctx, anthropic.ModelListParams{})
	if err != nil {
		return nil, p.fail(err)
	}

	result := make([]model.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		result = append(result, model.ModelInfo{Name: m.ID, Provider: p.id})
	}
	return result, nil
}

// Ping checks credentials with a one-entry model listing instead of spending
// a completion.
func (p *ClaudeProvider) Ping(ctx context.Context) error {
	_, err := p.client.Models.List(ctx, anthropic.ModelListParams{Limit: anthropic.Int(1)})
	if err != nil {
		return p.fail(err)
	}
	return nil
}

func (p *ClaudeProvider) params(turns []model.ChatTurn) anthropic.MessageNewParams {
	return anthropic.MessageNewParams{
		Model:     anthropic.Model(p.GetModel()),
		MaxTokens: p.maxTokens(),
		Messages:  toAnthropicMessages(p.normalizeTurns(turns)),
	}
}

// firstText returns the first text block of a reply, or "" when there is none.
func firstText(content []anthropic.ContentBlockUnion) string {
	for _, block := range content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			return tb.Text
		}
	}
	return ""
}

func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
