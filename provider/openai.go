package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"polyprompt/config"
	"polyprompt/model"
)

// chatCompletions is the shared implementation for every backend reachable
// through the OpenAI chat completions API. Embedders supply GetModel and
// IsConfigured.
type chatCompletions struct {
	base
	client   openai.Client
	modelFor func() string
}

func (c *chatCompletions) SendMessage(ctx context.Context, text string) (string, error) {
	return c.SendChat(ctx, []model.ChatTurn{model.UserTurn(text)})
}

func (c *chatCompletions) SendMessageStream(ctx context.Context, text string) model.Stream {
	return c.SendChatStream(ctx, []model.ChatTurn{model.UserTurn(text)})
}

func (c *chatCompletions) SendChat(ctx context.Context, turns []model.ChatTurn) (string, error) {
	params := c.params(turns)

	return c.complete(ctx, c.modelFor(), lastContent(turns), func(ctx context.Context) (string, error) {
		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", nil
		}
		return resp.Choices[0].Message.Content, nil
	})
}

func (c *chatCompletions) SendChatStream(ctx context.Context, turns []model.ChatTurn) model.Stream {
	params := c.params(turns)

	return c.stream(ctx, c.modelFor(), lastContent(turns), func(ctx context.Context, emit func(string) bool) error {
		stream := c.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			chunk := stream.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			if !emit(chunk.Choices[0].Delta.Content) {
				return nil
			}
		}
		return stream.Err()
	})
}

// ListModels lists the models visible to the configured key.
func (c *chatCompletions) ListModels(ctx context.Context) ([]model.ModelInfo, error) {
	page, err := c.client.Models.List(ctx)
	if err != nil {
		return nil, c.fail(err)
	}

	result := make([]model.ModelInfo, 0, len(page.Data))
	for _, m := range page.Data {
		result = append(result, model.ModelInfo{Name: m.ID, Provider: c.id})
	}
	return result, nil
}

// Ping implements model.Pinger by attempting to list models.
func (c *chatCompletions) Ping(ctx context.Context) error {
	if _, err := c.client.Models.List(ctx); err != nil {
		return c.fail(err)
	}
	return nil
}

func (c *chatCompletions) params(turns []model.ChatTurn) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Model:     openai.ChatModel(c.modelFor()),
		Messages:  toOpenAIMessages(c.normalizeTurns(turns)),
		MaxTokens: openai.Int(c.maxTokens()),
	}
}

func openaiStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// OpenAIProvider implements model.Provider using OpenAI's official Go SDK.
type OpenAIProvider struct {
	chatCompletions
}

// NewOpenAIProvider creates an OpenAI provider bound to settings. The optional
// organization and base URL are passed through to the client.
func NewOpenAIProvider(settings *config.ProviderSettings, logger *slog.Logger) (*OpenAIProvider, error) {
	b, err := newBase(model.IdentityOpenAI, settings, logger, openaiStatus)
	if err != nil {
		return nil, err
	}

	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultBaseURL(model.IdentityOpenAI)
	}
	if _, err := parseBaseURL(baseURL); err != nil {
		return nil, fmt.Errorf("openai: %w", err)
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(settings.APIKey),
	}
	if settings.Organization != "" {
		opts = append(opts, option.WithOrganization(settings.Organization))
	}

	p := &OpenAIProvider{}
	p.chatCompletions = chatCompletions{
		base:     b,
		client:   openai.NewClient(opts...),
		modelFor: p.GetModel,
	}
	return p, nil
}

func (p *OpenAIProvider) GetModel() string {
	if p.settings.Model == "" {
		return config.DefaultOpenAIModel
	}
	return p.settings.Model
}

func (p *OpenAIProvider) IsConfigured() bool {
	return p.settings.APIKey != ""
}
