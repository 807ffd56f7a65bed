// Package dispatch routes prompts to providers: one provider directly, the
// default provider, a two-step chain, a side-by-side comparison, or a
// provider assisted by the tool gateway.
package dispatch

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"polyprompt/config"
	"polyprompt/model"
)

// ProviderSource is the part of the provider registry the service needs.
// *provider.Registry satisfies it.
type ProviderSource interface {
	GetProvider(id model.Identity) (model.Provider, error)
	GetDefaultProvider() (model.Provider, error)
	GetAvailableProviders() []model.Identity
	GetAvailableProviderNames() []string
}

// ToolCaller runs a named tool with free-text parameters. Failures come back
// as text, never as an error.
type ToolCaller interface {
	CallTool(ctx context.Context, name, params string) string
}

// Service is safe for concurrent use as long as its ProviderSource is.
type Service struct {
	providers ProviderSource
	tools     ToolCaller
	logger    *slog.Logger
}

// New creates a dispatch service. tools may be nil, in which case
// ProcessWithTools fails with ErrNoToolGateway.
func New(providers ProviderSource, tools ToolCaller, logger *slog.Logger) *Service {
	return &Service{
		providers: providers,
		tools:     tools,
		logger:    config.OrDiscard(logger),
	}
}

// ProcessWithProvider sends text to the provider registered under id.
func (s *Service) ProcessWithProvider(ctx context.Context, id model.Identity, text string) (string, error) {
	log := s.begin("ProcessWithProvider", "provider", id)

	p, err := s.providers.GetProvider(id)
	if err != nil {
		return "", s.failed(log, "provider lookup failed", err)
	}
	return s.send(ctx, log, p, text)
}

// ProcessWithDefaultProvider sends text to the default provider, or to the
// first configured one when the default is unavailable.
func (s *Service) ProcessWithDefaultProvider(ctx context.Context, text string) (string, error) {
	log := s.begin("ProcessWithDefaultProvider")

	p, err := s.providers.GetDefaultProvider()
	if err != nil {
		return "", s.failed(log, "no default provider", err)
	}
	return s.send(ctx, log, p, text)
}

// ProcessWithProviderStream streams the reply of provider id. A lookup failure
// is yielded as the stream's only value.
func (s *Service) ProcessWithProviderStream(ctx context.Context, id model.Identity, text string) model.Stream {
	log := s.begin("ProcessWithProviderStream", "provider", id)

	p, err := s.providers.GetProvider(id)
	if err != nil {
		return model.ErrorStream(s.failed(log, "provider lookup failed", err))
	}

	return func(yield func(string, error) bool) {
		for chunk, err := range p.SendMessageStream(ctx, text) {
			if err != nil {
				yield("", s.failed(log, "stream failed", err))
				return
			}
			if !yield(chunk, nil) {
				return
			}
		}
	}
}

// ProcessChat sends a whole conversation to provider id.
func (s *Service) ProcessChat(ctx context.Context, id model.Identity, turns []model.ChatTurn) (string, error) {
	log := s.begin("ProcessChat", "provider", id, "turns", len(turns))

	p, err := s.providers.GetProvider(id)
	if err != nil {
		return "", s.failed(log, "provider lookup failed", err)
	}

	reply, err := p.SendChat(ctx, turns)
	if err != nil {
		return "", s.failed(log, "chat failed", err, "provider", p.GetName())
	}
	return reply, nil
}

func (s *Service) GetAvailableProviderNames() []string {
	return s.providers.GetAvailableProviderNames()
}

func (s *Service) GetAvailableProviderTypes() []model.Identity {
	return s.providers.GetAvailableProviders()
}

// begin logs the start of an operation and returns a logger carrying its
// request id.
func (s *Service) begin(op string, args ...any) *slog.Logger {
	log := s.logger.With("request_id", uuid.New().String(), "op", op)
	log.Info("[Dispatch] processing request", args...)
	return log
}

func (s *Service) failed(log *slog.Logger, msg string, err error, args ...any) error {
	log.Error("[Dispatch] "+msg, append(args, "error", err)...)
	return err
}

func (s *Service) send(ctx context.Context, log *slog.Logger, p model.Provider, text string) (string, error) {
	reply, err := p.SendMessage(ctx, text)
	if err != nil {
		return "", s.failed(log, "request failed", err, "provider", p.GetName())
	}
	log.Debug("[Dispatch] request completed", "provider", p.GetName())
	return reply, nil
}
