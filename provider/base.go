package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/mattn/go-runewidth"

	"polyprompt/config"
	"polyprompt/model"
)

// previewLimit caps logged request/response text, ellipsis included.
const previewLimit = 100

// base carries what every backend shares: identity, a read-only pointer to its
// settings, and the logger. Backends embed it.
type base struct {
	id       model.Identity
	settings *config.ProviderSettings
	logger   *slog.Logger
	status   func(error) int
}

func newBase(id model.Identity, settings *config.ProviderSettings, logger *slog.Logger, status func(error) int) (base, error) {
	if settings == nil {
		return base{}, fmt.Errorf("no settings for provider %s", id)
	}
	if settings.MaxTokens < 0 {
		return base{}, fmt.Errorf("%s: max_tokens must not be negative (got %d)", id, settings.MaxTokens)
	}
	return base{
		id:       id,
		settings: settings,
		logger:   config.OrDiscard(logger),
		status:   status,
	}, nil
}

// GetName returns the display name, e.g. "Claude".
func (b *base) GetName() string {
	return config.DisplayName(b.id)
}

func (b *base) tag() string {
	return "[" + b.GetName() + "]"
}

func (b *base) maxTokens() int64 {
	if b.settings.MaxTokens == 0 {
		return config.DefaultMaxTokens
	}
	return int64(b.settings.MaxTokens)
}

func (b *base) logRequest(mode, modelName, outbound string) {
	b.logger.Debug(b.tag()+" sending "+mode, "model", modelName, "preview", preview(outbound))
}

func (b *base) logResponse(inbound string) {
	b.logger.Debug(b.tag()+" received response", "preview", preview(inbound))
}

// fail wraps a backend error into a TransportError and logs it.
func (b *base) fail(err error) error {
	status := 0
	if b.status != nil {
		status = b.status(err)
	}
	te := model.NewTransportError(b.GetName(), status, err)
	b.logger.Error(b.tag()+" request failed", "kind", te.Kind, "status", status, "error", err)
	return te
}

// complete runs one non-streaming request. An empty reply becomes
// model.NoResponse; any error is returned as a *model.TransportError.
func (b *base) complete(ctx context.Context, modelName, outbound string, call func(ctx context.Context) (string, error)) (string, error) {
	b.logRequest("message", modelName, outbound)

	text, err := call(ctx)
	if err != nil {
		return "", b.fail(withContextErr(ctx, err))
	}
	if text == "" {
		b.logger.Debug(b.tag() + " response carried no text content")
		return model.NoResponse, nil
	}

	b.logResponse(text)
	return text, nil
}

// streamCall runs one streaming request and passes every text delta to emit.
// emit returns false once the consumer has stopped or ctx is done; the
// implementation must then return promptly. Returning nil after emit said
// false is fine.
type streamCall func(ctx context.Context, emit func(chunk string) bool) error

// stream adapts a streamCall into a model.Stream. Empty deltas are dropped.
// When ctx is canceled mid-stream, delivery stops and a single canceled
// TransportError is yielded.
func (b *base) stream(ctx context.Context, modelName, outbound string, call streamCall) model.Stream {
	return func(yield func(string, error) bool) {
		b.logRequest("stream", modelName, outbound)

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		var (
			received strings.Builder
			stopped  bool
		)

		err := call(ctx, func(chunk string) bool {
			if stopped || ctx.Err() != nil {
				return false
			}
			if chunk == "" {
				return true
			}
			received.WriteString(chunk)
			if !yield(chunk, nil) {
				stopped = true
				cancel()
				return false
			}
			return true
		})

		if stopped {
			return
		}
		if ctx.Err() != nil {
			err = withContextErr(ctx, err)
		}
		if err != nil {
			yield("", b.fail(err))
			return
		}

		b.logResponse(received.String())
	}
}

// withContextErr makes sure a failure caused by ctx ending reports the
// context error through errors.Is, whatever the transport wrapped it in.
func withContextErr(ctx context.Context, err error) error {
	cerr := ctx.Err()
	switch {
	case cerr == nil:
		return err
	case err == nil:
		return cerr
	case errors.Is(err, cerr):
		return err
	default:
		return fmt.Errorf("%w: %v", cerr, err)
	}
}

// preview truncates s for logging to previewLimit cells, ellipsis included.
func preview(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	return runewidth.Truncate(s, previewLimit, "...")
}

// lastContent picks the text logged as the outbound preview of a chat.
func lastContent(turns []model.ChatTurn) string {
	if len(turns) == 0 {
		return ""
	}
	return turns[len(turns)-1].Content
}

// parseBaseURL accepts an empty string (SDK default) or an absolute http(s) URL.
func parseBaseURL(raw string) (*url.URL, error) {
	if raw == "" {
		return nil, nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid URL %q: %w", raw, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid URL %q: expected http(s)://host", raw)
	}
	return u, nil
}
