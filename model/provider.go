package model

import (
	"context"
)

// NoResponse is returned as the reply text when a backend call succeeds but the
// response carries no text content. It is never used to report a failure.
const NoResponse = "No response received"

// Provider abstracts one hosted chat-completion backend (Claude, OpenAI, Azure
// OpenAI, Gemini, Ollama) behind provider-agnostic types.
//
// This interface is defined in the model package (not provider package) so that
// the dispatch layer and test doubles can depend on it without importing the
// concrete SDK-backed implementations.
type Provider interface {
	// GetName returns the stable display name of the backend (e.g., "Claude").
	GetName() string

	// GetModel returns the model identifier bound to this provider. For Azure
	// OpenAI this is the deployment name.
	GetModel() string

	// IsConfigured reports whether the required credential fields are present.
	// It is evaluated on every call and never cached.
	IsConfigured() bool

	// SendMessage sends a single user turn and returns the first text content of
	// the reply, or NoResponse when the reply has no text.
	SendMessage(ctx context.Context, text string) (string, error)

	// SendMessageStream is the streaming form of SendMessage.
	SendMessageStream(ctx context.Context, text string) Stream

	// SendChat sends an explicit, chronologically ordered conversation.
	SendChat(ctx context.Context, turns []ChatTurn) (string, error)

	// SendChatStream is the streaming form of SendChat.
	SendChatStream(ctx context.Context, turns []ChatTurn) Stream
}

// ModelInfo describes one model a backend offers.
type ModelInfo struct {
	Name     string
	Provider Identity
	Size     int64 // bytes on disk; Ollama only
}

// Pinger is implemented by providers that can check connectivity without
// spending a completion.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ModelLister is implemented by providers whose backend can enumerate models.
type ModelLister interface {
	ListModels(ctx context.Context) ([]ModelInfo, error)
}
