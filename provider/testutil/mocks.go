package testutil

import (
	"context"
	"strings"
	"sync"

	"polyprompt/model"
)

// MockProvider implements model.Provider for testing. Every method delegates
// to a replaceable func field; NewMockProvider fills in echoing defaults.
type MockProvider struct {
	Name       string
	Model      string
	Configured bool

	SendMessageFunc       func(ctx context.Context, text string) (string, error)
	SendMessageStreamFunc func(ctx context.Context, text string) model.Stream
	SendChatFunc          func(ctx context.Context, turns []model.ChatTurn) (string, error)
	SendChatStreamFunc    func(ctx context.Context, turns []model.ChatTurn) model.Stream

	mu      sync.Mutex
	prompts []string
}

// NewMockProvider creates a configured mock that answers "<name> says: <text>".
func NewMockProvider(name, modelName string) *MockProvider {
	m := &MockProvider{
		Name:       name,
		Model:      modelName,
		Configured: true,
	}
	m.SendMessageFunc = m.defaultSendMessage
	m.SendMessageStreamFunc = m.defaultSendMessageStream
	m.SendChatFunc = m.defaultSendChat
	m.SendChatStreamFunc = m.defaultSendChatStream
	return m
}

func (m *MockProvider) defaultSendMessage(ctx context.Context, text string) (string, error) {
	return m.Name + " says: " + text, nil
}

func (m *MockProvider) defaultSendMessageStream(ctx context.Context, text string) model.Stream {
	return ChunkStream(strings.Fields(m.Name + " says: " + text)...)
}

func (m *MockProvider) defaultSendChat(ctx context.Context, turns []model.ChatTurn) (string, error) {
	if len(turns) == 0 {
		return model.NoResponse, nil
	}
	return m.Name + " says: " + turns[len(turns)-1].Content, nil
}

func (m *MockProvider) defaultSendChatStream(ctx context.Context, turns []model.ChatTurn) model.Stream {
	text, _ := m.defaultSendChat(ctx, turns)
	return ChunkStream(text)
}

func (m *MockProvider) GetName() string    { return m.Name }
func (m *MockProvider) GetModel() string   { return m.Model }
func (m *MockProvider) IsConfigured() bool { return m.Configured }

func (m *MockProvider) SendMessage(ctx context.Context, text string) (string, error) {
	m.mu.Lock()
	m.prompts = append(m.prompts, text)
	m.mu.Unlock()
	return m.SendMessageFunc(ctx, text)
}

// Prompts returns every text passed to SendMessage, in call order.
func (m *MockProvider) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

func (m *MockProvider) SendMessageStream(ctx context.Context, text string) model.Stream {
	return m.SendMessageStreamFunc(ctx, text)
}

func (m *MockProvider) SendChat(ctx context.Context, turns []model.ChatTurn) (string, error) {
	return m.SendChatFunc(ctx, turns)
}

func (m *MockProvider) SendChatStream(ctx context.Context, turns []model.ChatTurn) model.Stream {
	return m.SendChatStreamFunc(ctx, turns)
}

// ChunkStream returns a stream yielding chunks in order.
func ChunkStream(chunks ...string) model.Stream {
	return func(yield func(string, error) bool) {
		for _, c := range chunks {
			if !yield(c, nil) {
				return
			}
		}
	}
}

// MockTools implements the dispatch tool collaborator with canned answers.
type MockTools struct {
	mu    sync.Mutex
	calls []string
}

func (m *MockTools) CallTool(ctx context.Context, name, params string) string {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	m.mu.Unlock()
	return "result of " + name + "(" + params + ")"
}

// Calls returns the names of every tool invoked, in call order.
func (m *MockTools) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}
