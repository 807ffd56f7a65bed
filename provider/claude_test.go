package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/anthropics/anthropic-sdk-go"

	"polyprompt/model"
	"polyprompt/provider/testutil"
)

const claudeEmptyMessage = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":0}}`

const claudeTextMessage = `{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[{"type":"text","text":"Hi there"},{"type":"text","text":"ignored"}],"stop_reason":"end_turn","stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":2}}`

func newClaudeServer(t *testing.T, captured *capturedRequest, handler func(w http.ResponseWriter, r *http.Request)) (*ClaudeProvider, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.record(t, r)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewClaudeProvider(testutil.ConfiguredSettings(model.IdentityClaude, server.URL), nil)
	if err != nil {
		t.Fatalf("NewClaudeProvider() error = %v", err)
	}
	return p, server
}

func TestClaudeSendMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"first text block", claudeTextMessage, "Hi there"},
		{"no text block", claudeEmptyMessage, model.NoResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			captured := &capturedRequest{}
			p, _ := newClaudeServer(t, captured, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, tt.body)
			})

			got, err := p.SendMessage(context.Background(), "Hello")
			if err != nil {
				t.Fatalf("SendMessage() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("SendMessage() = %q, want %q", got, tt.want)
			}

			path, header, body := captured.get()
			if path != "/v1/messages" {
				t.Errorf("path = %q, want /v1/messages", path)
			}
			if header.Get("X-Api-Key") != "test-key" {
				t.Errorf("X-Api-Key = %q, want test-key", header.Get("X-Api-Key"))
			}
			if body["model"] != "claude-test" {
				t.Errorf("model = %v, want claude-test", body["model"])
			}
			if body["max_tokens"] != float64(64) {
				t.Errorf("max_tokens = %v, want 64", body["max_tokens"])
			}
			if roles := messageRoles(body); len(roles) != 1 || roles[0] != "user" {
				t.Errorf("roles = %v, want [user]", roles)
			}
		})
	}
}

func TestClaudeSendChatCoercesRoles(t *testing.T) {
	captured := &capturedRequest{}
	p, _ := newClaudeServer(t, captured, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, claudeTextMessage)
	})

	turns := append(testutil.TestTurns(), testutil.TurnsWithUnknownRole()...)
	if _, err := p.SendChat(context.Background(), turns); err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}

	_, _, body := captured.get()
	want := []string{"user", "assistant", "user", "user", "user"}
	got := messageRoles(body)
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("roles = %v, want %v", got, want)
	}
}

func TestClaudeAuthFailureIsTransportError(t *testing.T) {
	p, _ := newClaudeServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`)
	})

	got, err := p.SendMessage(context.Background(), "Hello")
	if err == nil {
		t.Fatal("expected error")
	}
	if got != "" {
		t.Errorf("SendMessage() text = %q, failures must not become text", got)
	}

	var te *model.TransportError
	if !errors.As(err, &te) {
		t.Fatalf("error %T is not a *model.TransportError", err)
	}
	if te.Kind != model.KindAuth || te.HTTPStatus != http.StatusUnauthorized {
		t.Errorf("kind = %s status = %d, want auth 401", te.Kind, te.HTTPStatus)
	}
	if te.Provider != "Claude" {
		t.Errorf("Provider = %q, want Claude", te.Provider)
	}

	var apiErr *anthropic.Error
	if !errors.As(err, &apiErr) {
		t.Error("SDK error should stay reachable through errors.As")
	}
}

func TestClaudeSendMessageStream(t *testing.T) {
	p, _ := newClaudeServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		writeSSE(w, "message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","model":"claude-test","content":[],"stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":0}}}`)
		writeSSE(w, "content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`)
		writeSSE(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Hel"}}`)
		writeSSE(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":""}}`)
		writeSSE(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"lo"}}`)
		writeSSE(w, "content_block_stop", `{"type":"content_block_stop","index":0}`)
		writeSSE(w, "message_delta", `{"type":"message_delta","delta":{"stop_reason":"end_turn","stop_sequence":null},"usage":{"output_tokens":2}}`)
		writeSSE(w, "message_stop", `{"type":"message_stop"}`)
	})

	var chunks []string
	for chunk, err := range p.SendMessageStream(context.Background(), "Hello") {
		if err != nil {
			t.Fatalf("stream error = %v", err)
		}
		chunks = append(chunks, chunk)
	}

	if strings.Join(chunks, "|") != "Hel|lo" {
		t.Errorf("chunks = %q, want [Hel lo]", chunks)
	}
}
