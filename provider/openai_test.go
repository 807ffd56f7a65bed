package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"polyprompt/model"
	"polyprompt/provider/testutil"
)

const chatCompletionBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"gpt-test","choices":[{"index":0,"message":{"role":"assistant","content":"Hi from the API"},"finish_reason":"stop","logprobs":null}],"usage":{"prompt_tokens":1,"completion_tokens":4,"total_tokens":5}}`

const emptyChatCompletionBody = `{"id":"chatcmpl-1","object":"chat.completion","created":1700000000,"model":"gpt-test","choices":[{"index":0,"message":{"role":"assistant","content":""},"finish_reason":"stop","logprobs":null}],"usage":{"prompt_tokens":1,"completion_tokens":0,"total_tokens":1}}`

func chunkJSON(content string) string {
	return `{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-test","choices":[{"index":0,"delta":{"content":"` + content + `"},"finish_reason":null}]}`
}

func newChatServer(t *testing.T, captured *capturedRequest, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.record(t, r)
		}
		handler(w, r)
	}))
	t.Cleanup(server.Close)
	return server
}

func newChatProvider(t *testing.T, id model.Identity, url string) model.Provider {
	t.Helper()
	p, err := NewProvider(id, testutil.ConfiguredSettings(id, url), nil)
	if err != nil {
		t.Fatalf("NewProvider(%s) error = %v", id, err)
	}
	return p
}

func TestChatCompletionsBackends(t *testing.T) {
	tests := []struct {
		id        model.Identity
		wantPath  string
		wantModel string
		checkAuth func(h http.Header) bool
	}{
		{
			id:        model.IdentityOpenAI,
			wantPath:  "/chat/completions",
			wantModel: "gpt-test",
			checkAuth: func(h http.Header) bool { return h.Get("Authorization") == "Bearer test-key" },
		},
		{
			id:        model.IdentityGemini,
			wantPath:  "/chat/completions",
			wantModel: "gemini-test",
			checkAuth: func(h http.Header) bool { return h.Get("Authorization") == "Bearer test-key" },
		},
		{
			id:        model.IdentityAzureOpenAI,
			wantPath:  "/openai/deployments/deploy-test/chat/completions",
			wantModel: "deploy-test",
			checkAuth: func(h http.Header) bool { return h.Get("Api-Key") == "test-key" },
		},
	}

	for _, tt := range tests {
		t.Run(string(tt.id), func(t *testing.T) {
			captured := &capturedRequest{}
			server := newChatServer(t, captured, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, chatCompletionBody)
			})

			p := newChatProvider(t, tt.id, server.URL)
			if !p.IsConfigured() {
				t.Fatal("IsConfigured() = false, want true")
			}
			if p.GetModel() != tt.wantModel {
				t.Errorf("GetModel() = %q, want %q", p.GetModel(), tt.wantModel)
			}

			got, err := p.SendMessage(context.Background(), "Hello")
			if err != nil {
				t.Fatalf("SendMessage() error = %v", err)
			}
			if got != "Hi from the API" {
				t.Errorf("SendMessage() = %q", got)
			}

			path, header, body := captured.get()
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
			if !tt.checkAuth(header) {
				t.Errorf("missing credentials header: %v", header)
			}
			if body["model"] != tt.wantModel {
				t.Errorf("model = %v, want %q", body["model"], tt.wantModel)
			}
			if body["max_tokens"] != float64(64) {
				t.Errorf("max_tokens = %v, want 64", body["max_tokens"])
			}
		})
	}
}

func TestAzureSendsAPIVersion(t *testing.T) {
	captured := &capturedRequest{}
	server := newChatServer(t, captured, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatCompletionBody)
	})

	p := newChatProvider(t, model.IdentityAzureOpenAI, server.URL)
	if _, err := p.SendMessage(context.Background(), "Hello"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	captured.mu.Lock()
	query := captured.query
	captured.mu.Unlock()
	if !strings.Contains(query, "api-version=2024-02-01") {
		t.Errorf("query = %q, want api-version=2024-02-01", query)
	}
}

func TestOpenAIEmptyContentReturnsSentinel(t *testing.T) {
	server := newChatServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, emptyChatCompletionBody)
	})

	p := newChatProvider(t, model.IdentityOpenAI, server.URL)
	got, err := p.SendMessage(context.Background(), "Hello")
	if err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if got != model.NoResponse {
		t.Errorf("SendMessage() = %q, want %q", got, model.NoResponse)
	}
}

func TestOpenAISendChatCoercesRoles(t *testing.T) {
	captured := &capturedRequest{}
	server := newChatServer(t, captured, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatCompletionBody)
	})

	p := newChatProvider(t, model.IdentityOpenAI, server.URL)
	if _, err := p.SendChat(context.Background(), testutil.TurnsWithUnknownRole()); err != nil {
		t.Fatalf("SendChat() error = %v", err)
	}

	_, _, body := captured.get()
	if got := strings.Join(messageRoles(body), ","); got != "user,user" {
		t.Errorf("roles = %s, want user,user", got)
	}
}

func TestOpenAIErrorKinds(t *testing.T) {
	tests := []struct {
		status int
		want   model.TransportErrorKind
	}{
		{http.StatusUnauthorized, model.KindAuth},
		{http.StatusForbidden, model.KindAuth},
		{http.StatusBadRequest, model.KindBadRequest},
		{http.StatusNotFound, model.KindBadRequest},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := newChatServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, `{"error":{"message":"nope","type":"invalid_request_error","param":null,"code":null}}`)
			})

			p := newChatProvider(t, model.IdentityOpenAI, server.URL)
			_, err := p.SendMessage(context.Background(), "Hello")

			var te *model.TransportError
			if !errors.As(err, &te) {
				t.Fatalf("error = %v, want *model.TransportError", err)
			}
			if te.Kind != tt.want {
				t.Errorf("Kind = %s, want %s", te.Kind, tt.want)
			}
			if te.HTTPStatus != tt.status {
				t.Errorf("HTTPStatus = %d, want %d", te.HTTPStatus, tt.status)
			}
		})
	}
}

func TestOpenAIStream(t *testing.T) {
	server := newChatServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		writeSSE(w, "", chunkJSON("Hello"))
		writeSSE(w, "", chunkJSON(""))
		writeSSE(w, "", chunkJSON(" world"))
		writeSSE(w, "", `{"id":"chatcmpl-1","object":"chat.completion.chunk","created":1700000000,"model":"gpt-test","choices":[]}`)
		writeSSE(w, "", "[DONE]")
	})

	p := newChatProvider(t, model.IdentityOpenAI, server.URL)

	var chunks []string
	for chunk, err := range p.SendChatStream(context.Background(), testutil.TestTurns()) {
		if err != nil {
			t.Fatalf("stream error = %v", err)
		}
		chunks = append(chunks, chunk)
	}
	if strings.Join(chunks, "|") != "Hello| world" {
		t.Errorf("chunks = %q, want [Hello  world]", chunks)
	}

	// A second range re-issues the request.
	text, err := model.Collect(p.SendChatStream(context.Background(), testutil.TestTurns()))
	if err != nil || text != "Hello world" {
		t.Errorf("Collect() = %q, %v", text, err)
	}
}

// blockingStreamServer sends one chunk and then holds the connection open
// until the client goes away.
func blockingStreamServer(t *testing.T) *httptest.Server {
	return newChatServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)
		writeSSE(w, "", chunkJSON("first"))
		select {
		case <-r.Context().Done():
		case <-time.After(10 * time.Second):
		}
	})
}

func TestStreamCancellation(t *testing.T) {
	server := blockingStreamServer(t)
	p := newChatProvider(t, model.IdentityOpenAI, server.URL)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		chunks []string
		errs   []error
	)
	for chunk, err := range p.SendMessageStream(ctx, "Hello") {
		if err != nil {
			errs = append(errs, err)
			continue
		}
		chunks = append(chunks, chunk)
		cancel()
	}

	if len(chunks) != 1 || chunks[0] != "first" {
		t.Errorf("chunks = %q, want [first]", chunks)
	}
	if len(errs) != 1 {
		t.Fatalf("errors = %v, want exactly one", errs)
	}

	var te *model.TransportError
	if !errors.As(errs[0], &te) || te.Kind != model.KindCanceled {
		t.Errorf("error = %v, want canceled TransportError", errs[0])
	}
	if !errors.Is(errs[0], context.Canceled) {
		t.Error("error should match context.Canceled")
	}
}

func TestStreamConsumerStop(t *testing.T) {
	server := blockingStreamServer(t)
	p := newChatProvider(t, model.IdentityOpenAI, server.URL)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for _, err := range p.SendMessageStream(context.Background(), "Hello") {
			if err != nil {
				t.Errorf("unexpected error after break: %v", err)
			}
			break
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("breaking out of the stream did not release the request")
	}
}

func TestRequestPreviewLogging(t *testing.T) {
	server := newChatServer(t, nil, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, chatCompletionBody)
	})

	logger, sink := debugLogger()
	p, err := NewOpenAIProvider(testutil.ConfiguredSettings(model.IdentityOpenAI, server.URL), logger)
	if err != nil {
		t.Fatalf("NewOpenAIProvider() error = %v", err)
	}

	long := strings.Repeat("a", 150) + "TAIL"
	if _, err := p.SendMessage(context.Background(), long); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}

	out := sink.String()
	if strings.Contains(out, "TAIL") {
		t.Error("outbound preview was not truncated")
	}
	if !strings.Contains(out, strings.Repeat("a", 97)+"...") {
		t.Errorf("log output missing truncated preview:\n%s", out)
	}
	if !strings.Contains(out, "Hi from the API") {
		t.Errorf("log output missing inbound preview:\n%s", out)
	}
}
