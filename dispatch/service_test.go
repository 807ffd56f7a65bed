package dispatch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polyprompt/model"
	"polyprompt/provider"
	"polyprompt/provider/testutil"
)

func registryOf(defaultID model.Identity, mocks map[model.Identity]*testutil.MockProvider) *provider.Registry {
	builders := make(map[model.Identity]provider.Builder, len(mocks))
	for id, m := range mocks {
		builders[id] = func() (model.Provider, error) { return m, nil }
	}
	return provider.BuildRegistry(defaultID, builders, nil)
}

func TestProcessWithProvider(t *testing.T) {
	claude := testutil.NewMockProvider("Claude", "claude-test")
	off := testutil.NewMockProvider("OpenAI", "gpt-test")
	off.Configured = false

	svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
		model.IdentityClaude: claude,
		model.IdentityOpenAI: off,
	}), nil, nil)
	ctx := context.Background()

	t.Run("configured provider answers", func(t *testing.T) {
		got, err := svc.ProcessWithProvider(ctx, model.IdentityClaude, "Hi")
		require.NoError(t, err)
		assert.Equal(t, "Claude says: Hi", got)
	})

	t.Run("unconfigured provider", func(t *testing.T) {
		_, err := svc.ProcessWithProvider(ctx, model.IdentityOpenAI, "Hi")
		var nae *model.NotAvailableError
		require.ErrorAs(t, err, &nae)
		assert.Equal(t, model.IdentityOpenAI, nae.Identity)
		assert.Empty(t, off.Prompts())
	})

	t.Run("unregistered provider", func(t *testing.T) {
		_, err := svc.ProcessWithProvider(ctx, model.IdentityGemini, "Hi")
		assert.ErrorIs(t, err, model.ErrProviderNotAvailable)
	})

	t.Run("transport errors propagate", func(t *testing.T) {
		boom := model.NewTransportError("Claude", 500, errors.New("boom"))
		orig := claude.SendMessageFunc
		claude.SendMessageFunc = func(ctx context.Context, text string) (string, error) {
			return "", boom
		}
		defer func() { claude.SendMessageFunc = orig }()

		_, err := svc.ProcessWithProvider(ctx, model.IdentityClaude, "Hi")
		assert.ErrorIs(t, err, boom)
	})
}

func TestProcessWithDefaultProvider(t *testing.T) {
	ctx := context.Background()

	t.Run("falls back when default is unconfigured", func(t *testing.T) {
		claude := testutil.NewMockProvider("Claude", "claude-test")
		claude.Configured = false
		svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
			model.IdentityClaude: claude,
			model.IdentityGemini: testutil.NewMockProvider("Gemini", "gemini-test"),
		}), nil, nil)

		got, err := svc.ProcessWithDefaultProvider(ctx, "Hi")
		require.NoError(t, err)
		assert.Equal(t, "Gemini says: Hi", got)
	})

	t.Run("nothing configured", func(t *testing.T) {
		svc := New(registryOf(model.IdentityClaude, nil), nil, nil)
		_, err := svc.ProcessWithDefaultProvider(ctx, "Hi")
		assert.ErrorIs(t, err, model.ErrNoProvidersConfigured)
	})
}

func TestProcessWithProviderStream(t *testing.T) {
	claude := testutil.NewMockProvider("Claude", "claude-test")
	svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
		model.IdentityClaude: claude,
	}), nil, nil)
	ctx := context.Background()

	t.Run("chunks in order", func(t *testing.T) {
		var chunks []string
		for chunk, err := range svc.ProcessWithProviderStream(ctx, model.IdentityClaude, "Hi there") {
			require.NoError(t, err)
			chunks = append(chunks, chunk)
		}
		assert.Equal(t, []string{"Claude", "says:", "Hi", "there"}, chunks)
	})

	t.Run("lookup failure is the only value", func(t *testing.T) {
		var n int
		var last error
		for _, err := range svc.ProcessWithProviderStream(ctx, model.IdentityOllama, "Hi") {
			n++
			last = err
		}
		assert.Equal(t, 1, n)
		assert.ErrorIs(t, last, model.ErrProviderNotAvailable)
	})

	t.Run("stream error ends the stream", func(t *testing.T) {
		boom := errors.New("reset")
		claude.SendMessageStreamFunc = func(ctx context.Context, text string) model.Stream {
			return func(yield func(string, error) bool) {
				if yield("partial", nil) {
					yield("", boom)
				}
			}
		}

		text, err := model.Collect(svc.ProcessWithProviderStream(ctx, model.IdentityClaude, "Hi"))
		assert.Equal(t, "partial", text)
		assert.ErrorIs(t, err, boom)
	})
}

func TestProcessChat(t *testing.T) {
	claude := testutil.NewMockProvider("Claude", "claude-test")
	svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
		model.IdentityClaude: claude,
	}), nil, nil)

	got, err := svc.ProcessChat(context.Background(), model.IdentityClaude, testutil.TestTurns())
	require.NoError(t, err)
	assert.Equal(t, "Claude says: Can you help me with a task?", got)

	_, err = svc.ProcessChat(context.Background(), model.IdentityOpenAI, testutil.TestTurns())
	assert.ErrorIs(t, err, model.ErrProviderNotAvailable)
}

func TestProcessIntegratedApproach(t *testing.T) {
	ctx := context.Background()

	t.Run("single provider answers directly", func(t *testing.T) {
		claude := testutil.NewMockProvider("Claude", "claude-test")
		svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
			model.IdentityClaude: claude,
		}), nil, nil)

		got, err := svc.ProcessIntegratedApproach(ctx, "Hi")
		require.NoError(t, err)
		assert.Equal(t, "Claude says: Hi", got)
		assert.Equal(t, []string{"Hi"}, claude.Prompts())
	})

	t.Run("two providers chain", func(t *testing.T) {
		claude := testutil.NewMockProvider("Claude", "claude-test")
		claude.SendMessageFunc = func(ctx context.Context, text string) (string, error) {
			return "A1", nil
		}
		openai := testutil.NewMockProvider("OpenAI", "gpt-test")
		openai.SendMessageFunc = func(ctx context.Context, text string) (string, error) {
			return "A2", nil
		}
		ollama := testutil.NewMockProvider("Ollama", "llama-test")

		svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
			model.IdentityClaude: claude,
			model.IdentityOpenAI: openai,
			model.IdentityOllama: ollama,
		}), nil, nil)

		got, err := svc.ProcessIntegratedApproach(ctx, "What is Go?")
		require.NoError(t, err)
		assert.Equal(t, "=== Claude (claude-test) Response ===\nA1\n\n=== OpenAI (gpt-test) Analysis ===\nA2", got)

		require.Len(t, openai.Prompts(), 1)
		assert.Equal(t, AnalysisPrompt("What is Go?", "A1"), openai.Prompts()[0])
		assert.Contains(t, openai.Prompts()[0], "key points")
		assert.Empty(t, ollama.Prompts())
	})

	t.Run("second step failure fails the call", func(t *testing.T) {
		openai := testutil.NewMockProvider("OpenAI", "gpt-test")
		openai.SendMessageFunc = func(ctx context.Context, text string) (string, error) {
			return "", model.NewTransportError("OpenAI", 401, errors.New("bad key"))
		}
		svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
			model.IdentityClaude: testutil.NewMockProvider("Claude", "claude-test"),
			model.IdentityOpenAI: openai,
		}), nil, nil)

		got, err := svc.ProcessIntegratedApproach(ctx, "Hi")
		assert.Empty(t, got)
		var te *model.TransportError
		require.ErrorAs(t, err, &te)
		assert.Equal(t, model.KindAuth, te.Kind)
	})
}

func TestCompareProviders(t *testing.T) {
	gemini := testutil.NewMockProvider("Gemini", "gemini-test")
	gemini.SendMessageFunc = func(ctx context.Context, text string) (string, error) {
		return "", errors.New("quota")
	}
	svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
		model.IdentityClaude: testutil.NewMockProvider("Claude", "claude-test"),
		model.IdentityGemini: gemini,
		model.IdentityOllama: testutil.NewMockProvider("Ollama", "llama-test"),
	}), nil, nil)

	results := svc.CompareProviders(context.Background(),
		[]model.Identity{model.IdentityClaude, model.IdentityGemini, model.IdentityOpenAI, model.IdentityOllama}, "Hi")
	require.Len(t, results, 4)

	assert.Equal(t, "Claude says: Hi", results[0].Response)
	assert.NoError(t, results[0].Err)
	assert.Equal(t, "claude-test", results[0].Model)

	assert.EqualError(t, results[1].Err, "quota")
	assert.ErrorIs(t, results[2].Err, model.ErrProviderNotAvailable)
	assert.Equal(t, "Ollama says: Hi", results[3].Response)

	all := svc.CompareProviders(context.Background(), nil, "Hi")
	assert.Len(t, all, 3)
}

func TestProcessWithTools(t *testing.T) {
	ctx := context.Background()

	newSvc := func(plan string, tools ToolCaller) (*Service, *testutil.MockProvider) {
		claude := testutil.NewMockProvider("Claude", "claude-test")
		claude.SendMessageFunc = func(ctx context.Context, text string) (string, error) {
			if strings.HasPrefix(text, "Analyze the following user request") {
				return plan, nil
			}
			return "final", nil
		}
		return New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
			model.IdentityClaude: claude,
		}), tools, nil), claude
	}

	t.Run("runs planned tools", func(t *testing.T) {
		tools := &testutil.MockTools{}
		svc, claude := newSvc("use calculator and web_search", tools)

		got, err := svc.ProcessWithTools(ctx, model.IdentityClaude, "2+2")
		require.NoError(t, err)
		assert.Equal(t, "final", got)
		assert.Equal(t, []string{"calculator", "web_search"}, tools.Calls())

		prompts := claude.Prompts()
		require.Len(t, prompts, 2)
		assert.Contains(t, prompts[1], "Calculation result: result of calculator(2+2)")
		assert.Contains(t, prompts[1], "Search result: result of web_search(2+2)")
	})

	t.Run("no tools needed", func(t *testing.T) {
		tools := &testutil.MockTools{}
		svc, _ := newSvc("No tools needed, calculator is overkill", tools)

		_, err := svc.ProcessWithTools(ctx, model.IdentityClaude, "hello")
		require.NoError(t, err)
		assert.Empty(t, tools.Calls())
	})

	t.Run("without a gateway", func(t *testing.T) {
		svc, _ := newSvc("", nil)
		_, err := svc.ProcessWithTools(ctx, model.IdentityClaude, "hello")
		assert.ErrorIs(t, err, ErrNoToolGateway)
	})
}

func TestPassthroughs(t *testing.T) {
	svc := New(registryOf(model.IdentityClaude, map[model.Identity]*testutil.MockProvider{
		model.IdentityClaude: testutil.NewMockProvider("Claude", "claude-test"),
		model.IdentityOllama: testutil.NewMockProvider("Ollama", "llama-test"),
	}), nil, nil)

	assert.Equal(t, []string{"Claude (claude-test)", "Ollama (llama-test)"}, svc.GetAvailableProviderNames())
	assert.Equal(t, []model.Identity{model.IdentityClaude, model.IdentityOllama}, svc.GetAvailableProviderTypes())
}
