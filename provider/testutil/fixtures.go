package testutil

import (
	"polyprompt/config"
	"polyprompt/model"
)

// TestTurns returns a sample conversation for testing
func TestTurns() []model.ChatTurn {
	return []model.ChatTurn{
		model.UserTurn("Hello, how are you?"),
		model.AssistantTurn("I'm doing well, thank you!"),
		model.UserTurn("Can you help me with a task?"),
	}
}

// TurnsWithUnknownRole returns a conversation containing a role the backends
// do not accept, for exercising role coercion.
func TurnsWithUnknownRole() []model.ChatTurn {
	return []model.ChatTurn{
		{Role: "system", Content: "Be brief."},
		model.UserTurn("Hi"),
	}
}

// ConfiguredSettings returns settings that pass IsConfigured for id, pointed
// at baseURL (a test server).
func ConfiguredSettings(id model.Identity, baseURL string) *config.ProviderSettings {
	s := &config.ProviderSettings{
		APIKey:    "test-key",
		MaxTokens: 64,
	}
	switch id {
	case model.IdentityClaude:
		s.Model = "claude-test"
		s.BaseURL = baseURL
	case model.IdentityOpenAI:
		s.Model = "gpt-test"
		s.BaseURL = baseURL
	case model.IdentityAzureOpenAI:
		s.Endpoint = baseURL
		s.DeploymentName = "deploy-test"
		s.APIVersion = config.DefaultAzureAPIVersion
	case model.IdentityGemini:
		s.Model = "gemini-test"
		s.BaseURL = baseURL
	case model.IdentityOllama:
		s.APIKey = ""
		s.Host = baseURL
		s.Model = "llama-test"
	}
	return s
}
