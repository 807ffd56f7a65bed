package config

import (
	"fmt"

	"polyprompt/model"
)

// CredentialStore opens the store configured in [credentials]. It fails when
// the method is none, since there is nowhere to keep the key.
func (c *Config) CredentialStore() (*CredentialStore, error) {
	switch c.Credentials.Method {
	case SecurityPlainText, SecuritySSHKey:
	default:
		return nil, fmt.Errorf("credential store disabled (credentials.method = %q)", c.Credentials.Method)
	}

	store := NewCredentialStore(c.Credentials.Method, ExpandPath(c.Credentials.SSHKeyPath))
	store.SetPassphrase(passphraseFromEnv())
	if err := store.Load(c.DataDir()); err != nil {
		return nil, err
	}
	return store, nil
}

// UpdateProviderCredential stores apiKey for providerID in the configured
// credential store and persists it. An empty apiKey removes the entry.
func (c *Config) UpdateProviderCredential(providerID, apiKey string) error {
	id, err := model.ParseIdentity(providerID)
	if err != nil {
		return err
	}

	store, err := c.CredentialStore()
	if err != nil {
		return err
	}

	if apiKey == "" {
		store.Delete(string(id))
	} else {
		store.Set(string(id), apiKey)
	}

	if err := store.Save(c.DataDir()); err != nil {
		return fmt.Errorf("failed to persist credentials: %w", err)
	}
	return nil
}

// DisplayName returns the human-readable name of a provider identity.
func DisplayName(id model.Identity) string {
	switch id {
	case model.IdentityClaude:
		return "Claude"
	case model.IdentityOpenAI:
		return "OpenAI"
	case model.IdentityAzureOpenAI:
		return "Azure OpenAI"
	case model.IdentityGemini:
		return "Gemini"
	case model.IdentityOllama:
		return "Ollama"
	default:
		return string(id)
	}
}

// DefaultBaseURL returns the endpoint used when settings leave base_url empty.
// Azure has no default; its endpoint is per-resource.
func DefaultBaseURL(id model.Identity) string {
	switch id {
	case model.IdentityClaude:
		return "https://api.anthropic.com"
	case model.IdentityOpenAI:
		return "https://api.openai.com/v1"
	case model.IdentityGemini:
		return "https://generativelanguage.googleapis.com/v1beta/openai/"
	case model.IdentityOllama:
		return "http://localhost:11434"
	default:
		return ""
	}
}
