package model

import (
	"fmt"
	"strings"
)

// Identity names one backend kind. The set is closed; AllIdentities lists it.
type Identity string

const (
	IdentityClaude      Identity = "claude"
	IdentityOpenAI      Identity = "openai"
	IdentityAzureOpenAI Identity = "azure-openai"
	IdentityGemini      Identity = "gemini"
	IdentityOllama      Identity = "ollama"
)

// AllIdentities is the registry iteration order. Fallback selection walks this
// slice, but the order is an implementation detail and callers must not depend
// on it.
var AllIdentities = []Identity{
	IdentityClaude,
	IdentityOpenAI,
	IdentityAzureOpenAI,
	IdentityGemini,
	IdentityOllama,
}

// ParseIdentity converts a user-facing provider name into an Identity.
//
// Mappings (case-insensitive):
//   - "claude", "anthropic" → IdentityClaude
//   - "openai" → IdentityOpenAI
//   - "azure-openai", "azure_openai", "azure" → IdentityAzureOpenAI
//   - "gemini", "google" → IdentityGemini
//   - "ollama" → IdentityOllama
func ParseIdentity(name string) (Identity, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "claude", "anthropic":
		return IdentityClaude, nil
	case "openai":
		return IdentityOpenAI, nil
	case "azure-openai", "azure_openai", "azureopenai", "azure":
		return IdentityAzureOpenAI, nil
	case "gemini", "google":
		return IdentityGemini, nil
	case "ollama":
		return IdentityOllama, nil
	default:
		return "", fmt.Errorf("unknown provider: %q", name)
	}
}

// Valid reports whether id belongs to the closed set.
func (id Identity) Valid() bool {
	for _, known := range AllIdentities {
		if id == known {
			return true
		}
	}
	return false
}

func (id Identity) String() string {
	return string(id)
}
