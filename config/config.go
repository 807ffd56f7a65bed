package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"polyprompt/model"
)

// ProviderSettings holds the per-provider settings. Not every field applies to
// every backend: Endpoint, DeploymentName and APIVersion are Azure-only,
// Organization is OpenAI-only and Host is Ollama-only.
type ProviderSettings struct {
	APIKey         string `toml:"api_key,omitempty"`
	Model          string `toml:"model,omitempty"`
	MaxTokens      int    `toml:"max_tokens,omitempty"`
	BaseURL        string `toml:"base_url,omitempty"`
	Organization   string `toml:"organization,omitempty"`
	Endpoint       string `toml:"endpoint,omitempty"`
	DeploymentName string `toml:"deployment_name,omitempty"`
	APIVersion     string `toml:"api_version,omitempty"`
	Host           string `toml:"host,omitempty"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
}

type CredentialsConfig struct {
	Method     SecurityMethod `toml:"method"`
	SSHKeyPath string         `toml:"ssh_key_path,omitempty"`
}

type Config struct {
	DataDirectory   string            `toml:"data_directory"`
	DefaultProvider string            `toml:"default_provider"`
	Claude          ProviderSettings  `toml:"claude"`
	OpenAI          ProviderSettings  `toml:"openai"`
	AzureOpenAI     ProviderSettings  `toml:"azure_openai"`
	Gemini          ProviderSettings  `toml:"gemini"`
	Ollama          ProviderSettings  `toml:"ollama"`
	Logging         LoggingConfig     `toml:"logging"`
	Credentials     CredentialsConfig `toml:"credentials"`
}

// Settings returns the settings block bound to id, or nil for an unknown id.
// The pointer refers into cfg; providers keep it and never write through it.
func (c *Config) Settings(id model.Identity) *ProviderSettings {
	switch id {
	case model.IdentityClaude:
		return &c.Claude
	case model.IdentityOpenAI:
		return &c.OpenAI
	case model.IdentityAzureOpenAI:
		return &c.AzureOpenAI
	case model.IdentityGemini:
		return &c.Gemini
	case model.IdentityOllama:
		return &c.Ollama
	default:
		return nil
	}
}

// DefaultIdentity parses DefaultProvider, falling back to Claude when it is empty
// or unknown.
func (c *Config) DefaultIdentity() model.Identity {
	id, err := model.ParseIdentity(c.DefaultProvider)
	if err != nil {
		return model.IdentityClaude
	}
	return id
}

func (c *Config) DataDir() string {
	return ExpandPath(c.DataDirectory)
}

// envOverrides maps environment variables onto config fields. Applied last, so
// the environment wins over the settings file and the credential store.
func (c *Config) applyEnvOverrides() {
	setString := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString(&c.Claude.APIKey, "ANTHROPIC_API_KEY")
	setString(&c.OpenAI.APIKey, "OPENAI_API_KEY")
	setString(&c.OpenAI.Organization, "OPENAI_ORG_ID")
	setString(&c.AzureOpenAI.Endpoint, "AZURE_OPENAI_ENDPOINT")
	setString(&c.AzureOpenAI.APIKey, "AZURE_OPENAI_API_KEY")
	setString(&c.AzureOpenAI.DeploymentName, "AZURE_OPENAI_DEPLOYMENT")
	setString(&c.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&c.Ollama.Host, "OLLAMA_HOST")
	setString(&c.DefaultProvider, "POLYPROMPT_DEFAULT_PROVIDER")
	setString(&c.Logging.Level, "POLYPROMPT_LOG_LEVEL")
	setString(&c.DataDirectory, "POLYPROMPT_DATA_DIR")

	if v := os.Getenv("POLYPROMPT_MAX_TOKENS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			for _, id := range model.AllIdentities {
				c.Settings(id).MaxTokens = n
			}
		}
	}
}

// applyCredentials fills API keys missing from the settings file with the
// values held by the credential store.
func (c *Config) applyCredentials(store *CredentialStore) {
	for _, id := range model.AllIdentities {
		s := c.Settings(id)
		if s.APIKey == "" {
			s.APIKey = store.Get(string(id))
		}
	}
}

func passphraseFromEnv() string {
	return os.Getenv("POLYPROMPT_SSH_PASSPHRASE")
}

// LoadDotEnv loads KEY=value pairs from the given files (".env" when none are
// given) into the process environment. Missing files are not an error and
// variables already set are left alone.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if !FileExists(f) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// Load reads the settings file at path (GetSettingsFilePath when empty),
// layers the credential store and environment variables on top, and returns
// the resulting read-only configuration.
//
// A missing settings file is not an error: defaults plus environment are used.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		path = GetSettingsFilePath()
	}

	if FileExists(path) {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse settings %s: %w", path, err)
		}
	}

	if cfg.Credentials.Method != "" && cfg.Credentials.Method != SecurityNone {
		store := NewCredentialStore(cfg.Credentials.Method, ExpandPath(cfg.Credentials.SSHKeyPath))
		store.SetPassphrase(passphraseFromEnv())
		if err := store.Load(cfg.DataDir()); err != nil {
			return nil, fmt.Errorf("failed to load credentials: %w", err)
		}
		cfg.applyCredentials(store)
	}

	cfg.applyEnvOverrides()
	cfg.fillDefaults()

	return cfg, nil
}
