package config

const (
	DefaultMaxTokens        = 1000
	DefaultClaudeModel      = "claude-3-5-sonnet-20241022"
	DefaultOpenAIModel      = "gpt-4o"
	DefaultGeminiModel      = "gemini-1.5-pro"
	DefaultOllamaModel      = "llama3.1:latest"
	DefaultAzureAPIVersion  = "2024-02-01"
	DefaultProviderSettings = "claude"
)

func DefaultConfig() *Config {
	return &Config{
		DataDirectory:   GetDefaultDataDir(),
		DefaultProvider: DefaultProviderSettings,
		Claude: ProviderSettings{
			Model:     DefaultClaudeModel,
			MaxTokens: DefaultMaxTokens,
		},
		OpenAI: ProviderSettings{
			Model:     DefaultOpenAIModel,
			MaxTokens: DefaultMaxTokens,
		},
		AzureOpenAI: ProviderSettings{
			APIVersion: DefaultAzureAPIVersion,
			MaxTokens:  DefaultMaxTokens,
		},
		Gemini: ProviderSettings{
			Model:     DefaultGeminiModel,
			MaxTokens: DefaultMaxTokens,
		},
		Ollama: ProviderSettings{
			Model:     DefaultOllamaModel,
			MaxTokens: DefaultMaxTokens,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
		Credentials: CredentialsConfig{
			Method: SecurityNone,
		},
	}
}

// fillDefaults restores defaults for fields a settings file explicitly blanked.
func (c *Config) fillDefaults() {
	d := DefaultConfig()
	if c.DataDirectory == "" {
		c.DataDirectory = d.DataDirectory
	}
	if c.DefaultProvider == "" {
		c.DefaultProvider = d.DefaultProvider
	}
	if c.Claude.Model == "" {
		c.Claude.Model = d.Claude.Model
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = d.OpenAI.Model
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = d.Gemini.Model
	}
	if c.Ollama.Model == "" {
		c.Ollama.Model = d.Ollama.Model
	}
	if c.AzureOpenAI.APIVersion == "" {
		c.AzureOpenAI.APIVersion = d.AzureOpenAI.APIVersion
	}
	for _, s := range []*ProviderSettings{&c.Claude, &c.OpenAI, &c.AzureOpenAI, &c.Gemini, &c.Ollama} {
		if s.MaxTokens == 0 {
			s.MaxTokens = DefaultMaxTokens
		}
	}
}

func GenerateConfigTemplate() string {
	return `# polyprompt configuration
# Location: ~/.config/polyprompt/settings.toml
# This file uses TOML format: https://toml.io
#
# API keys may also come from the environment (ANTHROPIC_API_KEY, OPENAI_API_KEY,
# AZURE_OPENAI_API_KEY, GEMINI_API_KEY) or from the credential store.

# Provider used when none is given: claude, openai, azure-openai, gemini, ollama
default_provider = "claude"

# Directory holding credentials.toml / credentials.enc
data_directory = "~/.local/share/polyprompt"

[claude]
api_key = ""
model = "claude-3-5-sonnet-20241022"
max_tokens = 1000

[openai]
api_key = ""
model = "gpt-4o"
max_tokens = 1000
# organization = "org-..."

[azure_openai]
endpoint = ""
api_key = ""
deployment_name = ""
api_version = "2024-02-01"
max_tokens = 1000

[gemini]
api_key = ""
model = "gemini-1.5-pro"
max_tokens = 1000

[ollama]
# Leave empty to disable the local Ollama backend
host = ""
model = "llama3.1:latest"
max_tokens = 1000

[logging]
# DEBUG, INFO, WARN, ERROR
level = "INFO"

[credentials]
# none, plaintext or ssh_key
method = "none"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
