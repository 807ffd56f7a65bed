package provider

import (
	"fmt"
	"log/slog"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/azure"

	"polyprompt/config"
	"polyprompt/model"
)

// AzureOpenAIProvider talks to an Azure OpenAI resource. The deployment name
// is sent as the model; the azure middleware routes it to
// /openai/deployments/{deployment}.
type AzureOpenAIProvider struct {
	chatCompletions
}

// NewAzureOpenAIProvider creates an Azure OpenAI provider bound to settings.
// An empty endpoint is accepted (IsConfigured reports false); a malformed one
// fails construction.
func NewAzureOpenAIProvider(settings *config.ProviderSettings, logger *slog.Logger) (*AzureOpenAIProvider, error) {
	b, err := newBase(model.IdentityAzureOpenAI, settings, logger, openaiStatus)
	if err != nil {
		return nil, err
	}

	if _, err := parseBaseURL(settings.Endpoint); err != nil {
		return nil, fmt.Errorf("azure-openai endpoint: %w", err)
	}

	apiVersion := settings.APIVersion
	if apiVersion == "" {
		apiVersion = config.DefaultAzureAPIVersion
	}

	p := &AzureOpenAIProvider{}
	p.chatCompletions = chatCompletions{
		base: b,
		client: openai.NewClient(
			azure.WithEndpoint(settings.Endpoint, apiVersion),
			azure.WithAPIKey(settings.APIKey),
		),
		modelFor: p.GetModel,
	}
	return p, nil
}

// GetModel returns the deployment name, falling back to the model field.
func (p *AzureOpenAIProvider) GetModel() string {
	if p.settings.DeploymentName != "" {
		return p.settings.DeploymentName
	}
	return p.settings.Model
}

func (p *AzureOpenAIProvider) IsConfigured() bool {
	return p.settings.APIKey != "" && p.settings.Endpoint != ""
}
