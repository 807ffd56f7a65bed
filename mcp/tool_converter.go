package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"polyprompt/model"
)

// ToolSchemas renders tool definitions the way backend id expects them in a
// request's tool list. Azure OpenAI and Gemini share the OpenAI format.
func ToolSchemas(id model.Identity, tools []mcptypes.Tool) (any, error) {
	switch id {
	case model.IdentityClaude:
		return toAnthropicTools(tools), nil
	case model.IdentityOpenAI, model.IdentityAzureOpenAI, model.IdentityGemini:
		return toOpenAITools(tools), nil
	case model.IdentityOllama:
		return toOllamaTools(tools), nil
	default:
		return nil, fmt.Errorf("unknown provider type: %s", id)
	}
}

func toOllamaTools(tools []mcptypes.Tool) []api.Tool {
	out := make([]api.Tool, 0, len(tools))
	for _, t := range tools {
		params := api.ToolFunctionParameters{
			Type:       t.InputSchema.Type,
			Required:   t.InputSchema.Required,
			Properties: make(map[string]api.ToolProperty, len(t.InputSchema.Properties)),
		}
		for name, prop := range t.InputSchema.Properties {
			params.Properties[name] = toOllamaProperty(prop)
		}

		out = append(out, api.Tool{
			Type: "function",
			Function: api.ToolFunction{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}
	return out
}

// toOllamaProperty reads type, description and enum from a JSON schema
// property of any shape.
func toOllamaProperty(v any) api.ToolProperty {
	props, ok := v.(map[string]any)
	if !ok {
		raw, err := json.Marshal(v)
		if err != nil || json.Unmarshal(raw, &props) != nil {
			return api.ToolProperty{}
		}
	}

	var p api.ToolProperty
	switch t := props["type"].(type) {
	case string:
		p.Type = api.PropertyType{t}
	case []any:
		for _, s := range t {
			if s, ok := s.(string); ok {
				p.Type = append(p.Type, s)
			}
		}
	}
	p.Description, _ = props["description"].(string)
	p.Enum, _ = props["enum"].([]any)
	return p
}

func toOpenAITools(tools []mcptypes.Tool) []openai.ChatCompletionToolUnionParam {
	out := make([]openai.ChatCompletionToolUnionParam, len(tools))
	for i, t := range tools {
		params := openai.FunctionParameters{
			"type":       t.InputSchema.Type,
			"properties": t.InputSchema.Properties,
		}
		if len(t.InputSchema.Required) > 0 {
			params["required"] = t.InputSchema.Required
		}

		out[i] = openai.ChatCompletionFunctionTool(openai.FunctionDefinitionParam{
			Name:        t.Name,
			Description: openai.String(t.Description),
			Parameters:  params,
		})
	}
	return out
}

func toAnthropicTools(tools []mcptypes.Tool) []anthropic.ToolUnionParam {
	out := make([]anthropic.ToolUnionParam, len(tools))
	for i, t := range tools {
		schema := anthropic.ToolInputSchemaParam{Properties: t.InputSchema.Properties}
		if len(t.InputSchema.Required) > 0 {
			schema.Required = t.InputSchema.Required
		}

		out[i] = anthropic.ToolUnionParamOfTool(schema, t.Name)
		if t.Description != "" {
			out[i].OfTool.Description = anthropic.String(t.Description)
		}
	}
	return out
}
