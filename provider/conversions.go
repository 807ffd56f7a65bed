package provider

import (
	"github.com/anthropics/anthropic-sdk-go"
	"github.com/ollama/ollama/api"
	"github.com/openai/openai-go/v3"

	"polyprompt/model"
)

// normalizeTurns returns turns with every role mapped onto user or assistant.
// Unrecognized roles become user; each coercion is logged at debug level.
func (b *base) normalizeTurns(turns []model.ChatTurn) []model.ChatTurn {
	out := make([]model.ChatTurn, len(turns))
	for i, t := range turns {
		role, ok := model.NormalizeRole(t.Role)
		if !ok {
			b.logger.Debug(b.tag()+" coercing unrecognized role to user", "role", string(t.Role), "index", i)
		}
		out[i] = model.ChatTurn{Role: role, Content: t.Content}
	}
	return out
}

// toAnthropicMessages converts normalized turns to Anthropic message params.
func toAnthropicMessages(turns []model.ChatTurn) []anthropic.MessageParam {
	msgs := make([]anthropic.MessageParam, 0, len(turns))
	for _, t := range turns {
		block := anthropic.NewTextBlock(t.Content)
		if t.Role == model.RoleAssistant {
			msgs = append(msgs, anthropic.NewAssistantMessage(block))
		} else {
			msgs = append(msgs, anthropic.NewUserMessage(block))
		}
	}
	return msgs
}

// toOpenAIMessages converts normalized turns to chat completion params. Used
// by the OpenAI, Azure OpenAI and Gemini backends.
func toOpenAIMessages(turns []model.ChatTurn) []openai.ChatCompletionMessageParamUnion {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns))
	for _, t := range turns {
		if t.Role == model.RoleAssistant {
			msgs = append(msgs, openai.AssistantMessage(t.Content))
		} else {
			msgs = append(msgs, openai.UserMessage(t.Content))
		}
	}
	return msgs
}

// toOllamaMessages converts normalized turns to Ollama api.Message values.
func toOllamaMessages(turns []model.ChatTurn) []api.Message {
	msgs := make([]api.Message, len(turns))
	for i, t := range turns {
		msgs[i] = api.Message{
			Role:    string(t.Role),
			Content: t.Content,
		}
	}
	return msgs
}
