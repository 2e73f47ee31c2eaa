package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
)

// OpenAIProvider calls the OpenAI chat completions endpoint for a
// single decision-JSON completion: one system prompt, optional turn
// history, one user message, no tool-calling or multimodal input.
type OpenAIProvider struct {
	client openai.Client
	model  string
}

// NewOpenAIProvider builds a client bound to apiKey/model.
func NewOpenAIProvider(apiKey, model string) *OpenAIProvider {
	return &OpenAIProvider{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

// Call implements Provider.
func (p *OpenAIProvider) Call(ctx context.Context, system string, history []Turn, user string) (RawDecision, error) {
	var messages []openai.ChatCompletionMessageParamUnion
	if system != "" {
		messages = append(messages, openai.SystemMessage(system))
	}
	for _, t := range history {
		if t.Role == "assistant" {
			messages = append(messages, openai.AssistantMessage(t.Content))
		} else {
			messages = append(messages, openai.UserMessage(t.Content))
		}
	}
	messages = append(messages, openai.UserMessage(user))

	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(0.35),
		MaxTokens:   openai.Int(420),
	})
	if err != nil {
		return RawDecision{}, fmt.Errorf("openai chat completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return RawDecision{}, fmt.Errorf("openai chat completion: empty choices")
	}

	raw, err := ExtractJSON(completion.Choices[0].Message.Content)
	if err != nil {
		return RawDecision{}, fmt.Errorf("openai decision parse: %w", err)
	}

	return RawDecision{
		JSON: raw,
		Usage: Usage{
			PromptTokens:     int(completion.Usage.PromptTokens),
			CompletionTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:      int(completion.Usage.TotalTokens),
		},
	}, nil
}
