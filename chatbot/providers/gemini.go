package providers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiProvider calls Google's Gemini API via google.golang.org/genai,
// grounded on botengine/providers/gemini_provider.go's client/content
// construction, stripped of the teacher's context-caching
// (Caches.Create/fingerprinting) and MCP function-calling machinery —
// spec.md's Decision contract is single-shot, with no tools.
type GeminiProvider struct {
	apiKey string
	model  string
}

// NewGeminiProvider builds a provider bound to apiKey/model. The genai
// client is created per-call, matching the teacher's own per-call
// client construction.
func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	return &GeminiProvider{apiKey: apiKey, model: model}
}

// Call implements Provider.
func (p *GeminiProvider) Call(ctx context.Context, system string, history []Turn, user string) (RawDecision, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return RawDecision{}, fmt.Errorf("gemini client: %w", err)
	}

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, t := range history {
		role := genai.RoleUser
		if t.Role == "assistant" {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: t.Content}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  genai.RoleUser,
		Parts: []*genai.Part{{Text: user}},
	})

	temp := float32(0.35)
	maxTokens := int32(420)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(system, ""),
		Temperature:       &temp,
		MaxOutputTokens:   maxTokens,
	}

	result, err := client.Models.GenerateContent(ctx, p.model, contents, cfg)
	if err != nil {
		return RawDecision{}, fmt.Errorf("gemini generate content: %w", err)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil || len(result.Candidates[0].Content.Parts) == 0 {
		return RawDecision{}, fmt.Errorf("gemini generate content: empty response")
	}

	var text string
	for _, part := range result.Candidates[0].Content.Parts {
		text += part.Text
	}

	raw, err := ExtractJSON(text)
	if err != nil {
		return RawDecision{}, fmt.Errorf("gemini decision parse: %w", err)
	}

	usage := Usage{}
	if result.UsageMetadata != nil {
		usage.PromptTokens = int(result.UsageMetadata.PromptTokenCount)
		usage.CompletionTokens = int(result.UsageMetadata.CandidatesTokenCount)
		usage.TotalTokens = int(result.UsageMetadata.TotalTokenCount)
	}

	return RawDecision{JSON: raw, Usage: usage}, nil
}
