// Package providers implements the common call(system, history, user)
// -> (Decision, Usage) contract spec.md §4.G requires, wired to the
// two supported backends: OpenAI (openai/openai-go/v3) and Gemini
// (google.golang.org/genai). Grounded on
// botengine/providers/{openai_provider.go,gemini_provider.go}.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Turn mirrors domains/message.Turn to avoid providers depending on
// the chatbot package (which depends on providers).
type Turn struct {
	Role    string
	Content string
}

// Usage carries token accounting for ChatbotConfig.IncrementTokensUsed.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// RawDecision is the unparsed shape returned by a provider call: the
// caller (chatbot.Engine) is responsible for JSON-unmarshaling it into
// chatbot.Decision, keeping this package free of an import cycle.
type RawDecision struct {
	JSON  string
	Usage Usage
}

// Provider is the common contract every AI backend implements.
type Provider interface {
	Call(ctx context.Context, system string, history []Turn, user string) (RawDecision, error)
}

// ExtractJSON pulls the first balanced top-level JSON object out of a
// provider's raw text response, tolerating surrounding prose or
// markdown code fences the way real LLM output sometimes includes
// despite an instruction not to.
func ExtractJSON(text string) (string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	start := strings.Index(text, "{")
	if start < 0 {
		return "", fmt.Errorf("no JSON object found in provider response")
	}
	depth := 0
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				candidate := text[start : i+1]
				var probe map[string]any
				if err := json.Unmarshal([]byte(candidate), &probe); err != nil {
					return "", err
				}
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced JSON object in provider response")
}
