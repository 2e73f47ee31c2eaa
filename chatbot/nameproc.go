package chatbot

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// denialPatterns catch multi-language rejections of a previously
// stored name, grounded on chatbot/engine.py's name-handling block.
var denialPatterns = []string{
	"esse não é meu nome", "esse nao e meu nome", "não me chame assim", "nao me chame assim",
	"that's not my name", "thats not my name", "don't call me", "dont call me",
	"ese no es mi nombre", "no me llames así", "no me llames asi",
	"ce n'est pas mon nom", "ne m'appelle pas",
}

// selfIDPatterns extract an explicit self-identification, grounded on
// the same block: "my name is X" / "me chamo X" / "je m'appelle X" /
// "me llamo X".
var selfIDPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)my name is\s+([a-zà-ÿ' -]{2,80})`),
	regexp.MustCompile(`(?i)me chamo\s+([a-zà-ÿ' -]{2,80})`),
	regexp.MustCompile(`(?i)je m'appelle\s+([a-zà-ÿ' -]{2,80})`),
	regexp.MustCompile(`(?i)me llamo\s+([a-zà-ÿ' -]{2,80})`),
}

// askedNamePatterns identify the bot's own "what should I call you?"
// prompts, enabling the solicited-short-reply trigger.
var askedNamePatterns = []string{
	"como posso te chamar", "qual é o seu nome", "qual e o seu nome",
	"what should i call you", "what's your name", "whats your name",
	"cómo te llamas", "como te llamas", "comment puis-je vous appeler",
}

// nameValidationRegex mirrors spec.md's rule: 2-80 chars, letters
// (extended Latin ranges), spaces, apostrophe, hyphen only.
var nameValidationRegex = regexp.MustCompile(`^[\p{L}' -]{2,80}$`)

// isDenial reports whether msg matches any denial pattern.
func isDenial(msg string) bool {
	lower := strings.ToLower(msg)
	for _, p := range denialPatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// extractSelfID returns the validated name from an explicit
// self-identification phrase, or "" if none found or it fails
// validation.
func extractSelfID(msg string) string {
	for _, re := range selfIDPatterns {
		if m := re.FindStringSubmatch(msg); len(m) == 2 {
			candidate := strings.TrimSpace(m[1])
			if validateName(candidate) == nil {
				return candidate
			}
		}
	}
	return ""
}

// botAskedForName reports whether the bot's last outbound message
// matched a "what should I call you?" pattern.
func botAskedForName(lastOutbound string) bool {
	lower := strings.ToLower(lastOutbound)
	for _, p := range askedNamePatterns {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}

// validateName applies spec.md's name-validation rule using
// go-ozzo/ozzo-validation, the teacher's validation library.
func validateName(name string) error {
	return validation.Validate(name,
		validation.Required,
		validation.Length(2, 80),
		validation.Match(nameValidationRegex),
		validation.By(func(value any) error {
			s, _ := value.(string)
			lower := strings.ToLower(s)
			if strings.Contains(lower, "http") || strings.Contains(lower, "@") || strings.Contains(lower, "s.whatsapp.net") {
				return validation.NewError("name_forbidden_substring", "name must not contain http, @, or s.whatsapp.net")
			}
			return nil
		}),
	)
}

// resolveConfirmedName applies the three explicit triggers of spec.md
// §4.G in order and returns the new confirmed name (possibly
// unchanged) plus whether it was cleared.
func resolveConfirmedName(inboundText, lastOutbound, currentName string, lastAskedName bool) (name string, cleared bool) {
	if isDenial(inboundText) {
		return "", true
	}
	if id := extractSelfID(inboundText); id != "" {
		return id, false
	}
	if lastAskedName || botAskedForName(lastOutbound) {
		trimmed := strings.TrimSpace(inboundText)
		if validateName(trimmed) == nil {
			return trimmed, false
		}
	}
	return currentName, false
}
