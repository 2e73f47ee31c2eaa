package chatbot

import (
	"strings"

	domainMessage "github.com/fillow/wap-core/domains/message"
)

// Language is one of the four supported conversation languages.
type Language string

const (
	LangPT Language = "pt"
	LangEN Language = "en"
	LangES Language = "es"
	LangFR Language = "fr"
)

// explicitRequests maps a substring to the language it requests,
// grounded on spec.md §4.G's "speak english" / "em português" /
// "en español" / "en français" rule.
var explicitRequests = map[string]Language{
	"speak english":  LangEN,
	"in english":     LangEN,
	"em português":   LangPT,
	"em portugues":   LangPT,
	"en español":     LangES,
	"en espanol":     LangES,
	"en français":    LangFR,
	"en francais":    LangFR,
}

// lexicons are small per-language word lists used for majority-vote
// scoring when no explicit request or orthographic hint applies.
var lexicons = map[Language][]string{
	LangPT: {"você", "voce", "obrigado", "obrigada", "por favor", "não", "nao", "está", "esta", "aqui", "ola", "olá", "sim"},
	LangEN: {"you", "thanks", "thank", "please", "not", "here", "hello", "hi", "yes", "the"},
	LangES: {"usted", "gracias", "por favor", "no", "aquí", "aqui", "hola", "si", "sí", "está", "esta"},
	LangFR: {"vous", "merci", "s'il vous plaît", "s'il vous plait", "non", "ici", "bonjour", "oui", "est"},
}

// DetectLanguage implements spec.md §4.G's language-persistence
// algorithm: explicit request, then orthographic hints, then lexicon
// scoring, then history fallback, then default to pt.
func DetectLanguage(current string, history []domainMessage.Message) Language {
	if lang, ok := detectFromText(current); ok {
		return lang
	}

	for i := len(history) - 1; i >= 0; i-- {
		if history[i].FromMe {
			continue
		}
		if lang, ok := detectFromText(history[i].Content); ok {
			return lang
		}
	}

	return LangPT
}

// detectFromText applies steps 1-3 of the algorithm to a single piece
// of text, returning ok=false when detection is inconclusive (tie or
// zero scores), matching the "return None" case in spec.md.
func detectFromText(text string) (Language, bool) {
	lower := strings.ToLower(text)

	for phrase, lang := range explicitRequests {
		if strings.Contains(lower, phrase) {
			return lang, true
		}
	}

	if strings.ContainsAny(lower, "ãõ") {
		return LangPT, true
	}

	scores := map[Language]int{}
	tokens := strings.Fields(lower)
	for lang, words := range lexicons {
		for _, w := range words {
			for _, tok := range tokens {
				if tok == w {
					scores[lang]++
				}
			}
			if strings.Contains(lower, w) && strings.Contains(w, " ") {
				scores[lang]++
			}
		}
	}

	best := Language("")
	bestScore := 0
	tie := false
	for lang, score := range scores {
		if score == 0 {
			continue
		}
		if score > bestScore {
			best = lang
			bestScore = score
			tie = false
		} else if score == bestScore {
			tie = true
		}
	}
	if best == "" || tie {
		return "", false
	}
	return best, true
}
