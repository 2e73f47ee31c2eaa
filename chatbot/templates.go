package chatbot

import "fmt"

// transferTemplates holds spec.md §4.G step 3's fixed handoff sentence
// in each supported language, keyed the same way as lexicons in
// language.go.
var transferTemplates = map[Language]string{
	LangPT: "Perfeito — conectando você por aqui: %s",
	LangEN: "Perfect — connecting you here: %s",
	LangES: "Perfecto — conectándote por aquí: %s",
	LangFR: "Parfait — je vous connecte ici : %s",
}

// fallbackTemplates holds the recovery message sent when the provider's
// JSON object cannot be unmarshaled into a Decision or comes back with
// no messages. A response with no parseable JSON object at all fails
// inside the provider's Call, and the engine then sends nothing.
var fallbackTemplates = map[Language]string{
	LangPT: "Desculpe, você pode repetir?",
	LangEN: "Sorry, could you repeat?",
	LangES: "Disculpa, ¿puedes repetir?",
	LangFR: "Désolé, pouvez-vous répéter ?",
}

// transferMessage renders the localized handoff sentence for url in lang.
func transferMessage(lang Language, url string) string {
	tpl, ok := transferTemplates[lang]
	if !ok {
		tpl = transferTemplates[LangPT]
	}
	return fmt.Sprintf(tpl, url)
}

// fallbackMessage returns the localized "could you repeat" recovery string.
func fallbackMessage(lang Language) string {
	if msg, ok := fallbackTemplates[lang]; ok {
		return msg
	}
	return fallbackTemplates[LangPT]
}
