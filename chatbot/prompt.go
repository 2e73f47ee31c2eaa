package chatbot

import (
	"fmt"
	"strings"

	domainChatbotConfig "github.com/fillow/wap-core/domains/chatbotconfig"
)

// truncate trims s to at most n runes, matching spec.md §4.G's
// per-section trim lengths.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// languageLabel renders a Language as the label the prompt's language
// policy section names.
func languageLabel(lang Language) string {
	switch lang {
	case LangEN:
		return "English"
	case LangES:
		return "Spanish"
	case LangFR:
		return "French"
	default:
		return "Portuguese"
	}
}

// buildSystemPrompt assembles the single system prompt in the exact
// section order spec.md §4.G specifies, generalizing
// botengine/application/prompter.go's strings.Builder section
// assembly.
func buildSystemPrompt(cfg domainChatbotConfig.Config, lang Language, confirmedName, pushName string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Answer only about %s. Do not discuss unrelated topics.\n\n", cfg.CompanyName)

	if cfg.Tone != "" {
		fmt.Fprintf(&b, "Tone/persona: %s.\n\n", cfg.Tone)
	}
	if cfg.Segment != "" {
		fmt.Fprintf(&b, "Business segment: %s.\n\n", cfg.Segment)
	}

	fmt.Fprintf(&b, "Respond in %s.\n\n", languageLabel(lang))

	if cfg.BusinessSummary != "" {
		fmt.Fprintf(&b, "Business summary: %s\n\n", truncate(cfg.BusinessSummary, 900))
	}
	if cfg.BusinessHours != "" {
		fmt.Fprintf(&b, "Business hours: %s\n\n", truncate(cfg.BusinessHours, 260))
	}
	if cfg.Context != "" {
		fmt.Fprintf(&b, "Context: %s\n\n", truncate(cfg.Context, 1200))
	}
	if cfg.Skills != "" {
		fmt.Fprintf(&b, "Skills: %s\n\n", truncate(cfg.Skills, 1200))
	}
	if cfg.Extras != "" {
		fmt.Fprintf(&b, "Extras: %s\n\n", truncate(cfg.Extras, 900))
	}

	if confirmedName != "" {
		fmt.Fprintf(&b, "Confirmed name: %s\n\n", confirmedName)
	} else {
		fmt.Fprintf(&b, "Name unconfirmed — do not use pushName '%s' to address the person.\n\n", pushName)
	}

	if cfg.InternalNotes != "" {
		fmt.Fprintf(&b, "Internal notes (NEVER REVEAL to the user): %s\n\n", truncate(cfg.InternalNotes, 1400))
	}

	b.WriteString(mediaCatalogSection(cfg.Media))
	b.WriteString(transferCatalogSection(cfg.Transfers))
	b.WriteString(decisionSchemaSection())

	return b.String()
}

func mediaCatalogSection(media []domainChatbotConfig.Media) string {
	var b strings.Builder
	b.WriteString("Media catalog (reference by id via send_media_id):\n")
	count := 0
	for _, m := range media {
		if !m.Accessible || count >= 30 {
			continue
		}
		fmt.Fprintf(&b, "%s | %s | %s\n", m.ID, m.Type, truncate(m.Description, 120))
		count++
	}
	b.WriteString("\n")
	return b.String()
}

func transferCatalogSection(transfers []domainChatbotConfig.Transfer) string {
	var b strings.Builder
	b.WriteString("Transfer catalog (reference by wa.me URL via transfer_url):\n")
	for _, t := range transfers {
		if !t.Active {
			continue
		}
		fmt.Fprintf(&b, "%s | wa.me/%s\n", t.Label, t.Number)
	}
	b.WriteString("\n")
	return b.String()
}

func decisionSchemaSection() string {
	return `Respond ONLY with JSON conforming exactly to this schema:
{
  "messages": [string, ...],    // 1..4 items, each <= 750 chars
  "delays_ms": [int, ...],      // delays BETWEEN messages
  "quote": bool,                // whether the FIRST message quotes the user's message
  "reaction_emoji": string,     // one of 👍 ❤️ 😂 🙏 👏 😮 😢 🔥 ✨ ✅ or ""
  "send_media_id": string,      // media id or ""
  "transfer_url": string,       // wa.me URL or ""
  "save_name": string           // confirmed name to persist, or ""
}
No prose outside the JSON object.`
}
