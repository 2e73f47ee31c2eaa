package ingress

// envelopeKeys are the nested-message wrapper keys that must be
// recursively unwrapped before reaching the real message body:
// ephemeral, view-once, view-once-v2, document-with-caption, edited.
// Grounded on the nested-envelope unwrapping idea in the teacher's
// infrastructure/whatsapp/event_message.go, generalized from a typed
// whatsmeow event to a raw JSON envelope.
var envelopeKeys = []string{
	"ephemeralMessage",
	"viewOnceMessage",
	"viewOnceMessageV2",
	"documentWithCaptionMessage",
	"editedMessage",
}

// unwrapMessage descends into nested envelopes until none of
// envelopeKeys remain, returning the innermost message map.
func unwrapMessage(m map[string]any) map[string]any {
	for {
		descended := false
		for _, key := range envelopeKeys {
			inner, ok := m[key].(map[string]any)
			if !ok {
				continue
			}
			next, ok := inner["message"].(map[string]any)
			if !ok {
				continue
			}
			m = next
			descended = true
			break
		}
		if !descended {
			return m
		}
	}
}

// effectiveText computes the message body by priority:
// conversation -> extendedTextMessage.text -> *Message.caption -> content -> "".
func effectiveText(msg map[string]any, fallbackContent string) string {
	if v, ok := msg["conversation"].(string); ok && v != "" {
		return v
	}
	if ext, ok := msg["extendedTextMessage"].(map[string]any); ok {
		if v, ok := ext["text"].(string); ok && v != "" {
			return v
		}
	}
	for _, key := range []string{"imageMessage", "videoMessage", "audioMessage", "documentMessage", "stickerMessage"} {
		if sub, ok := msg[key].(map[string]any); ok {
			if v, ok := sub["caption"].(string); ok && v != "" {
				return v
			}
		}
	}
	return fallbackContent
}

// messageType computes the type by first-match among
// {image,video,audio,document,sticker}Message, else text.
func messageType(msg map[string]any) string {
	switch {
	case msg["imageMessage"] != nil:
		return "image"
	case msg["videoMessage"] != nil:
		return "video"
	case msg["audioMessage"] != nil:
		return "audio"
	case msg["documentMessage"] != nil:
		return "document"
	case msg["stickerMessage"] != nil:
		return "sticker"
	default:
		return "text"
	}
}
