package chatbotcontact

import (
	"context"
	"time"
)

// Contact is keyed uniquely by (ChatbotConfigID, RemoteJID). PushName
// here is the CONFIRMED name, never the WhatsApp-supplied pushName.
type Contact struct {
	ID              string `json:"id"`
	ChatbotConfigID string `json:"chatbot_config_id"`
	RemoteJID       string `json:"remote_jid"`
	PushName        string `json:"push_name,omitempty"`
	Notes           string `json:"notes,omitempty"`
	IsBlocked       bool   `json:"is_blocked"`
	// LastAskedName is true when the bot's last outbound message asked
	// the user's name, enabling the "solicited short reply" trigger.
	LastAskedName bool `json:"last_asked_name"`

	FirstInteraction time.Time `json:"first_interaction"`
	LastInteraction  time.Time `json:"last_interaction"`
}

type Repository interface {
	GetOrCreate(ctx context.Context, chatbotConfigID, remoteJID string) (Contact, error)
	Update(ctx context.Context, c Contact) (Contact, error)
}
