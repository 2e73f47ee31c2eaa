package message

import (
	"context"
	"time"
)

type Type string

const (
	TypeText     Type = "text"
	TypeImage    Type = "image"
	TypeVideo    Type = "video"
	TypeAudio    Type = "audio"
	TypeDocument Type = "document"
	TypeSticker  Type = "sticker"
	TypeOther    Type = "other"
)

const (
	// MaxRecentLimit is the hard cap on Repository.Recent's limit
	// argument.
	MaxRecentLimit = 30
	// TruncateChars is the length each message returned by Recent is
	// truncated to.
	TruncateChars = 900
)

// Message is the canonical append-only log row, keyed for idempotency
// by Wamid when present.
type Message struct {
	ID         string `json:"id"`
	InstanceID string `json:"instance_id"`
	RemoteJID  string `json:"remote_jid"`
	FromMe     bool   `json:"from_me"`
	PushName   string `json:"push_name,omitempty"`
	Type       Type   `json:"type"`
	Content    string `json:"content"`
	MediaURL   string `json:"media_url,omitempty"`
	Wamid      string `json:"wamid,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// Turn is one entry of the conversation-history array the Chatbot
// Engine sends to an LLM provider.
type Turn struct {
	Role    string // "user" or "assistant"
	Content string
}

type Repository interface {
	Create(ctx context.Context, m Message) (Message, error)
	ExistsByWamid(ctx context.Context, wamid string) (bool, error)
	// Recent returns up to `limit` (<= MaxRecentLimit) most-recent
	// non-empty messages for (instanceID, remoteJID) in chronological
	// order, each truncated to TruncateChars.
	Recent(ctx context.Context, instanceID, remoteJID string, limit int) ([]Message, error)
}
