package chatbotconfig

import (
	"context"
	"time"

	"github.com/fillow/wap-core/domains/plan"
)

type TokenUsageKind string

const (
	TokenUsageBounded  TokenUsageKind = "bounded"
	TokenUsageInfinity TokenUsageKind = "infinity"
)

// Transfer is one of up to 5 handoff targets a Decision can route to.
type Transfer struct {
	Label  string `json:"label"`
	Number string `json:"number"` // E.164
	Active bool   `json:"active"`
}

// Media is a catalog descriptor the prompt builder renders into the
// "media catalog" section (up to 30 accessible entries).
type Media struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Description string `json:"description"`
	StoragePath string `json:"storage_path"`
	Accessible  bool   `json:"accessible"`
}

// Config is bound 1:1 to an Instance.
type Config struct {
	ID         string `json:"id"`
	OwnerTenantID string `json:"owner_tenant_id"`
	InstanceID string `json:"instance_id"`
	Active     bool   `json:"active"`

	CompanyName string `json:"company_name"`
	Tone        string `json:"tone"`
	Segment     string `json:"segment"`
	BusinessSummary string `json:"business_summary"`
	BusinessHours   string `json:"business_hours"`
	Context         string `json:"context"`
	Skills          string `json:"skills"`
	Extras          string `json:"extras"`
	InternalNotes   string `json:"internal_notes"`

	TriggerOnGroups bool `json:"trigger_on_groups"`
	SimulateTyping  bool `json:"simulate_typing"`
	TypingTimeMinMs int  `json:"typing_time_min_ms"`
	TypingTimeMaxMs int  `json:"typing_time_max_ms"`

	UseHistory   bool `json:"use_history"`
	HistoryLimit int  `json:"history_limit"` // <= 30

	AIProvider string `json:"ai_provider"`
	AIModel    string `json:"ai_model"`
	AIAPIKey   string `json:"ai_api_key"`

	Transfers []Transfer `json:"transfers"` // up to 5
	Media     []Media    `json:"media"`     // up to 30

	ConversationsCount int             `json:"conversations_count"`
	LastResetDate      time.Time       `json:"last_reset_date"`
	CurrentTokensUsed  int             `json:"current_tokens_used"`
	TokenLimit         int             `json:"token_limit"`
	TokenUsageKind     TokenUsageKind  `json:"token_usage_kind"`
	Periodicity        plan.Periodicity `json:"periodicity"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Valid checks the typing-window invariant.
func (c Config) Valid() bool {
	return c.TypingTimeMaxMs >= c.TypingTimeMinMs && c.HistoryLimit <= 30
}

type Repository interface {
	Create(ctx context.Context, c Config) (Config, error)
	GetByInstanceID(ctx context.Context, instanceID string) (Config, error)
	GetByID(ctx context.Context, id string) (Config, error)
	Update(ctx context.Context, c Config) (Config, error)
	Delete(ctx context.Context, id string) error
	// ResetQuotaIfDue applies the rollover rule under a single row lock,
	// zeroing the quota counters when a new period has started.
	ResetQuotaIfDue(ctx context.Context, id string, now time.Time) (Config, error)
	// IncrementConversation atomically bumps conversations_count.
	IncrementConversation(ctx context.Context, id string) error
	// IncrementTokensUsed atomically bumps current_tokens_used.
	IncrementTokensUsed(ctx context.Context, id string, tokens int) error
}
