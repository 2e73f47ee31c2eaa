package campaign

import (
	"context"
	"time"
)

type Status string

const (
	StatusDraft     Status = "DRAFT"
	StatusScheduled Status = "SCHEDULED"
	StatusRunning   Status = "RUNNING"
	StatusPaused    Status = "PAUSED"
	StatusCompleted Status = "COMPLETED"
	StatusCanceled  Status = "CANCELED"
	StatusFailed    Status = "FAILED"
)

type Template struct {
	ID   string `json:"id"`
	Body string `json:"body"`
	// MediaID references a chatbotconfig.Media entry, or empty for text.
	MediaID string `json:"media_id,omitempty"`
}

type Campaign struct {
	ID             string   `json:"id"`
	OwnerTenantID  string   `json:"owner_tenant_id"`
	InstanceID     string   `json:"instance_id"`
	Name           string   `json:"name"`
	StartAt        time.Time `json:"start_at"`
	MinDelaySeconds int     `json:"min_delay_seconds"` // >= 1
	MaxDelaySeconds int     `json:"max_delay_seconds"` // >= min
	MessagesPerRecipient int `json:"messages_per_recipient"` // >= 1
	UseNamePlaceholder   bool `json:"use_name_placeholder"`
	RawNumbers     []string `json:"raw_numbers"`
	Groups         []string `json:"groups"` // group JIDs to expand
	Templates      []Template `json:"templates"`

	Status  Status `json:"status"`
	Planned int    `json:"planned"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Delivered int  `json:"delivered"`
	Read    int    `json:"read"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Valid checks the pacing-window invariant.
func (c Campaign) Valid() bool {
	return c.MinDelaySeconds >= 1 && c.MaxDelaySeconds >= c.MinDelaySeconds && c.MessagesPerRecipient >= 1
}

// Terminal reports whether the campaign has finished dispatching:
// sent + failed + canceled == planned.
func (c Campaign) Terminal(canceled int) bool {
	return c.Sent+c.Failed+canceled >= c.Planned
}

type Repository interface {
	Create(ctx context.Context, c Campaign) (Campaign, error)
	GetByID(ctx context.Context, id string) (Campaign, error)
	Update(ctx context.Context, c Campaign) (Campaign, error)
	IncrementCounters(ctx context.Context, id string, sentDelta, failedDelta int) error
	ListRunningOrDue(ctx context.Context, now time.Time) ([]Campaign, error)
}
