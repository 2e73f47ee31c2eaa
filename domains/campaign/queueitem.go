package campaign

import (
	"context"
	"time"
)

type QueueItemStatus string

const (
	QueueItemQueued   QueueItemStatus = "QUEUED"
	QueueItemSending  QueueItemStatus = "SENDING"
	QueueItemSent     QueueItemStatus = "SENT"
	QueueItemDelivered QueueItemStatus = "DELIVERED"
	QueueItemRead     QueueItemStatus = "READ"
	QueueItemPlayed   QueueItemStatus = "PLAYED"
	QueueItemFailed   QueueItemStatus = "FAILED"
	QueueItemCanceled QueueItemStatus = "CANCELED"
)

// ackRank assigns a monotonic rank to the ack-progression statuses so
// AdvanceAck can refuse to regress.
var ackRank = map[QueueItemStatus]int{
	QueueItemSent:      0,
	QueueItemDelivered: 1,
	QueueItemRead:      2,
	QueueItemPlayed:    3,
}

// AdvanceAck reports whether `next` is a forward move from `current`
// along SENT -> DELIVERED -> READ -> PLAYED. Non-ack statuses are
// never regressed into by this check.
func AdvanceAck(current, next QueueItemStatus) bool {
	curRank, curOK := ackRank[current]
	nextRank, nextOK := ackRank[next]
	if !curOK || !nextOK {
		return false
	}
	return nextRank > curRank
}

// QueueItem is unique by (campaign, recipient, step).
type QueueItem struct {
	ID          string          `json:"id"`
	CampaignID  string          `json:"campaign_id"`
	RecipientID string          `json:"recipient_id"`
	Step        int             `json:"step"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	Status      QueueItemStatus `json:"status"`

	RenderedBody string `json:"rendered_body"`
	TemplateID   string `json:"template_id"`
	MediaID      string `json:"media_id,omitempty"`

	ResponsePayload string `json:"response_payload,omitempty"`
	Wamid           string `json:"wamid,omitempty"`
	Attempts        int    `json:"attempts"`
	Error           string `json:"error,omitempty"`
}

type QueueItemRepository interface {
	BulkCreate(ctx context.Context, items []QueueItem) ([]QueueItem, error)
	// ClaimDue selects up to `maxItems` QUEUED items whose
	// scheduled_at <= now and whose instance's next_available_at has
	// already passed, atomically transitioning each to SENDING. Only
	// one worker may win a given item (single-claim lock).
	ClaimDue(ctx context.Context, now time.Time, maxItems int) ([]QueueItem, error)
	MarkSent(ctx context.Context, id, wamid string) error
	MarkFailed(ctx context.Context, id, errMsg string) error
	GetByWamid(ctx context.Context, wamid string) (QueueItem, error)
	AdvanceAckStatus(ctx context.Context, id string, next QueueItemStatus) error
}

// InstanceDispatchState is per-Instance pacing state.
type InstanceDispatchState struct {
	InstanceID      string    `json:"instance_id"`
	NextAvailableAt time.Time `json:"next_available_at"`
}

type DispatchStateRepository interface {
	Get(ctx context.Context, instanceID string) (InstanceDispatchState, error)
	// SetNextAvailableAt updates next_available_at before releasing the
	// instance, enforcing per-instance pacing ahead of the next claim.
	SetNextAvailableAt(ctx context.Context, instanceID string, at time.Time) error
}
