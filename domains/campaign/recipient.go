package campaign

import "context"

// Recipient is a snapshot of a dispatch target, unique by (campaign, jid).
type Recipient struct {
	ID          string `json:"id"`
	CampaignID  string `json:"campaign_id"`
	JID         string `json:"jid"`
	DisplayName string `json:"display_name,omitempty"`
}

type RecipientRepository interface {
	BulkCreate(ctx context.Context, recipients []Recipient) ([]Recipient, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]Recipient, error)
}
