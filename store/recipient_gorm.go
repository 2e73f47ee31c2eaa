package store

import (
	"context"

	"gorm.io/gorm"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

// RecipientGormRepository implements domains/campaign.RecipientRepository.
type RecipientGormRepository struct {
	db *gorm.DB
}

func NewRecipientGormRepository(db *gorm.DB) *RecipientGormRepository {
	return &RecipientGormRepository{db: db}
}

func recipientToModel(r domainCampaign.Recipient) RecipientModel {
	return RecipientModel{
		ID:          r.ID,
		CampaignID:  r.CampaignID,
		JID:         r.JID,
		DisplayName: r.DisplayName,
	}
}

func recipientFromModel(m RecipientModel) domainCampaign.Recipient {
	return domainCampaign.Recipient{
		ID:          m.ID,
		CampaignID:  m.CampaignID,
		JID:         m.JID,
		DisplayName: m.DisplayName,
	}
}

// BulkCreate inserts recipients in a single batch, relying on the
// (campaign_id, jid) unique index to reject a duplicate submission of
// the same planning request rather than silently double-inserting.
func (r *RecipientGormRepository) BulkCreate(ctx context.Context, recipients []domainCampaign.Recipient) ([]domainCampaign.Recipient, error) {
	if len(recipients) == 0 {
		return nil, nil
	}
	models := make([]RecipientModel, len(recipients))
	for i, rec := range recipients {
		models[i] = recipientToModel(rec)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 200).Error; err != nil {
		return nil, err
	}
	out := make([]domainCampaign.Recipient, len(models))
	for i, m := range models {
		out[i] = recipientFromModel(m)
	}
	return out, nil
}

func (r *RecipientGormRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domainCampaign.Recipient, error) {
	var models []RecipientModel
	if err := r.db.WithContext(ctx).Where("campaign_id = ?", campaignID).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domainCampaign.Recipient, len(models))
	for i, m := range models {
		out[i] = recipientFromModel(m)
	}
	return out, nil
}
