package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

// QueueItemGormRepository implements domains/campaign.QueueItemRepository.
type QueueItemGormRepository struct {
	db *gorm.DB
}

func NewQueueItemGormRepository(db *gorm.DB) *QueueItemGormRepository {
	return &QueueItemGormRepository{db: db}
}

func queueItemToModel(q domainCampaign.QueueItem) QueueItemModel {
	return QueueItemModel{
		ID:              q.ID,
		CampaignID:      q.CampaignID,
		RecipientID:     q.RecipientID,
		Step:            q.Step,
		ScheduledAt:     q.ScheduledAt,
		Status:          string(q.Status),
		RenderedBody:    q.RenderedBody,
		TemplateID:      q.TemplateID,
		MediaID:         q.MediaID,
		ResponsePayload: q.ResponsePayload,
		Wamid:           q.Wamid,
		Attempts:        q.Attempts,
		Error:           q.Error,
	}
}

func queueItemFromModel(m QueueItemModel) domainCampaign.QueueItem {
	return domainCampaign.QueueItem{
		ID:              m.ID,
		CampaignID:      m.CampaignID,
		RecipientID:     m.RecipientID,
		Step:            m.Step,
		ScheduledAt:     m.ScheduledAt,
		Status:          domainCampaign.QueueItemStatus(m.Status),
		RenderedBody:    m.RenderedBody,
		TemplateID:      m.TemplateID,
		MediaID:         m.MediaID,
		ResponsePayload: m.ResponsePayload,
		Wamid:           m.Wamid,
		Attempts:        m.Attempts,
		Error:           m.Error,
	}
}

func (r *QueueItemGormRepository) BulkCreate(ctx context.Context, items []domainCampaign.QueueItem) ([]domainCampaign.QueueItem, error) {
	if len(items) == 0 {
		return nil, nil
	}
	models := make([]QueueItemModel, len(items))
	for i, it := range items {
		models[i] = queueItemToModel(it)
	}
	if err := r.db.WithContext(ctx).CreateInBatches(models, 200).Error; err != nil {
		return nil, err
	}
	out := make([]domainCampaign.QueueItem, len(models))
	for i, m := range models {
		out[i] = queueItemFromModel(m)
	}
	return out, nil
}

// ClaimDue implements the worker loop's candidate selection (§4.H
// steps 1-2) plus the single-claim QUEUED->SENDING transition (§5):
// a join across campaigns and instance_dispatch_states narrows the
// candidate pool to due, runnable, paced-eligible items, then each
// candidate is claimed with an individual conditional UPDATE guarded
// by `status = 'QUEUED'` — the RowsAffected check is what makes the
// claim race-safe without a database-specific RETURNING clause, so
// the same code runs on both sqlite and postgres.
func (r *QueueItemGormRepository) ClaimDue(ctx context.Context, now time.Time, maxItems int) ([]domainCampaign.QueueItem, error) {
	if err := r.promoteScheduledCampaigns(ctx, now); err != nil {
		return nil, err
	}

	var candidates []QueueItemModel
	err := r.db.WithContext(ctx).
		Table("campaign_queue_items AS qi").
		Select("qi.*").
		Joins("JOIN campaigns AS c ON c.id = qi.campaign_id").
		Joins("LEFT JOIN instance_dispatch_states AS ids ON ids.instance_id = c.instance_id").
		Where("qi.status = ?", string(domainCampaign.QueueItemQueued)).
		Where("qi.scheduled_at <= ?", now).
		Where("c.status = ?", string(domainCampaign.StatusRunning)).
		Where("ids.instance_id IS NULL OR ids.next_available_at <= ?", now).
		Order("qi.scheduled_at ASC").
		Limit(maxItems * 3).
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	claimed := make([]domainCampaign.QueueItem, 0, maxItems)
	seenInstance := map[string]bool{}
	for _, cand := range candidates {
		if len(claimed) >= maxItems {
			break
		}

		var campaignModel CampaignModel
		if err := r.db.WithContext(ctx).First(&campaignModel, "id = ?", cand.CampaignID).Error; err != nil {
			continue
		}
		if seenInstance[campaignModel.InstanceID] {
			continue
		}

		result := r.db.WithContext(ctx).Model(&QueueItemModel{}).
			Where("id = ? AND status = ?", cand.ID, string(domainCampaign.QueueItemQueued)).
			Updates(map[string]any{
				"status":   string(domainCampaign.QueueItemSending),
				"attempts": gorm.Expr("attempts + 1"),
			})
		if result.Error != nil {
			return nil, result.Error
		}
		if result.RowsAffected == 0 {
			continue // lost the claim race to another worker
		}

		seenInstance[campaignModel.InstanceID] = true
		cand.Status = string(domainCampaign.QueueItemSending)
		cand.Attempts++
		claimed = append(claimed, queueItemFromModel(cand))
	}

	return claimed, nil
}

// promoteScheduledCampaigns transitions SCHEDULED campaigns whose
// start_at has arrived to RUNNING, matching worker loop step 1.
func (r *QueueItemGormRepository) promoteScheduledCampaigns(ctx context.Context, now time.Time) error {
	return r.db.WithContext(ctx).Model(&CampaignModel{}).
		Where("status = ? AND start_at <= ?", string(domainCampaign.StatusScheduled), now).
		Update("status", string(domainCampaign.StatusRunning)).Error
}

func (r *QueueItemGormRepository) MarkSent(ctx context.Context, id, wamid string) error {
	return r.db.WithContext(ctx).Model(&QueueItemModel{}).Where("id = ?", id).Updates(map[string]any{
		"status": string(domainCampaign.QueueItemSent),
		"wamid":  wamid,
	}).Error
}

func (r *QueueItemGormRepository) MarkFailed(ctx context.Context, id, errMsg string) error {
	return r.db.WithContext(ctx).Model(&QueueItemModel{}).Where("id = ?", id).Updates(map[string]any{
		"status": string(domainCampaign.QueueItemFailed),
		"error":  errMsg,
	}).Error
}

func (r *QueueItemGormRepository) GetByWamid(ctx context.Context, wamid string) (domainCampaign.QueueItem, error) {
	var m QueueItemModel
	if err := r.db.WithContext(ctx).First(&m, "wamid = ?", wamid).Error; err != nil {
		return domainCampaign.QueueItem{}, err
	}
	return queueItemFromModel(m), nil
}

// AdvanceAckStatus applies `next` only if it is a forward move along
// SENT -> DELIVERED -> READ -> PLAYED, guarding against out-of-order
// or duplicate Bridge ack webhooks regressing the status.
func (r *QueueItemGormRepository) AdvanceAckStatus(ctx context.Context, id string, next domainCampaign.QueueItemStatus) error {
	var m QueueItemModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return err
	}
	current := domainCampaign.QueueItemStatus(m.Status)
	if !domainCampaign.AdvanceAck(current, next) {
		return nil
	}
	return r.db.WithContext(ctx).Model(&QueueItemModel{}).
		Where("id = ? AND status = ?", id, string(current)).
		Update("status", string(next)).Error
}
