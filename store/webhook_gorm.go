package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainWebhook "github.com/fillow/wap-core/domains/webhook"
)

// WebhookGormRepository implements domains/webhook.Repository.
type WebhookGormRepository struct {
	db *gorm.DB
}

func NewWebhookGormRepository(db *gorm.DB) *WebhookGormRepository {
	return &WebhookGormRepository{db: db}
}

func webhookToModel(c domainWebhook.Config) WebhookConfigModel {
	return WebhookConfigModel{
		ID:           c.ID,
		InstanceID:   c.InstanceID,
		URL:          c.URL,
		Secret:       c.Secret,
		SendMessages: c.SendMessages,
		SendAck:      c.SendAck,
		SendPresence: c.SendPresence,
	}
}

func webhookFromModel(m WebhookConfigModel) domainWebhook.Config {
	return domainWebhook.Config{
		ID:           m.ID,
		InstanceID:   m.InstanceID,
		URL:          m.URL,
		Secret:       m.Secret,
		SendMessages: m.SendMessages,
		SendAck:      m.SendAck,
		SendPresence: m.SendPresence,
	}
}

func (r *WebhookGormRepository) Create(ctx context.Context, c domainWebhook.Config) (domainWebhook.Config, error) {
	m := webhookToModel(c)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instance_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"url", "secret", "send_messages", "send_ack", "send_presence"}),
	}).Create(&m).Error; err != nil {
		return domainWebhook.Config{}, err
	}
	return webhookFromModel(m), nil
}

func (r *WebhookGormRepository) GetByInstanceID(ctx context.Context, instanceID string) (domainWebhook.Config, error) {
	var m WebhookConfigModel
	if err := r.db.WithContext(ctx).First(&m, "instance_id = ?", instanceID).Error; err != nil {
		return domainWebhook.Config{}, err
	}
	return webhookFromModel(m), nil
}

func (r *WebhookGormRepository) Update(ctx context.Context, c domainWebhook.Config) (domainWebhook.Config, error) {
	m := webhookToModel(c)
	if err := r.db.WithContext(ctx).Model(&WebhookConfigModel{}).Where("instance_id = ?", c.InstanceID).Updates(&m).Error; err != nil {
		return domainWebhook.Config{}, err
	}
	return r.GetByInstanceID(ctx, c.InstanceID)
}

func (r *WebhookGormRepository) Delete(ctx context.Context, instanceID string) error {
	return r.db.WithContext(ctx).Delete(&WebhookConfigModel{}, "instance_id = ?", instanceID).Error
}
