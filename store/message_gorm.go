package store

import (
	"context"

	"gorm.io/gorm"

	domainMessage "github.com/fillow/wap-core/domains/message"
)

// MessageGormRepository implements domains/message.Repository.
type MessageGormRepository struct {
	db *gorm.DB
}

func NewMessageGormRepository(db *gorm.DB) *MessageGormRepository {
	return &MessageGormRepository{db: db}
}

func messageToModel(m domainMessage.Message) MessageModel {
	return MessageModel{
		ID:         m.ID,
		InstanceID: m.InstanceID,
		RemoteJID:  m.RemoteJID,
		FromMe:     m.FromMe,
		PushName:   m.PushName,
		Type:       string(m.Type),
		Content:    m.Content,
		MediaURL:   m.MediaURL,
		Wamid:      m.Wamid,
		Timestamp:  m.Timestamp,
	}
}

func messageFromModel(m MessageModel) domainMessage.Message {
	return domainMessage.Message{
		ID:         m.ID,
		InstanceID: m.InstanceID,
		RemoteJID:  m.RemoteJID,
		FromMe:     m.FromMe,
		PushName:   m.PushName,
		Type:       domainMessage.Type(m.Type),
		Content:    m.Content,
		MediaURL:   m.MediaURL,
		Wamid:      m.Wamid,
		Timestamp:  m.Timestamp,
	}
}

func (r *MessageGormRepository) Create(ctx context.Context, m domainMessage.Message) (domainMessage.Message, error) {
	model := messageToModel(m)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return domainMessage.Message{}, err
	}
	return messageFromModel(model), nil
}

func (r *MessageGormRepository) ExistsByWamid(ctx context.Context, wamid string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&MessageModel{}).Where("wamid = ? AND wamid != ''", wamid).Count(&count).Error
	return count > 0, err
}

// Recent returns up to MaxRecentLimit non-empty messages for a
// conversation in chronological order, each truncated to TruncateChars.
func (r *MessageGormRepository) Recent(ctx context.Context, instanceID, remoteJID string, limit int) ([]domainMessage.Message, error) {
	if limit <= 0 || limit > domainMessage.MaxRecentLimit {
		limit = domainMessage.MaxRecentLimit
	}
	var models []MessageModel
	err := r.db.WithContext(ctx).
		Where("instance_id = ? AND remote_jid = ? AND content != ''", instanceID, remoteJID).
		Order("timestamp desc").
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	out := make([]domainMessage.Message, len(models))
	for i := len(models) - 1; i >= 0; i-- {
		msg := messageFromModel(models[i])
		if len(msg.Content) > domainMessage.TruncateChars {
			msg.Content = msg.Content[:domainMessage.TruncateChars]
		}
		out[len(models)-1-i] = msg
	}
	return out, nil
}
