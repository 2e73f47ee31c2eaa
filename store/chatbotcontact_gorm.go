package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainChatbotContact "github.com/fillow/wap-core/domains/chatbotcontact"
)

// ChatbotContactGormRepository implements domains/chatbotcontact.Repository.
type ChatbotContactGormRepository struct {
	db *gorm.DB
}

func NewChatbotContactGormRepository(db *gorm.DB) *ChatbotContactGormRepository {
	return &ChatbotContactGormRepository{db: db}
}

func chatbotContactToModel(c domainChatbotContact.Contact) ChatbotContactModel {
	return ChatbotContactModel{
		ID:               c.ID,
		ChatbotConfigID:  c.ChatbotConfigID,
		RemoteJID:        c.RemoteJID,
		PushName:         c.PushName,
		Notes:            c.Notes,
		IsBlocked:        c.IsBlocked,
		LastAskedName:    c.LastAskedName,
		FirstInteraction: c.FirstInteraction,
		LastInteraction:  c.LastInteraction,
	}
}

func chatbotContactFromModel(m ChatbotContactModel) domainChatbotContact.Contact {
	return domainChatbotContact.Contact{
		ID:               m.ID,
		ChatbotConfigID:  m.ChatbotConfigID,
		RemoteJID:        m.RemoteJID,
		PushName:         m.PushName,
		Notes:            m.Notes,
		IsBlocked:        m.IsBlocked,
		LastAskedName:    m.LastAskedName,
		FirstInteraction: m.FirstInteraction,
		LastInteraction:  m.LastInteraction,
	}
}

// GetOrCreate looks up the (chatbot_config_id, remote_jid) contact,
// creating a fresh row on first contact.
func (r *ChatbotContactGormRepository) GetOrCreate(ctx context.Context, chatbotConfigID, remoteJID string) (domainChatbotContact.Contact, error) {
	var m ChatbotContactModel
	err := r.db.WithContext(ctx).First(&m, "chatbot_config_id = ? AND remote_jid = ?", chatbotConfigID, remoteJID).Error
	if err == nil {
		return chatbotContactFromModel(m), nil
	}
	if err != gorm.ErrRecordNotFound {
		return domainChatbotContact.Contact{}, err
	}

	now := time.Now().UTC()
	m = ChatbotContactModel{
		ID:               uuid.NewString(),
		ChatbotConfigID:  chatbotConfigID,
		RemoteJID:        remoteJID,
		FirstInteraction: now,
		LastInteraction:  now,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainChatbotContact.Contact{}, err
	}
	return chatbotContactFromModel(m), nil
}

func (r *ChatbotContactGormRepository) Update(ctx context.Context, c domainChatbotContact.Contact) (domainChatbotContact.Contact, error) {
	m := chatbotContactToModel(c)
	if err := r.db.WithContext(ctx).Model(&ChatbotContactModel{}).Where("id = ?", c.ID).Updates(&m).Error; err != nil {
		return domainChatbotContact.Contact{}, err
	}
	var out ChatbotContactModel
	if err := r.db.WithContext(ctx).First(&out, "id = ?", c.ID).Error; err != nil {
		return domainChatbotContact.Contact{}, err
	}
	return chatbotContactFromModel(out), nil
}
