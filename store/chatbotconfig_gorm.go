package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainChatbotConfig "github.com/fillow/wap-core/domains/chatbotconfig"
	domainPlan "github.com/fillow/wap-core/domains/plan"
	"github.com/fillow/wap-core/pkg/crypto"
)

// ChatbotConfigGormRepository implements domains/chatbotconfig.Repository.
// The provider API key is encrypted at rest with pkg/crypto before it
// ever reaches the database, and decrypted on the way back out.
type ChatbotConfigGormRepository struct {
	db *gorm.DB
}

func NewChatbotConfigGormRepository(db *gorm.DB) *ChatbotConfigGormRepository {
	return &ChatbotConfigGormRepository{db: db}
}

func chatbotConfigToModel(c domainChatbotConfig.Config) (ChatbotConfigModel, error) {
	transfersJSON, err := json.Marshal(c.Transfers)
	if err != nil {
		return ChatbotConfigModel{}, err
	}
	mediaJSON, err := json.Marshal(c.Media)
	if err != nil {
		return ChatbotConfigModel{}, err
	}
	encKey, err := crypto.Encrypt(c.AIAPIKey)
	if err != nil {
		return ChatbotConfigModel{}, err
	}

	return ChatbotConfigModel{
		ID:                 c.ID,
		OwnerTenantID:       c.OwnerTenantID,
		InstanceID:          c.InstanceID,
		Active:              c.Active,
		CompanyName:         c.CompanyName,
		Tone:                c.Tone,
		Segment:             c.Segment,
		BusinessSummary:     c.BusinessSummary,
		BusinessHours:       c.BusinessHours,
		Context:             c.Context,
		Skills:              c.Skills,
		Extras:              c.Extras,
		InternalNotes:       c.InternalNotes,
		TriggerOnGroups:     c.TriggerOnGroups,
		SimulateTyping:      c.SimulateTyping,
		TypingTimeMinMs:     c.TypingTimeMinMs,
		TypingTimeMaxMs:     c.TypingTimeMaxMs,
		UseHistory:          c.UseHistory,
		HistoryLimit:        c.HistoryLimit,
		AIProvider:          c.AIProvider,
		AIModel:             c.AIModel,
		AIAPIKeyEnc:         encKey,
		TransfersJSON:       string(transfersJSON),
		MediaJSON:           string(mediaJSON),
		ConversationsCount:  c.ConversationsCount,
		LastResetDate:       c.LastResetDate,
		CurrentTokensUsed:   c.CurrentTokensUsed,
		TokenLimit:          c.TokenLimit,
		TokenUsageKind:      string(c.TokenUsageKind),
		Periodicity:         string(c.Periodicity),
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}, nil
}

func chatbotConfigFromModel(m ChatbotConfigModel) (domainChatbotConfig.Config, error) {
	var transfers []domainChatbotConfig.Transfer
	if m.TransfersJSON != "" {
		if err := json.Unmarshal([]byte(m.TransfersJSON), &transfers); err != nil {
			return domainChatbotConfig.Config{}, err
		}
	}
	var media []domainChatbotConfig.Media
	if m.MediaJSON != "" {
		if err := json.Unmarshal([]byte(m.MediaJSON), &media); err != nil {
			return domainChatbotConfig.Config{}, err
		}
	}
	apiKey, err := crypto.Decrypt(m.AIAPIKeyEnc)
	if err != nil {
		return domainChatbotConfig.Config{}, err
	}

	return domainChatbotConfig.Config{
		ID:                 m.ID,
		OwnerTenantID:       m.OwnerTenantID,
		InstanceID:          m.InstanceID,
		Active:              m.Active,
		CompanyName:         m.CompanyName,
		Tone:                m.Tone,
		Segment:             m.Segment,
		BusinessSummary:     m.BusinessSummary,
		BusinessHours:       m.BusinessHours,
		Context:             m.Context,
		Skills:              m.Skills,
		Extras:              m.Extras,
		InternalNotes:       m.InternalNotes,
		TriggerOnGroups:     m.TriggerOnGroups,
		SimulateTyping:      m.SimulateTyping,
		TypingTimeMinMs:     m.TypingTimeMinMs,
		TypingTimeMaxMs:     m.TypingTimeMaxMs,
		UseHistory:          m.UseHistory,
		HistoryLimit:        m.HistoryLimit,
		AIProvider:          m.AIProvider,
		AIModel:             m.AIModel,
		AIAPIKey:            apiKey,
		Transfers:           transfers,
		Media:               media,
		ConversationsCount:  m.ConversationsCount,
		LastResetDate:       m.LastResetDate,
		CurrentTokensUsed:   m.CurrentTokensUsed,
		TokenLimit:          m.TokenLimit,
		TokenUsageKind:      domainChatbotConfig.TokenUsageKind(m.TokenUsageKind),
		Periodicity:         domainPlan.Periodicity(m.Periodicity),
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}, nil
}

func (r *ChatbotConfigGormRepository) Create(ctx context.Context, c domainChatbotConfig.Config) (domainChatbotConfig.Config, error) {
	m, err := chatbotConfigToModel(c)
	if err != nil {
		return domainChatbotConfig.Config{}, err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainChatbotConfig.Config{}, err
	}
	return chatbotConfigFromModel(m)
}

func (r *ChatbotConfigGormRepository) GetByInstanceID(ctx context.Context, instanceID string) (domainChatbotConfig.Config, error) {
	var m ChatbotConfigModel
	if err := r.db.WithContext(ctx).First(&m, "instance_id = ?", instanceID).Error; err != nil {
		return domainChatbotConfig.Config{}, err
	}
	return chatbotConfigFromModel(m)
}

func (r *ChatbotConfigGormRepository) GetByID(ctx context.Context, id string) (domainChatbotConfig.Config, error) {
	var m ChatbotConfigModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domainChatbotConfig.Config{}, err
	}
	return chatbotConfigFromModel(m)
}

func (r *ChatbotConfigGormRepository) Update(ctx context.Context, c domainChatbotConfig.Config) (domainChatbotConfig.Config, error) {
	m, err := chatbotConfigToModel(c)
	if err != nil {
		return domainChatbotConfig.Config{}, err
	}
	if err := r.db.WithContext(ctx).Model(&ChatbotConfigModel{}).Where("id = ?", c.ID).Updates(&m).Error; err != nil {
		return domainChatbotConfig.Config{}, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *ChatbotConfigGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&ChatbotConfigModel{}, "id = ?", id).Error
}

// ResetQuotaIfDue rolls ConversationsCount and CurrentTokensUsed back
// to zero and bumps LastResetDate when plan.Rollover reports a new
// period, reading and updating the row in one transaction under a row lock.
func (r *ChatbotConfigGormRepository) ResetQuotaIfDue(ctx context.Context, id string, now time.Time) (domainChatbotConfig.Config, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m ChatbotConfigModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error; err != nil {
			return err
		}
		if !domainPlan.Rollover(domainPlan.Periodicity(m.Periodicity), m.LastResetDate, now) {
			return nil
		}
		return tx.Model(&ChatbotConfigModel{}).Where("id = ?", id).Updates(map[string]any{
			"conversations_count": 0,
			"current_tokens_used": 0,
			"last_reset_date":     now,
		}).Error
	})
	if err != nil {
		return domainChatbotConfig.Config{}, err
	}
	return r.GetByID(ctx, id)
}

func quotaPeriodElapsed(periodicity string, last, now time.Time) bool {
	switch periodicity {
	case "daily":
		return now.Sub(last) >= 24*time.Hour
	case "monthly":
		return now.Year() != last.Year() || now.Month() != last.Month()
	case "quarterly":
		return now.Sub(last) >= 90*24*time.Hour
	case "semiannual":
		return now.Sub(last) >= 182*24*time.Hour
	case "yearly":
		return now.Year() != last.Year()
	case "lifetime":
		return false
	default:
		return false
	}
}

func (r *ChatbotConfigGormRepository) IncrementConversation(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Model(&ChatbotConfigModel{}).Where("id = ?", id).
		UpdateColumn("conversations_count", gorm.Expr("conversations_count + 1")).Error
}

func (r *ChatbotConfigGormRepository) IncrementTokensUsed(ctx context.Context, id string, tokens int) error {
	return r.db.WithContext(ctx).Model(&ChatbotConfigModel{}).Where("id = ?", id).
		UpdateColumn("current_tokens_used", gorm.Expr("current_tokens_used + ?", tokens)).Error
}
