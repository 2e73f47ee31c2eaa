package store

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

// CampaignGormRepository implements domains/campaign.Repository.
type CampaignGormRepository struct {
	db *gorm.DB
}

func NewCampaignGormRepository(db *gorm.DB) *CampaignGormRepository {
	return &CampaignGormRepository{db: db}
}

func campaignToModel(c domainCampaign.Campaign) (CampaignModel, error) {
	rawNumbers, err := json.Marshal(c.RawNumbers)
	if err != nil {
		return CampaignModel{}, err
	}
	groups, err := json.Marshal(c.Groups)
	if err != nil {
		return CampaignModel{}, err
	}
	templates, err := json.Marshal(c.Templates)
	if err != nil {
		return CampaignModel{}, err
	}

	return CampaignModel{
		ID:                   c.ID,
		OwnerTenantID:        c.OwnerTenantID,
		InstanceID:           c.InstanceID,
		Name:                 c.Name,
		StartAt:              c.StartAt,
		MinDelaySeconds:      c.MinDelaySeconds,
		MaxDelaySeconds:      c.MaxDelaySeconds,
		MessagesPerRecipient: c.MessagesPerRecipient,
		UseNamePlaceholder:   c.UseNamePlaceholder,
		RawNumbersJSON:       string(rawNumbers),
		GroupsJSON:           string(groups),
		TemplatesJSON:        string(templates),
		Status:               string(c.Status),
		Planned:              c.Planned,
		Sent:                 c.Sent,
		Failed:               c.Failed,
		Delivered:            c.Delivered,
		Read:                 c.Read,
		CreatedAt:            c.CreatedAt,
		UpdatedAt:            c.UpdatedAt,
	}, nil
}

func campaignFromModel(m CampaignModel) (domainCampaign.Campaign, error) {
	var rawNumbers []string
	if m.RawNumbersJSON != "" {
		if err := json.Unmarshal([]byte(m.RawNumbersJSON), &rawNumbers); err != nil {
			return domainCampaign.Campaign{}, err
		}
	}
	var groups []string
	if m.GroupsJSON != "" {
		if err := json.Unmarshal([]byte(m.GroupsJSON), &groups); err != nil {
			return domainCampaign.Campaign{}, err
		}
	}
	var templates []domainCampaign.Template
	if m.TemplatesJSON != "" {
		if err := json.Unmarshal([]byte(m.TemplatesJSON), &templates); err != nil {
			return domainCampaign.Campaign{}, err
		}
	}

	return domainCampaign.Campaign{
		ID:                   m.ID,
		OwnerTenantID:        m.OwnerTenantID,
		InstanceID:           m.InstanceID,
		Name:                 m.Name,
		StartAt:              m.StartAt,
		MinDelaySeconds:      m.MinDelaySeconds,
		MaxDelaySeconds:      m.MaxDelaySeconds,
		MessagesPerRecipient: m.MessagesPerRecipient,
		UseNamePlaceholder:   m.UseNamePlaceholder,
		RawNumbers:           rawNumbers,
		Groups:               groups,
		Templates:            templates,
		Status:               domainCampaign.Status(m.Status),
		Planned:              m.Planned,
		Sent:                 m.Sent,
		Failed:               m.Failed,
		Delivered:            m.Delivered,
		Read:                 m.Read,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}, nil
}

func (r *CampaignGormRepository) Create(ctx context.Context, c domainCampaign.Campaign) (domainCampaign.Campaign, error) {
	m, err := campaignToModel(c)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainCampaign.Campaign{}, err
	}
	return campaignFromModel(m)
}

func (r *CampaignGormRepository) GetByID(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	var m CampaignModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domainCampaign.Campaign{}, err
	}
	return campaignFromModel(m)
}

func (r *CampaignGormRepository) Update(ctx context.Context, c domainCampaign.Campaign) (domainCampaign.Campaign, error) {
	m, err := campaignToModel(c)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}
	if err := r.db.WithContext(ctx).Model(&CampaignModel{}).Where("id = ?", c.ID).Updates(&m).Error; err != nil {
		return domainCampaign.Campaign{}, err
	}
	return r.GetByID(ctx, c.ID)
}

func (r *CampaignGormRepository) IncrementCounters(ctx context.Context, id string, sentDelta, failedDelta int) error {
	return r.db.WithContext(ctx).Model(&CampaignModel{}).Where("id = ?", id).Updates(map[string]any{
		"sent":   gorm.Expr("sent + ?", sentDelta),
		"failed": gorm.Expr("failed + ?", failedDelta),
	}).Error
}

// ListRunningOrDue returns campaigns that are RUNNING, or SCHEDULED
// with a start_at that has arrived — the worker loop promotes the
// latter to RUNNING on entry.
func (r *CampaignGormRepository) ListRunningOrDue(ctx context.Context, now time.Time) ([]domainCampaign.Campaign, error) {
	var models []CampaignModel
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domainCampaign.StatusRunning)).
		Or("status = ? AND start_at <= ?", string(domainCampaign.StatusScheduled), now).
		Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domainCampaign.Campaign, 0, len(models))
	for _, m := range models {
		c, err := campaignFromModel(m)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}
