package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/fillow/wap-core/dispatch"
	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

// CampaignService implements the Dispatch Queue's creation and
// planning surface, delegating the actual recipient/template
// resolution to dispatch.Planner.
type CampaignService struct {
	campaigns domainCampaign.Repository
	planner   *dispatch.Planner
}

func NewCampaignService(campaigns domainCampaign.Repository, planner *dispatch.Planner) *CampaignService {
	return &CampaignService{campaigns: campaigns, planner: planner}
}

func (s *CampaignService) Create(ctx context.Context, ownerTenantID string, c domainCampaign.Campaign) (domainCampaign.Campaign, error) {
	if !c.Valid() {
		return domainCampaign.Campaign{}, fmt.Errorf("invalid campaign: delay window or messages_per_recipient out of range")
	}
	c.ID = uuid.NewString()
	c.OwnerTenantID = ownerTenantID
	c.Status = domainCampaign.StatusDraft
	return s.campaigns.Create(ctx, c)
}

func (s *CampaignService) GetByID(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	return s.campaigns.GetByID(ctx, id)
}

// Plan transitions a DRAFT campaign to SCHEDULED via dispatch.Planner,
// using the owning instance's session credentials to resolve group
// membership.
func (s *CampaignService) Plan(ctx context.Context, campaignID, sessionID, token string) (domainCampaign.Campaign, error) {
	return s.planner.Plan(ctx, campaignID, sessionID, token)
}

func (s *CampaignService) Pause(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}
	c.Status = domainCampaign.StatusPaused
	return s.campaigns.Update(ctx, c)
}

func (s *CampaignService) Resume(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}
	c.Status = domainCampaign.StatusRunning
	return s.campaigns.Update(ctx, c)
}

func (s *CampaignService) Cancel(ctx context.Context, id string) (domainCampaign.Campaign, error) {
	c, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		return domainCampaign.Campaign{}, err
	}
	c.Status = domainCampaign.StatusCanceled
	return s.campaigns.Update(ctx, c)
}
