package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	domainChatbotConfig "github.com/fillow/wap-core/domains/chatbotconfig"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
)

// ChatbotConfigService implements domains/chatbotconfig's usecase
// surface: creation respects the Tenant's plan.max_chatbots limit,
// mirroring InstanceService's plan-gated creation.
type ChatbotConfigService struct {
	configs  domainChatbotConfig.Repository
	tenants  domainTenant.Repository
	identity *IdentityService
}

func NewChatbotConfigService(configs domainChatbotConfig.Repository, tenants domainTenant.Repository, identity *IdentityService) *ChatbotConfigService {
	return &ChatbotConfigService{configs: configs, tenants: tenants, identity: identity}
}

func (s *ChatbotConfigService) Create(ctx context.Context, ownerTenantID string, cfg domainChatbotConfig.Config) (domainChatbotConfig.Config, error) {
	tenant, err := s.tenants.GetByID(ctx, ownerTenantID)
	if err != nil {
		return domainChatbotConfig.Config{}, err
	}
	ok, err := s.identity.CanCreateChatbot(ctx, tenant)
	if err != nil {
		return domainChatbotConfig.Config{}, err
	}
	if !ok {
		return domainChatbotConfig.Config{}, fmt.Errorf("tenant %s has reached its chatbot plan limit", ownerTenantID)
	}
	if !cfg.Valid() {
		return domainChatbotConfig.Config{}, fmt.Errorf("invalid chatbot config: typing window or history limit out of range")
	}

	cfg.ID = uuid.NewString()
	cfg.OwnerTenantID = ownerTenantID
	return s.configs.Create(ctx, cfg)
}

func (s *ChatbotConfigService) GetByInstanceID(ctx context.Context, instanceID string) (domainChatbotConfig.Config, error) {
	return s.configs.GetByInstanceID(ctx, instanceID)
}

func (s *ChatbotConfigService) GetByID(ctx context.Context, id string) (domainChatbotConfig.Config, error) {
	return s.configs.GetByID(ctx, id)
}

func (s *ChatbotConfigService) Update(ctx context.Context, cfg domainChatbotConfig.Config) (domainChatbotConfig.Config, error) {
	if !cfg.Valid() {
		return domainChatbotConfig.Config{}, fmt.Errorf("invalid chatbot config: typing window or history limit out of range")
	}
	return s.configs.Update(ctx, cfg)
}

func (s *ChatbotConfigService) Delete(ctx context.Context, id string) error {
	return s.configs.Delete(ctx, id)
}
