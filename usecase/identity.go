package usecase

import (
	"context"
	"time"

	domainPlan "github.com/fillow/wap-core/domains/plan"
	domainTenant "github.com/fillow/wap-core/domains/tenant"
)

// IdentityService resuelve validez de plan y límites de cuota para un
// Tenant, espejando la forma de ClientService pero con Plan en lugar de
// canal como la dimensión de enlace.
type IdentityService struct {
	tenantRepo domainTenant.Repository
	planRepo   domainPlan.Repository
}

func NewIdentityService(tenantRepo domainTenant.Repository, planRepo domainPlan.Repository) *IdentityService {
	return &IdentityService{tenantRepo: tenantRepo, planRepo: planRepo}
}

// IsPlanValid reporta si el tenant tiene un plan asignado y vigente.
func (s *IdentityService) IsPlanValid(ctx context.Context, t domainTenant.Tenant) bool {
	return t.IsPlanValid(time.Now())
}

// CanCreateInstance aplica la invariante (d) de Instance: la creación se
// rechaza cuando el owner ya tiene >= plan.max_instances instancias.
func (s *IdentityService) CanCreateInstance(ctx context.Context, t domainTenant.Tenant) (bool, error) {
	if !s.IsPlanValid(ctx, t) {
		return false, nil
	}
	p, err := s.planRepo.GetByID(ctx, t.PlanID)
	if err != nil {
		return false, err
	}
	count, err := s.tenantRepo.CountInstances(ctx, t.ID)
	if err != nil {
		return false, err
	}
	return count < p.MaxInstances, nil
}

// CanCreateChatbot aplica el límite plan.max_chatbots de forma análoga.
func (s *IdentityService) CanCreateChatbot(ctx context.Context, t domainTenant.Tenant) (bool, error) {
	if !s.IsPlanValid(ctx, t) {
		return false, nil
	}
	p, err := s.planRepo.GetByID(ctx, t.PlanID)
	if err != nil {
		return false, err
	}
	count, err := s.tenantRepo.CountChatbots(ctx, t.ID)
	if err != nil {
		return false, err
	}
	return count < p.MaxChatbots, nil
}

// AssignPlan fija plan + ventana (start = now, end = now + duración;
// nil para lifetime) y persiste el tenant.
func (s *IdentityService) AssignPlan(ctx context.Context, t domainTenant.Tenant, p domainPlan.Plan, now time.Time) (domainTenant.Tenant, error) {
	start, end := p.Window(now)
	t.PlanID = p.ID
	t.PlanStart = &start
	t.PlanEnd = end
	return s.tenantRepo.Update(ctx, t)
}
