package tenant

import (
	"context"
	"time"
)

// Tenant owns everything else in the system: instances, chatbot configs,
// campaigns.
type Tenant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`

	PlanID      string     `json:"plan_id,omitempty"`
	PlanStart   *time.Time `json:"plan_start,omitempty"`
	PlanEnd     *time.Time `json:"plan_end,omitempty"` // nil == lifetime
	ModuleAPI       bool `json:"module_api"`
	ModuleScheduler bool `json:"module_scheduler"`
	ModuleChatbot   bool `json:"module_chatbot"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPlanValid reports whether the tenant currently has a usable plan:
// a plan must be assigned, and its window must not have expired.
func (t Tenant) IsPlanValid(now time.Time) bool {
	if t.PlanID == "" {
		return false
	}
	if t.PlanEnd == nil {
		return true
	}
	return now.Before(*t.PlanEnd)
}

type Repository interface {
	Create(ctx context.Context, t Tenant) (Tenant, error)
	GetByID(ctx context.Context, id string) (Tenant, error)
	List(ctx context.Context) ([]Tenant, error)
	Update(ctx context.Context, t Tenant) (Tenant, error)
	Delete(ctx context.Context, id string) error
	CountInstances(ctx context.Context, tenantID string) (int, error)
	CountChatbots(ctx context.Context, tenantID string) (int, error)
}
