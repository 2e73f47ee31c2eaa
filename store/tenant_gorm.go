package store

import (
	"context"

	"gorm.io/gorm"

	domainTenant "github.com/fillow/wap-core/domains/tenant"
)

// TenantGormRepository implements domains/tenant.Repository.
type TenantGormRepository struct {
	db *gorm.DB
}

func NewTenantGormRepository(db *gorm.DB) *TenantGormRepository {
	return &TenantGormRepository{db: db}
}

func tenantToModel(t domainTenant.Tenant) TenantModel {
	return TenantModel{
		ID:              t.ID,
		Name:            t.Name,
		Email:           t.Email,
		Phone:           t.Phone,
		PlanID:          t.PlanID,
		PlanStart:       t.PlanStart,
		PlanEnd:         t.PlanEnd,
		ModuleAPI:       t.ModuleAPI,
		ModuleScheduler: t.ModuleScheduler,
		ModuleChatbot:   t.ModuleChatbot,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}

func tenantFromModel(m TenantModel) domainTenant.Tenant {
	return domainTenant.Tenant{
		ID:              m.ID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		PlanID:          m.PlanID,
		PlanStart:       m.PlanStart,
		PlanEnd:         m.PlanEnd,
		ModuleAPI:       m.ModuleAPI,
		ModuleScheduler: m.ModuleScheduler,
		ModuleChatbot:   m.ModuleChatbot,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (r *TenantGormRepository) Create(ctx context.Context, t domainTenant.Tenant) (domainTenant.Tenant, error) {
	m := tenantToModel(t)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainTenant.Tenant{}, err
	}
	return tenantFromModel(m), nil
}

func (r *TenantGormRepository) GetByID(ctx context.Context, id string) (domainTenant.Tenant, error) {
	var m TenantModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domainTenant.Tenant{}, err
	}
	return tenantFromModel(m), nil
}

func (r *TenantGormRepository) List(ctx context.Context) ([]domainTenant.Tenant, error) {
	var models []TenantModel
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domainTenant.Tenant, len(models))
	for i, m := range models {
		out[i] = tenantFromModel(m)
	}
	return out, nil
}

func (r *TenantGormRepository) Update(ctx context.Context, t domainTenant.Tenant) (domainTenant.Tenant, error) {
	m := tenantToModel(t)
	if err := r.db.WithContext(ctx).Model(&TenantModel{}).Where("id = ?", t.ID).Updates(&m).Error; err != nil {
		return domainTenant.Tenant{}, err
	}
	return r.GetByID(ctx, t.ID)
}

func (r *TenantGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&TenantModel{}, "id = ?", id).Error
}

func (r *TenantGormRepository) CountInstances(ctx context.Context, tenantID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&InstanceModel{}).Where("owner_tenant_id = ?", tenantID).Count(&count).Error
	return int(count), err
}

func (r *TenantGormRepository) CountChatbots(ctx context.Context, tenantID string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ChatbotConfigModel{}).Where("owner_tenant_id = ? AND active = ?", tenantID, true).Count(&count).Error
	return int(count), err
}
