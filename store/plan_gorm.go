package store

import (
	"context"

	"gorm.io/gorm"

	domainPlan "github.com/fillow/wap-core/domains/plan"
)

// PlanGormRepository implements domains/plan.Repository.
type PlanGormRepository struct {
	db *gorm.DB
}

func NewPlanGormRepository(db *gorm.DB) *PlanGormRepository {
	return &PlanGormRepository{db: db}
}

func planToModel(p domainPlan.Plan) PlanModel {
	return PlanModel{
		ID:                   p.ID,
		Name:                 p.Name,
		MaxInstances:         p.MaxInstances,
		MaxChatbots:          p.MaxChatbots,
		MonthlyConversations: p.MonthlyConversations,
		DurationKind:         string(p.DurationKind),
		DurationValue:        p.DurationValue,
		Periodicity:          string(p.Periodicity),
	}
}

func planFromModel(m PlanModel) domainPlan.Plan {
	return domainPlan.Plan{
		ID:                   m.ID,
		Name:                 m.Name,
		MaxInstances:         m.MaxInstances,
		MaxChatbots:          m.MaxChatbots,
		MonthlyConversations: m.MonthlyConversations,
		DurationKind:         domainPlan.DurationKind(m.DurationKind),
		DurationValue:        m.DurationValue,
		Periodicity:          domainPlan.Periodicity(m.Periodicity),
	}
}

func (r *PlanGormRepository) Create(ctx context.Context, p domainPlan.Plan) (domainPlan.Plan, error) {
	m := planToModel(p)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainPlan.Plan{}, err
	}
	return planFromModel(m), nil
}

func (r *PlanGormRepository) GetByID(ctx context.Context, id string) (domainPlan.Plan, error) {
	var m PlanModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domainPlan.Plan{}, err
	}
	return planFromModel(m), nil
}

func (r *PlanGormRepository) List(ctx context.Context) ([]domainPlan.Plan, error) {
	var models []PlanModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domainPlan.Plan, len(models))
	for i, m := range models {
		out[i] = planFromModel(m)
	}
	return out, nil
}

func (r *PlanGormRepository) Update(ctx context.Context, p domainPlan.Plan) (domainPlan.Plan, error) {
	m := planToModel(p)
	if err := r.db.WithContext(ctx).Model(&PlanModel{}).Where("id = ?", p.ID).Updates(&m).Error; err != nil {
		return domainPlan.Plan{}, err
	}
	return r.GetByID(ctx, p.ID)
}

func (r *PlanGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&PlanModel{}, "id = ?", id).Error
}
