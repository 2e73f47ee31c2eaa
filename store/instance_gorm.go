package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	domainInstance "github.com/fillow/wap-core/domains/instance"
)

// InstanceGormRepository implements domains/instance.Repository.
type InstanceGormRepository struct {
	db *gorm.DB
}

func NewInstanceGormRepository(db *gorm.DB) *InstanceGormRepository {
	return &InstanceGormRepository{db: db}
}

func instanceToModel(i domainInstance.Instance) InstanceModel {
	return InstanceModel{
		ID:             i.ID,
		OwnerTenantID:  i.OwnerTenantID,
		Name:           i.Name,
		SessionID:      i.SessionID,
		Token:          i.Token,
		PhoneConnected: i.PhoneConnected,
		Status:         string(i.Status),
		BatteryPercent: i.BatteryPercent,
		Platform:       i.Platform,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func instanceFromModel(m InstanceModel) domainInstance.Instance {
	return domainInstance.Instance{
		ID:             m.ID,
		OwnerTenantID:  m.OwnerTenantID,
		Name:           m.Name,
		SessionID:      m.SessionID,
		Token:          m.Token,
		PhoneConnected: m.PhoneConnected,
		Status:         domainInstance.Status(m.Status),
		BatteryPercent: m.BatteryPercent,
		Platform:       m.Platform,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func (r *InstanceGormRepository) Create(ctx context.Context, i domainInstance.Instance) (domainInstance.Instance, error) {
	m := instanceToModel(i)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainInstance.Instance{}, err
	}
	return instanceFromModel(m), nil
}

func (r *InstanceGormRepository) List(ctx context.Context, ownerTenantID string) ([]domainInstance.Instance, error) {
	var models []InstanceModel
	if err := r.db.WithContext(ctx).Where("owner_tenant_id = ?", ownerTenantID).Order("created_at desc").Find(&models).Error; err != nil {
		return nil, err
	}
	return instancesFromModels(models), nil
}

func (r *InstanceGormRepository) ListAll(ctx context.Context) ([]domainInstance.Instance, error) {
	var models []InstanceModel
	if err := r.db.WithContext(ctx).Find(&models).Error; err != nil {
		return nil, err
	}
	return instancesFromModels(models), nil
}

func (r *InstanceGormRepository) ListStale(ctx context.Context, olderThan time.Time) ([]domainInstance.Instance, error) {
	var models []InstanceModel
	if err := r.db.WithContext(ctx).Where("updated_at < ?", olderThan).Find(&models).Error; err != nil {
		return nil, err
	}
	return instancesFromModels(models), nil
}

func instancesFromModels(models []InstanceModel) []domainInstance.Instance {
	out := make([]domainInstance.Instance, len(models))
	for i, m := range models {
		out[i] = instanceFromModel(m)
	}
	return out
}

func (r *InstanceGormRepository) GetByID(ctx context.Context, id string) (domainInstance.Instance, error) {
	var m InstanceModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return domainInstance.Instance{}, err
	}
	return instanceFromModel(m), nil
}

func (r *InstanceGormRepository) GetBySessionID(ctx context.Context, sessionID string) (domainInstance.Instance, error) {
	var m InstanceModel
	if err := r.db.WithContext(ctx).First(&m, "session_id = ?", sessionID).Error; err != nil {
		return domainInstance.Instance{}, err
	}
	return instanceFromModel(m), nil
}

func (r *InstanceGormRepository) GetByToken(ctx context.Context, token string) (domainInstance.Instance, error) {
	var m InstanceModel
	if err := r.db.WithContext(ctx).First(&m, "token = ?", token).Error; err != nil {
		return domainInstance.Instance{}, err
	}
	return instanceFromModel(m), nil
}

func (r *InstanceGormRepository) Update(ctx context.Context, i domainInstance.Instance) (domainInstance.Instance, error) {
	m := instanceToModel(i)
	if err := r.db.WithContext(ctx).Model(&InstanceModel{}).Where("id = ?", i.ID).Updates(&m).Error; err != nil {
		return domainInstance.Instance{}, err
	}
	return r.GetByID(ctx, i.ID)
}

// CompareAndSetStatus updates only the status/token/phone columns,
// keyed by session_id, matching the Bridge's narrow connection-event
// payload.
func (r *InstanceGormRepository) CompareAndSetStatus(ctx context.Context, sessionID string, status domainInstance.Status, token, phoneConnected string) error {
	updates := map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}
	if token != "" {
		updates["token"] = token
	}
	if phoneConnected != "" {
		updates["phone_connected"] = phoneConnected
	}
	return r.db.WithContext(ctx).Model(&InstanceModel{}).Where("session_id = ?", sessionID).Updates(updates).Error
}

func (r *InstanceGormRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&InstanceModel{}, "id = ?", id).Error
}
