package store

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domainCampaign "github.com/fillow/wap-core/domains/campaign"
)

// DispatchStateGormRepository implements domains/campaign.DispatchStateRepository.
type DispatchStateGormRepository struct {
	db *gorm.DB
}

func NewDispatchStateGormRepository(db *gorm.DB) *DispatchStateGormRepository {
	return &DispatchStateGormRepository{db: db}
}

// Get returns the instance's pacing state, or a zero-value
// NextAvailableAt (immediately eligible) if no row exists yet.
func (r *DispatchStateGormRepository) Get(ctx context.Context, instanceID string) (domainCampaign.InstanceDispatchState, error) {
	var m InstanceDispatchStateModel
	err := r.db.WithContext(ctx).First(&m, "instance_id = ?", instanceID).Error
	if err == gorm.ErrRecordNotFound {
		return domainCampaign.InstanceDispatchState{InstanceID: instanceID}, nil
	}
	if err != nil {
		return domainCampaign.InstanceDispatchState{}, err
	}
	return domainCampaign.InstanceDispatchState{
		InstanceID:      m.InstanceID,
		NextAvailableAt: m.NextAvailableAt,
	}, nil
}

// SetNextAvailableAt upserts the instance's pacing row.
func (r *DispatchStateGormRepository) SetNextAvailableAt(ctx context.Context, instanceID string, at time.Time) error {
	m := InstanceDispatchStateModel{InstanceID: instanceID, NextAvailableAt: at}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instance_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"next_available_at"}),
	}).Create(&m).Error
}
