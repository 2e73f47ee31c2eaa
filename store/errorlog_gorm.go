package store

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domainErrorLog "github.com/fillow/wap-core/domains/errorlog"
)

// ErrorLogGormRepository implements domains/errorlog.Repository.
type ErrorLogGormRepository struct {
	db *gorm.DB
}

func NewErrorLogGormRepository(db *gorm.DB) *ErrorLogGormRepository {
	return &ErrorLogGormRepository{db: db}
}

func (r *ErrorLogGormRepository) Create(ctx context.Context, e domainErrorLog.Entry) (domainErrorLog.Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	m := ErrorLogEntryModel{
		ID:         e.ID,
		Component:  e.Component,
		InstanceID: e.InstanceID,
		Message:    e.Message,
		Payload:    e.Payload,
		Error:      e.Error,
		CreatedAt:  e.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domainErrorLog.Entry{}, err
	}
	e.ID = m.ID
	return e, nil
}

func (r *ErrorLogGormRepository) Recent(ctx context.Context, instanceID string, limit int) ([]domainErrorLog.Entry, error) {
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	q := r.db.WithContext(ctx).Order("created_at DESC").Limit(limit)
	if instanceID != "" {
		q = q.Where("instance_id = ?", instanceID)
	}
	var models []ErrorLogEntryModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]domainErrorLog.Entry, len(models))
	for i, m := range models {
		out[i] = domainErrorLog.Entry{
			ID:         m.ID,
			Component:  m.Component,
			InstanceID: m.InstanceID,
			Message:    m.Message,
			Payload:    m.Payload,
			Error:      m.Error,
			CreatedAt:  m.CreatedAt,
		}
	}
	return out, nil
}
