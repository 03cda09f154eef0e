package database

import (
	"context"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	err := s.db.WithContext(ctx).Create(a).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return store.ErrDuplicate
	}
	return errors.Wrap(err, "create application")
}

func (s *Store) GetApplication(ctx context.Context, id string) (models.Application, error) {
	var a models.Application
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return models.Application{}, notFound(err)
	}
	return a, nil
}

func (s *Store) ListApplications(ctx context.Context, f store.ApplicationFilter) ([]models.Application, error) {
	dbq := s.db.WithContext(ctx).Order("applied_at desc")
	if f.UserID != "" {
		dbq = dbq.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		dbq = dbq.Where("status = ?", f.Status)
	}
	if f.Limit > 0 {
		dbq = dbq.Limit(f.Limit)
	}

	var apps []models.Application
	err := dbq.Find(&apps).Error
	return apps, errors.Wrap(err, "list applications")
}

func (s *Store) DecideApplication(ctx context.Context, id string, d models.Decision) error {
	res := s.db.WithContext(ctx).Model(&models.Application{}).Where("id = ?", id).Updates(map[string]interface{}{
		"status":        d.Status,
		"approver_name": d.ApproverName,
		"approver_role": d.ApproverRole,
		"processed_at":  d.ProcessedAt,
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "decide application")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
