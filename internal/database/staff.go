package database

import (
	"context"

	"tgpcet-it/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Store) ListStaff(ctx context.Context) ([]models.Staff, error) {
	var staff []models.Staff
	err := s.db.WithContext(ctx).Order("name asc").Find(&staff).Error
	return staff, errors.Wrap(err, "list staff")
}

func (s *Store) AddStaff(ctx context.Context, st models.Staff) error {
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&st).Error, "add staff")
}

func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	return errors.Wrap(s.db.WithContext(ctx).Delete(&models.Staff{}, "id = ?", id).Error, "delete staff")
}
