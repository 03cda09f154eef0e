package database

import (
	"context"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"github.com/pkg/errors"
	"gorm.io/gorm/clause"
)

func (s *Store) GetUser(ctx context.Context, uid string) (models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&u).Error; err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).
		Where("LOWER(email) = LOWER(?) AND password_hash <> ''", email).
		First(&u).Error
	if err != nil {
		return models.User{}, notFound(err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	return errors.Wrap(s.db.WithContext(ctx).Create(&u).Error, "create user")
}

func (s *Store) MergeUser(ctx context.Context, u models.User) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "uid"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "role", "created_at"}),
	}).Create(&u).Error
	return errors.Wrap(err, "merge user")
}

func (s *Store) UpdateProfile(ctx context.Context, uid string, p models.Profile) error {
	res := s.db.WithContext(ctx).Model(&models.User{}).Where("uid = ?", uid).Updates(map[string]interface{}{
		"profile_full_name": p.FullName,
		"profile_mobile":    p.Mobile,
		"profile_prn":       p.PRN,
		"profile_year":      p.Year,
		"profile_section":   p.Section,
		"profile_address":   p.Address,
	})
	if res.Error != nil {
		return errors.Wrap(res.Error, "update profile")
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}
