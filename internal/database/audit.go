package database

import (
	"context"

	"tgpcet-it/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Store) AddLog(ctx context.Context, entry models.ActivityLog) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&entry).Error, "add log")
}

func (s *Store) RecentLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	var logs []models.ActivityLog
	err := s.db.WithContext(ctx).
		Order("timestamp desc").
		Limit(limit).
		Find(&logs).Error
	return logs, errors.Wrap(err, "recent logs")
}
