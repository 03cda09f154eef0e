package database

import (
	"context"
	"time"

	"tgpcet-it/internal/models"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := s.db.WithContext(ctx).Order("created_at desc").Find(&events).Error
	return events, errors.Wrap(err, "list events")
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var e models.Event
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		return models.Event{}, notFound(err)
	}
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(e).Error, "create event")
}
