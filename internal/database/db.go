package database

import (
	"context"
	"log"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/retry"
	"tgpcet-it/internal/store"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Store — реализация store.All поверх gorm/postgres.
type Store struct {
	db *gorm.DB
}

var _ store.All = (*Store)(nil)

func Open(ctx context.Context, dsn string, attempts int) (*Store, error) {
	db, err := retry.Do(ctx, func(ctx context.Context) (*gorm.DB, error) {
		log.Println("trying to connect to DB...")
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			// пока postgres поднимается, ошибки бывают любые — считаем их временными
			return nil, errors.Wrap(err, "unavailable")
		}
		return db, nil
	}, retry.Options{MaxRetries: attempts})
	if err != nil {
		return nil, errors.Wrapf(err, "connect to db after %d attempts", attempts)
	}
	log.Println("connected to DB successfully")

	// миграции
	if err := db.AutoMigrate(
		&models.User{},
		&models.ActivityLog{},
		&models.Staff{},
		&models.Event{},
		&models.Application{},
	); err != nil {
		return nil, errors.Wrap(err, "migrate")
	}

	return &Store{db: db}, nil
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}
