package store

import (
	"context"
	"errors"

	"tgpcet-it/internal/models"
)

var (
	ErrNotFound = errors.New("document not found")
	// ErrDuplicate — пользователь уже подал заявку на это мероприятие.
	ErrDuplicate = errors.New("document already exists")
)

type Users interface {
	GetUser(ctx context.Context, uid string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) error
	// MergeUser пишет только uid, email, role и createdAt, остальные поля не трогает.
	MergeUser(ctx context.Context, u models.User) error
	UpdateProfile(ctx context.Context, uid string, p models.Profile) error
}

type Activity interface {
	AddLog(ctx context.Context, entry models.ActivityLog) error
	RecentLogs(ctx context.Context, limit int) ([]models.ActivityLog, error)
}

type Staff interface {
	ListStaff(ctx context.Context) ([]models.Staff, error)
	AddStaff(ctx context.Context, s models.Staff) error
	DeleteStaff(ctx context.Context, id string) error
}

type Events interface {
	ListEvents(ctx context.Context) ([]models.Event, error)
	GetEvent(ctx context.Context, id string) (models.Event, error)
	CreateEvent(ctx context.Context, e *models.Event) error
}

// ApplicationFilter — пустые поля не фильтруют.
type ApplicationFilter struct {
	UserID string
	Status models.ApplicationStatus
	Limit  int
}

type Applications interface {
	CreateApplication(ctx context.Context, a *models.Application) error
	GetApplication(ctx context.Context, id string) (models.Application, error)
	ListApplications(ctx context.Context, f ApplicationFilter) ([]models.Application, error)
	DecideApplication(ctx context.Context, id string, d models.Decision) error
}

// Backend — набор хэндлов к хранилищу, создаётся один раз при старте.
type Backend struct {
	Users        Users
	Activity     Activity
	Staff        Staff
	Events       Events
	Applications Applications

	Ping  func(ctx context.Context) error
	Close func() error
}

// All — хранилище, реализующее все интерфейсы сразу.
type All interface {
	Users
	Activity
	Staff
	Events
	Applications
	Ping(ctx context.Context) error
	Close() error
}

func NewBackend(s All) *Backend {
	return &Backend{
		Users:        s,
		Activity:     s,
		Staff:        s,
		Events:       s,
		Applications: s,
		Ping:         s.Ping,
		Close:        s.Close,
	}
}
