// Package memstore — хранилище в памяти для тестов и локального запуска.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"github.com/google/uuid"
)

type Store struct {
	mu           sync.RWMutex
	users        map[string]models.User
	logs         []models.ActivityLog
	staff        map[string]models.Staff
	events       map[string]models.Event
	applications map[string]models.Application

	// PingErr — что вернёт Ping, чтобы эмулировать обрыв связи.
	PingErr error
}

var _ store.All = (*Store)(nil)

func New() *Store {
	return &Store{
		users:        map[string]models.User{},
		staff:        map[string]models.Staff{},
		events:       map[string]models.Event{},
		applications: map[string]models.Application{},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.PingErr
}

func (s *Store) SetPingErr(err error) {
	s.mu.Lock()
	s.PingErr = err
	s.mu.Unlock()
}

func (s *Store) Close() error { return nil }

//
// USERS
//

func (s *Store) GetUser(ctx context.Context, uid string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[uid]; ok {
		return u, nil
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if strings.EqualFold(u.Email, email) && u.PasswordHash != "" {
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.UID] = u
	return nil
}

func (s *Store) MergeUser(ctx context.Context, u models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.users[u.UID]
	if !ok {
		s.users[u.UID] = models.User{UID: u.UID, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
		return nil
	}
	cur.Email = u.Email
	cur.Role = u.Role
	cur.CreatedAt = u.CreatedAt
	s.users[u.UID] = cur
	return nil
}

func (s *Store) UpdateProfile(ctx context.Context, uid string, p models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return store.ErrNotFound
	}
	u.Profile = p
	s.users[uid] = u
	return nil
}

//
// LOGS
//

func (s *Store) AddLog(ctx context.Context, entry models.ActivityLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	s.logs = append(s.logs, entry)
	return nil
}

func (s *Store) RecentLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ActivityLog, 0, len(s.logs))
	for i := len(s.logs) - 1; i >= 0; i-- {
		out = append(out, s.logs[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

//
// STAFF
//

func (s *Store) ListStaff(ctx context.Context) ([]models.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Staff, 0, len(s.staff))
	for _, st := range s.staff {
		out = append(out, st)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) AddStaff(ctx context.Context, st models.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st.ID == "" {
		st.ID = uuid.NewString()
	}
	s.staff[st.ID] = st
	return nil
}

func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.staff, id)
	return nil
}

//
// EVENTS
//

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.events[id]; ok {
		return e, nil
	}
	return models.Event{}, store.ErrNotFound
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.events[e.ID] = *e
	return nil
}

//
// APPLICATIONS
//

func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.applications {
		if cur.UserID == a.UserID && cur.EventID == a.EventID {
			return store.ErrDuplicate
		}
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.applications[a.ID] = *a
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if a, ok := s.applications[id]; ok {
		return a, nil
	}
	return models.Application{}, store.ErrNotFound
}

func (s *Store) ListApplications(ctx context.Context, f store.ApplicationFilter) ([]models.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Application{}
	for _, a := range s.applications {
		if f.UserID != "" && a.UserID != f.UserID {
			continue
		}
		if f.Status != "" && a.Status != f.Status {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AppliedAt.After(out[j].AppliedAt) })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (s *Store) DecideApplication(ctx context.Context, id string, d models.Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.applications[id]
	if !ok {
		return store.ErrNotFound
	}
	processed := d.ProcessedAt
	a.Status = d.Status
	a.ApproverName = d.ApproverName
	a.ApproverRole = d.ApproverRole
	a.ProcessedAt = &processed
	s.applications[id] = a
	return nil
}
