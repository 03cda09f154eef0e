// Package docstore — хранилище документов поверх Cloud Firestore,
// те же коллекции, что и у исходного сайта.
package docstore

import (
	"context"
	"strings"
	"time"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"cloud.google.com/go/firestore"
	"github.com/pkg/errors"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	usersCollection        = "users"
	logsCollection         = "logs"
	staffCollection        = "staff"
	eventsCollection       = "events"
	applicationsCollection = "applications"
)

type Store struct {
	client *firestore.Client
}

var _ store.All = (*Store)(nil)

func Open(ctx context.Context, projectID string) (*Store, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, errors.Wrap(err, "firestore client")
	}
	return &Store{client: client}, nil
}

// Ping — дешёвое чтение одной записи, отдельного health-эндпоинта у Firestore нет.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.client.Collection(staffCollection).Limit(1).Documents(ctx).GetAll()
	return err
}

func (s *Store) Close() error {
	return s.client.Close()
}

func notFound(err error) error {
	if status.Code(err) == codes.NotFound {
		return store.ErrNotFound
	}
	return err
}

//
// USERS
//

func (s *Store) GetUser(ctx context.Context, uid string) (models.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		return models.User{}, notFound(err)
	}
	var u models.User
	if err := snap.DataTo(&u); err != nil {
		return models.User{}, errors.Wrap(err, "decode user")
	}
	u.UID = snap.Ref.ID
	return u, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	docs, err := s.client.Collection(usersCollection).
		Where("email", "==", strings.ToLower(email)).
		Documents(ctx).GetAll()
	if err != nil {
		return models.User{}, errors.Wrap(err, "find user")
	}
	for _, snap := range docs {
		var u models.User
		if err := snap.DataTo(&u); err != nil {
			return models.User{}, errors.Wrap(err, "decode user")
		}
		if u.PasswordHash != "" {
			u.UID = snap.Ref.ID
			return u, nil
		}
	}
	return models.User{}, store.ErrNotFound
}

func (s *Store) CreateUser(ctx context.Context, u models.User) error {
	_, err := s.client.Collection(usersCollection).Doc(u.UID).Create(ctx, u)
	return errors.Wrap(err, "create user")
}

func (s *Store) MergeUser(ctx context.Context, u models.User) error {
	_, err := s.client.Collection(usersCollection).Doc(u.UID).Set(ctx, map[string]interface{}{
		"uid":       u.UID,
		"email":     u.Email,
		"role":      string(u.Role),
		"createdAt": u.CreatedAt,
	}, firestore.MergeAll)
	return errors.Wrap(err, "merge user")
}

func (s *Store) UpdateProfile(ctx context.Context, uid string, p models.Profile) error {
	_, err := s.client.Collection(usersCollection).Doc(uid).Update(ctx, []firestore.Update{
		{Path: "profile", Value: p},
	})
	return notFound(err)
}

//
// LOGS
//

func (s *Store) AddLog(ctx context.Context, entry models.ActivityLog) error {
	_, _, err := s.client.Collection(logsCollection).Add(ctx, map[string]interface{}{
		"action":    entry.Action,
		"details":   entry.Details,
		"userEmail": entry.UserEmail,
		"userName":  entry.UserName,
		"timestamp": firestore.ServerTimestamp,
	})
	return errors.Wrap(err, "add log")
}

func (s *Store) RecentLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	docs, err := s.client.Collection(logsCollection).
		OrderBy("timestamp", firestore.Desc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "recent logs")
	}
	logs := make([]models.ActivityLog, 0, len(docs))
	for _, snap := range docs {
		var l models.ActivityLog
		if err := snap.DataTo(&l); err != nil {
			return nil, errors.Wrap(err, "decode log")
		}
		l.ID = snap.Ref.ID
		logs = append(logs, l)
	}
	return logs, nil
}

//
// STAFF
//

func (s *Store) ListStaff(ctx context.Context) ([]models.Staff, error) {
	docs, err := s.client.Collection(staffCollection).Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list staff")
	}
	staff := make([]models.Staff, 0, len(docs))
	for _, snap := range docs {
		var st models.Staff
		if err := snap.DataTo(&st); err != nil {
			return nil, errors.Wrap(err, "decode staff")
		}
		st.ID = snap.Ref.ID
		staff = append(staff, st)
	}
	return staff, nil
}

func (s *Store) AddStaff(ctx context.Context, st models.Staff) error {
	_, _, err := s.client.Collection(staffCollection).Add(ctx, st)
	return errors.Wrap(err, "add staff")
}

func (s *Store) DeleteStaff(ctx context.Context, id string) error {
	_, err := s.client.Collection(staffCollection).Doc(id).Delete(ctx)
	return errors.Wrap(err, "delete staff")
}

//
// EVENTS
//

func (s *Store) ListEvents(ctx context.Context) ([]models.Event, error) {
	docs, err := s.client.Collection(eventsCollection).
		OrderBy("createdAt", firestore.Desc).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list events")
	}
	events := make([]models.Event, 0, len(docs))
	for _, snap := range docs {
		var e models.Event
		if err := snap.DataTo(&e); err != nil {
			return nil, errors.Wrap(err, "decode event")
		}
		e.ID = snap.Ref.ID
		events = append(events, e)
	}
	return events, nil
}

func (s *Store) GetEvent(ctx context.Context, id string) (models.Event, error) {
	snap, err := s.client.Collection(eventsCollection).Doc(id).Get(ctx)
	if err != nil {
		return models.Event{}, notFound(err)
	}
	var e models.Event
	if err := snap.DataTo(&e); err != nil {
		return models.Event{}, errors.Wrap(err, "decode event")
	}
	e.ID = snap.Ref.ID
	return e, nil
}

func (s *Store) CreateEvent(ctx context.Context, e *models.Event) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	ref, _, err := s.client.Collection(eventsCollection).Add(ctx, e)
	if err != nil {
		return errors.Wrap(err, "create event")
	}
	e.ID = ref.ID
	return nil
}

//
// APPLICATIONS
//

// CreateApplication проверяет пару пользователь+мероприятие и пишет заявку
// в одной транзакции, повторная подача отдаёт store.ErrDuplicate.
func (s *Store) CreateApplication(ctx context.Context, a *models.Application) error {
	col := s.client.Collection(applicationsCollection)
	ref := col.NewDoc()
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		existing, err := tx.Documents(col.
			Where("userId", "==", a.UserID).
			Where("eventId", "==", a.EventID).
			Limit(1)).GetAll()
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return store.ErrDuplicate
		}
		return tx.Create(ref, a)
	})
	if errors.Is(err, store.ErrDuplicate) {
		return store.ErrDuplicate
	}
	if err != nil {
		return errors.Wrap(err, "create application")
	}
	a.ID = ref.ID
	return nil
}

func (s *Store) GetApplication(ctx context.Context, id string) (models.Application, error) {
	snap, err := s.client.Collection(applicationsCollection).Doc(id).Get(ctx)
	if err != nil {
		return models.Application{}, notFound(err)
	}
	var a models.Application
	if err := snap.DataTo(&a); err != nil {
		return models.Application{}, errors.Wrap(err, "decode application")
	}
	a.ID = snap.Ref.ID
	return a, nil
}

func (s *Store) ListApplications(ctx context.Context, f store.ApplicationFilter) ([]models.Application, error) {
	q := s.client.Collection(applicationsCollection).Query
	if f.UserID != "" {
		q = q.Where("userId", "==", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status", "==", string(f.Status))
	}
	q = q.OrderBy("appliedAt", firestore.Desc)
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	docs, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, errors.Wrap(err, "list applications")
	}
	apps := make([]models.Application, 0, len(docs))
	for _, snap := range docs {
		var a models.Application
		if err := snap.DataTo(&a); err != nil {
			return nil, errors.Wrap(err, "decode application")
		}
		a.ID = snap.Ref.ID
		apps = append(apps, a)
	}
	return apps, nil
}

func (s *Store) DecideApplication(ctx context.Context, id string, d models.Decision) error {
	_, err := s.client.Collection(applicationsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(d.Status)},
		{Path: "approverName", Value: d.ApproverName},
		{Path: "approverRole", Value: d.ApproverRole},
		{Path: "processedAt", Value: d.ProcessedAt},
	})
	return notFound(err)
}
