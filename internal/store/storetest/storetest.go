// Package storetest — общий набор проверок для реализаций store.All.
// Каждая реализация гоняет его в своём _test.go.
package storetest

import (
	"context"
	"testing"
	"time"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Factory отдаёт пустое хранилище для одного подтеста.
type Factory func(t *testing.T) store.All

func Run(t *testing.T, open Factory) {
	t.Run("users", func(t *testing.T) { testUsers(t, open(t)) })
	t.Run("merge user", func(t *testing.T) { testMergeUser(t, open(t)) })
	t.Run("activity", func(t *testing.T) { testActivity(t, open(t)) })
	t.Run("staff", func(t *testing.T) { testStaff(t, open(t)) })
	t.Run("events", func(t *testing.T) { testEvents(t, open(t)) })
	t.Run("applications", func(t *testing.T) { testApplications(t, open(t)) })
	t.Run("decide application", func(t *testing.T) { testDecide(t, open(t)) })
}

var base = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func testUsers(t *testing.T, s store.All) {
	ctx := context.Background()

	_, err := s.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.CreateUser(ctx, models.User{
		UID:          "p1",
		Email:        "asha@tgpcet.ac.in",
		DisplayName:  "Asha",
		Role:         models.RoleUser,
		PasswordHash: "hash",
		CreatedAt:    base,
	}))
	// та же почта, но вход через Google: паролем не находится
	require.NoError(t, s.CreateUser(ctx, models.User{
		UID:       "g1",
		Email:     "ravi@tgpcet.ac.in",
		Role:      models.RoleUser,
		CreatedAt: base,
	}))

	u, err := s.GetUser(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", u.UID)
	assert.Equal(t, "Asha", u.DisplayName)
	assert.Equal(t, models.RoleUser, u.Role)

	u, err = s.FindUserByEmail(ctx, "Asha@TGPCET.ac.in")
	require.NoError(t, err)
	assert.Equal(t, "p1", u.UID)
	assert.Equal(t, "hash", u.PasswordHash)

	_, err = s.FindUserByEmail(ctx, "ravi@tgpcet.ac.in")
	assert.ErrorIs(t, err, store.ErrNotFound)

	p := models.Profile{FullName: "Asha Patil", Mobile: "9876543210", PRN: "IT01", Year: "Third", Section: "A", Address: "Nagpur"}
	require.NoError(t, s.UpdateProfile(ctx, "p1", p))
	u, err = s.GetUser(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, p, u.Profile)

	assert.ErrorIs(t, s.UpdateProfile(ctx, "missing", p), store.ErrNotFound)
}

// testMergeUser — назначенный админ: роль перезаписывается,
// остальные поля документа остаются.
func testMergeUser(t *testing.T, s store.All) {
	ctx := context.Background()

	require.NoError(t, s.CreateUser(ctx, models.User{
		UID:          "a1",
		Email:        "hod.it@tgpcet.ac.in",
		DisplayName:  "HOD",
		Role:         models.RoleUser,
		PasswordHash: "hash",
		Profile:      models.Profile{FullName: "Head of Department"},
		CreatedAt:    base,
	}))

	require.NoError(t, s.MergeUser(ctx, models.User{
		UID:       "a1",
		Email:     "hod.it@tgpcet.ac.in",
		Role:      models.RoleAdmin,
		CreatedAt: base.Add(time.Hour),
	}))

	u, err := s.GetUser(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "HOD", u.DisplayName)
	assert.Equal(t, "hash", u.PasswordHash)
	assert.Equal(t, "Head of Department", u.Profile.FullName)

	// документа не было: merge создаёт его
	require.NoError(t, s.MergeUser(ctx, models.User{UID: "a2", Email: "new@tgpcet.ac.in", Role: models.RoleAdmin, CreatedAt: base}))
	u, err = s.GetUser(ctx, "a2")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, u.Role)
	assert.Equal(t, "new@tgpcet.ac.in", u.Email)
}

func testActivity(t *testing.T, s store.All) {
	ctx := context.Background()

	for i, action := range []string{"first", "second", "third"} {
		require.NoError(t, s.AddLog(ctx, models.ActivityLog{
			Action:    action,
			Details:   "details " + action,
			UserEmail: "hod.it@tgpcet.ac.in",
			UserName:  "HOD",
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	logs, err := s.RecentLogs(ctx, 2)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "third", logs[0].Action)
	assert.Equal(t, "second", logs[1].Action)
	assert.Equal(t, "HOD", logs[0].UserName)
	assert.NotEmpty(t, logs[0].ID)
}

func testStaff(t *testing.T, s store.All) {
	ctx := context.Background()

	require.NoError(t, s.AddStaff(ctx, models.Staff{Name: "Prof. A", Designation: "HOD"}))
	require.NoError(t, s.AddStaff(ctx, models.Staff{Name: "Prof. B", Designation: "Assistant Professor"}))

	staff, err := s.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 2)

	names := []string{}
	var victim string
	for _, st := range staff {
		require.NotEmpty(t, st.ID)
		names = append(names, st.Name)
		if st.Name == "Prof. A" {
			victim = st.ID
		}
	}
	assert.ElementsMatch(t, []string{"Prof. A", "Prof. B"}, names)

	require.NoError(t, s.DeleteStaff(ctx, victim))
	staff, err = s.ListStaff(ctx)
	require.NoError(t, err)
	require.Len(t, staff, 1)
	assert.Equal(t, "Prof. B", staff[0].Name)
}

func testEvents(t *testing.T, s store.All) {
	ctx := context.Background()

	_, err := s.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	older := &models.Event{Title: "Workshop", Date: "2026-03-10", Fee: 0, CreatedAt: base}
	newer := &models.Event{Title: "Hackathon", Date: "2026-04-01", Venue: "Lab 3", Fee: 100, CreatedAt: base.Add(time.Hour)}
	require.NoError(t, s.CreateEvent(ctx, older))
	require.NoError(t, s.CreateEvent(ctx, newer))
	require.NotEmpty(t, newer.ID)

	ev, err := s.GetEvent(ctx, newer.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, ev.ID)
	assert.Equal(t, "Hackathon", ev.Title)
	assert.Equal(t, "Lab 3", ev.Venue)
	assert.Equal(t, 100, ev.Fee)

	events, err := s.ListEvents(ctx)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "Hackathon", events[0].Title)
	assert.Equal(t, "Workshop", events[1].Title)
}

func newApplication(no, user, event string, status models.ApplicationStatus, at time.Time) *models.Application {
	return &models.Application{
		ApplicationNumber: no,
		UserID:            user,
		EventID:           event,
		Status:            status,
		AppliedAt:         at,
	}
}

func numbers(apps []models.Application) []string {
	out := make([]string, 0, len(apps))
	for _, a := range apps {
		out = append(out, a.ApplicationNumber)
	}
	return out
}

func testApplications(t *testing.T, s store.All) {
	ctx := context.Background()

	first := newApplication("N1", "u1", "e1", models.StatusPending, base)
	first.Fee = 100
	first.TransactionID = "TXN-1"
	first.TeamMembers = []models.TeamMember{
		{Name: "Asha", Email: "asha@tgpcet.ac.in", Mobile: "9876543210", PRN: "IT01"},
		{Name: "Neha", Email: "neha@tgpcet.ac.in"},
	}
	require.NoError(t, s.CreateApplication(ctx, first))
	require.NoError(t, s.CreateApplication(ctx, newApplication("N2", "u1", "e2", models.StatusApproved, base.Add(time.Minute))))
	require.NoError(t, s.CreateApplication(ctx, newApplication("N3", "u2", "e1", models.StatusPending, base.Add(2*time.Minute))))
	require.NotEmpty(t, first.ID)

	got, err := s.GetApplication(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.ID)
	assert.Equal(t, "TXN-1", got.TransactionID)
	assert.Equal(t, 100, got.Fee)
	assert.Equal(t, first.TeamMembers, got.TeamMembers)
	assert.True(t, got.AppliedAt.Equal(base))
	assert.Nil(t, got.ProcessedAt)

	_, err = s.GetApplication(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	tests := []struct {
		name   string
		filter store.ApplicationFilter
		want   []string
	}{
		{"all newest first", store.ApplicationFilter{}, []string{"N3", "N2", "N1"}},
		{"by user", store.ApplicationFilter{UserID: "u1"}, []string{"N2", "N1"}},
		{"by status", store.ApplicationFilter{Status: models.StatusPending}, []string{"N3", "N1"}},
		{"user and status", store.ApplicationFilter{UserID: "u1", Status: models.StatusApproved}, []string{"N2"}},
		{"limit", store.ApplicationFilter{Limit: 1}, []string{"N3"}},
		{"no match", store.ApplicationFilter{UserID: "nobody"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := s.ListApplications(ctx, tt.filter)
			require.NoError(t, err)
			assert.Equal(t, tt.want, numbers(apps))
		})
	}

	// вторая заявка того же пользователя на то же мероприятие
	err = s.CreateApplication(ctx, newApplication("N4", "u1", "e1", models.StatusPending, base.Add(3*time.Minute)))
	assert.ErrorIs(t, err, store.ErrDuplicate)

	apps, err := s.ListApplications(ctx, store.ApplicationFilter{})
	require.NoError(t, err)
	assert.Len(t, apps, 3)
}

func testDecide(t *testing.T, s store.All) {
	ctx := context.Background()

	app := newApplication("N1", "u1", "e1", models.StatusPending, base)
	require.NoError(t, s.CreateApplication(ctx, app))

	processed := base.Add(24 * time.Hour)
	require.NoError(t, s.DecideApplication(ctx, app.ID, models.Decision{
		Status:       models.StatusRejected,
		ApproverName: "Prof. A",
		ApproverRole: "faculty",
		ProcessedAt:  processed,
	}))

	got, err := s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, got.Status)
	assert.Equal(t, "Prof. A", got.ApproverName)
	assert.Equal(t, "faculty", got.ApproverRole)
	require.NotNil(t, got.ProcessedAt)
	assert.True(t, got.ProcessedAt.Equal(processed))

	// решение можно поменять
	require.NoError(t, s.DecideApplication(ctx, app.ID, models.Decision{
		Status:       models.StatusApproved,
		ApproverName: "HOD",
		ApproverRole: "admin",
		ProcessedAt:  processed.Add(time.Hour),
	}))
	got, err = s.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "HOD", got.ApproverName)

	err = s.DecideApplication(ctx, "missing", models.Decision{Status: models.StatusApproved, ProcessedAt: processed})
	assert.ErrorIs(t, err, store.ErrNotFound)
}
