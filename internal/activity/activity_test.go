package activity

import (
	"context"
	"errors"
	"testing"
	"time"

	"tgpcet-it/internal/memstore"
	"tgpcet-it/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenLogs struct{ calls int }

func (b *brokenLogs) AddLog(ctx context.Context, entry models.ActivityLog) error {
	b.calls++
	return errors.New("unavailable")
}

func (b *brokenLogs) RecentLogs(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return nil, nil
}

func TestLogWritesEntry(t *testing.T) {
	db := memstore.New()
	l := NewLogger(db)
	fixed := time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return fixed }

	l.Log(context.Background(), ActionApprove, "Approved APP-1", Actor{Email: "hod@tgpcet.ac.in", Name: "HOD"})
	l.Log(context.Background(), ActionEventAdded, "Hackathon", Actor{Email: "anon@tgpcet.ac.in"})

	logs, err := l.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	assert.Equal(t, ActionEventAdded, logs[0].Action)
	assert.Equal(t, "Admin", logs[0].UserName)
	assert.Equal(t, "HOD", logs[1].UserName)
	assert.Equal(t, "hod@tgpcet.ac.in", logs[1].UserEmail)
	assert.Equal(t, "Approved APP-1", logs[1].Details)
	assert.Equal(t, fixed, logs[1].Timestamp)
}

func TestLogSwallowsStoreErrors(t *testing.T) {
	b := &brokenLogs{}
	l := NewLogger(b)

	assert.NotPanics(t, func() {
		l.Log(context.Background(), ActionReject, "x", Actor{})
	})
	assert.Equal(t, 1, b.calls)
}
