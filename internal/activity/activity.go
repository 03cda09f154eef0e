// Package activity — журнал действий администраторов и преподавателей.
package activity

import (
	"context"
	"log"
	"time"

	"tgpcet-it/internal/models"
	"tgpcet-it/internal/store"
)

const (
	ActionApprove    = "approve_application"
	ActionReject     = "reject_application"
	ActionEventAdded = "create_event"
	ActionStaffSeed  = "seed_staff"
)

type Actor struct {
	Email string
	Name  string
}

type Logger struct {
	logs store.Activity
	now  func() time.Time
}

func NewLogger(logs store.Activity) *Logger {
	return &Logger{logs: logs, now: time.Now}
}

// Log пишет запись в logs. Ошибка только логируется: действие,
// ради которого пишем журнал, уже выполнено.
func (l *Logger) Log(ctx context.Context, action, details string, actor Actor) {
	name := actor.Name
	if name == "" {
		name = "Admin"
	}

	entry := models.ActivityLog{
		Action:    action,
		Details:   details,
		UserEmail: actor.Email,
		UserName:  name,
		Timestamp: l.now().UTC(),
	}
	if err := l.logs.AddLog(ctx, entry); err != nil {
		log.Printf("error logging activity %q: %v", action, err)
		return
	}
	log.Printf("activity logged: %s", action)
}

func (l *Logger) Recent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return l.logs.RecentLogs(ctx, limit)
}
