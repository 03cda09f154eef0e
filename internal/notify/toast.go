// Package notify — всплывающие уведомления (toasts).
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Severity string

const (
	Success Severity = "success"
	Error   Severity = "error"
	Warning Severity = "warning"
	Info    Severity = "info"
)

const (
	DefaultDuration = 4 * time.Second
	// ExitDelay — время анимации ухода, после него тост удаляется совсем.
	ExitDelay = 300 * time.Millisecond
)

type style struct {
	Background string
	Icon       string
}

var styles = map[Severity]style{
	Success: {Background: "rgba(34, 197, 94, 0.95)", Icon: "✓"},
	Error:   {Background: "rgba(239, 68, 68, 0.95)", Icon: "✕"},
	Warning: {Background: "rgba(234, 179, 8, 0.95)", Icon: "⚠"},
	Info:    {Background: "rgba(59, 130, 246, 0.95)", Icon: "ℹ"},
}

type Toast struct {
	ID        string
	Message   string
	Severity  Severity
	Duration  time.Duration
	CreatedAt time.Time
	DismissAt time.Time
	RemoveAt  time.Time
}

func (t Toast) Background() string { return styleOf(t.Severity).Background }
func (t Toast) Icon() string       { return styleOf(t.Severity).Icon }

// DurationMS — для data-атрибута, по нему скрипт запускает анимацию ухода.
func (t Toast) DurationMS() int64 { return t.Duration.Milliseconds() }

func styleOf(s Severity) style {
	if st, ok := styles[s]; ok {
		return st
	}
	return styles[Info]
}

// Container — общая стопка тостов. Без лимита и без дедупликации.
type Container struct {
	mu     sync.Mutex
	toasts []Toast
	now    func() time.Time
}

func NewContainer() *Container {
	return &Container{now: time.Now}
}

// WithClock — для тестов.
func (c *Container) WithClock(now func() time.Time) *Container {
	c.now = now
	return c
}

func (c *Container) Show(message string, severity Severity, duration time.Duration) Toast {
	t := newToast(message, severity, duration, c.now())

	c.mu.Lock()
	c.toasts = append(c.toasts, t)
	c.mu.Unlock()
	return t
}

func newToast(message string, severity Severity, duration time.Duration, now time.Time) Toast {
	if severity == "" {
		severity = Info
	}
	if duration <= 0 {
		duration = DefaultDuration
	}
	return Toast{
		ID:        uuid.NewString(),
		Message:   message,
		Severity:  severity,
		Duration:  duration,
		CreatedAt: now,
		DismissAt: now.Add(duration),
		RemoveAt:  now.Add(duration + ExitDelay),
	}
}

// Active возвращает живые тосты и выкидывает те, что уже отыграли.
func (c *Container) Active() []Toast {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	live := c.toasts[:0]
	for _, t := range c.toasts {
		if now.Before(t.RemoveAt) {
			live = append(live, t)
		}
	}
	c.toasts = live

	out := make([]Toast, len(live))
	copy(out, live)
	return out
}

func (c *Container) Len() int {
	return len(c.Active())
}
