// Package netstatus следит за связью с бэкендом и сообщает о переходах
// online/offline подписчикам и тостом.
package netstatus

import (
	"context"
	"log"
	"sync"
	"time"

	"tgpcet-it/internal/notify"
)

type Probe func(ctx context.Context) error

type Monitor struct {
	probe    Probe
	interval time.Duration
	toasts   *notify.Container

	mu        sync.Mutex
	online    bool
	listeners map[int]func(online bool)
	nextID    int
}

func New(probe Probe, interval time.Duration, toasts *notify.Container) *Monitor {
	return &Monitor{
		probe:     probe,
		interval:  interval,
		toasts:    toasts,
		online:    true,
		listeners: map[int]func(bool){},
	}
}

func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe возвращает функцию отписки.
func (m *Monitor) Subscribe(fn func(online bool)) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Check дёргает probe один раз и уведомляет, если состояние сменилось.
func (m *Monitor) Check(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := m.probe(pctx)
	cancel()
	online := err == nil

	m.mu.Lock()
	changed := online != m.online
	m.online = online
	var fns []func(bool)
	if changed {
		for _, fn := range m.listeners {
			fns = append(fns, fn)
		}
	}
	m.mu.Unlock()

	if !changed {
		return online
	}

	if online {
		log.Println("backend connection restored")
		if m.toasts != nil {
			m.toasts.Show("Connection restored", notify.Success, notify.DefaultDuration)
		}
	} else {
		log.Printf("backend unreachable: %v", err)
		if m.toasts != nil {
			m.toasts.Show("You are offline", notify.Warning, notify.DefaultDuration)
		}
	}
	for _, fn := range fns {
		fn(online)
	}
	return online
}

func (m *Monitor) Run(ctx context.Context) {
	t := time.NewTicker(m.interval)
	defer t.Stop()

	m.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Check(ctx)
		}
	}
}
