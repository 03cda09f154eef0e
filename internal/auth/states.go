package auth

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// StateStore хранит одноразовые state-значения OAuth redirect-входа.
type StateStore interface {
	Put(ctx context.Context, state string, ttl time.Duration) error
	// Take проверяет и сразу гасит state.
	Take(ctx context.Context, state string) (bool, error)
}

type MemoryStates struct {
	mu     sync.Mutex
	states map[string]time.Time
	now    func() time.Time
}

func NewMemoryStates() *MemoryStates {
	return &MemoryStates{states: map[string]time.Time{}, now: time.Now}
}

func (s *MemoryStates) Put(ctx context.Context, state string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for k, exp := range s.states {
		if !now.Before(exp) {
			delete(s.states, k)
		}
	}
	s.states[state] = now.Add(ttl)
	return nil
}

func (s *MemoryStates) Take(ctx context.Context, state string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	exp, ok := s.states[state]
	if !ok {
		return false, nil
	}
	delete(s.states, state)
	return s.now().Before(exp), nil
}

type RedisStates struct {
	client *redis.Client
	prefix string
}

func NewRedisStates(client *redis.Client) *RedisStates {
	return &RedisStates{client: client, prefix: "oauth-state:"}
}

func (s *RedisStates) Put(ctx context.Context, state string, ttl time.Duration) error {
	return s.client.Set(ctx, s.prefix+state, "1", ttl).Err()
}

func (s *RedisStates) Take(ctx context.Context, state string) (bool, error) {
	n, err := s.client.Del(ctx, s.prefix+state).Result()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
