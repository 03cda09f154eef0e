// Package retry повторяет операции с экспоненциальной задержкой
// на сетевых и временных ошибках бэкенда.
package retry

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	DefaultMaxRetries = 3
	DefaultBaseDelay  = time.Second
)

// коды, на которых имеет смысл повторить
var retryableCodes = []string{
	"auth/network-request-failed",
	"unavailable",
	"resource-exhausted",
	"deadline-exceeded",
	"cancelled",
}

type Options struct {
	MaxRetries int
	BaseDelay  time.Duration
	// OnRetry вызывается перед каждым ожиданием: номер попытки и максимум.
	OnRetry func(attempt, max int)
}

// Coder — ошибка с машинным кодом (identity.Error и т.п.).
type Coder interface {
	ErrorCode() string
}

// подменяется в тестах
var sleep = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	maxRetries := opts.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	baseDelay := opts.BaseDelay
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}

	var zero T
	for attempt := 0; ; attempt++ {
		res, err := op(ctx)
		if err == nil {
			return res, nil
		}
		if attempt == maxRetries-1 || !IsRetryable(err) {
			return zero, err
		}

		delay := baseDelay * time.Duration(1<<attempt)
		log.Printf("retry attempt %d/%d after %s: %v", attempt+1, maxRetries, delay, err)
		if opts.OnRetry != nil {
			opts.OnRetry(attempt+1, maxRetries)
		}
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}
}

// Run — Do для операций без результата.
func Run(ctx context.Context, op func(ctx context.Context) error, opts Options) error {
	_, err := Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	}, opts)
	return err
}

func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	code := Code(err)
	msg := err.Error()
	for _, rc := range retryableCodes {
		if (code != "" && strings.Contains(code, rc)) || strings.Contains(msg, rc) {
			return true
		}
	}
	return false
}

// Code достаёт код ошибки: свой Coder или статус gRPC в виде "resource-exhausted".
func Code(err error) string {
	var c Coder
	if errors.As(err, &c) {
		return c.ErrorCode()
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.OK && s.Code() != codes.Unknown {
		return grpcCodeName(s.Code())
	}
	return ""
}

func grpcCodeName(c codes.Code) string {
	switch c {
	case codes.Canceled:
		return "cancelled"
	case codes.DeadlineExceeded:
		return "deadline-exceeded"
	case codes.ResourceExhausted:
		return "resource-exhausted"
	case codes.Unavailable:
		return "unavailable"
	case codes.NotFound:
		return "not-found"
	case codes.AlreadyExists:
		return "already-exists"
	case codes.PermissionDenied:
		return "permission-denied"
	case codes.Unauthenticated:
		return "unauthenticated"
	case codes.InvalidArgument:
		return "invalid-argument"
	case codes.FailedPrecondition:
		return "failed-precondition"
	case codes.Aborted:
		return "aborted"
	}
	return strings.ToLower(c.String())
}
