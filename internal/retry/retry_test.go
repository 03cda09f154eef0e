package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type codedErr struct{ code string }

func (e codedErr) Error() string     { return "coded failure" }
func (e codedErr) ErrorCode() string { return e.code }

func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := sleep
	sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { sleep = orig })
	return &delays
}

func TestDoSucceedsAfterRetryableFailures(t *testing.T) {
	delays := recordSleeps(t)

	calls := 0
	res, err := Do(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls <= 2 {
			return "", codedErr{code: "unavailable"}
		}
		return "ok", nil
	}, Options{MaxRetries: 4, BaseDelay: time.Second})

	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *delays)
}

func TestDoNonRetryableCalledOnce(t *testing.T) {
	delays := recordSleeps(t)

	calls := 0
	want := errors.New("permission-denied")
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, want
	}, Options{MaxRetries: 5})

	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, *delays)
}

func TestDoExhaustionReturnsLastError(t *testing.T) {
	delays := recordSleeps(t)

	var attempts, maxes []int
	calls := 0
	var last error
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		last = codedErr{code: "auth/network-request-failed"}
		return 0, last
	}, Options{
		MaxRetries: 4,
		BaseDelay:  1000 * time.Millisecond,
		OnRetry: func(attempt, max int) {
			attempts = append(attempts, attempt)
			maxes = append(maxes, max)
		},
	})

	assert.Equal(t, last, err)
	assert.Equal(t, 4, calls)
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond, 4000 * time.Millisecond}, *delays)
	assert.Equal(t, []int{1, 2, 3}, attempts)
	assert.Equal(t, []int{4, 4, 4}, maxes)
}

func TestDoDefaults(t *testing.T) {
	delays := recordSleeps(t)

	calls := 0
	_, err := Do(context.Background(), func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("deadline-exceeded while reading")
	}, Options{})

	assert.Error(t, err)
	assert.Equal(t, DefaultMaxRetries, calls)
	assert.Equal(t, []time.Duration{DefaultBaseDelay, 2 * DefaultBaseDelay}, *delays)
}

func TestDoStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Run(ctx, func(ctx context.Context) error {
		calls++
		return codedErr{code: "unavailable"}
	}, Options{MaxRetries: 3, BaseDelay: time.Hour})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "auth network code", err: codedErr{code: "auth/network-request-failed"}, want: true},
		{name: "message match", err: errors.New("backend unavailable right now"), want: true},
		{name: "grpc unavailable", err: status.Error(codes.Unavailable, "try later"), want: true},
		{name: "grpc resource exhausted", err: status.Error(codes.ResourceExhausted, "quota"), want: true},
		{name: "grpc deadline", err: status.Error(codes.DeadlineExceeded, "slow"), want: true},
		{name: "grpc canceled", err: status.Error(codes.Canceled, "stop"), want: true},
		{name: "grpc permission", err: status.Error(codes.PermissionDenied, "no"), want: false},
		{name: "popup blocked", err: codedErr{code: "auth/popup-blocked"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
