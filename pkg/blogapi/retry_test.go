package blogapi

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 2.0,
	}
}

func TestRetryWithBackoff_SingleAttemptReturnsCause(t *testing.T) {
	cause := &APIError{StatusCode: 500, Class: ErrorClassServer}
	calls := 0

	err := retryWithBackoff(context.Background(), fastRetry(1), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		return ErrorClassServer, cause
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if err != cause {
		t.Errorf("err = %v, want the original cause", err)
	}
}

func TestRetryWithBackoff_ClientErrorNotRetried(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		return ErrorClassClient, errors.New("bad request")
	})

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if errors.Is(err, ErrRetryExhausted) {
		t.Error("client errors should not report exhaustion")
	}
}

func TestRetryWithBackoff_SucceedsAfterRetry(t *testing.T) {
	calls := 0
	err := retryWithBackoff(context.Background(), fastRetry(3), zerolog.Nop(), func() (ErrorClass, error) {
		calls++
		if calls < 3 {
			return ErrorClassNetwork, errors.New("connection reset")
		}
		return "", nil
	})

	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryWithBackoff_Exhausted(t *testing.T) {
	err := retryWithBackoff(context.Background(), fastRetry(2), zerolog.Nop(), func() (ErrorClass, error) {
		return ErrorClassServer, errors.New("unavailable")
	})

	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("err = %v, want ErrRetryExhausted", err)
	}
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry(3)
	cfg.InitialBackoff = time.Second

	err := retryWithBackoff(ctx, cfg, zerolog.Nop(), func() (ErrorClass, error) {
		return ErrorClassServer, errors.New("unavailable")
	})

	if !errors.Is(err, ErrContextCancelled) {
		t.Errorf("err = %v, want ErrContextCancelled", err)
	}
}
