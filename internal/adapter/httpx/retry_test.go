package httpx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prforge/internal/adapter/httpx"
)

func fastRetryConfig() httpx.RetryConfig {
	return httpx.RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     5 * time.Millisecond,
		Multiplier:     2.0,
	}
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := httpx.DefaultRetryConfig()
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.InitialBackoff)
	assert.Equal(t, 32*time.Second, cfg.MaxBackoff)
	assert.Equal(t, 2.0, cfg.Multiplier)
}

func TestExponentialBackoff_WithinJitterBounds(t *testing.T) {
	cfg := httpx.RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     time.Minute,
		Multiplier:     2.0,
	}

	for attempt := 0; attempt < 4; attempt++ {
		expected := float64(time.Second) * float64(int(1)<<attempt)
		for i := 0; i < 20; i++ {
			backoff := httpx.ExponentialBackoff(attempt, cfg)
			assert.GreaterOrEqual(t, float64(backoff), expected*0.75)
			assert.LessOrEqual(t, float64(backoff), expected*1.25)
		}
	}
}

func TestExponentialBackoff_CappedAtMax(t *testing.T) {
	cfg := httpx.RetryConfig{
		InitialBackoff: time.Second,
		MaxBackoff:     4 * time.Second,
		Multiplier:     2.0,
	}

	for i := 0; i < 20; i++ {
		backoff := httpx.ExponentialBackoff(10, cfg)
		assert.LessOrEqual(t, backoff, 4*time.Second)
	}
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, httpx.ShouldRetry(nil))
	assert.False(t, httpx.ShouldRetry(errors.New("generic")))
	assert.False(t, httpx.ShouldRetry(httpx.NewValidationError("github", "bad")))
	assert.True(t, httpx.ShouldRetry(httpx.NewRateLimitError("github", "limited")))
	assert.True(t, httpx.ShouldRetry(httpx.NewServiceUnavailableError("github", "down")))
}

func TestRetryWithBackoff_SucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return httpx.NewServiceUnavailableError("github", "down")
		}
		return nil
	}, fastRetryConfig())

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryWithBackoff_NonRetryableFailsImmediately(t *testing.T) {
	calls := 0
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return httpx.NewNotFoundError("github", "missing")
	}, fastRetryConfig())

	require.Error(t, err)
	assert.True(t, httpx.IsNotFound(err))
	assert.Equal(t, 1, calls)
}

func TestRetryWithBackoff_ExhaustsRetries(t *testing.T) {
	calls := 0
	cfg := fastRetryConfig()
	err := httpx.RetryWithBackoff(context.Background(), func(ctx context.Context) error {
		calls++
		return httpx.NewRateLimitError("github", "limited")
	}, cfg)

	require.Error(t, err)
	assert.Equal(t, cfg.MaxRetries+1, calls)
}

func TestRetryWithBackoff_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
		calls++
		return nil
	}, fastRetryConfig())

	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestRetryWithBackoff_ContextCancelledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := httpx.RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Hour,
		MaxBackoff:     time.Hour,
		Multiplier:     2.0,
	}

	done := make(chan error, 1)
	go func() {
		done <- httpx.RetryWithBackoff(ctx, func(ctx context.Context) error {
			return httpx.NewServiceUnavailableError("github", "down")
		}, cfg)
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not observe cancellation")
	}
}
