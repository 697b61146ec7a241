package httpx_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prforge/internal/adapter/httpx"
)

func TestError_Error(t *testing.T) {
	err := httpx.NewNotFoundError("github", "ref heads/missing not found")

	msg := err.Error()
	assert.Contains(t, msg, "github")
	assert.Contains(t, msg, "not found")
	assert.Contains(t, msg, "ref heads/missing not found")
	assert.Contains(t, msg, "404")
}

func TestError_Is_MatchesOnType(t *testing.T) {
	a := httpx.NewConflictError("github", "not a fast forward")
	b := httpx.NewConflictError("github", "different message")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, httpx.NewNotFoundError("github", "x")))
}

func TestError_Is_WrappedError(t *testing.T) {
	inner := httpx.NewValidationError("github", "duplicate path")
	wrapped := fmt.Errorf("create tree: %w", inner)

	assert.True(t, httpx.IsValidation(wrapped))
	assert.False(t, httpx.IsNotFound(wrapped))
	assert.False(t, httpx.IsConflict(wrapped))
}

func TestTypeHelpers_NonHTTPError(t *testing.T) {
	plain := errors.New("boom")
	assert.False(t, httpx.IsValidation(plain))
	assert.False(t, httpx.IsNotFound(plain))
	assert.False(t, httpx.IsConflict(plain))
	assert.False(t, httpx.IsValidation(nil))
}

func TestConstructors_StatusAndRetryability(t *testing.T) {
	tests := []struct {
		name       string
		err        *httpx.Error
		errType    httpx.ErrorType
		statusCode int
		retryable  bool
	}{
		{"validation", httpx.NewValidationError("github", "m"), httpx.ErrTypeValidation, 422, false},
		{"not found", httpx.NewNotFoundError("github", "m"), httpx.ErrTypeNotFound, 404, false},
		{"conflict", httpx.NewConflictError("github", "m"), httpx.ErrTypeConflict, 409, false},
		{"authentication", httpx.NewAuthenticationError("github", "m"), httpx.ErrTypeAuthentication, 401, false},
		{"rate limit", httpx.NewRateLimitError("github", "m"), httpx.ErrTypeRateLimit, 429, true},
		{"service unavailable", httpx.NewServiceUnavailableError("github", "m"), httpx.ErrTypeServiceUnavailable, 503, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.NotNil(t, tc.err)
			assert.Equal(t, tc.errType, tc.err.Type)
			assert.Equal(t, tc.statusCode, tc.err.StatusCode)
			assert.Equal(t, tc.retryable, tc.err.IsRetryable())
		})
	}
}

func TestNewTimeoutError_Retryable(t *testing.T) {
	err := httpx.NewTimeoutError("github", "deadline exceeded")
	assert.Equal(t, httpx.ErrTypeTimeout, err.Type)
	assert.True(t, err.IsRetryable())
}

func TestErrorType_String(t *testing.T) {
	assert.Equal(t, "validation error", httpx.ErrTypeValidation.String())
	assert.Equal(t, "conflict", httpx.ErrTypeConflict.String())
	assert.Equal(t, "unknown error", httpx.ErrTypeUnknown.String())
}
