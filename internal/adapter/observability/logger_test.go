package observability_test

import (
	"bytes"
	"context"
	"log"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"prforge/internal/adapter/httpx"
	"prforge/internal/adapter/observability"
)

func TestNewSeedLogger(t *testing.T) {
	base := httpx.NewDefaultLogger(httpx.LogLevelInfo, httpx.LogFormatHuman, true)
	seedLogger := observability.NewSeedLogger(base)

	require.NotNil(t, seedLogger)
}

func TestSeedLogger_LogWarning(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	base := httpx.NewDefaultLogger(httpx.LogLevelInfo, httpx.LogFormatHuman, true)
	seedLogger := observability.NewSeedLogger(base)

	ctx := context.Background()
	seedLogger.LogWarning(ctx, "failed to journal event", map[string]interface{}{
		"seed_id": "seed-123",
		"kind":    "blob",
		"error":   "database is locked",
	})

	output := buf.String()
	assert.Contains(t, output, "[WARN]")
	assert.Contains(t, output, "failed to journal event")
	assert.Contains(t, output, "seed_id=seed-123")
	assert.Contains(t, output, "kind=blob")
	assert.Contains(t, output, "error=database is locked")
}

func TestSeedLogger_LogInfo(t *testing.T) {
	// Capture log output
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	base := httpx.NewDefaultLogger(httpx.LogLevelInfo, httpx.LogFormatHuman, true)
	seedLogger := observability.NewSeedLogger(base)

	ctx := context.Background()
	seedLogger.LogInfo(ctx, "opened pull request", map[string]interface{}{
		"number": 42,
		"head":   "feature/contributing",
		"base":   "master",
	})

	output := buf.String()
	assert.Contains(t, output, "[INFO]")
	assert.Contains(t, output, "opened pull request")
	assert.Contains(t, output, "number=42")
	assert.Contains(t, output, "head=feature/contributing")
	assert.Contains(t, output, "base=master")
}

func TestSeedLogger_InfoSuppressedAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	base := httpx.NewDefaultLogger(httpx.LogLevelError, httpx.LogFormatHuman, true)
	seedLogger := observability.NewSeedLogger(base)

	seedLogger.LogInfo(context.Background(), "opened pull request", nil)
	assert.Empty(t, buf.String())
}
