package observability

import (
	"context"

	"prforge/internal/adapter/httpx"
	"prforge/internal/usecase/fixture"
)

// SeedLogger adapts httpx.DefaultLogger to the fixture.Logger interface,
// so the seeding orchestrator shares the same structured logging
// infrastructure as the HTTP transport.
type SeedLogger struct {
	logger *httpx.DefaultLogger
}

// NewSeedLogger creates a new seed logger adapter.
func NewSeedLogger(logger *httpx.DefaultLogger) fixture.Logger {
	return &SeedLogger{logger: logger}
}

// LogWarning logs a warning message with structured fields.
func (l *SeedLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogWarning(ctx, message, fields)
}

// LogInfo logs an informational message with structured fields.
func (l *SeedLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	l.logger.LogInfo(ctx, message, fields)
}
