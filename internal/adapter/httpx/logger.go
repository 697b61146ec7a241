package httpx

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"
)

// Logger provides structured logging for API calls.
type Logger interface {
	// LogRequest logs an outgoing API request (credentials redacted)
	LogRequest(ctx context.Context, req RequestLog)

	// LogResponse logs an API response with timing info
	LogResponse(ctx context.Context, resp ResponseLog)

	// LogError logs an API error
	LogError(ctx context.Context, err ErrorLog)
}

// RequestLog contains request information for logging.
type RequestLog struct {
	Provider  string
	Method    string
	Endpoint  string
	Timestamp time.Time
	Token     string // Will be redacted to last 4 chars
}

// ResponseLog contains response information for logging.
type ResponseLog struct {
	Provider   string
	Method     string
	Endpoint   string
	Timestamp  time.Time
	Duration   time.Duration
	StatusCode int
}

// ErrorLog contains error information for logging.
type ErrorLog struct {
	Provider   string
	Method     string
	Endpoint   string
	Timestamp  time.Time
	Duration   time.Duration
	Error      error
	ErrorType  ErrorType
	StatusCode int
	Retryable  bool
}

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes logs in structured format to stdout.
type DefaultLogger struct {
	level       LogLevel
	redactToken bool
	format      LogFormat
}

// NewDefaultLogger creates a logger with the specified config.
func NewDefaultLogger(level LogLevel, format LogFormat, redactToken bool) *DefaultLogger {
	return &DefaultLogger{
		level:       level,
		redactToken: redactToken,
		format:      format,
	}
}

// SetRedaction enables or disables credential redaction.
func (l *DefaultLogger) SetRedaction(enabled bool) {
	l.redactToken = enabled
}

// LogRequest logs an API request.
func (l *DefaultLogger) LogRequest(ctx context.Context, req RequestLog) {
	if l.level > LogLevelDebug {
		return
	}

	redacted := l.RedactToken(req.Token)

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"debug","type":"request","provider":"%s","method":"%s","endpoint":"%s","timestamp":"%s","token":"%s"}`,
			req.Provider, req.Method, req.Endpoint, req.Timestamp.Format(time.RFC3339), redacted)
	} else {
		log.Printf("[DEBUG] %s: %s %s (token=%s)",
			req.Provider, req.Method, req.Endpoint, redacted)
	}
}

// LogResponse logs an API response.
func (l *DefaultLogger) LogResponse(ctx context.Context, resp ResponseLog) {
	if l.level > LogLevelInfo {
		return
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"info","type":"response","provider":"%s","method":"%s","endpoint":"%s","timestamp":"%s","duration_ms":%d,"status_code":%d}`,
			resp.Provider, resp.Method, resp.Endpoint, resp.Timestamp.Format(time.RFC3339),
			resp.Duration.Milliseconds(), resp.StatusCode)
	} else {
		log.Printf("[INFO] %s: %s %s -> %d (%.2fs)",
			resp.Provider, resp.Method, resp.Endpoint, resp.StatusCode, resp.Duration.Seconds())
	}
}

// LogError logs an API error.
func (l *DefaultLogger) LogError(ctx context.Context, err ErrorLog) {
	if l.level > LogLevelError {
		return
	}

	retryableStr := "non-retryable"
	if err.Retryable {
		retryableStr = "retryable"
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"error","type":"error","provider":"%s","method":"%s","endpoint":"%s","timestamp":"%s","duration_ms":%d,"error":"%s","error_type":%d,"status_code":%d,"retryable":%t}`,
			err.Provider, err.Method, err.Endpoint, err.Timestamp.Format(time.RFC3339),
			err.Duration.Milliseconds(), err.Error.Error(), err.ErrorType, err.StatusCode, err.Retryable)
	} else {
		log.Printf("[ERROR] %s: %s %s failed (status=%d, %s): %v",
			err.Provider, err.Method, err.Endpoint, err.StatusCode, retryableStr, err.Error)
	}
}

// LogWarning logs a warning message with structured fields.
func (l *DefaultLogger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelError {
		return
	}
	if l.format == LogFormatJSON {
		log.Printf(`{"level":"warn","message":"%s"%s}`, message, jsonFields(fields))
	} else {
		log.Printf("[WARN] %s%s", message, humanFields(fields))
	}
}

// LogInfo logs an informational message with structured fields.
func (l *DefaultLogger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	if l.format == LogFormatJSON {
		log.Printf(`{"level":"info","message":"%s"%s}`, message, jsonFields(fields))
	} else {
		log.Printf("[INFO] %s%s", message, humanFields(fields))
	}
}

func jsonFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := sortedKeys(fields)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, `,"%s":"%v"`, k, fields[k])
	}
	return b.String()
}

func humanFields(fields map[string]interface{}) string {
	if len(fields) == 0 {
		return ""
	}
	keys := sortedKeys(fields)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	return b.String()
}

func sortedKeys(fields map[string]interface{}) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// RedactToken shows only the last 4 characters of a token with explicit redaction markers.
func (l *DefaultLogger) RedactToken(token string) string {
	if !l.redactToken {
		return token
	}
	if len(token) <= 4 {
		return "[REDACTED]"
	}
	return fmt.Sprintf("[REDACTED-%s]", token[len(token)-4:])
}
