package httpx

import (
	"sync"
	"time"
)

// Metrics tracks aggregate statistics for API calls.
type Metrics interface {
	// RecordRequest records an API request
	RecordRequest(provider, endpoint string)

	// RecordDuration records request duration
	RecordDuration(provider, endpoint string, duration time.Duration)

	// RecordError records an error
	RecordError(provider, endpoint string, errType ErrorType)

	// GetStats returns current statistics
	GetStats() Stats
}

// Stats contains aggregate statistics.
type Stats struct {
	TotalRequests int
	TotalDuration time.Duration
	ErrorCount    int
	ByEndpoint    map[string]EndpointStats
}

// EndpointStats contains per-endpoint statistics.
type EndpointStats struct {
	Requests int
	Duration time.Duration
	Errors   int
}

// DefaultMetrics provides in-memory metrics tracking.
type DefaultMetrics struct {
	mu    sync.RWMutex
	stats Stats
}

// NewDefaultMetrics creates a metrics tracker.
func NewDefaultMetrics() *DefaultMetrics {
	return &DefaultMetrics{
		stats: Stats{
			ByEndpoint: make(map[string]EndpointStats),
		},
	}
}

// RecordRequest increments request counters.
func (m *DefaultMetrics) RecordRequest(provider, endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalRequests++

	es := m.stats.ByEndpoint[endpoint]
	es.Requests++
	m.stats.ByEndpoint[endpoint] = es
}

// RecordDuration records API call duration.
func (m *DefaultMetrics) RecordDuration(provider, endpoint string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.TotalDuration += duration

	es := m.stats.ByEndpoint[endpoint]
	es.Duration += duration
	m.stats.ByEndpoint[endpoint] = es
}

// RecordError records an error.
func (m *DefaultMetrics) RecordError(provider, endpoint string, errType ErrorType) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.stats.ErrorCount++

	es := m.stats.ByEndpoint[endpoint]
	es.Errors++
	m.stats.ByEndpoint[endpoint] = es
}

// GetStats returns a copy of current statistics.
func (m *DefaultMetrics) GetStats() Stats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	statsCopy := Stats{
		TotalRequests: m.stats.TotalRequests,
		TotalDuration: m.stats.TotalDuration,
		ErrorCount:    m.stats.ErrorCount,
		ByEndpoint:    make(map[string]EndpointStats),
	}

	for k, v := range m.stats.ByEndpoint {
		statsCopy.ByEndpoint[k] = v
	}

	return statsCopy
}
