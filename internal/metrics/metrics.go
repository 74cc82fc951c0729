package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	RequestsServed     int64
	RateLimited        int64
	OriginDenied       int64
	PayloadTooLarge    int64
	FetchFailures      int64
	NormalizeFailures  int64
	GeneratedSummaries int64
	FallbackSummaries  int64

	// Timings
	LastProcessingTime    time.Duration
	TotalProcessingTime   time.Duration
	AverageProcessingTime time.Duration
	ProcessingCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

var Global = &Metrics{IsHealthy: true}

func (m *Metrics) IncrementRequestsServed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestsServed++
}

func (m *Metrics) IncrementRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimited++
}

func (m *Metrics) IncrementOriginDenied() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.OriginDenied++
}

func (m *Metrics) IncrementPayloadTooLarge() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PayloadTooLarge++
}

func (m *Metrics) IncrementFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchFailures++
}

func (m *Metrics) IncrementNormalizeFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.NormalizeFailures++
}

func (m *Metrics) IncrementGeneratedSummaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GeneratedSummaries++
}

func (m *Metrics) IncrementFallbackSummaries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FallbackSummaries++
}

func (m *Metrics) RecordProcessingTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastProcessingTime = duration
	m.TotalProcessingTime += duration
	m.ProcessingCount++

	if m.ProcessingCount > 0 {
		m.AverageProcessingTime = m.TotalProcessingTime / time.Duration(m.ProcessingCount)
	}
}

func (m *Metrics) SetLastRun() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"requests_served":            m.RequestsServed,
		"rate_limited":               m.RateLimited,
		"origin_denied":              m.OriginDenied,
		"payload_too_large":          m.PayloadTooLarge,
		"fetch_failures":             m.FetchFailures,
		"normalize_failures":         m.NormalizeFailures,
		"generated_summaries":        m.GeneratedSummaries,
		"fallback_summaries":         m.FallbackSummaries,
		"last_processing_time_ms":    m.LastProcessingTime.Milliseconds(),
		"average_processing_time_ms": m.AverageProcessingTime.Milliseconds(),
		"last_run_time":              m.LastRunTime.Format(time.RFC3339),
		"last_error_time":            m.LastErrorTime.Format(time.RFC3339),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}
