package gate

import (
	"sync"
	"time"
)

// record tracks one client inside the current fixed window.
type record struct {
	count   int
	resetAt time.Time
}

// Limiter is a fixed-window rate limiter keyed by client identifier. The
// quota resets entirely at the window boundary; there is no sliding credit.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record

	max         int
	window      time.Duration
	gcThreshold int

	now func() time.Time
}

// NewLimiter creates a limiter allowing max requests per window per client.
// gcThreshold bounds memory: once the record table grows past it, expired
// records are collected opportunistically on the next check.
func NewLimiter(max int, window time.Duration, gcThreshold int) *Limiter {
	return &Limiter{
		records:     make(map[string]*record),
		max:         max,
		window:      window,
		gcThreshold: gcThreshold,
		now:         time.Now,
	}
}

// Allow reports whether the client identified by key may proceed, and counts
// the request against its window. Increment-and-compare happens under one
// lock so concurrent requests never under-count.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	if len(l.records) > l.gcThreshold {
		l.gc(now)
	}

	rec, ok := l.records[key]
	if !ok || now.After(rec.resetAt) {
		// New client or rolled-over window: this request is the first of
		// the window, so the counter starts at 1.
		l.records[key] = &record{count: 1, resetAt: now.Add(l.window)}
		return true
	}

	if rec.count >= l.max {
		return false
	}
	rec.count++
	return true
}

// gc drops expired records. Caller holds the lock.
func (l *Limiter) gc(now time.Time) {
	for key, rec := range l.records {
		if now.After(rec.resetAt) {
			delete(l.records, key)
		}
	}
}

// Size returns the current record count, for the metrics endpoint.
func (l *Limiter) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}
