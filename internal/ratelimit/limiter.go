// Package ratelimit throttles MCP tool calls with token buckets.
package ratelimit

import (
	"fmt"
	"sync"
	"time"
)

// Limiter is a token bucket. It starts full and refills continuously at
// rate tokens per second up to burst. It is safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	rate    float64
	burst   float64
	tokens  float64
	last    time.Time
	started bool
	now     func() time.Time
}

// NewLimiter creates a bucket refilling at rate tokens/sec with capacity burst.
func NewLimiter(rate float64, burst int) *Limiter {
	return &Limiter{
		rate:  rate,
		burst: float64(burst),
		now:   time.Now,
	}
}

// PerMinute creates a bucket allowing n calls per minute with capacity burst.
func PerMinute(n int, burst int) *Limiter {
	return NewLimiter(float64(n)/60.0, burst)
}

// Allow takes one token, reporting false when the bucket is empty.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if !l.started {
		l.tokens = l.burst
		l.last = now
		l.started = true
	}

	if elapsed := now.Sub(l.last).Seconds(); elapsed > 0 {
		l.tokens = min(l.burst, l.tokens+l.rate*elapsed)
		l.last = now
	}

	if l.tokens < 1 {
		return false
	}
	l.tokens--
	return true
}

// Tools holds one bucket per MCP tool name.
type Tools map[string]*Limiter

// DefaultTools returns the limits applied by the saescope MCP server.
// Database lookups are cheap; classify_summary is pure computation.
func DefaultTools() Tools {
	return Tools{
		"feature_stats":    PerMinute(120, 20),
		"feature_summary":  PerMinute(60, 10),
		"classify_summary": PerMinute(240, 40),
	}
}

// Check takes a token for tool. Tools without a bucket are never limited.
func (t Tools) Check(tool string) error {
	l, ok := t[tool]
	if !ok {
		return nil
	}
	if !l.Allow() {
		return fmt.Errorf("rate limit exceeded for %s, please try again shortly", tool)
	}
	return nil
}
