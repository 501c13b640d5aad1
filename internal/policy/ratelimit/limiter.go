// Package ratelimit enforces a minimum spacing between successive requests
// to the same source.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/padraigk/jobradar/internal/metrics"
)

// Limiter manages per-source request spacing. Requests within one source are
// sequential; different sources never wait on each other.
type Limiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	interval time.Duration
}

// New creates a Limiter spacing requests at least delay apart per source.
// A zero or negative delay disables waiting.
func New(delay time.Duration) *Limiter {
	return &Limiter{
		limiters: make(map[string]*rate.Limiter),
		interval: delay,
	}
}

// Wait blocks until the source's minimum delay has elapsed since the previous
// permitted request, respecting the context. The first request per source is
// immediate.
func (l *Limiter) Wait(ctx context.Context, source string) error {
	if l.interval <= 0 {
		return nil
	}
	l.mu.Lock()
	limiter, ok := l.limiters[source]
	if !ok {
		limiter = rate.NewLimiter(rate.Every(l.interval), 1)
		l.limiters[source] = limiter
	}
	l.mu.Unlock()

	start := time.Now()
	if err := limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}
	if waited := time.Since(start); waited > time.Millisecond {
		metrics.ObserveRateLimitDelay(source, waited)
	}
	return nil
}
