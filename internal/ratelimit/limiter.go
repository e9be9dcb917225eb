// Package ratelimit implements the per-domain politeness throttle shared by
// all outbound traffic in a discovery run.
package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ctsc/internship-tracker/internal/metrics"
)

// Limiter enforces a minimum interval between requests to the same domain.
// Domains are throttled independently; waiting on one never blocks another.
// A Limiter is constructed once per discovery run and is safe for
// concurrent use.
type Limiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	perDomain rate.Limit
}

// New creates a Limiter allowing maxPerSecond requests per domain.
func New(maxPerSecond float64) *Limiter {
	if maxPerSecond <= 0 {
		maxPerSecond = 2
	}
	return &Limiter{
		limiters:  make(map[string]*rate.Limiter),
		perDomain: rate.Limit(maxPerSecond),
	}
}

// Wait blocks until the domain's next request slot is available, or until
// the context finishes.
func (l *Limiter) Wait(ctx context.Context, domain string) error {
	key := strings.ToLower(domain)

	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		// Burst of 1 keeps consecutive returns at least the configured
		// interval apart.
		lim = rate.NewLimiter(l.perDomain, 1)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	start := time.Now()
	if err := lim.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait for %s: %w", key, err)
	}
	if delay := time.Since(start); delay > time.Millisecond {
		metrics.ObserveRateLimitDelay(key, delay)
	}
	return nil
}
