package worker

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/ppiankov/argmap/internal/model"
	"golang.org/x/time/rate"
)

// Limiter rate-limits requests per host, keeping one token bucket for
// every host seen. Batch workers fetching from the same host share it.
type Limiter struct {
	buckets map[string]*rate.Limiter
	mu      sync.RWMutex
	rate    rate.Limit
	burst   int
}

// NewLimiter creates a limiter. A non-positive rate disables limiting.
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if burst <= 0 {
		burst = 5
	}
	limit := rate.Limit(requestsPerSecond)
	if requestsPerSecond <= 0 {
		limit = rate.Inf
	}

	return &Limiter{
		buckets: make(map[string]*rate.Limiter),
		rate:    limit,
		burst:   burst,
	}
}

// NewLimiterFromConfig creates a limiter from the rate limiting settings
func NewLimiterFromConfig(cfg model.RateLimitingConfig) *Limiter {
	return NewLimiter(cfg.RequestsPerSecond, cfg.Burst)
}

// Wait blocks until a request to rawURL's host is allowed
func (l *Limiter) Wait(ctx context.Context, rawURL string) error {
	host, err := hostOf(rawURL)
	if err != nil {
		return err
	}
	return l.bucket(host).Wait(ctx)
}

// Allow reports whether a request to rawURL's host may happen now,
// consuming a token if so
func (l *Limiter) Allow(rawURL string) bool {
	host, err := hostOf(rawURL)
	if err != nil {
		return false
	}
	return l.bucket(host).Allow()
}

// WaitWithDelay waits for clearance, then for additionalDelay (e.g. a
// robots.txt crawl delay)
func (l *Limiter) WaitWithDelay(ctx context.Context, rawURL string, additionalDelay time.Duration) error {
	if err := l.Wait(ctx, rawURL); err != nil {
		return err
	}
	if additionalDelay <= 0 {
		return nil
	}

	timer := time.NewTimer(additionalDelay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (l *Limiter) bucket(host string) *rate.Limiter {
	l.mu.RLock()
	b, ok := l.buckets[host]
	l.mu.RUnlock()
	if ok {
		return b
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if b, ok := l.buckets[host]; ok {
		return b
	}
	b = rate.NewLimiter(l.rate, l.burst)
	l.buckets[host] = b
	return b
}

func hostOf(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	return parsed.Host, nil
}
