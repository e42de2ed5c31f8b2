package throttle

import (
	"sync"
	"time"
)

const (
	staleAfter    = time.Hour
	sweepInterval = 5 * time.Minute
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// Limiter is a token bucket limiter keyed by caller. It refills one token
// per interval up to the configured capacity. Sweeping of idle buckets
// happens inline during Allow, so the limiter owns no goroutine.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	capacity  int
	interval  time.Duration
	lastSweep time.Time
}

// NewLimiter creates a limiter allowing a burst of capacity requests per
// key, refilling one token every interval.
func NewLimiter(capacity int, interval time.Duration) (*Limiter, error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return &Limiter{
		buckets:   make(map[string]*bucket),
		capacity:  capacity,
		interval:  interval,
		lastSweep: time.Now(),
	}, nil
}

// Allow consumes one token from the key's bucket. When the bucket is
// empty it reports ok=false together with the wait until the next token.
func (l *Limiter) Allow(key string) (remaining int, retryAfter time.Duration, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.sweep(now)

	b, exists := l.buckets[key]
	if !exists {
		b = &bucket{tokens: l.capacity, lastRefill: now}
		l.buckets[key] = b
	}
	b.lastAccess = now

	if elapsed := now.Sub(b.lastRefill); elapsed >= l.interval {
		refilled := int(elapsed / l.interval)
		if refilled > l.capacity-b.tokens {
			refilled = l.capacity - b.tokens
		}
		b.tokens += refilled
		b.lastRefill = now
	}

	if b.tokens <= 0 {
		return 0, l.interval - now.Sub(b.lastRefill), false
	}

	b.tokens--
	return b.tokens, 0, true
}

// Reset drops the bucket for key, restoring the full burst.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.buckets, key)
}

// sweep removes buckets idle for longer than staleAfter. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < sweepInterval {
		return
	}
	l.lastSweep = now
	for key, b := range l.buckets {
		if now.Sub(b.lastAccess) > staleAfter {
			delete(l.buckets, key)
		}
	}
}
