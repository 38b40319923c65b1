// Package ratelimit provides the in-memory admission gate for story turns.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// TokenBucket tracks one bucket per client key. A bucket holds up to the
// configured number of tokens and refills completely once the window has
// elapsed since the last refill; there is no gradual top-up.
type TokenBucket struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	now     func() time.Time
}

type bucket struct {
	mu         sync.Mutex
	tokens     int
	lastRefill time.Time
}

// NewTokenBucket creates the limiter. now defaults to time.Now.
func NewTokenBucket(now func() time.Time) *TokenBucket {
	if now == nil {
		now = time.Now
	}
	return &TokenBucket{
		buckets: make(map[string]*bucket),
		now:     now,
	}
}

// Allow takes one token from key's bucket. It reports false when the bucket
// is empty and the window has not yet elapsed.
func (t *TokenBucket) Allow(_ context.Context, key string, limit int, window time.Duration) (bool, error) {
	if limit <= 0 || window <= 0 {
		return true, nil
	}

	now := t.now()
	b := t.bucket(key, limit, now)

	b.mu.Lock()
	defer b.mu.Unlock()

	if now.Sub(b.lastRefill) >= window {
		b.tokens = limit
		b.lastRefill = now
	}
	if b.tokens <= 0 {
		return false, nil
	}
	b.tokens--
	return true, nil
}

func (t *TokenBucket) bucket(key string, limit int, now time.Time) *bucket {
	t.mu.Lock()
	defer t.mu.Unlock()

	b, ok := t.buckets[key]
	if !ok {
		b = &bucket{tokens: limit, lastRefill: now}
		t.buckets[key] = b
	}
	return b
}
