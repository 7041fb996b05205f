package ratelimit

import (
	"context"
	"sync"
	"time"
)

// memorySweepSize bounds how many client buckets are tracked before
// stale ones are swept.
const memorySweepSize = 4096

type clientBucket struct {
	start int64
	hits  int
}

// MemoryLimiter counts hits per client in the current window.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]clientBucket
}

// NewMemoryLimiter constructs a MemoryLimiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{buckets: make(map[string]clientBucket)}
}

// Allow counts one hit for key and reports whether it fits the limit.
func (l *MemoryLimiter) Allow(_ context.Context, key string, limit int, now time.Time) (Result, error) {
	if limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	start, reset := windowBounds(now)

	l.mu.Lock()
	defer l.mu.Unlock()
	bucket := l.buckets[key]
	if bucket.start != start {
		bucket = clientBucket{start: start}
	}
	bucket.hits++
	l.buckets[key] = bucket
	if len(l.buckets) > memorySweepSize {
		l.sweep(start)
	}
	return windowResult(bucket.hits, limit, reset), nil
}

// sweep drops buckets from past windows. Called with l.mu held.
func (l *MemoryLimiter) sweep(start int64) {
	for key, bucket := range l.buckets {
		if bucket.start != start {
			delete(l.buckets, key)
		}
	}
}
