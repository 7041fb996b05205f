// Package ratelimit enforces a fixed-window per-second request limit,
// backed by Redis when a cache is configured and by process memory
// otherwise.
package ratelimit

import (
	"context"
	"time"
)

// window is the fixed limiter window. Buckets live a little longer so
// counts from the previous window expire on their own.
const (
	window    = time.Second
	bucketTTL = 2 * time.Second
)

// Result describes the outcome of a rate limit check.
type Result struct {
	Allowed   bool
	Remaining int
	Reset     time.Time
}

// Limiter provides rate limit checks.
type Limiter interface {
	Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error)
}

// windowBounds returns the start of the window containing now and the
// instant the window resets.
func windowBounds(now time.Time) (int64, time.Time) {
	start := now.Truncate(window)
	return start.Unix(), start.Add(window).UTC()
}

// windowResult folds a bucket count into a Result.
func windowResult(count, limit int, reset time.Time) Result {
	if count > limit {
		return Result{Allowed: false, Remaining: 0, Reset: reset}
	}
	return Result{Allowed: true, Remaining: limit - count, Reset: reset}
}
