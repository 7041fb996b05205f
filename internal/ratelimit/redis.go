package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares window buckets across instances through Redis.
// Each bucket is a plain counter named after its window start, expired
// by Redis itself.
type RedisLimiter struct {
	client *redis.Client
	prefix string
}

// NewRedisLimiter constructs a RedisLimiter.
func NewRedisLimiter(client *redis.Client, prefix string) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		prefix: strings.TrimSpace(prefix),
	}
}

// Allow counts one hit for key and reports whether it fits the limit.
func (l *RedisLimiter) Allow(ctx context.Context, key string, limit int, now time.Time) (Result, error) {
	if l == nil || l.client == nil || limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	start, reset := windowBounds(now)
	bucketKey := l.bucketKey(key, start)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, bucketKey)
	pipe.Expire(ctx, bucketKey, bucketTTL)
	if _, errExec := pipe.Exec(ctx); errExec != nil {
		return Result{}, errExec
	}
	return windowResult(int(incr.Val()), limit, reset), nil
}

func (l *RedisLimiter) bucketKey(key string, start int64) string {
	if l.prefix == "" {
		return fmt.Sprintf("%s:%d", key, start)
	}
	return fmt.Sprintf("%s:%s:%d", l.prefix, key, start)
}
