package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/vibechat/service/internal/config"
)

const redisBreakerDuration = 30 * time.Second

// Manager selects a limiter backend and enforces the configured limit.
// When the Redis backend fails, a breaker disables it for a while and
// the in-memory limiter takes over.
type Manager struct {
	limit  int
	nowFn  func() time.Time
	memory Limiter

	mu           sync.Mutex
	redisLimiter *RedisLimiter
	breakerUntil time.Time
}

// NewManager constructs a Manager from the cache configuration. A blank
// cache address leaves the manager memory-only.
func NewManager(limit int, cache config.CacheConfig) *Manager {
	m := &Manager{
		limit:  limit,
		nowFn:  time.Now,
		memory: NewMemoryLimiter(),
	}
	if cache.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cache.Addr,
			Password: cache.Password,
			DB:       cache.DB,
		})
		m.redisLimiter = NewRedisLimiter(client, cache.Prefix)
	}
	return m
}

// Limit returns the configured per-second limit.
func (m *Manager) Limit() int {
	if m == nil {
		return 0
	}
	return m.limit
}

// Allow checks whether the request identified by key should be allowed.
func (m *Manager) Allow(ctx context.Context, key string) (Result, error) {
	if m == nil || m.limit <= 0 || key == "" {
		return Result{Allowed: true}, nil
	}
	now := m.nowFn()
	if limiter := m.activeRedis(now); limiter != nil {
		result, errAllow := limiter.Allow(ctx, key, m.limit, now)
		if errAllow == nil {
			return result, nil
		}
		m.tripBreaker(errAllow, now)
	}
	return m.memory.Allow(ctx, key, m.limit, now)
}

func (m *Manager) activeRedis(now time.Time) *RedisLimiter {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.redisLimiter == nil {
		return nil
	}
	if !m.breakerUntil.IsZero() {
		if now.Before(m.breakerUntil) {
			return nil
		}
		m.breakerUntil = time.Time{}
	}
	return m.redisLimiter
}

func (m *Manager) tripBreaker(err error, now time.Time) {
	if err == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.breakerUntil.IsZero() && now.Before(m.breakerUntil) {
		return
	}
	m.breakerUntil = now.Add(redisBreakerDuration)
	log.WithError(err).Warn("ratelimit: redis unavailable, falling back to memory")
}
