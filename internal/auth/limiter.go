package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"golang.org/x/time/rate"
)

// LoginLimiter throttles failed login attempts per username.
type LoginLimiter interface {
	// Allowed reports whether another attempt for key is permitted.
	Allowed(ctx context.Context, key string) (bool, error)

	// Failed records a failed attempt for key.
	Failed(ctx context.Context, key string) error

	// Reset forgets the failures of key after a successful login.
	Reset(ctx context.Context, key string) error
}

func limiterKey(username string) string {
	return strings.ToLower(username)
}

// RedisLimiter counts failures in a fixed window shared by every instance.
type RedisLimiter struct {
	redis       *redis.Client
	prefix      string
	maxAttempts int
	window      time.Duration
}

// NewRedisLimiter creates a limiter allowing maxAttempts failures per window.
func NewRedisLimiter(client *redis.Client, maxAttempts int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{
		redis:       client,
		prefix:      "wealthwise:login",
		maxAttempts: maxAttempts,
		window:      window,
	}
}

func (l *RedisLimiter) key(username string) string {
	return fmt.Sprintf("%s:%s", l.prefix, limiterKey(username))
}

// Allowed reports whether the failure count is below the limit.
func (l *RedisLimiter) Allowed(ctx context.Context, username string) (bool, error) {
	count, err := l.redis.Get(ctx, l.key(username)).Int()
	if err == redis.Nil {
		return true, nil
	}
	if err != nil {
		return true, fmt.Errorf("redis error: %w", err)
	}
	return count < l.maxAttempts, nil
}

// Failed increments the failure count, starting the window on the first failure.
func (l *RedisLimiter) Failed(ctx context.Context, username string) error {
	key := l.key(username)
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("redis error: %w", err)
	}
	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("redis error: %w", err)
		}
	}
	return nil
}

// Reset clears the failure count.
func (l *RedisLimiter) Reset(ctx context.Context, username string) error {
	return l.redis.Del(ctx, l.key(username)).Err()
}

// MemoryLimiter keeps a token bucket per username in process memory.
// A bucket holds maxAttempts tokens and refills fully over one window.
type MemoryLimiter struct {
	mu          sync.Mutex
	buckets     map[string]*rate.Limiter
	maxAttempts int
	every       rate.Limit
}

// NewMemoryLimiter creates an in-process limiter.
func NewMemoryLimiter(maxAttempts int, window time.Duration) *MemoryLimiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &MemoryLimiter{
		buckets:     make(map[string]*rate.Limiter),
		maxAttempts: maxAttempts,
		every:       rate.Every(window / time.Duration(maxAttempts)),
	}
}

// Allowed reports whether the user's bucket has a token left.
func (l *MemoryLimiter) Allowed(_ context.Context, username string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	b, ok := l.buckets[limiterKey(username)]
	if !ok {
		return true, nil
	}
	return b.Tokens() >= 1, nil
}

// Failed takes a token from the user's bucket.
func (l *MemoryLimiter) Failed(_ context.Context, username string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := limiterKey(username)
	b, ok := l.buckets[key]
	if !ok {
		l.prune()
		b = rate.NewLimiter(l.every, l.maxAttempts)
		l.buckets[key] = b
	}
	b.Allow()
	return nil
}

// Reset drops the user's bucket.
func (l *MemoryLimiter) Reset(_ context.Context, username string) error {
	l.mu.Lock()
	delete(l.buckets, limiterKey(username))
	l.mu.Unlock()
	return nil
}

// prune drops buckets that have refilled. Callers hold l.mu.
func (l *MemoryLimiter) prune() {
	if len(l.buckets) < 1024 {
		return
	}
	for key, b := range l.buckets {
		if b.Tokens() >= float64(l.maxAttempts) {
			delete(l.buckets, key)
		}
	}
}
