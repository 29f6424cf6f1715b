package cache

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// AttemptLimiter counts failed logins per key in a sliding window
type AttemptLimiter interface {
	// Allow reports whether another attempt is permitted and, if not, how long
	// until the oldest failure leaves the window
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
	RecordFailure(ctx context.Context, key string) error
	Reset(ctx context.Context, key string) error
}

// RedisAttemptLimiter keeps one sorted set of failure timestamps per key
type RedisAttemptLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewAttemptLimiter connects to Redis. When Redis is unreachable it degrades to
// an in-process limiter so throttling keeps working on a single replica.
func NewAttemptLimiter(host string, port int, password string, db int, maxFailures int, window time.Duration) (AttemptLimiter, bool) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return NewMemoryAttemptLimiter(maxFailures, window), false
	}

	return NewRedisAttemptLimiter(client, maxFailures, window), true
}

func NewRedisAttemptLimiter(client *redis.Client, maxFailures int, window time.Duration) *RedisAttemptLimiter {
	return &RedisAttemptLimiter{
		client:      client,
		maxFailures: maxFailures,
		window:      window,
	}
}

func (l *RedisAttemptLimiter) key(key string) string {
	return "login_failures:" + key
}

func (l *RedisAttemptLimiter) Allow(ctx context.Context, key string) (bool, time.Duration, error) {
	now := time.Now()
	k := l.key(key)

	var count *redis.IntCmd
	var oldest *redis.ZSliceCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(now.Add(-l.window).UnixNano(), 10))
		count = pipe.ZCard(ctx, k)
		oldest = pipe.ZRangeWithScores(ctx, k, 0, 0)
		return nil
	})
	if err != nil {
		return true, 0, err
	}

	if int(count.Val()) < l.maxFailures {
		return true, 0, nil
	}

	retryAfter := l.window
	if entries := oldest.Val(); len(entries) > 0 {
		first := time.Unix(0, int64(entries[0].Score))
		retryAfter = first.Add(l.window).Sub(now)
	}
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return false, retryAfter, nil
}

func (l *RedisAttemptLimiter) RecordFailure(ctx context.Context, key string) error {
	now := time.Now()
	k := l.key(key)

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, k, redis.Z{
			Score:  float64(now.UnixNano()),
			Member: uuid.NewString(),
		})
		pipe.ZRemRangeByScore(ctx, k, "-inf", strconv.FormatInt(now.Add(-l.window).UnixNano(), 10))
		pipe.Expire(ctx, k, l.window)
		return nil
	})
	return err
}

func (l *RedisAttemptLimiter) Reset(ctx context.Context, key string) error {
	return l.client.Del(ctx, l.key(key)).Err()
}

// Ping checks the Redis connection for the readiness check
func (l *RedisAttemptLimiter) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisAttemptLimiter) Close() error {
	return l.client.Close()
}

// MemoryAttemptLimiter is the single-process fallback
type MemoryAttemptLimiter struct {
	mu          sync.Mutex
	failures    map[string][]time.Time
	maxFailures int
	window      time.Duration
	now         func() time.Time
}

func NewMemoryAttemptLimiter(maxFailures int, window time.Duration) *MemoryAttemptLimiter {
	return &MemoryAttemptLimiter{
		failures:    make(map[string][]time.Time),
		maxFailures: maxFailures,
		window:      window,
		now:         time.Now,
	}
}

// prune drops failures outside the window. Caller holds mu.
func (l *MemoryAttemptLimiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	kept := l.failures[key][:0]
	for _, t := range l.failures[key] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.failures, key)
		return nil
	}
	l.failures[key] = kept
	return kept
}

func (l *MemoryAttemptLimiter) Allow(_ context.Context, key string) (bool, time.Duration, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	recent := l.prune(key, now)
	if len(recent) < l.maxFailures {
		return true, 0, nil
	}

	retryAfter := recent[0].Add(l.window).Sub(now)
	if retryAfter < time.Second {
		retryAfter = time.Second
	}
	return false, retryAfter, nil
}

func (l *MemoryAttemptLimiter) RecordFailure(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.prune(key, now)
	l.failures[key] = append(l.failures[key], now)
	return nil
}

func (l *MemoryAttemptLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.failures, key)
	return nil
}
