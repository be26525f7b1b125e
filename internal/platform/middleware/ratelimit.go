// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/taibuivan/library-api/internal/platform/apperr"
	"github.com/taibuivan/library-api/internal/platform/constants"
	"github.com/taibuivan/library-api/internal/platform/ctxutil"
	"github.com/taibuivan/library-api/internal/platform/respond"
)

// # Rate Limiting

// Decision is the outcome of a single rate limit check.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter decides whether the client identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

// RateLimit limits requests per client IP using the given [Limiter].
// A limiter failure is logged and the request is let through.
func RateLimit(limiter Limiter, max int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()

			decision, err := limiter.Allow(ctx, RealIP(request))
			if err != nil {
				ctxutil.GetLogger(ctx).WarnContext(ctx, "rate_limit_check_failed", slog.Any("error", err))
				next.ServeHTTP(writer, request)
				return
			}

			header := writer.Header()
			header.Set("RateLimit-Limit", strconv.Itoa(max))
			header.Set("RateLimit-Remaining", strconv.Itoa(decision.Remaining))

			if !decision.Allowed {
				seconds := int(math.Ceil(decision.RetryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				header.Set(constants.HeaderRetryAfter, strconv.Itoa(seconds))
				respond.Error(writer, request, apperr.RateLimited(seconds))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// ## In-memory token bucket

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// MemoryLimiter is a per-process token bucket per client. It refills at
// max/window and allows bursts of up to max requests.
type MemoryLimiter struct {
	mu      sync.Mutex
	clients map[string]*rateLimitClient
	limit   rate.Limit
	burst   int
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryLimiter creates a [MemoryLimiter] and starts a background cleanup
// routine that stops when ctx is cancelled.
func NewMemoryLimiter(ctx context.Context, max int, window time.Duration) *MemoryLimiter {
	limiter := &MemoryLimiter{
		clients: make(map[string]*rateLimitClient),
		limit:   rate.Limit(float64(max) / window.Seconds()),
		burst:   max,
		ttl:     window,
		now:     time.Now,
	}

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				limiter.cleanup()
			case <-ctx.Done():
				return
			}
		}
	}()

	return limiter
}

// Allow implements [Limiter].
func (m *MemoryLimiter) Allow(_ context.Context, key string) (Decision, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	client, found := m.clients[key]
	if !found {
		client = &rateLimitClient{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.clients[key] = client
	}
	client.lastSeen = now

	reservation := client.limiter.ReserveN(now, 1)
	if !reservation.OK() {
		return Decision{Allowed: false, RetryAfter: time.Second}, nil
	}

	if delay := reservation.DelayFrom(now); delay > 0 {
		reservation.CancelAt(now)
		return Decision{Allowed: false, RetryAfter: delay}, nil
	}

	remaining := int(client.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Decision{Allowed: true, Remaining: remaining}, nil
}

// cleanup drops clients that have been idle for longer than one window.
func (m *MemoryLimiter) cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for ip, client := range m.clients {
		if now.Sub(client.lastSeen) > m.ttl {
			delete(m.clients, ip)
		}
	}
}

// ## Redis fixed window

// RedisLimiter counts requests per client in a fixed window shared by every
// API instance.
type RedisLimiter struct {
	client goredis.Cmdable
	max    int
	window time.Duration
}

// NewRedisLimiter creates a [RedisLimiter] on top of an existing client.
func NewRedisLimiter(client goredis.Cmdable, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, max: max, window: window}
}

// Allow implements [Limiter].
func (r *RedisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	redisKey := constants.RedisPrefixRateLimit + key

	count, err := r.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis: incr %s: %w", redisKey, err)
	}

	// The first hit opens the window
	if count == 1 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("redis: expire %s: %w", redisKey, err)
		}
	}

	if count <= int64(r.max) {
		return Decision{Allowed: true, Remaining: r.max - int(count)}, nil
	}

	ttl, err := r.client.PTTL(ctx, redisKey).Result()
	if err != nil {
		return Decision{}, fmt.Errorf("redis: pttl %s: %w", redisKey, err)
	}

	// A key without expiry would block the client forever
	if ttl < 0 {
		if err := r.client.Expire(ctx, redisKey, r.window).Err(); err != nil {
			return Decision{}, fmt.Errorf("redis: expire %s: %w", redisKey, err)
		}
		ttl = r.window
	}

	return Decision{Allowed: false, RetryAfter: ttl}, nil
}
