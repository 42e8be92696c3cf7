package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/pweat/rejestr-prac/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// windowCounter counts hits per key in fixed windows. Incr returns the count
// including this hit and the time left until the window resets.
type windowCounter interface {
	Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error)
}

// ── In-memory counter ─────────────────────────────────────────────────────────

type rateEntry struct {
	count     int64
	windowEnd time.Time
}

type memoryCounter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	now     func() time.Time
}

const purgeInterval = 5 * time.Minute

func newMemoryCounter() *memoryCounter {
	m := &memoryCounter{entries: make(map[string]*rateEntry), now: time.Now}
	go m.purgeLoop()
	return m
}

func (m *memoryCounter) Incr(_ context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	e, ok := m.entries[key]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(window)}
		m.entries[key] = e
	}
	e.count++
	return e.count, e.windowEnd.Sub(now), nil
}

// purgeLoop drops expired entries so IPs that never return do not pile up.
func (m *memoryCounter) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for range ticker.C {
		if n := m.purge(); n > 0 {
			log.Debug().Int("purged", n).Msg("rate limiter entries purged")
		}
	}
}

func (m *memoryCounter) purge() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	purged := 0
	for k, e := range m.entries {
		if now.After(e.windowEnd) {
			delete(m.entries, k)
			purged++
		}
	}
	return purged
}

// ── Redis counter ─────────────────────────────────────────────────────────────
// Shared across server instances. INCR + EXPIRE on the first hit gives a fixed
// window per key.

type redisCounter struct{ rdb *redis.Client }

func (r redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, time.Duration, error) {
	n, err := r.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if n == 1 {
		if err := r.rdb.Expire(ctx, key, window).Err(); err != nil {
			return 0, 0, err
		}
		return n, window, nil
	}
	ttl, err := r.rdb.TTL(ctx, key).Result()
	if err != nil {
		return 0, 0, err
	}
	if ttl < 0 {
		// key survived without a TTL (expire failed earlier); restart the window
		_ = r.rdb.Expire(ctx, key, window).Err()
		ttl = window
	}
	return n, ttl, nil
}

func newCounter(rdb *redis.Client) windowCounter {
	if rdb != nil {
		return redisCounter{rdb: rdb}
	}
	return newMemoryCounter()
}

// ── Middleware ────────────────────────────────────────────────────────────────

// LoginRateLimiter limits login attempts per IP per minute.
func LoginRateLimiter(rdb *redis.Client, limit int) gin.HandlerFunc {
	return limitByIP(newCounter(rdb), "rl:login", limit, time.Minute,
		"too many login attempts, try again in a minute")
}

// RateLimiter limits every request per IP within window.
func RateLimiter(rdb *redis.Client, limit int, window time.Duration) gin.HandlerFunc {
	return limitByIP(newCounter(rdb), "rl:api", limit, window,
		"too many requests, try again shortly")
}

func limitByIP(counter windowCounter, prefix string, limit int, window time.Duration, msg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}
		key := fmt.Sprintf("%s:%s", prefix, c.ClientIP())
		n, resetIn, err := counter.Incr(c.Request.Context(), key, window)
		if err != nil {
			// Fail open: a rate limiter outage must not take the API down.
			log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
			c.Next()
			return
		}
		if n > int64(limit) {
			secs := int(resetIn.Round(time.Second) / time.Second)
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(msg))
			return
		}
		c.Next()
	}
}
