package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

type bucket struct {
	count int
	until time.Time
}

// RateLimit limits requests per client IP over a fixed window. With a Redis
// client the counter is shared across instances; without one it degrades to
// an in-process map.
func RateLimit(limit int, per time.Duration, rdb *redis.Client) func(http.Handler) http.Handler {
	if rdb != nil {
		return redisRateLimit(limit, per, rdb)
	}
	return memoryRateLimit(limit, per)
}

func memoryRateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	var mu sync.Mutex
	buckets := make(map[string]*bucket)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := ClientIP(r)
			mu.Lock()
			b, ok := buckets[ip]
			now := time.Now()
			if !ok || now.After(b.until) {
				b = &bucket{count: 0, until: now.Add(per)}
				buckets[ip] = b
			}
			if b.count >= limit {
				mu.Unlock()
				writeError(w, http.StatusTooManyRequests, "RATE_LIMIT", "too many requests")
				return
			}
			b.count++
			mu.Unlock()
			next.ServeHTTP(w, r)
		})
	}
}

func redisRateLimit(limit int, per time.Duration, rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := fmt.Sprintf("ratelimit:%s:%d", ClientIP(r), time.Now().Unix()/int64(per.Seconds()))
			count, err := rdb.Incr(r.Context(), key).Result()
			if err != nil {
				// Redis outage must not take the API down with it.
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				rdb.Expire(r.Context(), key, per)
			}
			if count > int64(limit) {
				writeError(w, http.StatusTooManyRequests, "RATE_LIMIT", "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
