package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/moodifyapp/moodify-backend/pkg/clientip"
)

const (
	// RateLimitWindow is the counting window
	RateLimitWindow = 120 * time.Second
	// RateLimitMaxRequests is the maximum number of requests allowed in the window
	RateLimitMaxRequests = 60
	// RateLimitKeyPrefix is the Redis key prefix for rate limiting
	RateLimitKeyPrefix = "ratelimit:"
	// BlockedIPKeyPrefix is the Redis key prefix for blocked IPs
	BlockedIPKeyPrefix = "blocked_ip:"
	// BlockedIPDuration is how long an IP stays blocked
	BlockedIPDuration = 24 * time.Hour
)

// RateLimit provides Redis-backed per-IP rate limiting with IP blocking.
// When Redis is unavailable the request is allowed through (fail open).
func RateLimit(rdb *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientip.RealClientIP(r)
			ctx := context.Background()

			// Check if IP is already blocked
			blockedKey := BlockedIPKeyPrefix + ip
			isBlocked, err := rdb.Exists(ctx, blockedKey).Result()
			if err == nil && isBlocked > 0 {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(`{"error":"too many requests"}`))
				return
			}

			rateLimitKey := RateLimitKeyPrefix + ip

			currentCount, err := rdb.Get(ctx, rateLimitKey).Int()
			if err != nil {
				// Key doesn't exist, start with 0
				currentCount = 0
			}
			newCount := currentCount + 1

			if currentCount == 0 {
				// First request in this window
				err = rdb.Set(ctx, rateLimitKey, "1", RateLimitWindow).Err()
			} else {
				err = rdb.Incr(ctx, rateLimitKey).Err()
				if err == nil {
					rdb.Expire(ctx, rateLimitKey, RateLimitWindow)
				}
			}
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			if newCount > RateLimitMaxRequests {
				rdb.Set(ctx, blockedKey, "1", BlockedIPDuration)

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				w.Write([]byte(fmt.Sprintf(`{"error":"too many requests","retry_after":%d}`, int(RateLimitWindow.Seconds()))))
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(RateLimitMaxRequests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(RateLimitMaxRequests-newCount))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(RateLimitWindow).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}
