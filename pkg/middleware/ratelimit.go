package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

// fixed-window counter: first INCR in a window sets the TTL, requests over
// the limit are rejected until the key expires.
const rateLimitScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
if current > tonumber(ARGV[2]) then
  return 0
end
return 1
`

// RateLimiter is a Redis-backed fixed-window rate limiter.
type RateLimiter struct {
	client *redis.Client
	script *redis.Script
	limit  int
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit requests per window per
// key. A nil client disables limiting.
func NewRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	if client == nil {
		return nil
	}
	return &RateLimiter{
		client: client,
		script: redis.NewScript(rateLimitScript),
		limit:  limit,
		window: window,
	}
}

// Allow reports whether the request identified by key may proceed. Fails
// open: Redis errors never block traffic.
func (l *RateLimiter) Allow(key string) bool {
	if l == nil || key == "" || l.limit <= 0 {
		return true
	}

	ctx, cancel := contextWithShortTimeout()
	defer cancel()

	allowed, err := l.script.Run(ctx, l.client, []string{key}, l.window.Milliseconds(), l.limit).Int64()
	if err != nil {
		return true
	}
	return allowed == 1
}

// RateLimit limits requests per client IP under the given key prefix.
func RateLimit(limiter *RateLimiter, prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(prefix + ":" + clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"data":         nil,
					"errorMessage": "too many requests",
					"errorCode":    10,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func contextWithShortTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 250*time.Millisecond)
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		return fwd
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
