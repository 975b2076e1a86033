package middleware

import (
	"net"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/kbukum/engineconnector/errors"
)

// RateLimitConfig configures per-client admission at the gateway. It is
// independent of the per-connection rate limit towards the engine: the
// gateway rejects, the connector waits.
type RateLimitConfig struct {
	// RequestsPerMinute is the maximum number of requests allowed per minute per key.
	RequestsPerMinute int
	// KeyFunc extracts the rate limit key from a request. Defaults to client IP.
	KeyFunc func(*http.Request) string
	// Now is the clock; defaults to time.Now.
	Now func() time.Time
}

// RateLimit returns middleware applying a per-key sliding window. Requests
// over the limit are answered with a RATE_LIMITED envelope. A non-positive
// limit disables it.
func RateLimit(cfg RateLimitConfig) Middleware {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPBasedKey
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	rl := &rateLimiter{
		requests: make(map[string][]time.Time),
		limit:    cfg.RequestsPerMinute,
		now:      cfg.Now,
	}

	return func(next http.Handler) http.Handler {
		if cfg.RequestsPerMinute <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !rl.allow(cfg.KeyFunc(r)) {
				w.Header().Set("Retry-After", "60")
				writeError(w, errors.New(errors.ErrCodeRateLimited, "Gateway rate limit exceeded", http.StatusTooManyRequests))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// IPBasedKey extracts the client IP for use as a rate limit key.
func IPBasedKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// rateLimiter keeps, per key, the ascending timestamps admitted during the
// last minute.
type rateLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	now      func() time.Time
	calls    int
}

func (rl *rateLimiter) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-time.Minute)
	if rl.calls++; rl.calls%1024 == 0 {
		rl.sweep(cutoff)
	}

	window := prune(rl.requests[key], cutoff)
	admitted := len(window) < rl.limit
	if admitted {
		window = append(window, now)
	}
	rl.requests[key] = window
	return admitted
}

// sweep forgets idle keys. Called with mu held.
func (rl *rateLimiter) sweep(cutoff time.Time) {
	for key, window := range rl.requests {
		if window = prune(window, cutoff); len(window) == 0 {
			delete(rl.requests, key)
		} else {
			rl.requests[key] = window
		}
	}
}

// prune drops the timestamps at or before cutoff.
func prune(window []time.Time, cutoff time.Time) []time.Time {
	i := slices.IndexFunc(window, func(t time.Time) bool { return t.After(cutoff) })
	if i < 0 {
		return nil
	}
	return window[i:]
}
