package middleware

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimiterConfig holds configuration for the sliding window rate limiter.
type RateLimiterConfig struct {
	MaxRequests     int
	Window          time.Duration
	CleanupInterval time.Duration
}

type clientWindow struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter implements a per-client sliding window rate limiter, keyed by
// remote address (the knowledge seeker's HTTP surface has no end-user
// identity of its own — every caller is an orchestrator component).
type RateLimiter struct {
	config  RateLimiterConfig
	windows sync.Map
	nowFunc func() time.Time
	stopCh  chan struct{}
}

// NewRateLimiter creates a rate limiter and starts a background cleanup
// goroutine.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.CleanupInterval == 0 {
		config.CleanupInterval = 5 * time.Minute
	}
	rl := &RateLimiter{config: config, nowFunc: time.Now, stopCh: make(chan struct{})}
	go rl.cleanup()
	return rl
}

// Stop halts the background cleanup goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stopCh:
			return
		case <-ticker.C:
			cutoff := rl.nowFunc().Add(-rl.config.Window)
			rl.windows.Range(func(key, value interface{}) bool {
				cw := value.(*clientWindow)
				cw.mu.Lock()
				cw.timestamps = pruneExpired(cw.timestamps, cutoff)
				empty := len(cw.timestamps) == 0
				cw.mu.Unlock()
				if empty {
					rl.windows.Delete(key)
				}
				return true
			})
		}
	}
}

// Allow checks whether key is within the rate limit. Returns
// (allowed, retryAfterSeconds).
func (rl *RateLimiter) Allow(key string) (bool, int) {
	now := rl.nowFunc()
	cutoff := now.Add(-rl.config.Window)

	val, _ := rl.windows.LoadOrStore(key, &clientWindow{})
	cw := val.(*clientWindow)

	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.timestamps = pruneExpired(cw.timestamps, cutoff)

	if len(cw.timestamps) >= rl.config.MaxRequests {
		oldest := cw.timestamps[0]
		retryAfter := int(oldest.Add(rl.config.Window).Sub(now).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	cw.timestamps = append(cw.timestamps, now)
	return true, 0
}

func pruneExpired(timestamps []time.Time, cutoff time.Time) []time.Time {
	idx := 0
	for _, t := range timestamps {
		if !t.Before(cutoff) {
			timestamps[idx] = t
			idx++
		}
	}
	return timestamps[:idx]
}

// RateLimit returns Chi middleware enforcing per-client rate limiting.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := rl.Allow(r.RemoteAddr)
			if !allowed {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   "rate limit exceeded",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
