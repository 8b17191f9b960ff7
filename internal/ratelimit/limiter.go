// Package ratelimit implements a per-provider token-window rate limiter: a
// fixed minute/hour budget plus an exponential backoff window entered on
// observed upstream throttling.
package ratelimit

import (
	"sync"
	"time"
)

// Decision is the outcome of a Check call.
type Decision struct {
	Allowed bool
	RetryAt time.Time
}

// Config bounds one provider's request budget.
type Config struct {
	RequestsPerMinute int
	RequestsPerHour   int
	BurstLimit        int
	BackoffMultiplier float64 // default 2
	MaxBackoff        time.Duration
}

// Limiter tracks the minute/hour windows and backoff state for a single
// provider (or provider+domain pair). Safe for concurrent use.
type Limiter struct {
	mu      sync.Mutex
	cfg     Config
	nowFunc func() time.Time

	requestsInMinute int
	requestsInHour   int
	windowStartMin   time.Time
	windowStartHour  time.Time
	backoffUntil     time.Time
	currentBackoff   time.Duration
}

// New creates a Limiter with the given config. A zero BackoffMultiplier
// defaults to 2.
func New(cfg Config) *Limiter {
	if cfg.BackoffMultiplier <= 0 {
		cfg.BackoffMultiplier = 2
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Minute
	}
	now := time.Now()
	return &Limiter{
		cfg:             cfg,
		nowFunc:         time.Now,
		windowStartMin:  now,
		windowStartHour: now,
	}
}

// Check resets expired windows, then either admits the request (incrementing
// both counters) or reports Throttled with the time the caller may retry.
func (l *Limiter) Check() Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	l.resetWindowsLocked(now)

	if !l.backoffUntil.IsZero() && now.Before(l.backoffUntil) {
		return Decision{Allowed: false, RetryAt: l.backoffUntil}
	}
	// Backoff window has passed; clear it so the limiter stops throttling.
	if !l.backoffUntil.IsZero() && !now.Before(l.backoffUntil) {
		l.backoffUntil = time.Time{}
		l.currentBackoff = 0
	}

	if l.cfg.RequestsPerMinute > 0 && l.requestsInMinute >= l.cfg.RequestsPerMinute {
		return Decision{Allowed: false, RetryAt: l.windowStartMin.Add(time.Minute)}
	}
	if l.cfg.RequestsPerHour > 0 && l.requestsInHour >= l.cfg.RequestsPerHour {
		return Decision{Allowed: false, RetryAt: l.windowStartHour.Add(time.Hour)}
	}

	l.requestsInMinute++
	l.requestsInHour++
	return Decision{Allowed: true}
}

// ObserveThrottled records an upstream 429 (or equivalent): the backoff is
// doubled (or by BackoffMultiplier), clamped to MaxBackoff, and the provider
// is considered unavailable until BackoffUntil.
func (l *Limiter) ObserveThrottled() time.Time {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.nowFunc()
	if l.currentBackoff == 0 {
		l.currentBackoff = time.Second
	} else {
		l.currentBackoff = time.Duration(float64(l.currentBackoff) * l.cfg.BackoffMultiplier)
	}
	if l.currentBackoff > l.cfg.MaxBackoff {
		l.currentBackoff = l.cfg.MaxBackoff
	}
	l.backoffUntil = now.Add(l.currentBackoff)
	return l.backoffUntil
}

// resetWindowsLocked must be called with mu held.
func (l *Limiter) resetWindowsLocked(now time.Time) {
	if now.Sub(l.windowStartMin) >= time.Minute {
		l.requestsInMinute = 0
		l.windowStartMin = now
	}
	if now.Sub(l.windowStartHour) >= time.Hour {
		l.requestsInHour = 0
		l.windowStartHour = now
	}
}

// State snapshots the limiter for diagnostics/status reporting.
func (l *Limiter) State() (requestsInMinute, requestsInHour int, backoffUntil time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.requestsInMinute, l.requestsInHour, l.backoffUntil
}

// InBackoff reports whether the limiter currently rejects all requests.
func (l *Limiter) InBackoff() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.nowFunc()
	return !l.backoffUntil.IsZero() && now.Before(l.backoffUntil)
}

// setNowFunc overrides the clock and restarts both windows at the new
// clock's current time; used by tests only.
func (l *Limiter) setNowFunc(f func() time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.nowFunc = f
	now := f()
	l.windowStartMin = now
	l.windowStartHour = now
}
