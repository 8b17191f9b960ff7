package provider

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// dispatchMetrics is the narrow slice of telemetry.Metrics the registry
// instruments dispatches with. Defined locally (rather than importing
// telemetry directly) to keep this package's dependency surface to the
// provider domain only; *telemetry.Metrics satisfies it structurally.
type dispatchMetrics interface {
	ObserveProviderDispatch(provider, outcome string, elapsed time.Duration)
}

// Registry holds the configured providers by name and dispatches searches
// with panic recovery and a bounded timeout, isolating one misbehaving
// provider from the rest of a fan-out.
type Registry struct {
	providers     map[string]Provider
	metrics       dispatchMetrics
	retryAttempts int
	retryDelayMs  int
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Provider)}
}

// SetMetrics attaches a metrics sink that Dispatch reports outcome/latency
// to. Optional — a nil or unset sink means dispatches go unobserved.
func (r *Registry) SetMetrics(m dispatchMetrics) {
	r.metrics = m
}

// SetRetryPolicy configures how many times Dispatch retries a NetworkError
// before giving up and reporting it as ProviderUnavailable, and how long it
// waits between attempts. The zero value means no retries, matching
// Dispatch's prior behavior.
func (r *Registry) SetRetryPolicy(attempts, delayMs int) {
	r.retryAttempts = attempts
	r.retryDelayMs = delayMs
}

// Register adds a provider under its own Name().
func (r *Registry) Register(p Provider) {
	r.providers[p.Name()] = p
}

// Get returns the provider registered under name, if any.
func (r *Registry) Get(name string) (Provider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// All returns every registered provider.
func (r *Registry) All() []Provider {
	out := make([]Provider, 0, len(r.providers))
	for _, p := range r.providers {
		out = append(out, p)
	}
	return out
}

// Dispatch runs Search on the named provider with panic recovery and a
// timeout equal to min(query.TimeoutMs, defaultTimeoutMs), so a provider
// panicking or hanging yields ProviderUnavailable without crashing the
// Seeker. A NetworkError is retried up to the registry's configured
// retryAttempts, waiting retryDelayMs between attempts; once retries are
// exhausted the network error is reported as ProviderUnavailable rather than
// propagated as transient.
func (r *Registry) Dispatch(ctx context.Context, name string, query model.KnowledgeQuery, defaultTimeoutMs int) (results []model.SearchResult, err error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, newUnavailableError(name, "provider not registered")
	}

	start := time.Now()
	defer func() {
		if r.metrics == nil {
			return
		}
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		r.metrics.ObserveProviderDispatch(name, outcome, time.Since(start))
	}()

	attempts := r.retryAttempts
	if attempts < 0 {
		attempts = 0
	}

	for attempt := 0; ; attempt++ {
		results, err = r.dispatchOnce(ctx, p, name, query, defaultTimeoutMs)

		var pErr *Error
		isNetworkErr := errors.As(err, &pErr) && pErr.Kind == KindNetworkError
		if err == nil || !isNetworkErr || attempt >= attempts {
			break
		}

		slog.Warn("provider network error, retrying", "provider", name, "attempt", attempt+1, "maxAttempts", attempts, "error", err)
		delay := time.Duration(r.retryDelayMs) * time.Millisecond
		select {
		case <-ctx.Done():
			return nil, newUnavailableError(name, "context cancelled during retry")
		case <-time.After(delay):
		}
	}

	var pErr *Error
	if errors.As(err, &pErr) && pErr.Kind == KindNetworkError {
		return nil, newUnavailableError(name, "provider network error persisted after retries")
	}
	return results, err
}

// dispatchOnce runs a single bounded, panic-recovered Search attempt.
func (r *Registry) dispatchOnce(ctx context.Context, p Provider, name string, query model.KnowledgeQuery, defaultTimeoutMs int) (results []model.SearchResult, err error) {
	timeoutMs := query.TimeoutMs
	if defaultTimeoutMs > 0 && defaultTimeoutMs < timeoutMs {
		timeoutMs = defaultTimeoutMs
	}
	callCtx, cancel := context.WithTimeout(ctx, time.Duration(timeoutMs)*time.Millisecond)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			results = nil
			err = newUnavailableError(name, "provider panicked during search")
		}
	}()

	results, err = p.Search(callCtx, query)
	if callCtx.Err() == context.DeadlineExceeded {
		return nil, newUnavailableError(name, "provider timed out")
	}
	return results, err
}
