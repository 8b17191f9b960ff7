package provider

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/sony/gobreaker"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

// Provider is the uniform contract every concrete search backend implements.
// It replaces a switch-on-name dispatch with a registry of values
// implementing this interface.
type Provider interface {
	Name() string
	Type() model.ProviderType
	Search(ctx context.Context, query model.KnowledgeQuery) ([]model.SearchResult, error)
	IsAvailable() bool
	Health() model.ProviderHealth
}

// Runtime bundles the rate limiter, health tracker, HTTP client, and circuit
// breaker shared by every concrete provider. Providers compose this rather
// than inherit it: each one embeds a Runtime and implements Provider
// directly.
type Runtime struct {
	ProviderName string
	limiter      *ratelimit.Limiter
	health       *healthTracker
	breaker      *gobreaker.CircuitBreaker
	HTTPClient   *http.Client
}

// NewRuntime creates a Runtime for a provider with the given rate-limit
// config. The circuit breaker trips after 5 consecutive failures and probes
// again after 30s.
func NewRuntime(name string, rlCfg ratelimit.Config) *Runtime {
	return &Runtime{
		ProviderName: name,
		limiter:      ratelimit.New(rlCfg),
		health:       newHealthTracker(),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    name,
			Timeout: 30 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 5
			},
		}),
		HTTPClient: &http.Client{},
	}
}

// IsAvailable reflects the rate-limit window, recent health, and the
// circuit breaker state.
func (rt *Runtime) IsAvailable() bool {
	if rt.breaker.State() == gobreaker.StateOpen {
		return false
	}
	if rt.limiter.InBackoff() {
		return false
	}
	return rt.health.isAvailable()
}

func (rt *Runtime) Health() model.ProviderHealth {
	return rt.health.snapshot()
}

// CircuitState reports the breaker's current state as a small integer
// (0=closed, 1=half-open, 2=open), matching the provider_circuit_state gauge
// convention documented in internal/telemetry.
func (rt *Runtime) CircuitState() int {
	switch rt.breaker.State() {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

// Guard checks the rate limiter before issuing a request, refusing with
// Unavailable if the budget would be exceeded.
func (rt *Runtime) Guard() error {
	d := rt.limiter.Check()
	if !d.Allowed {
		return newUnavailableError(rt.ProviderName, "rate limit window exhausted")
	}
	return nil
}

// Execute runs fn through the circuit breaker, timing it and feeding the
// result into the health tracker and (on a rate-limit signal) the limiter's
// backoff window.
func (rt *Runtime) Execute(fn func() ([]model.SearchResult, error)) ([]model.SearchResult, error) {
	start := time.Now()
	out, err := rt.breaker.Execute(func() (interface{}, error) {
		return fn()
	})
	elapsedMs := float64(time.Since(start).Milliseconds())

	if err != nil {
		rt.health.recordFailure(elapsedMs, err)
		if pe, ok := err.(*Error); ok && pe.Kind == KindRateLimited {
			rt.limiter.ObserveThrottled()
		}
		return nil, err
	}
	rt.health.recordSuccess(elapsedMs)
	results, _ := out.([]model.SearchResult)
	return results, nil
}

// StableHash computes a deterministic content fingerprint: a 64-bit digest
// over lowercase(trim(title)) | lowercase(host(url)) | lowercase(snippet[0:100]),
// using xxhash rather than a hand-rolled hash.
func StableHash(title, rawURL, snippet string) string {
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	domain := DeriveDomain(rawURL)
	parts := strings.ToLower(strings.TrimSpace(title)) + "|" +
		strings.ToLower(domain) + "|" +
		strings.ToLower(snippet)
	h := xxhash.Sum64String(parts)
	return formatHex(h)
}

func formatHex(v uint64) string {
	const hexDigits = "0123456789abcdef"
	buf := make([]byte, 16)
	for i := 15; i >= 0; i-- {
		buf[i] = hexDigits[v&0xf]
		v >>= 4
	}
	return string(buf)
}

// DeriveDomain extracts the host from a URL, returning "unknown" when the
// URL is empty or malformed.
func DeriveDomain(rawURL string) string {
	if rawURL == "" {
		return "unknown"
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}
	return strings.ToLower(u.Hostname())
}

// InferSourceType classifies a domain into a SourceType heuristically.
func InferSourceType(domain string) model.SourceType {
	switch {
	case domain == "unknown":
		return model.SourceUnknown
	case strings.HasSuffix(domain, ".edu") || strings.Contains(domain, "arxiv.org") ||
		strings.Contains(domain, "pubmed") || strings.Contains(domain, "scholar."):
		return model.SourceAcademic
	case strings.Contains(domain, "news.") || strings.HasSuffix(domain, "news.com") ||
		strings.Contains(domain, "reuters") || strings.Contains(domain, "bbc.") ||
		strings.Contains(domain, "nytimes"):
		return model.SourceNews
	case strings.Contains(domain, "docs.") || strings.HasPrefix(domain, "developer.") ||
		strings.Contains(domain, "readthedocs"):
		return model.SourceDocumentation
	case strings.Contains(domain, "twitter.com") || strings.Contains(domain, "x.com") ||
		strings.Contains(domain, "reddit.com") || strings.Contains(domain, "facebook.com"):
		return model.SourceSocial
	default:
		return model.SourceWeb
	}
}

// freeTLDs lists low-reputation, commonly-abused free top-level domains used
// to penalize credibility heuristically.
var freeTLDs = map[string]bool{
	".tk": true, ".ml": true, ".ga": true, ".cf": true, ".gq": true,
}

// HeuristicCredibility gives a provider's initial credibility estimate for a
// domain before the Information Processor's own assessment runs.
func HeuristicCredibility(domain string) float64 {
	switch {
	case domain == "unknown":
		return 0.4
	case strings.HasSuffix(domain, ".edu") || strings.HasSuffix(domain, ".gov"):
		return 0.9
	case strings.Contains(domain, "docs.") || strings.Contains(domain, "readthedocs"):
		return 0.8
	}
	for tld := range freeTLDs {
		if strings.HasSuffix(domain, tld) {
			return 0.2
		}
	}
	return 0.6
}
