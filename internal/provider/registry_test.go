package provider

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

func validQuery(id string) model.KnowledgeQuery {
	return model.KnowledgeQuery{
		ID:                 id,
		Query:              "go concurrency patterns",
		MaxResults:         5,
		RelevanceThreshold: 0.5,
		TimeoutMs:          5000,
	}
}

func TestRegistry_DispatchUnknownProvider(t *testing.T) {
	r := NewRegistry()
	_, err := r.Dispatch(context.Background(), "missing", validQuery("q1"), 5000)
	if err == nil {
		t.Fatalf("expected error for unregistered provider")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnavailable {
		t.Fatalf("expected Unavailable error, got %#v", err)
	}
}

func TestRegistry_DispatchSuccess(t *testing.T) {
	r := NewRegistry()
	m := NewMock("mockA", []MockResult{{Title: "t", URL: "https://example.com", Content: "c", RelevanceScore: 0.8, CredibilityScore: 0.7}})
	r.Register(m)

	results, err := r.Dispatch(context.Background(), "mockA", validQuery("q1"), 5000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
}

func TestRegistry_DispatchRecoversPanic(t *testing.T) {
	r := NewRegistry()
	r.Register(&panickingProvider{name: "boom"})

	_, err := r.Dispatch(context.Background(), "boom", validQuery("q1"), 5000)
	if err == nil {
		t.Fatalf("expected panic to be recovered as an error")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnavailable {
		t.Fatalf("expected Unavailable error from recovered panic, got %#v", err)
	}
}

func TestRegistry_DispatchAppliesTighterTimeout(t *testing.T) {
	r := NewRegistry()
	slow := &slowProvider{name: "slow", delay: 50 * time.Millisecond}
	r.Register(slow)

	q := validQuery("q1")
	q.TimeoutMs = 300000
	_, err := r.Dispatch(context.Background(), "slow", q, 10)
	if err == nil {
		t.Fatalf("expected timeout error when defaultTimeoutMs is tighter than query timeout")
	}
}

func TestRegistry_AllAndGet(t *testing.T) {
	r := NewRegistry()
	m := NewMock("mockA", nil)
	r.Register(m)

	if _, ok := r.Get("mockA"); !ok {
		t.Fatalf("expected to find registered provider")
	}
	if len(r.All()) != 1 {
		t.Fatalf("expected exactly one registered provider")
	}
}

func TestRegistry_DispatchRetriesNetworkErrorsThenSucceeds(t *testing.T) {
	r := NewRegistry()
	r.SetRetryPolicy(2, 0)
	flaky := &flakyProvider{name: "flaky", failTimes: 2}
	r.Register(flaky)

	results, err := r.Dispatch(context.Background(), "flaky", validQuery("q1"), 5000)
	if err != nil {
		t.Fatalf("expected retries to recover from transient network errors, got: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result after recovery, got %d", len(results))
	}
	if flaky.calls != 3 {
		t.Fatalf("expected 3 calls (1 + 2 retries), got %d", flaky.calls)
	}
}

func TestRegistry_DispatchReportsUnavailableAfterRetriesExhausted(t *testing.T) {
	r := NewRegistry()
	r.SetRetryPolicy(2, 0)
	flaky := &flakyProvider{name: "flaky", failTimes: 10}
	r.Register(flaky)

	_, err := r.Dispatch(context.Background(), "flaky", validQuery("q1"), 5000)
	if err == nil {
		t.Fatalf("expected error once retries are exhausted")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnavailable {
		t.Fatalf("expected a persisted network error to surface as Unavailable, got %#v", err)
	}
	if flaky.calls != 3 {
		t.Fatalf("expected exactly 1 + 2 retries = 3 calls, got %d", flaky.calls)
	}
}

func TestRegistry_DispatchDoesNotRetryNonNetworkErrors(t *testing.T) {
	r := NewRegistry()
	r.SetRetryPolicy(3, 0)
	r.Register(&panickingProvider{name: "boom"})

	_, err := r.Dispatch(context.Background(), "boom", validQuery("q1"), 5000)
	if err == nil {
		t.Fatalf("expected an error from the panicking provider")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnavailable {
		t.Fatalf("expected Unavailable, got %#v", err)
	}
}

type panickingProvider struct{ name string }

func (p *panickingProvider) Name() string               { return p.name }
func (p *panickingProvider) Type() model.ProviderType    { return model.ProviderMock }
func (p *panickingProvider) IsAvailable() bool           { return true }
func (p *panickingProvider) Health() model.ProviderHealth { return model.ProviderHealth{Available: true} }
func (p *panickingProvider) Search(ctx context.Context, q model.KnowledgeQuery) ([]model.SearchResult, error) {
	panic("boom")
}

type slowProvider struct {
	name  string
	delay time.Duration
}

func (p *slowProvider) Name() string               { return p.name }
func (p *slowProvider) Type() model.ProviderType    { return model.ProviderMock }
func (p *slowProvider) IsAvailable() bool           { return true }
func (p *slowProvider) Health() model.ProviderHealth { return model.ProviderHealth{Available: true} }
func (p *slowProvider) Search(ctx context.Context, q model.KnowledgeQuery) ([]model.SearchResult, error) {
	select {
	case <-time.After(p.delay):
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// flakyProvider fails with a NetworkError on its first failTimes calls, then
// succeeds with a single result.
type flakyProvider struct {
	name      string
	failTimes int
	calls     int
}

func (p *flakyProvider) Name() string               { return p.name }
func (p *flakyProvider) Type() model.ProviderType    { return model.ProviderMock }
func (p *flakyProvider) IsAvailable() bool           { return true }
func (p *flakyProvider) Health() model.ProviderHealth { return model.ProviderHealth{Available: true} }
func (p *flakyProvider) Search(ctx context.Context, q model.KnowledgeQuery) ([]model.SearchResult, error) {
	p.calls++
	if p.calls <= p.failTimes {
		return nil, newNetworkError(p.name, fmt.Errorf("connection reset"))
	}
	return []model.SearchResult{{Title: "t", Provider: p.name}}, nil
}
