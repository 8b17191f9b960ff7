package seeker

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/cache"
	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/process"
	"github.com/connexus-ai/knowledge-seeker/internal/provider"
)

func newTestSeeker(t *testing.T, cfg Config, providers ...provider.Provider) *Seeker {
	t.Helper()
	reg := provider.NewRegistry()
	for _, p := range providers {
		reg.Register(p)
	}
	c, err := cache.New(100, nil)
	if err != nil {
		t.Fatalf("unexpected cache error: %v", err)
	}
	return New(cfg, reg, process.New(process.DefaultConfig()), c, nil)
}

func baseQuery(id string) model.KnowledgeQuery {
	return model.KnowledgeQuery{
		ID:                 id,
		Query:              "TypeScript best practices",
		QueryType:          model.QueryFactual,
		MaxResults:         5,
		RelevanceThreshold: 0.1,
		TimeoutMs:          10000,
	}
}

func TestProcessQuery_HappyPathSingleProvider(t *testing.T) {
	cfg := DefaultConfig()
	mock := provider.NewMock("mock", []provider.MockResult{
		{Title: "TypeScript Best Practices", URL: "https://example.com/a", Content: "typescript best practices guide", RelevanceScore: 0.9, CredibilityScore: 0.8},
		{Title: "Another TS Guide", URL: "https://example.com/b", Content: "typescript practices overview", RelevanceScore: 0.7, CredibilityScore: 0.7},
	})
	s := newTestSeeker(t, cfg, mock)

	resp, err := s.ProcessQuery(context.Background(), baseQuery("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatalf("expected at least one result")
	}
	if resp.Metadata.CacheUsed {
		t.Fatalf("expected cacheUsed=false on first call")
	}
	if len(resp.SourcesUsed) != 1 || resp.SourcesUsed[0] != "mock" {
		t.Fatalf("expected sourcesUsed=[mock], got %v", resp.SourcesUsed)
	}
	if resp.Confidence <= 0 {
		t.Fatalf("expected positive confidence, got %v", resp.Confidence)
	}
	for i := 1; i < len(resp.Results); i++ {
		if resp.Results[i-1].RelevanceScore < resp.Results[i].RelevanceScore {
			t.Fatalf("expected non-increasing relevance order")
		}
	}
}

func TestProcessQuery_CacheHitOnSecondCall(t *testing.T) {
	cfg := DefaultConfig()
	mock := provider.NewMock("mock", []provider.MockResult{
		{Title: "TypeScript Best Practices", URL: "https://example.com/a", Content: "typescript best practices guide", RelevanceScore: 0.9, CredibilityScore: 0.8},
	})
	s := newTestSeeker(t, cfg, mock)

	q1 := baseQuery("q1")
	if _, err := s.ProcessQuery(context.Background(), q1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	q2 := baseQuery("q2")
	resp2, err := s.ProcessQuery(context.Background(), q2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp2.Metadata.CacheUsed {
		t.Fatalf("expected cacheUsed=true on cache hit")
	}
}

func TestProcessQuery_PartialProviderFailure(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinRelevanceThreshold = 0

	failing := provider.NewMock("failing", nil)
	failing.FailWith(newTestNetworkError())
	ok := provider.NewMock("ok", []provider.MockResult{
		{Title: "Relevant Result", URL: "https://example.com/x", Content: "typescript best practices content", RelevanceScore: 0.9, CredibilityScore: 0.9},
	})

	s := newTestSeeker(t, cfg, failing, ok)

	q := baseQuery("q1")
	q.RelevanceThreshold = 0
	resp, err := s.ProcessQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected exactly 1 surviving result, got %d", len(resp.Results))
	}
	foundBoth := false
	for _, name := range resp.Metadata.ProvidersQueried {
		if name == "failing" {
			foundBoth = true
		}
	}
	if !foundBoth {
		t.Fatalf("expected providersQueried to include the failing provider")
	}
	if resp.Confidence <= 0 {
		t.Fatalf("expected positive confidence despite partial failure")
	}
}

func TestProcessQuery_RelevanceThresholdFiltering(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinRelevanceThreshold = 0
	mock := provider.NewMock("mock", []provider.MockResult{
		{Title: "TypeScript Best Practices Deep Dive", URL: "https://docs.example.com/a", Content: "typescript best practices content explained in depth", RelevanceScore: 0.9, CredibilityScore: 0.9},
		{Title: "Irrelevant", URL: "https://example.com/b", Content: "nothing related here", RelevanceScore: 0.2, CredibilityScore: 0.2},
	})
	s := newTestSeeker(t, cfg, mock)

	q := baseQuery("q1")
	q.RelevanceThreshold = 0.1
	resp, err := s.ProcessQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) == 0 {
		t.Fatalf("expected at least the strongly-matching result to survive")
	}
	if resp.Metadata.ResultsFiltered < 1 {
		t.Fatalf("expected resultsFiltered >= 1, got %d", resp.Metadata.ResultsFiltered)
	}
}

func TestProcessQuery_DuplicateRemoval(t *testing.T) {
	cfg := DefaultConfig()
	mock := provider.NewMock("mock", []provider.MockResult{
		{Title: "Same Title", URL: "https://example.com/a", Content: "same content", RelevanceScore: 0.9, CredibilityScore: 0.9},
		{Title: "Same Title", URL: "https://example.com/a", Content: "same content", RelevanceScore: 0.9, CredibilityScore: 0.9},
	})
	s := newTestSeeker(t, cfg, mock)

	q := baseQuery("q1")
	q.RelevanceThreshold = 0
	resp, err := s.ProcessQuery(context.Background(), q)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("expected duplicates collapsed to exactly 1 result, got %d", len(resp.Results))
	}
}

func TestProcessQuery_ValidationRejectsInvalidQuery(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSeeker(t, cfg)

	q := baseQuery("q1")
	q.Query = ""
	_, err := s.ProcessQuery(context.Background(), q)
	if err == nil {
		t.Fatalf("expected validation error for empty query")
	}
	se, ok := err.(*Error)
	if !ok || se.Kind != KindInvalidQuery {
		t.Fatalf("expected InvalidQuery kind, got %#v", err)
	}
}

func TestProcessQuery_QueryLengthBoundary(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSeeker(t, cfg, provider.NewMock("mock", nil))

	q := baseQuery("q1")
	q.Query = strings.Repeat("a", 1000)
	if _, err := s.ProcessQuery(context.Background(), q); err != nil {
		t.Fatalf("expected query of length 1000 to be accepted: %v", err)
	}

	q2 := baseQuery("q2")
	q2.Query = strings.Repeat("a", 1001)
	_, err := s.ProcessQuery(context.Background(), q2)
	if err == nil {
		t.Fatalf("expected query of length 1001 to be rejected")
	}
}

func TestProcessQuery_MaxResultsBoundary(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSeeker(t, cfg, provider.NewMock("mock", nil))

	cases := []struct {
		maxResults int
		wantErr    bool
	}{
		{0, true},
		{1, false},
		{100, false},
		{101, true},
	}
	for i, c := range cases {
		q := baseQuery("boundary-maxresults")
		q.ID = q.ID + string(rune('a'+i))
		q.MaxResults = c.maxResults
		_, err := s.ProcessQuery(context.Background(), q)
		if c.wantErr && err == nil {
			t.Fatalf("maxResults=%d: expected rejection", c.maxResults)
		}
		if !c.wantErr && err != nil {
			t.Fatalf("maxResults=%d: expected acceptance, got %v", c.maxResults, err)
		}
	}
}

func TestProcessQuery_TimeoutMsBoundary(t *testing.T) {
	cfg := DefaultConfig()
	s := newTestSeeker(t, cfg, provider.NewMock("mock", nil))

	cases := []struct {
		timeoutMs int
		wantErr   bool
	}{
		{0, true},
		{300000, false},
		{300001, true},
	}
	for i, c := range cases {
		q := baseQuery("boundary-timeout")
		q.ID = q.ID + string(rune('a'+i))
		q.TimeoutMs = c.timeoutMs
		_, err := s.ProcessQuery(context.Background(), q)
		if c.wantErr && err == nil {
			t.Fatalf("timeoutMs=%d: expected rejection", c.timeoutMs)
		}
		if !c.wantErr && err != nil {
			t.Fatalf("timeoutMs=%d: expected acceptance, got %v", c.timeoutMs, err)
		}
	}
}

func TestProcessQuery_ConcurrencyGateRejectsOverBudget(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxConcurrentSearches = 1
	cfg.CacheEnabled = false

	blocker := make(chan struct{})
	slow := &blockingProvider{name: "slow", release: blocker}
	s := newTestSeeker(t, cfg, slow)

	errCh := make(chan error, 1)
	go func() {
		_, err := s.ProcessQuery(context.Background(), baseQuery("q1"))
		errCh <- err
	}()

	time.Sleep(20 * time.Millisecond)

	_, err := s.ProcessQuery(context.Background(), baseQuery("q2"))
	close(blocker)
	<-errCh

	if err == nil {
		t.Fatalf("expected the second concurrent call to be rejected")
	}
	se, ok := err.(*Error)
	if !ok || se.Kind != KindRateLimitExceeded {
		t.Fatalf("expected RateLimitExceeded kind, got %#v", err)
	}
}

func TestProcessQuery_InFlightDeduplication(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CacheEnabled = false

	blocker := make(chan struct{})
	slow := &blockingProvider{name: "slow", release: blocker}
	s := newTestSeeker(t, cfg, slow)

	q := baseQuery("shared-id")
	var wg sync.WaitGroup
	responses := make([]*model.KnowledgeResponse, 2)
	errs := make([]error, 2)
	wg.Add(2)
	for i := 0; i < 2; i++ {
		i := i
		go func() {
			defer wg.Done()
			responses[i], errs[i] = s.ProcessQuery(context.Background(), q)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(blocker)
	wg.Wait()

	if errs[0] != nil || errs[1] != nil {
		t.Fatalf("unexpected errors: %v, %v", errs[0], errs[1])
	}
	if responses[0] != responses[1] {
		t.Fatalf("expected both in-flight callers to observe the same response pointer")
	}
}

type blockingProvider struct {
	name    string
	release chan struct{}
}

func (p *blockingProvider) Name() string            { return p.name }
func (p *blockingProvider) Type() model.ProviderType { return model.ProviderMock }
func (p *blockingProvider) IsAvailable() bool        { return true }
func (p *blockingProvider) Health() model.ProviderHealth {
	return model.ProviderHealth{Available: true}
}
func (p *blockingProvider) Search(ctx context.Context, q model.KnowledgeQuery) ([]model.SearchResult, error) {
	select {
	case <-p.release:
		return nil, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func newTestNetworkError() error {
	return &testError{"simulated network failure"}
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
