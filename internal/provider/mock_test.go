package provider

import (
	"context"
	"errors"
	"testing"
)

func TestMock_SearchReturnsSeededResults(t *testing.T) {
	m := NewMock("mockA", []MockResult{
		{Title: "First", URL: "https://example.com/a", Content: "alpha", RelevanceScore: 0.9, CredibilityScore: 0.8},
		{Title: "Second", URL: "https://example.org/b", Content: "beta", RelevanceScore: 0.6, CredibilityScore: 0.5},
	})

	results, err := m.Search(context.Background(), validQuery("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Domain != "example.com" {
		t.Fatalf("expected domain to be derived from url, got %q", results[0].Domain)
	}
	if results[0].ContentHash == "" {
		t.Fatalf("expected content hash to be populated")
	}
}

func TestMock_FailWithPropagatesError(t *testing.T) {
	m := NewMock("mockA", nil)
	m.FailWith(errors.New("simulated failure"))

	_, err := m.Search(context.Background(), validQuery("q1"))
	if err == nil {
		t.Fatalf("expected injected failure to propagate")
	}
}
