package provider

import (
	"context"
	"testing"

	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

func TestWeb_SearchWithoutClientIsUnavailable(t *testing.T) {
	w := NewWeb("web1", WebConfig{
		SearchEngineID: "engine-1",
		RateLimit:      ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100},
	}, nil)

	_, err := w.Search(context.Background(), validQuery("q1"))
	if err == nil {
		t.Fatalf("expected error when the search client is not configured")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnavailable {
		t.Fatalf("expected Unavailable kind, got %#v", err)
	}
}

func TestWeb_NameAndType(t *testing.T) {
	w := NewWeb("web1", WebConfig{SearchEngineID: "engine-1"}, nil)
	if w.Name() != "web1" {
		t.Fatalf("unexpected name: %q", w.Name())
	}
}
