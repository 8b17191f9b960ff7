package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

func TestFreeAPI_SearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results":[{"title":"Go 101","url":"https://golang.org/doc","snippet":"intro"}]}`))
	}))
	defer srv.Close()

	p := NewFreeAPI("free1", srv.URL, ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100})
	results, err := p.Search(context.Background(), validQuery("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 || results[0].Title != "Go 101" {
		t.Fatalf("unexpected results: %#v", results)
	}
}

func TestFreeAPI_SearchTranslatesRateLimitStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewFreeAPI("free1", srv.URL, ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100})
	_, err := p.Search(context.Background(), validQuery("q1"))
	if err == nil {
		t.Fatalf("expected error")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindRateLimited {
		t.Fatalf("expected RateLimited kind, got %#v", err)
	}
}

func TestFreeAPI_SearchTranslatesMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	p := NewFreeAPI("free1", srv.URL, ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100})
	_, err := p.Search(context.Background(), validQuery("q1"))
	if err == nil {
		t.Fatalf("expected error")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindMalformed {
		t.Fatalf("expected Malformed kind, got %#v", err)
	}
}
