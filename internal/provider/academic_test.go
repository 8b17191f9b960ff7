package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

const sampleAtomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <id>https://arxiv.org/abs/1234.5678</id>
    <title>  Attention and Memory in Deep Networks  </title>
    <summary>A study of attention mechanisms.</summary>
    <published>2023-05-01T00:00:00Z</published>
  </entry>
</feed>`

func TestAcademic_SearchParsesAtomFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		w.Write([]byte(sampleAtomFeed))
	}))
	defer srv.Close()

	p := NewAcademic("academic1", srv.URL, ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100})
	results, err := p.Search(context.Background(), validQuery("q1"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Title != "Attention and Memory in Deep Networks" {
		t.Fatalf("expected trimmed title, got %q", r.Title)
	}
	if r.SourceType != model.SourceAcademic || r.ContentType != model.ContentAcademicPaper {
		t.Fatalf("expected academic source/content type, got %v/%v", r.SourceType, r.ContentType)
	}
	if r.PublishedAt == nil {
		t.Fatalf("expected published date to be parsed")
	}
}

func TestAcademic_SearchTranslatesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewAcademic("academic1", srv.URL, ratelimit.Config{RequestsPerMinute: 10, RequestsPerHour: 100})
	_, err := p.Search(context.Background(), validQuery("q1"))
	if err == nil {
		t.Fatalf("expected error")
	}
	pe, ok := err.(*Error)
	if !ok || pe.Kind != KindUnavailable {
		t.Fatalf("expected Unavailable kind, got %#v", err)
	}
}
