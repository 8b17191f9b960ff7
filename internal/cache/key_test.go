package cache

import (
	"testing"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

func TestKey_DeterministicForIdenticalTuples(t *testing.T) {
	a := model.KnowledgeQuery{
		Query:              "  Go Concurrency  ",
		QueryType:          model.QueryFactual,
		MaxResults:         5,
		RelevanceThreshold: 0.5,
		PreferredSources:   []string{"web", "academic"},
	}
	b := model.KnowledgeQuery{
		Query:              "go concurrency",
		QueryType:          model.QueryFactual,
		MaxResults:         5,
		RelevanceThreshold: 0.5,
		PreferredSources:   []string{"academic", "web"},
	}
	if Key(a) != Key(b) {
		t.Fatalf("expected identical tuples (modulo case/whitespace/order) to hash to the same key")
	}
}

func TestKey_DiffersOnMaxResults(t *testing.T) {
	a := model.KnowledgeQuery{Query: "go", MaxResults: 5}
	b := model.KnowledgeQuery{Query: "go", MaxResults: 10}
	if Key(a) == Key(b) {
		t.Fatalf("expected differing maxResults to produce different keys")
	}
}
