package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

// MockResult is a canned hit the Mock provider returns for a given query text.
type MockResult struct {
	Title            string
	Content          string
	URL              string
	RelevanceScore   float64
	CredibilityScore float64
}

// Mock is a deterministic provider for tests: it returns a fixed, seeded
// result set rather than calling out to any backend.
type Mock struct {
	*Runtime
	name    string
	results []MockResult
	fail    error
}

// NewMock creates a Mock provider that always returns the given results.
func NewMock(name string, results []MockResult) *Mock {
	return &Mock{
		Runtime: NewRuntime(name, ratelimit.Config{RequestsPerMinute: 1000, RequestsPerHour: 100000}),
		name:    name,
		results: results,
	}
}

// FailWith makes every subsequent Search call return err instead of results,
// used to exercise partial-failure scenarios in Seeker tests.
func (m *Mock) FailWith(err error) {
	m.fail = err
}

func (m *Mock) Name() string               { return m.name }
func (m *Mock) Type() model.ProviderType    { return model.ProviderMock }

func (m *Mock) Search(ctx context.Context, query model.KnowledgeQuery) ([]model.SearchResult, error) {
	if err := m.Guard(); err != nil {
		return nil, err
	}
	return m.Execute(func() ([]model.SearchResult, error) {
		if m.fail != nil {
			return nil, m.fail
		}
		now := time.Now()
		out := make([]model.SearchResult, 0, len(m.results))
		for i, r := range m.results {
			domain := DeriveDomain(r.URL)
			out = append(out, model.SearchResult{
				ID:               fmt.Sprintf("%s-%s-%d", m.name, query.ID, i),
				QueryID:          query.ID,
				Title:            r.Title,
				Content:          r.Content,
				URL:              r.URL,
				Domain:           domain,
				SourceType:       InferSourceType(domain),
				ContentType:      model.ContentArticle,
				RelevanceScore:   r.RelevanceScore,
				CredibilityScore: r.CredibilityScore,
				RetrievedAt:      now,
				ProcessedAt:      now,
				Provider:         m.name,
				ContentHash:      StableHash(r.Title, r.URL, r.Content),
			})
		}
		return out, nil
	})
}
