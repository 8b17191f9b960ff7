package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

// docSearchResponse mirrors a generic docs-search endpoint's shape (e.g. a
// ReadTheDocs/Devdocs-style search API): a flat array of hits with
// title/url/snippet/project fields.
type docSearchResponse struct {
	Results []docSearchHit `json:"results"`
}

type docSearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Project string `json:"project"`
}

// Documentation is the documentation_search provider, queried by the Seeker
// when a query's type is technical.
type Documentation struct {
	*Runtime
	name    string
	baseURL string
}

// NewDocumentation creates a Documentation provider against the given
// endpoint.
func NewDocumentation(name, baseURL string, rlCfg ratelimit.Config) *Documentation {
	return &Documentation{
		Runtime: NewRuntime(name, rlCfg),
		name:    name,
		baseURL: baseURL,
	}
}

func (d *Documentation) Name() string            { return d.name }
func (d *Documentation) Type() model.ProviderType { return model.ProviderDocumentationSearch }

func (d *Documentation) Search(ctx context.Context, query model.KnowledgeQuery) ([]model.SearchResult, error) {
	if err := d.Guard(); err != nil {
		return nil, err
	}
	return d.Execute(func() ([]model.SearchResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.baseURL, nil)
		if err != nil {
			return nil, newNetworkError(d.name, err)
		}
		q := url.Values{}
		q.Set("q", query.Query)
		if query.MaxResults > 0 {
			q.Set("limit", fmt.Sprintf("%d", query.MaxResults))
		}
		req.URL.RawQuery = q.Encode()

		resp, err := d.HTTPClient.Do(req)
		if err != nil {
			return nil, newNetworkError(d.name, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, newRateLimitedError(d.name)
		case resp.StatusCode >= 500:
			return nil, newUnavailableError(d.name, fmt.Sprintf("upstream status %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return nil, newMalformedError(d.name, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		var decoded docSearchResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, newMalformedError(d.name, err)
		}

		now := time.Now()
		out := make([]model.SearchResult, 0, len(decoded.Results))
		for i, hit := range decoded.Results {
			domain := DeriveDomain(hit.URL)
			out = append(out, model.SearchResult{
				ID:               fmt.Sprintf("%s-%s-%d", d.name, query.ID, i),
				QueryID:          query.ID,
				Title:            hit.Title,
				Content:          hit.Snippet,
				URL:              hit.URL,
				Domain:           domain,
				SourceType:       model.SourceDocumentation,
				ContentType:      model.ContentDocumentation,
				RelevanceScore:   0.6,
				CredibilityScore: HeuristicCredibility(domain),
				RetrievedAt:      now,
				ProcessedAt:      now,
				Provider:         d.name,
				ContentHash:      StableHash(hit.Title, hit.URL, hit.Snippet),
			})
		}
		return out, nil
	})
}
