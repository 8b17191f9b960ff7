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

// freeAPIResponse mirrors a generic keyless JSON search endpoint's shape:
// a flat array of hits, each with title/url/snippet fields.
type freeAPIResponse struct {
	Results []freeAPIHit `json:"results"`
}

type freeAPIHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// FreeAPI is a keyless, plain-HTTP search provider. Because it carries no
// API key, it is the provider most likely to be throttled and leans
// hardest on the shared rate limiter.
type FreeAPI struct {
	*Runtime
	name    string
	baseURL string
}

// NewFreeAPI creates a FreeAPI provider against the given endpoint.
func NewFreeAPI(name, baseURL string, rlCfg ratelimit.Config) *FreeAPI {
	return &FreeAPI{
		Runtime: NewRuntime(name, rlCfg),
		name:    name,
		baseURL: baseURL,
	}
}

func (f *FreeAPI) Name() string            { return f.name }
func (f *FreeAPI) Type() model.ProviderType { return model.ProviderWebSearch }

func (f *FreeAPI) Search(ctx context.Context, query model.KnowledgeQuery) ([]model.SearchResult, error) {
	if err := f.Guard(); err != nil {
		return nil, err
	}
	return f.Execute(func() ([]model.SearchResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL, nil)
		if err != nil {
			return nil, newNetworkError(f.name, err)
		}
		q := url.Values{}
		q.Set("q", query.Query)
		if query.MaxResults > 0 {
			q.Set("limit", fmt.Sprintf("%d", query.MaxResults))
		}
		req.URL.RawQuery = q.Encode()

		resp, err := f.HTTPClient.Do(req)
		if err != nil {
			return nil, newNetworkError(f.name, err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			return nil, newRateLimitedError(f.name)
		case resp.StatusCode >= 500:
			return nil, newUnavailableError(f.name, fmt.Sprintf("upstream status %d", resp.StatusCode))
		case resp.StatusCode != http.StatusOK:
			return nil, newMalformedError(f.name, fmt.Errorf("unexpected status %d", resp.StatusCode))
		}

		var decoded freeAPIResponse
		if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
			return nil, newMalformedError(f.name, err)
		}

		now := time.Now()
		out := make([]model.SearchResult, 0, len(decoded.Results))
		for i, hit := range decoded.Results {
			domain := DeriveDomain(hit.URL)
			out = append(out, model.SearchResult{
				ID:               fmt.Sprintf("%s-%s-%d", f.name, query.ID, i),
				QueryID:          query.ID,
				Title:            hit.Title,
				Content:          hit.Snippet,
				URL:              hit.URL,
				Domain:           domain,
				SourceType:       InferSourceType(domain),
				ContentType:      model.ContentArticle,
				RelevanceScore:   0.5,
				CredibilityScore: HeuristicCredibility(domain),
				RetrievedAt:      now,
				ProcessedAt:      now,
				Provider:         f.name,
				ContentHash:      StableHash(hit.Title, hit.URL, hit.Snippet),
			})
		}
		return out, nil
	})
}
