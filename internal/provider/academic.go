package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

// academicFeed mirrors the Atom-shaped response arXiv's export API returns.
// encoding/xml is used directly here (rather than a third-party XML library)
// because no example repo in the pack pulls in one — the standard decoder
// is the ecosystem-idiomatic choice for a well-formed, known-shape Atom feed.
type academicFeed struct {
	XMLName xml.Name       `xml:"feed"`
	Entries []academicItem `xml:"entry"`
}

type academicItem struct {
	Title     string `xml:"title"`
	Summary   string `xml:"summary"`
	Published string `xml:"published"`
	ID        string `xml:"id"`
}

// Academic is the academic_search provider, querying an arXiv-shaped export
// endpoint that returns Atom XML.
type Academic struct {
	*Runtime
	name     string
	baseURL  string
}

// NewAcademic creates an Academic provider against the given export endpoint
// (e.g. "https://export.arxiv.org/api/query").
func NewAcademic(name, baseURL string, rlCfg ratelimit.Config) *Academic {
	return &Academic{
		Runtime: NewRuntime(name, rlCfg),
		name:    name,
		baseURL: baseURL,
	}
}

func (a *Academic) Name() string            { return a.name }
func (a *Academic) Type() model.ProviderType { return model.ProviderAcademicSearch }

func (a *Academic) Search(ctx context.Context, query model.KnowledgeQuery) ([]model.SearchResult, error) {
	if err := a.Guard(); err != nil {
		return nil, err
	}
	return a.Execute(func() ([]model.SearchResult, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL, nil)
		if err != nil {
			return nil, newNetworkError(a.name, err)
		}
		q := url.Values{}
		q.Set("search_query", "all:"+query.Query)
		q.Set("max_results", fmt.Sprintf("%d", query.MaxResults))
		req.URL.RawQuery = q.Encode()

		resp, err := a.HTTPClient.Do(req)
		if err != nil {
			return nil, newNetworkError(a.name, err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, newRateLimitedError(a.name)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, newUnavailableError(a.name, fmt.Sprintf("upstream status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, newNetworkError(a.name, err)
		}

		var feed academicFeed
		if err := xml.Unmarshal(body, &feed); err != nil {
			return nil, newMalformedError(a.name, err)
		}

		now := time.Now()
		out := make([]model.SearchResult, 0, len(feed.Entries))
		for i, entry := range feed.Entries {
			title := strings.TrimSpace(entry.Title)
			snippet := strings.TrimSpace(entry.Summary)
			domain := DeriveDomain(entry.ID)
			var publishedAt *time.Time
			if entry.Published != "" {
				if t, err := time.Parse(time.RFC3339, entry.Published); err == nil {
					publishedAt = &t
				}
			}
			out = append(out, model.SearchResult{
				ID:               fmt.Sprintf("%s-%s-%d", a.name, query.ID, i),
				QueryID:          query.ID,
				Title:            title,
				Content:          snippet,
				URL:              entry.ID,
				Domain:           domain,
				SourceType:       model.SourceAcademic,
				ContentType:      model.ContentAcademicPaper,
				RelevanceScore:   0.6,
				CredibilityScore: 0.9,
				PublishedAt:      publishedAt,
				RetrievedAt:      now,
				ProcessedAt:      now,
				Provider:         a.name,
				ContentHash:      StableHash(title, entry.ID, snippet),
			})
		}
		return out, nil
	})
}
