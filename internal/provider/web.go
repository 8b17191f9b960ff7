package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
)

// WebConfig configures a Web provider instance.
type WebConfig struct {
	SearchEngineID string
	ClientID       string
	ClientSecret   string
	TokenURL       string
	RateLimit      ratelimit.Config
}

// Web is the generic web-search provider, backed by a Google Custom Search
// JSON API engine reached with an OAuth2 client-credentials token.
type Web struct {
	*Runtime
	name   string
	engine string
	svc    *customsearch.Service
}

// NewWeb creates a Web provider. svc may be nil in tests where Search is not
// exercised end-to-end; NewWebService builds the real client.
func NewWeb(name string, cfg WebConfig, svc *customsearch.Service) *Web {
	return &Web{
		Runtime: NewRuntime(name, cfg.RateLimit),
		name:    name,
		engine:  cfg.SearchEngineID,
		svc:     svc,
	}
}

// NewWebService builds the customsearch client using a client-credentials
// OAuth2 token source.
func NewWebService(ctx context.Context, cfg WebConfig) (*customsearch.Service, error) {
	tokenSource := (&clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}).TokenSource(ctx)

	return customsearch.NewService(ctx, option.WithTokenSource(tokenSource))
}

func (w *Web) Name() string            { return w.name }
func (w *Web) Type() model.ProviderType { return model.ProviderWebSearch }

func (w *Web) Search(ctx context.Context, query model.KnowledgeQuery) ([]model.SearchResult, error) {
	if err := w.Guard(); err != nil {
		return nil, err
	}
	return w.Execute(func() ([]model.SearchResult, error) {
		if w.svc == nil {
			return nil, newUnavailableError(w.name, "web search client not configured")
		}

		call := w.svc.Cse.List().Cx(w.engine).Q(query.Query).Context(ctx)
		if query.MaxResults > 0 && query.MaxResults < 10 {
			call = call.Num(int64(query.MaxResults))
		}

		resp, err := call.Do()
		if err != nil {
			var gerr *googleapi.Error
			if errors.As(err, &gerr) && gerr.Code == 429 {
				return nil, newRateLimitedError(w.name)
			}
			return nil, newNetworkError(w.name, err)
		}
		if resp == nil || resp.Items == nil {
			return nil, newMalformedError(w.name, fmt.Errorf("empty response"))
		}

		now := time.Now()
		out := make([]model.SearchResult, 0, len(resp.Items))
		for i, item := range resp.Items {
			domain := DeriveDomain(item.Link)
			out = append(out, model.SearchResult{
				ID:               fmt.Sprintf("%s-%s-%d", w.name, query.ID, i),
				QueryID:          query.ID,
				Title:            item.Title,
				Content:          item.Snippet,
				URL:              item.Link,
				Domain:           domain,
				SourceType:       InferSourceType(domain),
				ContentType:      model.ContentArticle,
				RelevanceScore:   0.5,
				CredibilityScore: HeuristicCredibility(domain),
				RetrievedAt:      now,
				ProcessedAt:      now,
				Provider:         w.name,
				ContentHash:      StableHash(item.Title, item.Link, item.Snippet),
			})
		}
		return out, nil
	})
}
