package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/config"
	"github.com/connexus-ai/knowledge-seeker/internal/httpapi/middleware"
	"github.com/connexus-ai/knowledge-seeker/internal/provider"
)

// registerProviders wires every configured Search Provider into registry.
// A provider whose required configuration is absent is skipped with a log
// line rather than failing startup — an operator may run with only a
// subset of providers configured.
func registerProviders(ctx context.Context, registry *provider.Registry, cfg *config.Config) {
	if cfg.WebSearchEngineID != "" && cfg.WebClientID != "" && cfg.WebClientSecret != "" {
		svc, err := provider.NewWebService(ctx, provider.WebConfig{
			SearchEngineID: cfg.WebSearchEngineID,
			ClientID:       cfg.WebClientID,
			ClientSecret:   cfg.WebClientSecret,
			TokenURL:       cfg.WebTokenURL,
			RateLimit:      cfg.ProviderRateLimit,
		})
		if err != nil {
			slog.Warn("seekerd: failed to build web search provider, skipping", "error", err)
		} else {
			registry.Register(provider.NewWeb("web", provider.WebConfig{
				SearchEngineID: cfg.WebSearchEngineID,
				ClientID:       cfg.WebClientID,
				ClientSecret:   cfg.WebClientSecret,
				TokenURL:       cfg.WebTokenURL,
				RateLimit:      cfg.ProviderRateLimit,
			}, svc))
		}
	} else {
		slog.Info("seekerd: web search provider not configured, skipping")
	}

	if cfg.AcademicBaseURL != "" {
		registry.Register(provider.NewAcademic("academic", cfg.AcademicBaseURL, cfg.ProviderRateLimit))
	}

	if cfg.DocumentationBaseURL != "" {
		registry.Register(provider.NewDocumentation("documentation", cfg.DocumentationBaseURL, cfg.ProviderRateLimit))
	}

	if cfg.FreeAPIBaseURL != "" {
		registry.Register(provider.NewFreeAPI("free_api", cfg.FreeAPIBaseURL, cfg.ProviderRateLimit))
	}

	if len(registry.All()) == 0 {
		slog.Warn("seekerd: no search providers configured; every query will return zero results")
	}
}

func newRateLimiter(requestsPerMinute int) *middleware.RateLimiter {
	return middleware.NewRateLimiter(middleware.RateLimiterConfig{
		MaxRequests:     requestsPerMinute,
		Window:          time.Minute,
		CleanupInterval: 5 * time.Minute,
	})
}
