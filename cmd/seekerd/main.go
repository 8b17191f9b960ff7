// Command seekerd runs the Knowledge Seeker as a standalone HTTP service:
// an orchestrator-facing API that fans queries out to search providers,
// augments agent tasks with research context, and tracks provenance.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"cloud.google.com/go/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"github.com/connexus-ai/knowledge-seeker/internal/cache"
	"github.com/connexus-ai/knowledge-seeker/internal/config"
	"github.com/connexus-ai/knowledge-seeker/internal/eventsink"
	"github.com/connexus-ai/knowledge-seeker/internal/httpapi"
	"github.com/connexus-ai/knowledge-seeker/internal/process"
	"github.com/connexus-ai/knowledge-seeker/internal/provenance"
	"github.com/connexus-ai/knowledge-seeker/internal/provider"
	"github.com/connexus-ai/knowledge-seeker/internal/research"
	"github.com/connexus-ai/knowledge-seeker/internal/seeker"
	"github.com/connexus-ai/knowledge-seeker/internal/telemetry"
)

// Version is the version string this binary reports; it is a compile-time
// constant.
const Version = "0.1.0"

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Provenance tracking is best-effort: without a configured DATABASE_URL
	// the seeker still serves queries and augments tasks, just without a
	// durable research record. deps.Provenance stays nil in that case, and
	// httpapi's provenanceRequired middleware answers 503 on those routes.
	var recorder *provenance.Recorder
	if cfg.DatabaseURL != "" {
		pool, err := provenance.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns)
		if err != nil {
			return fmt.Errorf("provenance pool: %w", err)
		}
		defer pool.Close()
		recorder = provenance.NewRecorder(provenance.NewPoolAdapter(pool)).WithRetentionDays(cfg.ProvenanceRetentionDays)
	} else {
		slog.Warn("seekerd: DATABASE_URL not set, running without research provenance tracking")
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	defer redisClient.Close()
	durable := cache.NewRedisStore(redisClient, cfg.RedisKeyPrefix)

	respCache, err := cache.New(cfg.CacheMaxEntries, durable)
	if err != nil {
		return fmt.Errorf("response cache: %w", err)
	}

	registry := provider.NewRegistry()
	registry.SetRetryPolicy(cfg.Seeker.RetryAttempts, cfg.Seeker.RetryDelayMs)
	registerProviders(ctx, registry, cfg)

	reg := prometheus.NewRegistry()
	metrics := telemetry.NewMetrics(reg)
	registry.SetMetrics(metrics)

	// MinRelevanceThreshold becomes the Information Processor's filter
	// threshold; the seeker applies no relevance gate of its own.
	processorCfg := process.DefaultConfig()
	processorCfg.MinRelevanceScore = cfg.Seeker.MinRelevanceThreshold
	processor := process.New(processorCfg)

	var sink eventsink.Sink = eventsink.NewLogger(slog.Default())
	if cfg.PubSubEnabled && cfg.GCPProject != "" && cfg.PubSubTopic != "" {
		pubsubClient, err := pubsub.NewClient(ctx, cfg.GCPProject)
		if err != nil {
			slog.Warn("seekerd: failed to create pubsub client, falling back to log sink", "error", err)
		} else {
			defer pubsubClient.Close()
			sink = eventsink.NewPubSub(pubsubClient.Topic(cfg.PubSubTopic))
		}
	}

	s := seeker.New(cfg.Seeker, registry, processor, respCache, sink)

	detector := research.NewDetector(cfg.Detector)
	augmenter := research.NewAugmenter(detector, s, cfg.Augmenter)

	deps := &httpapi.Dependencies{
		Seeker:        s,
		Augmenter:     augmenter,
		Version:       Version,
		AllowedOrigin: cfg.AllowedOrigin,
		Metrics:       metrics,
		MetricsReg:    reg,
	}
	if recorder != nil {
		// Assigned only when non-nil: storing a nil *provenance.Recorder
		// directly into the ProvenanceReader interface field would make it
		// a non-nil interface wrapping a nil pointer, defeating the
		// provenanceRequired nil check in httpapi/router.go.
		deps.Provenance = recorder
	}
	if cfg.RateLimitRequestsPerMinute > 0 {
		deps.QueryRateLimiter = newRateLimiter(cfg.RateLimitRequestsPerMinute)
		deps.AugmentRateLimiter = newRateLimiter(cfg.RateLimitRequestsPerMinute)
	}

	router := httpapi.New(deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("seekerd starting", "version", Version, "port", cfg.Port, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if deps.QueryRateLimiter != nil {
		deps.QueryRateLimiter.Stop()
	}
	if deps.AugmentRateLimiter != nil {
		deps.AugmentRateLimiter.Stop()
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("seekerd stopped")
	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
