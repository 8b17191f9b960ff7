// Package config loads the Knowledge Seeker's configuration from environment
// variables into an immutable Config via a flat envStr/envInt/envFloat
// loader style.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/ratelimit"
	"github.com/connexus-ai/knowledge-seeker/internal/research"
	"github.com/connexus-ai/knowledge-seeker/internal/seeker"
)

// Config holds all application configuration loaded from environment
// variables. It is immutable after Load() returns.
type Config struct {
	Port          int
	Environment   string
	AllowedOrigin string

	DatabaseURL      string
	DatabaseMaxConns int

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisKeyPrefix string

	GCPProject      string
	PubSubTopic     string
	PubSubEnabled   bool

	// Google Custom Search (the Web provider's backing engine).
	WebSearchEngineID  string
	WebClientID        string
	WebClientSecret    string
	WebTokenURL        string

	// Academic provider (arXiv-shaped export endpoint).
	AcademicBaseURL string

	// Documentation provider.
	DocumentationBaseURL string

	// FreeAPI provider (keyless, plain-HTTP).
	FreeAPIBaseURL string

	ProviderRateLimit      ratelimit.Config
	CacheMaxEntries        int
	ProvenanceRetentionDays int

	Seeker   seeker.Config
	Detector research.DetectorConfig
	Augmenter research.AugmenterConfig

	RateLimitRequestsPerMinute int
	InternalAuthSecret         string
}

// Load reads configuration from environment variables. DATABASE_URL is
// optional: when unset, the service runs without research provenance
// tracking rather than failing to start. INTERNAL_AUTH_SECRET is required
// whenever ENVIRONMENT is not "development"; everything else falls back to
// sensible defaults.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")

	environment := envStr("ENVIRONMENT", "development")
	internalAuthSecret := envStr("INTERNAL_AUTH_SECRET", "")
	if environment != "development" && internalAuthSecret == "" {
		return nil, fmt.Errorf("config.Load: INTERNAL_AUTH_SECRET is required in %s environment", environment)
	}

	seekerCfg := seeker.DefaultConfig()
	seekerCfg.Enabled = envBool("SEEKER_ENABLED", seekerCfg.Enabled)
	seekerCfg.DefaultTimeoutMs = envInt("SEEKER_DEFAULT_TIMEOUT_MS", seekerCfg.DefaultTimeoutMs)
	seekerCfg.MaxConcurrentSearches = envInt("SEEKER_MAX_CONCURRENT_SEARCHES", seekerCfg.MaxConcurrentSearches)
	seekerCfg.MaxConcurrentQueries = envInt("SEEKER_MAX_CONCURRENT_QUERIES", seekerCfg.MaxConcurrentQueries)
	seekerCfg.MaxResultsPerProvider = envInt("SEEKER_MAX_RESULTS_PER_PROVIDER", seekerCfg.MaxResultsPerProvider)
	seekerCfg.MinRelevanceThreshold = envFloat("SEEKER_MIN_RELEVANCE_THRESHOLD", seekerCfg.MinRelevanceThreshold)
	seekerCfg.CacheEnabled = envBool("SEEKER_CACHE_ENABLED", seekerCfg.CacheEnabled)
	seekerCfg.CacheTTL = envDuration("SEEKER_CACHE_TTL", seekerCfg.CacheTTL)
	seekerCfg.RetryAttempts = envInt("SEEKER_RETRY_ATTEMPTS", seekerCfg.RetryAttempts)
	seekerCfg.RetryDelayMs = envInt("SEEKER_RETRY_DELAY_MS", seekerCfg.RetryDelayMs)
	seekerCfg.CircuitBreakerEnabled = envBool("SEEKER_CIRCUIT_BREAKER_ENABLED", seekerCfg.CircuitBreakerEnabled)

	detectorCfg := research.DefaultDetectorConfig()
	detectorCfg.MinConfidence = envFloat("DETECTOR_MIN_CONFIDENCE", detectorCfg.MinConfidence)
	detectorCfg.MaxQueries = envInt("DETECTOR_MAX_QUERIES", detectorCfg.MaxQueries)
	detectorCfg.EnableQuestionDetection = envBool("DETECTOR_ENABLE_QUESTION", detectorCfg.EnableQuestionDetection)
	detectorCfg.EnableUncertaintyDetection = envBool("DETECTOR_ENABLE_UNCERTAINTY", detectorCfg.EnableUncertaintyDetection)
	detectorCfg.EnableComparisonDetection = envBool("DETECTOR_ENABLE_COMPARISON", detectorCfg.EnableComparisonDetection)
	detectorCfg.EnableTechnicalDetection = envBool("DETECTOR_ENABLE_TECHNICAL", detectorCfg.EnableTechnicalDetection)
	detectorCfg.EnableFactCheckDetection = envBool("DETECTOR_ENABLE_FACTCHECK", detectorCfg.EnableFactCheckDetection)

	augmenterCfg := research.DefaultAugmenterConfig()
	augmenterCfg.MaxResultsPerQuery = envInt("AUGMENTER_MAX_RESULTS_PER_QUERY", augmenterCfg.MaxResultsPerQuery)
	augmenterCfg.RelevanceThreshold = envFloat("AUGMENTER_RELEVANCE_THRESHOLD", augmenterCfg.RelevanceThreshold)
	augmenterCfg.TimeoutMs = envInt("AUGMENTER_TIMEOUT_MS", augmenterCfg.TimeoutMs)
	augmenterCfg.MaxQueries = envInt("AUGMENTER_MAX_QUERIES", augmenterCfg.MaxQueries)
	augmenterCfg.EnableCaching = envBool("AUGMENTER_ENABLE_CACHING", augmenterCfg.EnableCaching)

	cfg := &Config{
		Port:          envInt("PORT", 8080),
		Environment:   environment,
		AllowedOrigin: envStr("ALLOWED_ORIGIN", "http://localhost:3000"),

		DatabaseURL:      dbURL,
		DatabaseMaxConns: envInt("DATABASE_MAX_CONNS", 25),

		RedisAddr:      envStr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:  envStr("REDIS_PASSWORD", ""),
		RedisDB:        envInt("REDIS_DB", 0),
		RedisKeyPrefix: envStr("REDIS_KEY_PREFIX", "seeker:cache:"),

		GCPProject:    envStr("GOOGLE_CLOUD_PROJECT", ""),
		PubSubTopic:   envStr("PUBSUB_EVENTS_TOPIC", ""),
		PubSubEnabled: envBool("PUBSUB_EVENTS_ENABLED", false),

		WebSearchEngineID: envStr("WEB_SEARCH_ENGINE_ID", ""),
		WebClientID:       envStr("WEB_SEARCH_CLIENT_ID", ""),
		WebClientSecret:   envStr("WEB_SEARCH_CLIENT_SECRET", ""),
		WebTokenURL:       envStr("WEB_SEARCH_TOKEN_URL", "https://oauth2.googleapis.com/token"),

		AcademicBaseURL:      envStr("ACADEMIC_BASE_URL", "https://export.arxiv.org/api/query"),
		DocumentationBaseURL: envStr("DOCUMENTATION_BASE_URL", ""),
		FreeAPIBaseURL:       envStr("FREE_API_BASE_URL", ""),

		ProviderRateLimit: ratelimit.Config{
			RequestsPerMinute: envInt("PROVIDER_REQUESTS_PER_MINUTE", 60),
			RequestsPerHour:   envInt("PROVIDER_REQUESTS_PER_HOUR", 1000),
			BurstLimit:        envInt("PROVIDER_BURST_LIMIT", 10),
			BackoffMultiplier: envFloat("PROVIDER_BACKOFF_MULTIPLIER", 2),
			MaxBackoff:        envDuration("PROVIDER_MAX_BACKOFF", 5*time.Minute),
		},
		CacheMaxEntries:         envInt("CACHE_MAX_ENTRIES", 1000),
		ProvenanceRetentionDays: envInt("PROVENANCE_RETENTION_DAYS", 90),

		Seeker:    seekerCfg,
		Detector:  detectorCfg,
		Augmenter: augmenterCfg,

		RateLimitRequestsPerMinute: envInt("HTTP_RATE_LIMIT_PER_MINUTE", 60),
		InternalAuthSecret:         internalAuthSecret,
	}

	// SEEKER_MIN_RELEVANCE_THRESHOLD is applied at assembly time as the
	// Information Processor's MinRelevanceScore — see cmd/seekerd/main.go.
	// The seeker itself applies no separate relevance gate.

	return cfg, nil
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envStringSlice(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
