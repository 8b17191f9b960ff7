package seeker

import "time"

// Config holds the Knowledge Seeker's tunables.
type Config struct {
	Enabled               bool
	DefaultTimeoutMs      int
	MaxConcurrentSearches int
	MaxConcurrentQueries  int
	MaxResultsPerProvider int
	MinRelevanceThreshold float64
	CacheEnabled          bool
	CacheTTL              time.Duration
	RetryAttempts         int
	RetryDelayMs          int
	CircuitBreakerEnabled bool

	// ProviderPriority orders provider selection when queryType narrows the
	// candidate set; higher sorts first. Providers absent from this map rank
	// 0 and fall back to name order for determinism.
	ProviderPriority map[string]int
}

// DefaultConfig returns the Seeker's stated defaults.
func DefaultConfig() Config {
	return Config{
		Enabled:               true,
		DefaultTimeoutMs:      10_000,
		MaxConcurrentSearches: 10,
		MaxConcurrentQueries:  5,
		MaxResultsPerProvider: 20,
		MinRelevanceThreshold: 0.3,
		CacheEnabled:          true,
		CacheTTL:              time.Hour,
		RetryAttempts:         3,
		RetryDelayMs:          500,
		CircuitBreakerEnabled: true,
		ProviderPriority:      map[string]int{},
	}
}
