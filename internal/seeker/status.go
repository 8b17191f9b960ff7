package seeker

import (
	"github.com/connexus-ai/knowledge-seeker/internal/cache"
	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// ProviderStatus is one provider's entry in a Status report.
type ProviderStatus struct {
	Name      string
	Available bool
	Health    model.ProviderHealth
}

// ProcessingStats tracks coarse operational counters for status().
type ProcessingStats struct {
	ActiveSearches  int
	TotalProcessed  int64
	TotalFailed     int64
}

// Status is the Knowledge Seeker's health/operational snapshot.
type Status struct {
	Enabled         bool
	Providers       []ProviderStatus
	CacheStats      cache.Stats
	ProcessingStats ProcessingStats
}
