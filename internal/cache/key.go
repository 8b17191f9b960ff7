// Package cache implements the Response Cache: an in-memory LRU-ish store
// with TTL expiry, an optional durable Redis-backed layer, and the
// deterministic key generation a response's cache lookup relies on.
package cache

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// Key computes the deterministic cache key for a query, hashing the tuple
// (normalizedQuery, queryType, maxResults, relevanceThreshold,
// sortedPreferredSources) with xxhash so identical tuples always hash
// identically.
func Key(query model.KnowledgeQuery) string {
	normalized := strings.ToLower(strings.TrimSpace(query.Query))
	sources := query.PreferredSourcesSorted()
	tuple := fmt.Sprintf("%s|%s|%d|%.4f|%s",
		normalized,
		query.QueryType,
		query.MaxResults,
		query.RelevanceThreshold,
		strings.Join(sources, ","),
	)
	h := xxhash.Sum64String(tuple)
	return fmt.Sprintf("kq:%x", h)
}
