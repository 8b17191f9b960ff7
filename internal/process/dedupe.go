package process

import (
	"fmt"
	"strings"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// dedupeSignature returns the stable signature spec'd for deduplication: the
// provider-stamped contentHash when present, otherwise domain + normalized
// title + first 100 chars of snippet (the two are redundant in practice
// since contentHash is built from the same fields).
func dedupeSignature(r model.SearchResult) string {
	if r.ContentHash != "" {
		return r.ContentHash
	}
	snippet := r.Content
	if len(snippet) > 100 {
		snippet = snippet[:100]
	}
	return fmt.Sprintf("%s|%s|%s",
		strings.ToLower(r.Domain),
		strings.ToLower(strings.TrimSpace(r.Title)),
		strings.ToLower(snippet),
	)
}

// deduplicate keeps the first occurrence of each signature, preserving order.
func deduplicate(results []model.SearchResult) []model.SearchResult {
	seen := make(map[string]bool, len(results))
	out := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		sig := dedupeSignature(r)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, r)
	}
	return out
}
