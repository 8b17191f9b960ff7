package process

import (
	"math"
	"sort"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// providerPriority breaks a final tie deterministically when relevance,
// credibility, and publish date are all equal or absent; lower sorts first
// in the comparator's "prefer" sense, mirroring a stable alphabetic fallback.
func providerPriority(provider string) string {
	return provider
}

// rankResults sorts by relevanceScore desc; ties within 0.01 break by
// credibilityScore desc, then publishedAt desc (when both present), then
// provider name as a deterministic final tiebreak.
func rankResults(results []model.SearchResult) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if math.Abs(a.RelevanceScore-b.RelevanceScore) >= 0.01 {
			return a.RelevanceScore > b.RelevanceScore
		}
		if a.CredibilityScore != b.CredibilityScore {
			return a.CredibilityScore > b.CredibilityScore
		}
		if a.PublishedAt != nil && b.PublishedAt != nil && !a.PublishedAt.Equal(*b.PublishedAt) {
			return a.PublishedAt.After(*b.PublishedAt)
		}
		return providerPriority(a.Provider) < providerPriority(b.Provider)
	})
}
