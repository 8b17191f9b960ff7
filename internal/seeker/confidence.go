package seeker

import (
	"fmt"
	"sort"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// assembleConfidence computes confidence = 0.4*avgRelevance +
// 0.4*avgCredibility + 0.2*sourceDiversity, where sourceDiversity =
// min(uniqueProviders/totalProviders, 1.0). Empty
// results yield confidence 0.
func assembleConfidence(results []model.SearchResult, totalProviders int) float64 {
	if len(results) == 0 {
		return 0
	}

	var sumRelevance, sumCredibility float64
	uniqueProviders := make(map[string]bool, len(results))
	for _, r := range results {
		sumRelevance += r.RelevanceScore
		sumCredibility += r.CredibilityScore
		uniqueProviders[r.Provider] = true
	}

	avgRelevance := sumRelevance / float64(len(results))
	avgCredibility := sumCredibility / float64(len(results))

	sourceDiversity := 1.0
	if totalProviders > 0 {
		sourceDiversity = float64(len(uniqueProviders)) / float64(totalProviders)
		if sourceDiversity > 1.0 {
			sourceDiversity = 1.0
		}
	}

	return 0.4*avgRelevance + 0.4*avgCredibility + 0.2*sourceDiversity
}

// sourcesUsed returns the distinct providers represented in results, sorted
// for deterministic output.
func sourcesUsed(results []model.SearchResult) []string {
	seen := make(map[string]bool, len(results))
	out := make([]string, 0, len(results))
	for _, r := range results {
		if !seen[r.Provider] {
			seen[r.Provider] = true
			out = append(out, r.Provider)
		}
	}
	sort.Strings(out)
	return out
}

// buildSummary produces a templated sentence: on empty results, "No
// relevant information found for …"; otherwise a concise sentence naming the
// result count and dominant source types.
func buildSummary(query string, results []model.SearchResult) string {
	if len(results) == 0 {
		return fmt.Sprintf("No relevant information found for %q.", query)
	}

	counts := make(map[model.SourceType]int)
	for _, r := range results {
		counts[r.SourceType]++
	}
	dominant := dominantSourceTypes(counts)

	if len(dominant) == 1 {
		return fmt.Sprintf("Found %d result(s) for %q, primarily from %s sources.", len(results), query, dominant[0])
	}
	return fmt.Sprintf("Found %d result(s) for %q, drawing from %s sources.", len(results), query, joinSourceTypes(dominant))
}

// dominantSourceTypes returns the source type(s) with the highest count,
// sorted for determinism.
func dominantSourceTypes(counts map[model.SourceType]int) []model.SourceType {
	max := 0
	for _, c := range counts {
		if c > max {
			max = c
		}
	}
	out := make([]model.SourceType, 0, len(counts))
	for st, c := range counts {
		if c == max {
			out = append(out, st)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func joinSourceTypes(types []model.SourceType) string {
	strs := make([]string, len(types))
	for i, t := range types {
		strs[i] = string(t)
	}
	out := strs[0]
	for _, s := range strs[1:] {
		out += " and " + s
	}
	return out
}
