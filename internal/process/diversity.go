package process

import "github.com/connexus-ai/knowledge-seeker/internal/model"

// enforceDiversity caps results per domain at maxResultsPerDomain — a hard
// limit that is never exceeded. Within that cap it attempts, best-effort, to
// cover at least minSourceTypes distinct source types by substituting a
// covered-type entry already kept for a domain for an uncovered-type result,
// but only when the entry being displaced isn't the last representative of
// its own source type. It never guarantees coverage when the raw set itself
// lacks that many source types, and it never admits a domain past its cap to
// get it.
func enforceDiversity(results []model.SearchResult, maxResultsPerDomain, minSourceTypes int) []model.SearchResult {
	if maxResultsPerDomain <= 0 {
		maxResultsPerDomain = len(results)
	}

	perDomain := make(map[string]int, len(results))
	sourceTypeCount := make(map[model.SourceType]int, len(results))
	domainIndices := make(map[string][]int, len(results))
	out := make([]model.SearchResult, 0, len(results))

	for _, r := range results {
		if perDomain[r.Domain] < maxResultsPerDomain {
			perDomain[r.Domain]++
			sourceTypeCount[r.SourceType]++
			domainIndices[r.Domain] = append(domainIndices[r.Domain], len(out))
			out = append(out, r)
			continue
		}

		// Domain is already at cap: only substitute in place, never add past
		// it. Substitution only helps when r's source type isn't covered yet
		// and coverage is still below the minimum.
		if len(sourceTypeCount) >= minSourceTypes || sourceTypeCount[r.SourceType] > 0 {
			continue
		}
		victimIdx := -1
		for _, idx := range domainIndices[r.Domain] {
			if sourceTypeCount[out[idx].SourceType] > 1 {
				victimIdx = idx
				break
			}
		}
		if victimIdx == -1 {
			continue
		}
		sourceTypeCount[out[victimIdx].SourceType]--
		sourceTypeCount[r.SourceType]++
		out[victimIdx] = r
	}
	return out
}
