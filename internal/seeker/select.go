package seeker

import (
	"sort"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/provider"
)

// allowedTypesForQuery narrows provider candidates by queryType: technical
// queries favor documentation+web; factual/explanatory favor web; everything
// else considers all provider types.
func allowedTypesForQuery(queryType model.QueryType) map[model.ProviderType]bool {
	switch queryType {
	case model.QueryTechnical:
		return map[model.ProviderType]bool{
			model.ProviderDocumentationSearch: true,
			model.ProviderWebSearch:           true,
		}
	case model.QueryFactual, model.QueryExplanatory:
		return map[model.ProviderType]bool{model.ProviderWebSearch: true}
	default:
		return nil // nil means "no restriction"
	}
}

// selectProviders returns the providers eligible for query: enabled and
// available, optionally restricted to preferredSources, narrowed by
// queryType (mock providers are never narrowed out), then sorted by
// configured priority (name as a deterministic tiebreak).
func selectProviders(all []provider.Provider, query model.KnowledgeQuery, priority map[string]int, respectAvailability bool) []provider.Provider {
	preferred := make(map[string]bool, len(query.PreferredSources))
	for _, s := range query.PreferredSources {
		preferred[s] = true
	}
	allowedTypes := allowedTypesForQuery(query.QueryType)

	candidates := make([]provider.Provider, 0, len(all))
	for _, p := range all {
		if respectAvailability && !p.IsAvailable() {
			continue
		}
		if len(preferred) > 0 && !preferred[p.Name()] {
			continue
		}
		if allowedTypes != nil && p.Type() != model.ProviderMock && !allowedTypes[p.Type()] {
			continue
		}
		candidates = append(candidates, p)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		pi, pj := priority[candidates[i].Name()], priority[candidates[j].Name()]
		if pi != pj {
			return pi > pj
		}
		return candidates[i].Name() < candidates[j].Name()
	})
	return candidates
}
