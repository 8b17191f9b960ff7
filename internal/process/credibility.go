package process

import (
	"strings"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// baseCredibilityBySourceType gives the processor's own assessment a starting
// point per source type. It is independent of internal/provider's
// HeuristicCredibility, which scores by domain with its own values.
var baseCredibilityBySourceType = map[model.SourceType]float64{
	model.SourceAcademic:      0.85,
	model.SourceDocumentation: 0.75,
	model.SourceNews:         0.6,
	model.SourceWeb:          0.55,
	model.SourceSocial:       0.35,
	model.SourceUnknown:      0.4,
}

var trustedTLDs = []string{".edu", ".gov"}

var freeTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

// knownReliableDomains lists domains the processor treats as inherently
// reliable regardless of TLD, independent of the provider-level heuristic.
var knownReliableDomains = map[string]bool{
	"wikipedia.org":    true,
	"arxiv.org":        true,
	"nature.com":       true,
	"developer.mozilla.org": true,
}

// assessCredibility recomputes a result's credibility score: base by source
// type, bumped for trusted TLDs and known-reliable domains, penalized for
// free-TLD / low-reputation hosts.
func assessCredibility(r model.SearchResult) float64 {
	score, ok := baseCredibilityBySourceType[r.SourceType]
	if !ok {
		score = 0.5
	}

	domain := strings.ToLower(r.Domain)
	for _, tld := range trustedTLDs {
		if strings.HasSuffix(domain, tld) {
			score += 0.15
			break
		}
	}
	if knownReliableDomains[domain] {
		score += 0.1
	}
	for _, tld := range freeTLDs {
		if strings.HasSuffix(domain, tld) {
			score -= 0.4
			break
		}
	}
	if domain == "unknown" || domain == "" {
		score -= 0.1
	}

	return clamp01(score)
}

// combinedQuality maps (relevance+credibility)/2 to the four quality buckets.
func combinedQuality(relevance, credibility float64) model.Quality {
	combined := (relevance + credibility) / 2
	switch {
	case combined >= 0.8:
		return model.QualityHigh
	case combined >= 0.6:
		return model.QualityMedium
	case combined >= 0.3:
		return model.QualityLow
	default:
		return model.QualityUnreliable
	}
}
