package process

import (
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// DiversityConfig bounds per-domain repetition and encourages source-type
// coverage across the result set.
type DiversityConfig struct {
	MinSources          int
	MinSourceTypes      int
	MaxResultsPerDomain int
}

// QualityConfig toggles individual processing stages, letting a caller run a
// leaner pipeline (e.g. skip credibility scoring when every provider is
// already trusted).
type QualityConfig struct {
	EnableCredibilityScoring bool
	EnableRelevanceFiltering bool
	EnableDuplicateDetection bool
}

// Config holds the Information Processor's tunables: score thresholds, how
// many results survive to the Seeker, and the diversity/quality toggles
// above.
type Config struct {
	MinRelevanceScore   float64
	MinCredibilityScore float64
	MaxResultsToProcess int
	Diversity           DiversityConfig
	Quality             QualityConfig
}

// DefaultConfig returns the tunables used when a caller leaves the
// Processor config unset.
func DefaultConfig() Config {
	return Config{
		MinRelevanceScore:   0.3,
		MinCredibilityScore: 0.3,
		MaxResultsToProcess: 50,
		Diversity: DiversityConfig{
			MinSources:          1,
			MinSourceTypes:      1,
			MaxResultsPerDomain: 3,
		},
		Quality: QualityConfig{
			EnableCredibilityScoring: true,
			EnableRelevanceFiltering: true,
			EnableDuplicateDetection: true,
		},
	}
}

// Processor runs the filter/score/dedupe/diversify/threshold/rank pipeline,
// composed from small named stage functions so each step can be read and
// tested on its own.
type Processor struct {
	cfg Config
	now func() time.Time
}

// New creates a Processor with the given config.
func New(cfg Config) *Processor {
	return &Processor{cfg: cfg, now: time.Now}
}

// Process runs query's rawResults through the full pipeline and returns the
// filtered, ranked, truncated result set.
func (p *Processor) Process(query model.KnowledgeQuery, raw []model.SearchResult) []model.SearchResult {
	results := applyFilters(raw, query.Filters)

	terms := queryTerms(query.Query)
	now := p.now()
	for i := range results {
		results[i].RelevanceScore = scoreRelevance(terms, results[i], now)
	}

	if p.cfg.Quality.EnableCredibilityScoring {
		for i := range results {
			results[i].CredibilityScore = assessCredibility(results[i])
		}
	}

	for i := range results {
		results[i].Quality = combinedQuality(results[i].RelevanceScore, results[i].CredibilityScore)
	}

	if p.cfg.Quality.EnableDuplicateDetection {
		results = deduplicate(results)
	}

	results = enforceDiversity(results, p.cfg.Diversity.MaxResultsPerDomain, p.cfg.Diversity.MinSourceTypes)

	minRelevance := p.cfg.MinRelevanceScore
	if query.RelevanceThreshold > minRelevance {
		minRelevance = query.RelevanceThreshold
	}
	if p.cfg.Quality.EnableRelevanceFiltering {
		results = thresholdFilter(results, minRelevance, p.cfg.MinCredibilityScore)
	}

	rankResults(results)

	maxToProcess := p.cfg.MaxResultsToProcess
	if maxToProcess > 0 && len(results) > maxToProcess {
		results = results[:maxToProcess]
	}
	if query.MaxResults > 0 && len(results) > query.MaxResults {
		results = results[:query.MaxResults]
	}
	return results
}

// thresholdFilter drops results below the minimum relevance or credibility.
func thresholdFilter(results []model.SearchResult, minRelevance, minCredibility float64) []model.SearchResult {
	out := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if r.RelevanceScore < minRelevance || r.CredibilityScore < minCredibility {
			continue
		}
		out = append(out, r)
	}
	return out
}
