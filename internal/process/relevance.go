// Package process implements the Information Processor: the filter, score,
// dedupe, diversify, threshold, and rank pipeline that turns a provider's raw
// hits into the result set a KnowledgeResponse returns.
package process

import (
	"strings"
	"time"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

const (
	weightTitleMatch   = 0.4
	weightSnippetMatch = 0.3
	weightCredibility  = 0.2
	weightRecency      = 0.1
)

// queryTerms splits a query into lowercase terms longer than 2 characters,
// the minimum length the relevance formula considers meaningful.
func queryTerms(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) > 2 {
			out = append(out, f)
		}
	}
	return out
}

// termMatchFraction returns the fraction of terms present in text.
func termMatchFraction(terms []string, text string) float64 {
	if len(terms) == 0 {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, t := range terms {
		if strings.Contains(lower, t) {
			matched++
		}
	}
	return float64(matched) / float64(len(terms))
}

// recencyScore maps a result's age to the four-bucket recency factor spec'd
// for relevance scoring; an absent publish date scores the neutral 0.5.
func recencyScore(publishedAt *time.Time, now time.Time) float64 {
	if publishedAt == nil {
		return 0.5
	}
	age := now.Sub(*publishedAt)
	switch {
	case age < 7*24*time.Hour:
		return 1.0
	case age < 30*24*time.Hour:
		return 0.8
	case age < 365*24*time.Hour:
		return 0.6
	default:
		return 0.3
	}
}

// scoreRelevance computes the weighted-sum relevance score for one result
// against a query's terms.
func scoreRelevance(terms []string, r model.SearchResult, now time.Time) float64 {
	titleMatch := termMatchFraction(terms, r.Title)
	snippetMatch := termMatchFraction(terms, r.Content)
	recency := recencyScore(r.PublishedAt, now)
	score := weightTitleMatch*titleMatch +
		weightSnippetMatch*snippetMatch +
		weightCredibility*r.CredibilityScore +
		weightRecency*recency
	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
