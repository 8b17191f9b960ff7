// Package model holds the shared data types exchanged between the search
// providers, the information processor, the knowledge seeker, and the
// research augmenter.
package model

import (
	"fmt"
	"strings"
	"time"
)

// QueryType classifies the intent behind a KnowledgeQuery.
type QueryType string

const (
	QueryFactual     QueryType = "factual"
	QueryExplanatory QueryType = "explanatory"
	QueryTechnical   QueryType = "technical"
	QueryComparative QueryType = "comparative"
	QueryTrend       QueryType = "trend"
)

// ValidQueryType reports whether t is one of the known query types.
func ValidQueryType(t QueryType) bool {
	switch t {
	case QueryFactual, QueryExplanatory, QueryTechnical, QueryComparative, QueryTrend:
		return true
	default:
		return false
	}
}

// Priority orders queries relative to one another in processQueries batching.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// priorityRank maps a Priority to a sort weight; higher sorts first.
var priorityRank = map[Priority]int{
	PriorityCritical: 3,
	PriorityHigh:     2,
	PriorityMedium:   1,
	PriorityLow:      0,
}

// Rank returns the relative sort weight of p; unknown priorities rank lowest.
func (p Priority) Rank() int {
	return priorityRank[p]
}

// DateRange bounds a result's PublishedAt filter.
type DateRange struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`
}

// QueryFilters narrows the set of results a query will accept.
type QueryFilters struct {
	DateRange      *DateRange          `json:"dateRange,omitempty"`
	Language       string              `json:"language,omitempty"`
	ContentTypes   map[ContentType]bool `json:"contentTypes,omitempty"`
	MinCredibility float64             `json:"minCredibility,omitempty"`
	IncludeDomains []string            `json:"includeDomains,omitempty"`
	ExcludeDomains []string            `json:"excludeDomains,omitempty"`
}

// QueryMetadata carries bookkeeping fields that ride along with a query but
// never affect its outcome.
type QueryMetadata struct {
	RequesterID string    `json:"requesterId,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}

// KnowledgeQuery is a single request to the Knowledge Seeker.
type KnowledgeQuery struct {
	ID                 string                 `json:"id"`
	Query              string                 `json:"query"`
	QueryType          QueryType              `json:"queryType,omitempty"`
	MaxResults         int                    `json:"maxResults"`
	RelevanceThreshold float64                `json:"relevanceThreshold"`
	TimeoutMs          int                    `json:"timeoutMs"`
	PreferredSources   []string               `json:"preferredSources,omitempty"`
	Filters            *QueryFilters          `json:"filters,omitempty"`
	Priority           Priority               `json:"priority,omitempty"`
	Context            map[string]interface{} `json:"context,omitempty"`
	Metadata           QueryMetadata          `json:"metadata,omitempty"`
}

// Validate checks the invariants listed for KnowledgeQuery: non-empty id and
// query, maxResults in [1,100], relevanceThreshold in [0,1], timeoutMs in
// [1,300000], and a recognized queryType.
func (q *KnowledgeQuery) Validate() error {
	if strings.TrimSpace(q.ID) == "" {
		return fmt.Errorf("model.KnowledgeQuery.Validate: id is required")
	}
	trimmed := strings.TrimSpace(q.Query)
	if trimmed == "" {
		return fmt.Errorf("model.KnowledgeQuery.Validate: query is empty")
	}
	if len(q.Query) > 1000 {
		return fmt.Errorf("model.KnowledgeQuery.Validate: query exceeds 1000 characters")
	}
	if q.MaxResults < 1 || q.MaxResults > 100 {
		return fmt.Errorf("model.KnowledgeQuery.Validate: maxResults %d out of range [1,100]", q.MaxResults)
	}
	if q.RelevanceThreshold < 0 || q.RelevanceThreshold > 1 {
		return fmt.Errorf("model.KnowledgeQuery.Validate: relevanceThreshold %f out of range [0,1]", q.RelevanceThreshold)
	}
	if q.TimeoutMs < 1 || q.TimeoutMs > 300_000 {
		return fmt.Errorf("model.KnowledgeQuery.Validate: timeoutMs %d out of range [1,300000]", q.TimeoutMs)
	}
	if q.QueryType != "" && !ValidQueryType(q.QueryType) {
		return fmt.Errorf("model.KnowledgeQuery.Validate: unknown queryType %q", q.QueryType)
	}
	return nil
}

// PreferredSourcesSorted returns a sorted, deduplicated copy of PreferredSources.
func (q *KnowledgeQuery) PreferredSourcesSorted() []string {
	seen := make(map[string]bool, len(q.PreferredSources))
	out := make([]string, 0, len(q.PreferredSources))
	for _, s := range q.PreferredSources {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}
