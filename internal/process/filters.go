package process

import (
	"strings"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// applyFilters keeps results matching the query's date range, language,
// content-type set, minimum credibility, and include/exclude domain lists.
func applyFilters(results []model.SearchResult, filters *model.QueryFilters) []model.SearchResult {
	if filters == nil {
		return results
	}
	out := make([]model.SearchResult, 0, len(results))
	for _, r := range results {
		if !passesDateRange(r, filters.DateRange) {
			continue
		}
		// Language is not carried on SearchResult; a language filter is a
		// no-op until a language signal exists upstream on the result itself.
		if len(filters.ContentTypes) > 0 && !filters.ContentTypes[r.ContentType] {
			continue
		}
		if filters.MinCredibility > 0 && r.CredibilityScore < filters.MinCredibility {
			continue
		}
		if !passesDomainLists(r.Domain, filters.IncludeDomains, filters.ExcludeDomains) {
			continue
		}
		out = append(out, r)
	}
	return out
}

func passesDateRange(r model.SearchResult, dr *model.DateRange) bool {
	if dr == nil || r.PublishedAt == nil {
		return true
	}
	if dr.From != nil && r.PublishedAt.Before(*dr.From) {
		return false
	}
	if dr.To != nil && r.PublishedAt.After(*dr.To) {
		return false
	}
	return true
}

func passesDomainLists(domain string, include, exclude []string) bool {
	domain = strings.ToLower(domain)
	for _, d := range exclude {
		if strings.ToLower(d) == domain {
			return false
		}
	}
	if len(include) == 0 {
		return true
	}
	for _, d := range include {
		if strings.ToLower(d) == domain {
			return true
		}
	}
	return false
}
