package model

import "time"

// SourceType classifies where a SearchResult originated, inferred from its domain.
type SourceType string

const (
	SourceWeb           SourceType = "web"
	SourceAcademic      SourceType = "academic"
	SourceNews          SourceType = "news"
	SourceDocumentation SourceType = "documentation"
	SourceSocial        SourceType = "social"
	SourceUnknown       SourceType = "unknown"
)

// ContentType classifies the shape of the content a SearchResult points to.
type ContentType string

const (
	ContentArticle       ContentType = "article"
	ContentBlog          ContentType = "blog"
	ContentNews          ContentType = "news"
	ContentAcademicPaper ContentType = "academic_paper"
	ContentDocumentation ContentType = "documentation"
	ContentBook          ContentType = "book"
	ContentVideo         ContentType = "video"
	ContentPodcast       ContentType = "podcast"
)

// Quality is the combined-score bucket for a SearchResult (see process.Quality).
type Quality string

const (
	QualityHigh       Quality = "high"
	QualityMedium     Quality = "medium"
	QualityLow        Quality = "low"
	QualityUnreliable Quality = "unreliable"
)

// SearchResult is the normalized representation every Search Provider emits.
type SearchResult struct {
	ID               string                 `json:"id"`
	QueryID          string                 `json:"queryId"`
	Title            string                 `json:"title"`
	Content          string                 `json:"content"`
	URL              string                 `json:"url"`
	Domain           string                 `json:"domain"`
	SourceType       SourceType             `json:"sourceType"`
	ContentType      ContentType            `json:"contentType"`
	RelevanceScore   float64                `json:"relevanceScore"`
	CredibilityScore float64                `json:"credibilityScore"`
	Quality          Quality                `json:"quality"`
	PublishedAt      *time.Time             `json:"publishedAt,omitempty"`
	RetrievedAt      time.Time              `json:"retrievedAt"`
	ProcessedAt      time.Time              `json:"processedAt"`
	Provider         string                 `json:"provider"`
	ProviderMetadata map[string]interface{} `json:"providerMetadata,omitempty"`
	ContentHash      string                 `json:"contentHash,omitempty"`
}
