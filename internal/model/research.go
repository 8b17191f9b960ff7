package model

import "time"

// ResearchRequirement is the Research Detector's verdict on one task.
type ResearchRequirement struct {
	Required         bool            `json:"required"`
	Confidence       float64         `json:"confidence"`
	QueryType        QueryType       `json:"queryType,omitempty"`
	SuggestedQueries []string        `json:"suggestedQueries,omitempty"`
	Indicators       map[string]bool `json:"indicators,omitempty"`
	Reason           string          `json:"reason,omitempty"`
}

// KeyFinding is one projected result inside a ResearchFinding.
type KeyFinding struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet,omitempty"`
	Relevance float64 `json:"relevance,omitempty"`
}

// ResearchFinding is what one generated query contributed to a ResearchContext.
type ResearchFinding struct {
	Query       string       `json:"query"`
	Summary     string       `json:"summary"`
	Confidence  float64      `json:"confidence"`
	KeyFindings []KeyFinding `json:"keyFindings,omitempty"`
}

// ResearchContextMetadata records how a ResearchContext was produced.
type ResearchContextMetadata struct {
	DurationMs         int64     `json:"durationMs"`
	DetectorConfidence float64   `json:"detectorConfidence"`
	QueryType          QueryType `json:"queryType,omitempty"`
}

// ResearchContext is the research augmenter's output, attached to a task.
type ResearchContext struct {
	Queries     []string                `json:"queries"`
	Findings    []ResearchFinding       `json:"findings"`
	Confidence  float64                 `json:"confidence"`
	AugmentedAt time.Time               `json:"augmentedAt"`
	Requirement ResearchRequirement     `json:"requirement"`
	Metadata    ResearchContextMetadata `json:"metadata"`
}

// Task is the minimal shape the Research Detector and Augmenter need from an
// orchestrator task. Unknown/extra fields the caller cares about are carried
// in Extra so AugmentedTask can round-trip them bit-exact.
type Task struct {
	ID          string                 `json:"id"`
	Description string                 `json:"description"`
	Type        string                 `json:"type,omitempty"`
	Prompt      string                 `json:"prompt,omitempty"`
	Extra       map[string]interface{} `json:"extra,omitempty"`
}

// AugmentedTask is a Task annotated with research findings.
type AugmentedTask struct {
	Task
	ResearchProvided bool             `json:"researchProvided"`
	ResearchContext  *ResearchContext `json:"researchContext,omitempty"`
}
