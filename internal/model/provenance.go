package model

import "time"

// ResearchProvenanceRecord is one append-only audit entry describing a single
// research attempt for a single task.
type ResearchProvenanceRecord struct {
	ID            string    `json:"id"`
	TaskID        string    `json:"taskId"`
	Queries       []string  `json:"queries"`
	FindingsCount int       `json:"findingsCount"`
	Confidence    float64   `json:"confidence"`
	PerformedAt   time.Time `json:"performedAt"`
	DurationMs    *int64    `json:"durationMs,omitempty"`
	Successful    bool      `json:"successful"`
	Error         *string   `json:"error,omitempty"`
}

// ProvenanceStatistics aggregates provenance records over a date range.
type ProvenanceStatistics struct {
	Total         int        `json:"total"`
	Successful    int        `json:"successful"`
	Failed        int        `json:"failed"`
	AvgConfidence float64    `json:"avgConfidence"`
	AvgDurationMs float64    `json:"avgDurationMs"`
	RangeStart    *time.Time `json:"rangeStart,omitempty"`
	RangeEnd      *time.Time `json:"rangeEnd,omitempty"`
}
