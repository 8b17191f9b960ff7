package research

import (
	"context"
	"errors"
	"testing"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

type stubSeeker struct {
	responses map[string]*model.KnowledgeResponse
	err       error
}

func (s *stubSeeker) ProcessQuery(ctx context.Context, query model.KnowledgeQuery) (*model.KnowledgeResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	if resp, ok := s.responses[query.Query]; ok {
		return resp, nil
	}
	return &model.KnowledgeResponse{Confidence: 0, Results: nil, Summary: "no results"}, nil
}

func TestAugmentTask_NotRequiredPreservesTask(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())
	a := NewAugmenter(d, &stubSeeker{}, DefaultAugmenterConfig())

	task := model.Task{ID: "t1", Description: "Update the README file with installation instructions.", Type: "general"}
	augmented := a.AugmentTask(context.Background(), task)

	if augmented.ResearchProvided {
		t.Fatalf("expected researchProvided=false")
	}
	if augmented.Task != task {
		t.Fatalf("expected all original task fields preserved bit-exact")
	}
}

func TestAugmentTask_SeekerFailureIsolation(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())
	failingSeeker := &stubSeeker{err: errors.New("seeker exploded")}
	a := NewAugmenter(d, failingSeeker, DefaultAugmenterConfig())

	task := model.Task{ID: "t1", Description: "How do I implement OAuth2 in Express.js?"}
	augmented := a.AugmentTask(context.Background(), task)

	if augmented.ResearchProvided {
		t.Fatalf("expected researchProvided=false when every query fails, got context %#v", augmented.ResearchContext)
	}
	if augmented.Task.ID != task.ID || augmented.Task.Description != task.Description {
		t.Fatalf("expected original task fields preserved")
	}
}

func TestAugmentTask_BuildsFindingsFromSeekerResponses(t *testing.T) {
	d := NewDetector(DefaultDetectorConfig())
	resp := &model.KnowledgeResponse{
		Confidence: 0.8,
		Summary:    "OAuth2 overview",
		Results: []model.SearchResult{
			{Title: "OAuth2 Guide", URL: "https://example.com/a", Content: "a guide to oauth2 covering flows and tokens", RelevanceScore: 0.9},
		},
	}
	stub := &stubSeeker{responses: map[string]*model.KnowledgeResponse{
		"How do I implement OAuth2 in Express.js?": resp,
	}}
	a := NewAugmenter(d, stub, DefaultAugmenterConfig())

	task := model.Task{ID: "t1", Description: "How do I implement OAuth2 in Express.js?"}
	augmented := a.AugmentTask(context.Background(), task)

	if !augmented.ResearchProvided {
		t.Fatalf("expected researchProvided=true")
	}
	if augmented.ResearchContext == nil || len(augmented.ResearchContext.Findings) == 0 {
		t.Fatalf("expected at least one finding")
	}
	if !HasResearch(augmented) {
		t.Fatalf("expected HasResearch to be true")
	}
	summary := GetResearchSummary(augmented)
	if summary == "" {
		t.Fatalf("expected non-empty research summary")
	}
	sources := GetResearchSources(augmented)
	if len(sources) == 0 {
		t.Fatalf("expected at least one research source")
	}
}

func TestGetResearchSummary_EmptyWhenNotProvided(t *testing.T) {
	task := model.AugmentedTask{Task: model.Task{ID: "t1"}, ResearchProvided: false}
	if got := GetResearchSummary(task); got != "" {
		t.Fatalf("expected empty summary, got %q", got)
	}
}
