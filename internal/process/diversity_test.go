package process

import (
	"testing"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

func TestEnforceDiversity_NeverExceedsDomainCap(t *testing.T) {
	results := []model.SearchResult{
		mkResult("A", "a.com", "x", model.SourceWeb),
		mkResult("B", "a.com", "y", model.SourceAcademic),
	}
	out := enforceDiversity(results, 1, 2)
	if len(out) != 1 {
		t.Fatalf("expected domain cap of 1 to be enforced, got %d results: %+v", len(out), out)
	}
}

func TestEnforceDiversity_SubstitutesForUncoveredType(t *testing.T) {
	results := []model.SearchResult{
		mkResult("A", "a.com", "x", model.SourceWeb),
		mkResult("B", "a.com", "y", model.SourceWeb),
		mkResult("C", "a.com", "z", model.SourceAcademic),
	}
	out := enforceDiversity(results, 2, 2)
	if len(out) != 2 {
		t.Fatalf("expected domain cap of 2 to be enforced, got %d results: %+v", len(out), out)
	}
	if out[0].SourceType != model.SourceAcademic {
		t.Fatalf("expected a duplicate web result to be substituted for the uncovered source type, got %s", out[0].SourceType)
	}
}

func TestEnforceDiversity_StopsSubstitutingOnceCoverageMet(t *testing.T) {
	results := []model.SearchResult{
		mkResult("A", "a.com", "x", model.SourceWeb),
		mkResult("B", "b.com", "y", model.SourceAcademic),
		mkResult("C", "a.com", "z", model.SourceDocumentation),
	}
	out := enforceDiversity(results, 1, 2)
	if len(out) != 2 {
		t.Fatalf("expected 2 results (one per domain), got %d: %+v", len(out), out)
	}
	for _, r := range out {
		if r.Domain == "a.com" && r.SourceType != model.SourceWeb {
			t.Fatalf("coverage already met at minSourceTypes; a.com's original result should not have been displaced, got %s", r.SourceType)
		}
	}
}
