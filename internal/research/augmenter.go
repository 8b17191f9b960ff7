package research

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// Seeker is the subset of seeker.Seeker the Augmenter depends on, kept as a
// narrow interface so this package never imports internal/seeker directly
// (avoiding an import cycle, since nothing in seeker needs research).
type Seeker interface {
	ProcessQuery(ctx context.Context, query model.KnowledgeQuery) (*model.KnowledgeResponse, error)
}

// AugmenterConfig holds the Task Research Augmenter's tunables.
type AugmenterConfig struct {
	MaxResultsPerQuery int
	RelevanceThreshold float64
	TimeoutMs          int
	MaxQueries         int
	EnableCaching      bool

	// TaskPriority is the fixed priority assigned to augmenter-generated
	// queries: PriorityMedium, one rung below the PriorityHigh/PriorityCritical
	// a direct user query is expected to carry.
	TaskPriority model.Priority
}

// DefaultAugmenterConfig returns the Augmenter's stated defaults.
func DefaultAugmenterConfig() AugmenterConfig {
	return AugmenterConfig{
		MaxResultsPerQuery: 3,
		RelevanceThreshold: 0.8,
		TimeoutMs:          5000,
		MaxQueries:         3,
		EnableCaching:      true,
		TaskPriority:       model.PriorityMedium,
	}
}

// Augmenter is the Task Research Augmenter: it detects whether a task
// needs research, executes the suggested queries concurrently via the
// Seeker, and attaches the findings as a ResearchContext.
type Augmenter struct {
	detector *Detector
	seeker   Seeker
	cfg      AugmenterConfig
	now      func() time.Time
}

// NewAugmenter creates an Augmenter wired to a Detector and a Seeker.
func NewAugmenter(detector *Detector, seeker Seeker, cfg AugmenterConfig) *Augmenter {
	return &Augmenter{detector: detector, seeker: seeker, cfg: cfg, now: time.Now}
}

// AugmentTask detects whether a task needs research, generates queries,
// executes them concurrently, and attaches the findings. Any unexpected
// failure is caught and yields ResearchProvided=false rather than
// propagating.
func (a *Augmenter) AugmentTask(ctx context.Context, task model.Task) (augmented model.AugmentedTask) {
	augmented = model.AugmentedTask{Task: task, ResearchProvided: false}

	defer func() {
		if r := recover(); r != nil {
			slog.Error("research: augmenter panicked, returning unaugmented task", "task_id", task.ID, "recover", r)
			augmented = model.AugmentedTask{Task: task, ResearchProvided: false}
		}
	}()

	requirement := a.detector.Detect(task)
	if requirement == nil {
		return augmented
	}

	start := a.now()
	queries := capQueries(requirement.SuggestedQueries, a.cfg.MaxQueries)
	findings := a.executeQueries(ctx, task.ID, queries)

	if len(findings) == 0 {
		// Every query failed (provider outage, context cancellation, etc.) —
		// isolate the failure from the caller rather than reporting research
		// that doesn't exist.
		slog.Warn("research: all augmenter queries failed, skipping augmentation", "task_id", task.ID, "query_count", len(queries))
		return augmented
	}

	confidence := averageConfidence(findings)

	augmented.ResearchProvided = true
	augmented.ResearchContext = &model.ResearchContext{
		Queries:     queries,
		Findings:    findings,
		Confidence:  confidence,
		AugmentedAt: a.now(),
		Requirement: *requirement,
		Metadata: model.ResearchContextMetadata{
			DurationMs:         time.Since(start).Milliseconds(),
			DetectorConfidence: requirement.Confidence,
			QueryType:          requirement.QueryType,
		},
	}
	return augmented
}

func capQueries(queries []string, maxQueries int) []string {
	if maxQueries <= 0 {
		maxQueries = 3
	}
	if len(queries) > maxQueries {
		return queries[:maxQueries]
	}
	return queries
}

// executeQueries runs each suggested query concurrently via the Seeker.
// Individual failures yield a null (skipped) finding rather than aborting
// the whole augmentation.
func (a *Augmenter) executeQueries(ctx context.Context, taskID string, queries []string) []model.ResearchFinding {
	findings := make([]*model.ResearchFinding, len(queries))

	var g errgroup.Group
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			kq := model.KnowledgeQuery{
				ID:                 fmt.Sprintf("augment-%s-%d", taskID, i),
				Query:              q,
				MaxResults:         a.cfg.MaxResultsPerQuery,
				RelevanceThreshold: a.cfg.RelevanceThreshold,
				TimeoutMs:          a.cfg.TimeoutMs,
				Priority:           a.cfg.TaskPriority,
			}
			resp, err := a.seeker.ProcessQuery(ctx, kq)
			if err != nil {
				slog.Warn("research: augmenter query failed", "task_id", taskID, "query", q, "error", err)
				return nil
			}
			findings[i] = toResearchFinding(q, resp)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.ResearchFinding, 0, len(findings))
	for _, f := range findings {
		if f != nil {
			out = append(out, *f)
		}
	}
	return out
}

func toResearchFinding(query string, resp *model.KnowledgeResponse) *model.ResearchFinding {
	keyFindings := make([]model.KeyFinding, 0, 3)
	for i, r := range resp.Results {
		if i >= 3 {
			break
		}
		snippet := r.Content
		if len(snippet) > 200 {
			snippet = snippet[:200]
		}
		keyFindings = append(keyFindings, model.KeyFinding{
			Title:     r.Title,
			URL:       r.URL,
			Snippet:   snippet,
			Relevance: r.RelevanceScore,
		})
	}
	return &model.ResearchFinding{
		Query:       query,
		Summary:     resp.Summary,
		Confidence:  resp.Confidence,
		KeyFindings: keyFindings,
	}
}

func averageConfidence(findings []model.ResearchFinding) float64 {
	if len(findings) == 0 {
		return 0
	}
	var sum float64
	for _, f := range findings {
		sum += f.Confidence
	}
	return sum / float64(len(findings))
}

// GetResearchSummary returns a multi-line string describing an augmented
// task's research, or empty string when none was performed.
func GetResearchSummary(task model.AugmentedTask) string {
	if !task.ResearchProvided || task.ResearchContext == nil {
		return ""
	}
	ctx := task.ResearchContext
	lines := make([]string, 0, len(ctx.Findings)+1)
	lines = append(lines, fmt.Sprintf("Research findings (confidence: %d%%):", int(ctx.Confidence*100)))
	for _, f := range ctx.Findings {
		lines = append(lines, fmt.Sprintf("- %s: %s", f.Query, f.Summary))
	}
	return strings.Join(lines, "\n")
}

// GetResearchSources flattens every finding's keyFindings into a
// deduplicated (by URL) {title, url} list.
func GetResearchSources(task model.AugmentedTask) []model.KeyFinding {
	if !task.ResearchProvided || task.ResearchContext == nil {
		return nil
	}
	seen := make(map[string]bool)
	var out []model.KeyFinding
	for _, f := range task.ResearchContext.Findings {
		for _, kf := range f.KeyFindings {
			if seen[kf.URL] {
				continue
			}
			seen[kf.URL] = true
			out = append(out, model.KeyFinding{Title: kf.Title, URL: kf.URL})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// HasResearch reports whether task carries a research context.
func HasResearch(task model.AugmentedTask) bool {
	return task.ResearchProvided && task.ResearchContext != nil
}
