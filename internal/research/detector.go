// Package research implements the Research Detector and Task Research
// Augmenter: classifying whether an agent task needs research, and if
// so, generating queries and attaching findings as a research context.
package research

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// DetectorConfig holds the Research Detector's tunables.
type DetectorConfig struct {
	MinConfidence              float64
	MaxQueries                 int
	EnableQuestionDetection    bool
	EnableUncertaintyDetection bool
	EnableComparisonDetection  bool
	EnableTechnicalDetection   bool
	EnableFactCheckDetection   bool
}

// DefaultDetectorConfig returns the Detector's stated defaults.
func DefaultDetectorConfig() DetectorConfig {
	return DetectorConfig{
		MinConfidence:              0.7,
		MaxQueries:                 3,
		EnableQuestionDetection:    true,
		EnableUncertaintyDetection: true,
		EnableComparisonDetection:  true,
		EnableTechnicalDetection:   true,
		EnableFactCheckDetection:   true,
	}
}

// questionPatterns matches explicit interrogative phrasing, precompiled once
// at package init rather than on every call.
var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(what|how|why|when|where|who|which)\b[^.!?]*\?`),
	regexp.MustCompile(`(?i)\b(can|should|is there|are there)\b[^.!?]*\?`),
}

var uncertaintySubstrings = []string{
	"not sure", "unclear", "unknown", "need to find", "need to research",
	"don't know", "looking for", "trying to understand", "explain", "research",
}

var comparisonSubstrings = []string{
	"compare", "versus", "vs", "difference between", "pros and cons",
	"advantages", "better than", "alternative", "choose between",
}

var technicalSubstrings = []string{
	"api", "library", "framework", "implement", "implementation", "algorithm",
	"documentation", "architecture", "integration", "best practices",
	"code example", "tutorial", "guide", "specification",
	"how to implement", "setup", "configuration",
}

var factCheckTaskTypes = map[string]bool{
	"analysis":   true,
	"research":   true,
	"validation": true,
}

// indicatorWeights determine a fired indicator's contribution to the reason
// string's ranking, not the final confidence (which is gated separately,
// below).
var indicatorWeights = map[string]float64{
	"hasQuestions":           0.30,
	"hasUncertainty":         0.30,
	"needsComparison":        0.20,
	"requiresTechnicalInfo":  0.15,
	"requiresFactChecking":   0.05,
}

// Detector evaluates a Task and decides whether it needs research.
type Detector struct {
	cfg DetectorConfig
}

// NewDetector creates a Detector with the given config.
func NewDetector(cfg DetectorConfig) *Detector {
	return &Detector{cfg: cfg}
}

// Detect runs the indicator set against task and returns a
// ResearchRequirement, or nil if research is not warranted.
func (d *Detector) Detect(task model.Task) *model.ResearchRequirement {
	text := strings.ToLower(task.Description + " " + task.Prompt)

	indicators := map[string]bool{
		"hasQuestions":          d.cfg.EnableQuestionDetection && matchesAny(questionPatterns, text),
		"hasUncertainty":        d.cfg.EnableUncertaintyDetection && containsAny(text, uncertaintySubstrings),
		"needsComparison":       d.cfg.EnableComparisonDetection && containsAny(text, comparisonSubstrings),
		"requiresTechnicalInfo": d.cfg.EnableTechnicalDetection && containsAny(text, technicalSubstrings),
		"requiresFactChecking":  d.cfg.EnableFactCheckDetection && factCheckTaskTypes[strings.ToLower(task.Type)],
	}

	fired := false
	for _, v := range indicators {
		if v {
			fired = true
			break
		}
	}

	confidence := 0.0
	if fired {
		confidence = 1.0
	}
	if confidence < d.cfg.MinConfidence {
		return nil
	}

	queryType := inferQueryType(text, indicators)
	queries := generateQueries(task.Description, indicators, d.cfg.MaxQueries)

	return &model.ResearchRequirement{
		Required:         true,
		Confidence:       confidence,
		QueryType:        queryType,
		SuggestedQueries: queries,
		Indicators:       indicators,
		Reason:           buildReason(indicators, confidence),
	}
}

func matchesAny(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

func containsAny(text string, substrings []string) bool {
	for _, s := range substrings {
		if strings.Contains(text, s) {
			return true
		}
	}
	return false
}

// inferQueryType applies a priority-ordered set of rules.
func inferQueryType(text string, indicators map[string]bool) model.QueryType {
	switch {
	case indicators["requiresTechnicalInfo"]:
		return model.QueryTechnical
	case indicators["needsComparison"]:
		return model.QueryComparative
	case containsAny(text, []string{"latest", "recent", "current", "new", "trending"}):
		return model.QueryTrend
	case containsAny(text, []string{"how", "why", "explain", "understand"}):
		return model.QueryExplanatory
	default:
		return model.QueryFactual
	}
}

var fillerPrefixes = []string{
	"please", "could you", "can you", "i need", "we need", "help me",
}

// cleanedMainQuery strips leading filler and truncates to 100 chars.
func cleanedMainQuery(text string) string {
	trimmed := strings.TrimSpace(text)
	lower := strings.ToLower(trimmed)
	for _, filler := range fillerPrefixes {
		if strings.HasPrefix(lower, filler) {
			trimmed = strings.TrimSpace(trimmed[len(filler):])
			lower = strings.ToLower(trimmed)
		}
	}
	if len(trimmed) > 100 {
		trimmed = trimmed[:100]
	}
	return trimmed
}

// subject returns the first 5 whitespace-delimited tokens of text.
func subject(text string) string {
	fields := strings.Fields(text)
	if len(fields) > 5 {
		fields = fields[:5]
	}
	return strings.Join(fields, " ")
}

// generateQueries builds the suggested query list.
func generateQueries(description string, indicators map[string]bool, maxQueries int) []string {
	var queries []string

	for _, p := range questionPatterns {
		for _, m := range p.FindAllString(description, -1) {
			queries = append(queries, strings.TrimSpace(m))
		}
	}

	if cleaned := cleanedMainQuery(description); cleaned != "" {
		queries = append(queries, cleaned)
	}

	subj := subject(description)
	if indicators["needsComparison"] && subj != "" {
		queries = append(queries, fmt.Sprintf("Compare %s", subj))
	}
	if indicators["requiresTechnicalInfo"] && subj != "" {
		queries = append(queries, fmt.Sprintf("%s documentation", subj))
	}

	return dedupeCap(queries, maxQueries)
}

func dedupeCap(queries []string, maxQueries int) []string {
	if maxQueries <= 0 {
		maxQueries = 3
	}
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		key := strings.ToLower(strings.TrimSpace(q))
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, q)
		if len(out) >= maxQueries {
			break
		}
	}
	return out
}

var indicatorLabels = map[string]string{
	"hasQuestions":          "the task asks explicit questions",
	"hasUncertainty":        "the task expresses uncertainty",
	"needsComparison":       "the task requires a comparison",
	"requiresTechnicalInfo": "the task needs technical information",
	"requiresFactChecking":  "the task type requires fact-checking",
}

// buildReason joins the firing indicators into human-readable prose, ordered
// by descending indicator weight so the most salient signal reads first.
func buildReason(indicators map[string]bool, confidence float64) string {
	order := make([]string, 0, len(indicatorWeights))
	for key := range indicatorWeights {
		order = append(order, key)
	}
	sort.Slice(order, func(i, j int) bool { return indicatorWeights[order[i]] > indicatorWeights[order[j]] })

	var fired []string
	for _, key := range order {
		if indicators[key] {
			fired = append(fired, indicatorLabels[key])
		}
	}
	if len(fired) == 0 {
		return fmt.Sprintf("no research indicators fired (confidence: %d%%)", int(confidence*100))
	}
	return fmt.Sprintf("%s (confidence: %d%%)", strings.Join(fired, "; "), int(confidence*100))
}
