// Package seeker implements the Knowledge Seeker: the orchestrator that
// validates a query, deduplicates in-flight work, consults the cache, fans
// out to providers with settled concurrency, runs the Information Processor,
// assembles a confidence-scored response, and emits lifecycle events.
package seeker

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/connexus-ai/knowledge-seeker/internal/cache"
	"github.com/connexus-ai/knowledge-seeker/internal/eventsink"
	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/process"
	"github.com/connexus-ai/knowledge-seeker/internal/provider"
)

// VerificationEngine is an optional, opaque post-processing hook: when
// configured, the Seeker calls it after processing. Its verdict is not used
// to filter results, and a verification error is logged and ignored.
type VerificationEngine interface {
	Verify(ctx context.Context, query model.KnowledgeQuery, results []model.SearchResult) (interface{}, error)
}

// Seeker is the Knowledge Seeker orchestrator.
type Seeker struct {
	cfg         Config
	registry    *provider.Registry
	processor   *process.Processor
	cache       *cache.ResponseCache
	sink        eventsink.Sink
	verifier    VerificationEngine
	inflight    inflightRegistry
	semaphore   chan struct{}
	active      atomic.Int32
	totalOK     atomic.Int64
	totalFailed atomic.Int64
	now         func() time.Time
}

// New creates a Seeker wired to its collaborators. sink may be nil, in which
// case events are swallowed (useful in tests); an eventsink.Logger is the
// recommended production default.
func New(cfg Config, registry *provider.Registry, processor *process.Processor, respCache *cache.ResponseCache, sink eventsink.Sink) *Seeker {
	if sink == nil {
		sink = noopSink{}
	}
	maxConcurrent := cfg.MaxConcurrentSearches
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &Seeker{
		cfg:       cfg,
		registry:  registry,
		processor: processor,
		cache:     respCache,
		sink:      sink,
		semaphore: make(chan struct{}, maxConcurrent),
		now:       time.Now,
	}
}

// SetVerificationEngine attaches an optional verification hook.
func (s *Seeker) SetVerificationEngine(v VerificationEngine) {
	s.verifier = v
}

type noopSink struct{}

func (noopSink) Emit(eventsink.Event) {}

// ProcessQuery validates, deduplicates, caches, fans out, processes, and
// assembles a confidence-scored response for a single query.
func (s *Seeker) ProcessQuery(ctx context.Context, query model.KnowledgeQuery) (*model.KnowledgeResponse, error) {
	if !s.cfg.Enabled {
		return nil, newInvalidQueryError("seeker is disabled")
	}

	// Step 1: validate.
	if err := query.Validate(); err != nil {
		return nil, newInvalidQueryError(err.Error())
	}

	s.emit(eventsink.EventQueryReceived, query.ID, nil)

	// Step 2: deduplicate in-flight.
	call, started := s.inflight.loadOrStart(query.ID)
	if !started {
		<-call.done
		return call.resp, call.err
	}
	defer s.inflight.delete(query.ID)

	resp, err := s.processQueryOnce(ctx, query)
	call.finish(resp, err)
	return resp, err
}

func (s *Seeker) processQueryOnce(ctx context.Context, query model.KnowledgeQuery) (*model.KnowledgeResponse, error) {
	start := s.now()

	// Step 3: cache lookup.
	var cacheKey string
	if s.cfg.CacheEnabled && s.cache != nil {
		cacheKey = cache.Key(query)
		if cached, ok := s.cache.Get(cacheKey); ok {
			s.totalOK.Add(1)
			return cached, nil
		}
	}

	// Step 4: concurrency gate (non-blocking; a full semaphore fails fast).
	select {
	case s.semaphore <- struct{}{}:
		s.active.Add(1)
		defer func() {
			<-s.semaphore
			s.active.Add(-1)
		}()
	default:
		s.totalFailed.Add(1)
		return nil, newRateLimitExceededError("maxConcurrentSearches exceeded")
	}

	// Step 5: provider selection.
	selected := selectProviders(s.registry.All(), query, s.cfg.ProviderPriority, s.cfg.CircuitBreakerEnabled)
	selectedNames := make([]string, len(selected))
	for i, p := range selected {
		selectedNames[i] = p.Name()
	}
	s.emit(eventsink.EventProvidersQueried, query.ID, map[string]interface{}{"providers": selectedNames})

	// Step 6-7: settled fan-out and collection.
	raw := s.fanOut(ctx, query, selected)

	// Step 8: process.
	processed := s.processor.Process(query, raw)
	s.emit(eventsink.EventResultsProcessed, query.ID, map[string]interface{}{"count": len(processed)})

	if s.verifier != nil {
		if _, err := s.verifier.Verify(ctx, query, processed); err != nil {
			slog.Warn("seeker: verification engine failed, continuing unverified", "error", err)
		}
	}

	// Step 9: assemble response.
	confidence := assembleConfidence(processed, len(selected))
	resp := &model.KnowledgeResponse{
		Query:       query,
		Results:     processed,
		Summary:     buildSummary(query.Query, processed),
		Confidence:  confidence,
		SourcesUsed: sourcesUsed(processed),
		Metadata: model.ResponseMetadata{
			TotalResultsFound: len(raw),
			ResultsFiltered:   len(raw) - len(processed),
			ProcessingTimeMs:  time.Since(start).Milliseconds(),
			CacheUsed:         false,
			ProvidersQueried:  selectedNames,
		},
		RespondedAt: s.now(),
	}

	// Step 10: cache write.
	if s.cfg.CacheEnabled && s.cache != nil {
		ttl := s.cfg.CacheTTL
		s.cache.Put(cacheKey, resp, query.Priority, ttl)
	}

	// Step 11: emit response.ready.
	s.emit(eventsink.EventResponseReady, query.ID, map[string]interface{}{"confidence": confidence})
	s.totalOK.Add(1)

	return resp, nil
}

// fanOut invokes Search on every selected provider concurrently with settled
// semantics: one provider's failure or timeout never cancels the others.
// Deliberately NOT errgroup.WithContext — each branch's error is captured
// into its own slot instead of aborting its siblings.
func (s *Seeker) fanOut(ctx context.Context, query model.KnowledgeQuery, selected []provider.Provider) []model.SearchResult {
	resultsByProvider := make([][]model.SearchResult, len(selected))

	var g errgroup.Group
	for i, p := range selected {
		i, p := i, p
		g.Go(func() error {
			results, err := s.registry.Dispatch(ctx, p.Name(), query, s.cfg.DefaultTimeoutMs)
			if err != nil {
				s.emit(eventsink.EventProviderFailed, query.ID, map[string]interface{}{
					"provider": p.Name(),
					"error":    err.Error(),
				})
				slog.Warn("seeker: provider failed", "provider", p.Name(), "error", err)
				return nil
			}
			if s.cfg.MaxResultsPerProvider > 0 && len(results) > s.cfg.MaxResultsPerProvider {
				results = results[:s.cfg.MaxResultsPerProvider]
			}
			resultsByProvider[i] = results
			return nil
		})
	}
	_ = g.Wait()

	var out []model.SearchResult
	for _, r := range resultsByProvider {
		out = append(out, r...)
	}
	return out
}

func (s *Seeker) emit(eventType, queryID string, metadata map[string]interface{}) {
	s.sink.Emit(eventsink.Event{
		ID:        fmt.Sprintf("%s-%d", eventType, s.now().UnixNano()),
		Type:      eventType,
		Timestamp: s.now(),
		Severity:  severityFor(eventType),
		Source:    "seeker",
		TaskID:    queryID,
		Metadata:  metadata,
	})
}

func severityFor(eventType string) eventsink.Severity {
	switch eventType {
	case eventsink.EventQueryFailed, eventsink.EventProviderFailed:
		return eventsink.SeverityWarning
	default:
		return eventsink.SeverityInfo
	}
}

// ProcessQueries prioritizes queries (critical > high > medium > low), then
// batches them respecting MaxConcurrentQueries.
func (s *Seeker) ProcessQueries(ctx context.Context, queries []model.KnowledgeQuery) []*model.KnowledgeResponse {
	ordered := make([]model.KnowledgeQuery, len(queries))
	copy(ordered, queries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority.Rank() > ordered[j].Priority.Rank()
	})

	batchSize := s.cfg.MaxConcurrentQueries
	if batchSize <= 0 {
		batchSize = 1
	}

	responses := make([]*model.KnowledgeResponse, len(ordered))
	for start := 0; start < len(ordered); start += batchSize {
		end := start + batchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		batch := ordered[start:end]

		var g errgroup.Group
		for offset, q := range batch {
			offset, q := offset, q
			idx := start + offset
			g.Go(func() error {
				resp, err := s.ProcessQuery(ctx, q)
				if err != nil {
					slog.Warn("seeker: processQueries batch item failed", "query_id", q.ID, "error", err)
					return nil
				}
				responses[idx] = resp
				return nil
			})
		}
		_ = g.Wait()
	}
	return responses
}

// Status reports the Seeker's current health and operational counters.
func (s *Seeker) Status() Status {
	providers := s.registry.All()
	statuses := make([]ProviderStatus, 0, len(providers))
	for _, p := range providers {
		statuses = append(statuses, ProviderStatus{
			Name:      p.Name(),
			Available: p.IsAvailable(),
			Health:    p.Health(),
		})
	}
	var cacheStats cache.Stats
	if s.cache != nil {
		cacheStats = s.cache.Stats()
	}
	return Status{
		Enabled:    s.cfg.Enabled,
		Providers:  statuses,
		CacheStats: cacheStats,
		ProcessingStats: ProcessingStats{
			ActiveSearches: int(s.active.Load()),
			TotalProcessed: s.totalOK.Load(),
			TotalFailed:    s.totalFailed.Load(),
		},
	}
}

// ClearCaches empties the response cache.
func (s *Seeker) ClearCaches() {
	if s.cache != nil {
		s.cache.Clear()
	}
}
