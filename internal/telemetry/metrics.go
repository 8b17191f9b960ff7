// Package telemetry defines and registers the Prometheus metrics surface
// for the knowledge seeker: HTTP-level request metrics plus domain gauges
// and counters for providers, the response cache, and the Seeker pipeline.
package telemetry

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds every Prometheus collector the service exposes.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorsTotal     *prometheus.CounterVec
	ActiveRequests  prometheus.Gauge

	ProviderDispatchTotal    *prometheus.CounterVec
	ProviderDispatchDuration *prometheus.HistogramVec
	ProviderCircuitState     *prometheus.GaugeVec

	QueriesProcessedTotal *prometheus.CounterVec
	QueryDuration         prometheus.Histogram
	ActiveSearches        prometheus.Gauge

	CacheHits      prometheus.Gauge
	CacheMisses    prometheus.Gauge
	CacheEvictions prometheus.Gauge
	CacheSize      prometheus.Gauge

	ResearchDetectedTotal  prometheus.Counter
	AugmentationsFailed    prometheus.Counter
}

// NewMetrics creates and registers every collector against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "path"},
		),
		ErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Total number of HTTP error responses (4xx/5xx).",
			},
			[]string{"method", "path", "status"},
		),
		ActiveRequests: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "http_active_requests",
				Help: "Number of currently active HTTP requests.",
			},
		),
		ProviderDispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "provider_dispatch_total",
				Help: "Total number of search provider dispatches by provider and outcome.",
			},
			[]string{"provider", "outcome"},
		),
		ProviderDispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "provider_dispatch_duration_seconds",
				Help:    "Search provider dispatch latency in seconds.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
			[]string{"provider"},
		),
		ProviderCircuitState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "provider_circuit_state",
				Help: "Current circuit breaker state by provider (0=closed, 1=half-open, 2=open).",
			},
			[]string{"provider"},
		),
		QueriesProcessedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seeker_queries_processed_total",
				Help: "Total number of knowledge queries processed by outcome.",
			},
			[]string{"outcome"},
		),
		QueryDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "seeker_query_duration_seconds",
				Help:    "End-to-end knowledge query processing latency in seconds.",
				Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
			},
		),
		ActiveSearches: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "seeker_active_searches",
				Help: "Number of knowledge queries currently in flight.",
			},
		),
		CacheHits: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "response_cache_hits",
				Help: "Running total of response cache hits, synced from cache.Stats().",
			},
		),
		CacheMisses: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "response_cache_misses",
				Help: "Running total of response cache misses, synced from cache.Stats().",
			},
		),
		CacheEvictions: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "response_cache_evictions",
				Help: "Running total of response cache evictions, synced from cache.Stats().",
			},
		),
		CacheSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "response_cache_size",
				Help: "Current number of entries held in the in-memory response cache.",
			},
		),
		ResearchDetectedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "research_detected_total",
				Help: "Total number of tasks the research detector flagged as requiring research.",
			},
		),
		AugmentationsFailed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "task_augmentations_failed_total",
				Help: "Total number of task augmentations that produced no surviving findings.",
			},
		),
	}

	reg.MustRegister(
		m.RequestsTotal, m.RequestDuration, m.ErrorsTotal, m.ActiveRequests,
		m.ProviderDispatchTotal, m.ProviderDispatchDuration, m.ProviderCircuitState,
		m.QueriesProcessedTotal, m.QueryDuration, m.ActiveSearches,
		m.CacheHits, m.CacheMisses, m.CacheEvictions, m.CacheSize,
		m.ResearchDetectedTotal, m.AugmentationsFailed,
	)
	return m
}

// ObserveProviderDispatch records the outcome and latency of a single
// provider dispatch.
func (m *Metrics) ObserveProviderDispatch(provider, outcome string, elapsed time.Duration) {
	m.ProviderDispatchTotal.WithLabelValues(provider, outcome).Inc()
	m.ProviderDispatchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// SyncCacheStats mirrors a response cache's point-in-time counters onto the
// cache gauges. Cache hit/miss/eviction counts are already running totals
// maintained by the cache itself, so they are synced rather than
// incremented here.
func (m *Metrics) SyncCacheStats(size int, hits, misses, evictions int64) {
	m.CacheSize.Set(float64(size))
	m.CacheHits.Set(float64(hits))
	m.CacheMisses.Set(float64(misses))
	m.CacheEvictions.Set(float64(evictions))
}
