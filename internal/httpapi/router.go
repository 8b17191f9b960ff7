package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/connexus-ai/knowledge-seeker/internal/httpapi/middleware"
	"github.com/connexus-ai/knowledge-seeker/internal/research"
	"github.com/connexus-ai/knowledge-seeker/internal/seeker"
	"github.com/connexus-ai/knowledge-seeker/internal/telemetry"
)

// Dependencies holds every collaborator the router wires into handlers.
type Dependencies struct {
	Seeker    *seeker.Seeker
	Augmenter *research.Augmenter
	// Provenance is optional: when nil, the provenance endpoints answer 503
	// rather than panicking (e.g. a deployment with no Postgres configured).
	Provenance ProvenanceReader

	Version       string
	AllowedOrigin string

	Metrics    *telemetry.Metrics
	MetricsReg *prometheus.Registry

	// Rate limiters (nil = no rate limiting for that group).
	QueryRateLimiter   *middleware.RateLimiter
	AugmentRateLimiter *middleware.RateLimiter
}

// New builds the Chi router exposing the Knowledge Seeker's HTTP surface.
func New(deps *Dependencies) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.Logging)
	r.Use(middleware.CORS(deps.AllowedOrigin))
	if deps.Metrics != nil {
		r.Use(telemetry.Monitoring(deps.Metrics))
	}

	r.Get("/api/health", Health(deps.Seeker, deps.Version))
	if deps.MetricsReg != nil {
		r.Handle("/metrics", telemetry.MetricsHandler(deps.MetricsReg))
	}

	timeout10s := middleware.Timeout(10 * time.Second)
	timeout30s := middleware.Timeout(30 * time.Second)

	r.Group(func(r chi.Router) {
		queryMiddleware := []func(http.Handler) http.Handler{timeout30s}
		if deps.QueryRateLimiter != nil {
			queryMiddleware = append(queryMiddleware, middleware.RateLimit(deps.QueryRateLimiter))
		}
		r.With(queryMiddleware...).Post("/api/queries", ProcessQuery(deps.Seeker))
		r.With(queryMiddleware...).Post("/api/queries/batch", ProcessQueries(deps.Seeker))
	})

	r.With(timeout10s).Get("/api/status", Status(deps.Seeker))
	r.With(timeout10s).Post("/api/cache/clear", ClearCache(deps.Seeker))

	r.Group(func(r chi.Router) {
		augmentMiddleware := []func(http.Handler) http.Handler{timeout30s}
		if deps.AugmentRateLimiter != nil {
			augmentMiddleware = append(augmentMiddleware, middleware.RateLimit(deps.AugmentRateLimiter))
		}
		r.With(augmentMiddleware...).Post("/api/tasks/augment", AugmentTask(deps.Augmenter))
	})

	r.Route("/api/provenance", func(r chi.Router) {
		r.Use(timeout10s)
		r.Use(provenanceRequired(deps.Provenance))
		r.Get("/stats", ProvenanceStats(deps.Provenance))
		r.Get("/{taskId}", TaskProvenance(deps.Provenance))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusNotFound, envelope{Success: false, Error: "route not found"})
	})

	return r
}

// provenanceRequired short-circuits the provenance routes with 503 when no
// provenance store was wired, instead of letting handlers nil-panic.
func provenanceRequired(p ProvenanceReader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if p == nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				json.NewEncoder(w).Encode(envelope{Success: false, Error: "provenance store is not configured"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
