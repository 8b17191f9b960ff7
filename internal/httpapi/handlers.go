// Package httpapi exposes the Knowledge Seeker's operations over HTTP: the
// public contract an orchestrator uses to submit queries, augment tasks, and
// inspect seeker/provenance state.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/connexus-ai/knowledge-seeker/internal/model"
	"github.com/connexus-ai/knowledge-seeker/internal/research"
	"github.com/connexus-ai/knowledge-seeker/internal/seeker"
)

// envelope is the uniform JSON response shape every handler writes.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Health returns GET /api/health — reports whether the seeker is enabled.
func Health(s *seeker.Seeker, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		httpStatus := http.StatusOK
		if s == nil || !s.Status().Enabled {
			status = "degraded"
			httpStatus = http.StatusServiceUnavailable
		}
		respondJSON(w, httpStatus, map[string]string{"status": status, "version": version})
	}
}

// ProcessQuery returns POST /api/queries.
func ProcessQuery(s *seeker.Seeker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var q model.KnowledgeQuery
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid request body"})
			return
		}

		resp, err := s.ProcessQuery(r.Context(), q)
		if err != nil {
			respondJSON(w, statusForSeekerError(err), envelope{Success: false, Error: err.Error()})
			return
		}
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: resp})
	}
}

// ProcessQueries returns POST /api/queries/batch.
func ProcessQueries(s *seeker.Seeker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var queries []model.KnowledgeQuery
		if err := json.NewDecoder(r.Body).Decode(&queries); err != nil {
			respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid request body"})
			return
		}

		responses := s.ProcessQueries(r.Context(), queries)
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: responses})
	}
}

// Status returns GET /api/status.
func Status(s *seeker.Seeker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: s.Status()})
	}
}

// ClearCache returns POST /api/cache/clear.
func ClearCache(s *seeker.Seeker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.ClearCaches()
		respondJSON(w, http.StatusOK, envelope{Success: true})
	}
}

// AugmentTask returns POST /api/tasks/augment.
func AugmentTask(a *research.Augmenter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var task model.Task
		if err := json.NewDecoder(r.Body).Decode(&task); err != nil {
			respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "invalid request body"})
			return
		}
		augmented := a.AugmentTask(r.Context(), task)
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: augmented})
	}
}

// ProvenanceReader is the subset of provenance.Recorder the HTTP layer needs,
// kept narrow so tests can substitute a fake without a live database.
type ProvenanceReader interface {
	GetTaskResearch(ctx context.Context, taskID string) ([]model.ResearchProvenanceRecord, error)
	GetStatistics(ctx context.Context, start, end time.Time) (model.ProvenanceStatistics, error)
}

// TaskProvenance returns GET /api/provenance/{taskId}.
func TaskProvenance(p ProvenanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		taskID := chi.URLParam(r, "taskId")
		if taskID == "" {
			respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "taskId is required"})
			return
		}
		records, err := p.GetTaskResearch(r.Context(), taskID)
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "failed to load provenance records"})
			return
		}
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: records})
	}
}

// ProvenanceStats returns GET /api/provenance/stats?start=RFC3339&end=RFC3339.
func ProvenanceStats(p ProvenanceReader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		end := time.Now()
		start := end.Add(-30 * 24 * time.Hour)

		if v := q.Get("start"); v != "" {
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				start = parsed
			} else {
				respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "start must be RFC3339"})
				return
			}
		}
		if v := q.Get("end"); v != "" {
			if parsed, err := time.Parse(time.RFC3339, v); err == nil {
				end = parsed
			} else {
				respondJSON(w, http.StatusBadRequest, envelope{Success: false, Error: "end must be RFC3339"})
				return
			}
		}

		stats, err := p.GetStatistics(r.Context(), start, end)
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Error: "failed to load provenance statistics"})
			return
		}
		respondJSON(w, http.StatusOK, envelope{Success: true, Data: stats})
	}
}

// statusForSeekerError maps a seeker.Error's Kind onto the nearest HTTP
// status.
func statusForSeekerError(err error) int {
	se, ok := err.(*seeker.Error)
	if !ok {
		return http.StatusInternalServerError
	}
	switch se.Kind {
	case seeker.KindInvalidQuery, seeker.KindConfigurationError:
		return http.StatusBadRequest
	case seeker.KindRateLimitExceeded:
		return http.StatusTooManyRequests
	case seeker.KindTimeout:
		return http.StatusGatewayTimeout
	case seeker.KindProviderUnavailable, seeker.KindNetworkError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
