package provider

import (
	"sync"

	"github.com/connexus-ai/knowledge-seeker/internal/ema"
	"github.com/connexus-ai/knowledge-seeker/internal/model"
)

// healthTracker maintains the rolling EMA + counters behind one Provider's
// Health() call. The α=0.1 smoothing factor is the default.
type healthTracker struct {
	mu            sync.Mutex
	responseTime  *ema.Tracker
	errorRate     *ema.Tracker
	available     bool
	lastError     string
	totalRequests int64
	failedReqs    int64
}

func newHealthTracker() *healthTracker {
	return &healthTracker{
		responseTime: ema.New(0.1),
		errorRate:    ema.New(0.1),
		available:    true,
	}
}

// recordSuccess updates the EMAs and marks the provider available, clearing
// any previously recorded error.
func (h *healthTracker) recordSuccess(responseTimeMs float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responseTime.Observe(responseTimeMs)
	h.errorRate.Observe(0)
	h.totalRequests++
	h.available = true
	h.lastError = ""
}

// recordFailure updates the EMAs, sets lastError, and marks the provider
// unavailable.
func (h *healthTracker) recordFailure(responseTimeMs float64, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.responseTime.Observe(responseTimeMs)
	h.errorRate.Observe(1)
	h.totalRequests++
	h.failedReqs++
	h.available = false
	if err != nil {
		h.lastError = err.Error()
	}
}

func (h *healthTracker) snapshot() model.ProviderHealth {
	h.mu.Lock()
	defer h.mu.Unlock()
	return model.ProviderHealth{
		Available:         h.available,
		ResponseTimeMsEMA: h.responseTime.Value(),
		ErrorRateEMA:      h.errorRate.Value(),
		LastError:         h.lastError,
		TotalRequests:     h.totalRequests,
		FailedRequests:    h.failedReqs,
	}
}

func (h *healthTracker) isAvailable() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.available
}
