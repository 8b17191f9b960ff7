package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func newTestMetrics(t *testing.T) *Metrics {
	t.Helper()
	reg := prometheus.NewRegistry()
	return NewMetrics(reg)
}

func TestNewMetrics_RegistersWithoutPanic(t *testing.T) {
	newTestMetrics(t)
}

func TestObserveProviderDispatch_IncrementsCounterAndHistogram(t *testing.T) {
	m := newTestMetrics(t)
	m.ObserveProviderDispatch("web", "success", 150*time.Millisecond)

	var out dto.Metric
	if err := m.ProviderDispatchTotal.WithLabelValues("web", "success").Write(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Counter.GetValue() != 1 {
		t.Fatalf("expected counter=1, got %v", out.Counter.GetValue())
	}
}

func TestSyncCacheStats_SetsGauges(t *testing.T) {
	m := newTestMetrics(t)
	m.SyncCacheStats(42, 10, 5, 2)

	var out dto.Metric
	if err := m.CacheSize.Write(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Gauge.GetValue() != 42 {
		t.Fatalf("expected cache size=42, got %v", out.Gauge.GetValue())
	}
}

func TestMonitoring_RecordsRequestMetrics(t *testing.T) {
	m := newTestMetrics(t)
	handler := Monitoring(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	req := httptest.NewRequest(http.MethodGet, "/queries/123e4567-e89b-12d3-a456-426614174000", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var out dto.Metric
	if err := m.ErrorsTotal.WithLabelValues(http.MethodGet, "/queries/:id", "404").Write(&out); err != nil {
		t.Fatalf("expected sanitized path label, error: %v", err)
	}
	if out.Counter.GetValue() != 1 {
		t.Fatalf("expected error counter=1, got %v", out.Counter.GetValue())
	}
}

func TestSanitizePath_ReplacesUUIDAndNumericSegments(t *testing.T) {
	cases := map[string]string{
		"/queries/123e4567-e89b-12d3-a456-426614174000": "/queries/:id",
		"/providers/42/status":                          "/providers/:id/status",
		"/health":                                        "/health",
		"":                                               "/",
	}
	for in, want := range cases {
		if got := sanitizePath(in); got != want {
			t.Errorf("sanitizePath(%q) = %q, want %q", in, got, want)
		}
	}
}
