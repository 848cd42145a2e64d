package metrics

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestPublisherMetricsExportsCountersAndHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewPublisherMetrics(reg)
	metrics.ObserveBatch("wishlist-events", 250*time.Millisecond)
	metrics.IncPublished("wishlist_created")
	metrics.IncFailed("wishlist_created")
	metrics.IncDeadLettered("wishlist_deleted", "max_attempts")

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}

	if got, err := fetchCounterValue(mfs, "outbox_events_published_total", "event_type", "wishlist_created"); err != nil {
		t.Fatalf("fetch published: %v", err)
	} else if got != 1 {
		t.Fatalf("expected published=1, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "outbox_events_dead_lettered_total", "reason", "max_attempts"); err != nil {
		t.Fatalf("fetch dead lettered: %v", err)
	} else if got != 1 {
		t.Fatalf("expected dead lettered=1, got %f", got)
	}
	if got, err := fetchHistogramSum(mfs, "outbox_batch_duration_seconds", "topic", "wishlist-events"); err != nil {
		t.Fatalf("fetch duration: %v", err)
	} else if got <= 0 {
		t.Fatalf("expected duration sum > 0, got %f", got)
	}
}

func TestNilRegistererIsNoop(t *testing.T) {
	NewPublisherMetrics(nil).IncPublished("x")
	NewBreakerMetrics(nil).SetState("catalog", BreakerOpen)
	NewHTTPMetrics(nil).Begin()(http.MethodGet, "/", http.StatusOK)

	NewCronJobMetrics(nil).AddDeleted("x", 3)

	var nilMetrics *PublisherMetrics
	nilMetrics.IncFailed("x")
}

func TestHTTPMetricsRecordsRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewHTTPMetrics(reg)
	done := metrics.Begin()
	done(http.MethodPost, "/wishlist/create", http.StatusOK)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "http_requests_total", "route", "/wishlist/create"); err != nil {
		t.Fatalf("fetch requests: %v", err)
	} else if got != 1 {
		t.Fatalf("expected requests=1, got %f", got)
	}
	inFlight := findMetricFamily(mfs, "http_requests_in_flight")
	if inFlight == nil || inFlight.GetMetric()[0].GetGauge().GetValue() != 0 {
		t.Fatalf("expected in-flight gauge back at zero")
	}

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "http_requests_total") {
		t.Fatalf("expected exposition to include http_requests_total")
	}
}

func TestBreakerMetricsSetsState(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewBreakerMetrics(reg).SetState("catalog", BreakerOpen)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	mf := findMetricFamily(mfs, "circuit_breaker_state")
	if mf == nil {
		t.Fatalf("breaker gauge not registered")
	}
	if got := mf.GetMetric()[0].GetGauge().GetValue(); got != BreakerOpen {
		t.Fatalf("expected state %d, got %f", BreakerOpen, got)
	}
}

func TestCronJobMetricsCountsDeletedRows(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewCronJobMetrics(reg)
	m.IncSuccess("outbox-retention")
	m.AddDeleted("outbox-retention", 7)
	m.AddDeleted("outbox-retention", 0)
	m.ObserveDuration("outbox-retention", time.Second)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	if got, err := fetchCounterValue(mfs, "maintenance_job_rows_deleted_total", "job", "outbox-retention"); err != nil {
		t.Fatalf("fetch deleted: %v", err)
	} else if got != 7 {
		t.Fatalf("expected deleted=7, got %f", got)
	}
	if got, err := fetchCounterValue(mfs, "maintenance_job_success_total", "job", "outbox-retention"); err != nil || got != 1 {
		t.Fatalf("expected success=1, got %f (%v)", got, err)
	}
}

func fetchCounterValue(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetCounter().GetValue(), nil
		}
	}
	return 0, fmt.Errorf("metric %q missing label %s=%s", name, label, value)
}

func fetchHistogramSum(mfs []*dto.MetricFamily, name, label, value string) (float64, error) {
	mf := findMetricFamily(mfs, name)
	if mf == nil {
		return 0, fmt.Errorf("metric %q not found", name)
	}
	for _, metric := range mf.GetMetric() {
		if matchesLabel(metric.GetLabel(), label, value) {
			return metric.GetHistogram().GetSampleSum(), nil
		}
	}
	return 0, fmt.Errorf("histogram %q missing label %s=%s", name, label, value)
}

func findMetricFamily(mfs []*dto.MetricFamily, name string) *dto.MetricFamily {
	for _, mf := range mfs {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func matchesLabel(labels []*dto.LabelPair, name, value string) bool {
	for _, label := range labels {
		if label.GetName() == name && label.GetValue() == value {
			return true
		}
	}
	return false
}
