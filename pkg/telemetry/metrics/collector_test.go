package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorRecordsWhenEnabled(t *testing.T) {
	registry := prometheus.NewRegistry()
	c := NewCollector(Config{Enabled: true, Subsystem: "certd"}, registry)

	c.RecordRenewalTick("issued")
	c.RecordRenewalTick("noop")
	c.RecordRenewalTick("noop")
	c.SetCertificateExpiry("example.com", time.Now().Add(48*time.Hour))
	c.SetLifecycleState(2)
	c.RecordReload("reloaded")
	c.RecordValidationFailure()
	c.SetWatcherState(1)

	body := scrape(t, c.Handler())

	for _, want := range []string{
		`atlas_certd_renewal_ticks_total{result="issued"} 1`,
		`atlas_certd_renewal_ticks_total{result="noop"} 2`,
		`atlas_certd_lifecycle_state 2`,
		`atlas_certd_reloads_total{result="reloaded"} 1`,
		`atlas_certd_config_validation_failures_total 1`,
		`atlas_certd_watcher_state 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}

	if !strings.Contains(body, `atlas_certd_certificate_expiry_seconds{domain="example.com"}`) {
		t.Error("metrics output missing expiry gauge")
	}
}

func TestCollectorDisabledRecordsNothing(t *testing.T) {
	c := NewCollector(Config{Enabled: false, Subsystem: "edge"}, nil)

	c.RecordRenewalTick("issued")
	c.RecordReload("reloaded")

	body := scrape(t, c.Handler())
	if strings.Contains(body, `result="issued"`) || strings.Contains(body, `result="reloaded"`) {
		t.Error("disabled collector must not record samples")
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *Collector

	// None of these may panic.
	c.RecordRenewalTick("issued")
	c.SetCertificateExpiry("example.com", time.Now())
	c.SetLifecycleState(1)
	c.RecordReload("reloaded")
	c.RecordValidationFailure()
	c.SetWatcherState(0)

	if c.Registry() != nil {
		t.Error("nil collector must have nil registry")
	}
}

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}
