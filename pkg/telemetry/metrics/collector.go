package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Config contains configuration for the metrics collector.
type Config struct {
	// Enabled controls whether metrics are recorded at all.
	Enabled bool

	// Namespace is the metric name prefix. Default: "atlas".
	Namespace string

	// Subsystem names the process ("certd" or "edge").
	Subsystem string
}

// Collector registers and records all Prometheus metrics for one
// process. Record methods are safe to call on a nil Collector, which
// keeps call sites free of enablement checks.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	renewalTicks       *prometheus.CounterVec
	certExpirySeconds  *prometheus.GaugeVec
	lifecycleState     prometheus.Gauge
	reloads            *prometheus.CounterVec
	validationFailures prometheus.Counter
	watcherState       prometheus.Gauge
}

// NewCollector creates a collector backed by the given registry. If
// registry is nil a fresh one is created, which keeps tests isolated
// from the global default registry.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "atlas"
	}

	c := &Collector{
		config:   cfg,
		registry: registry,
	}

	c.renewalTicks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "renewal_ticks_total",
		Help:      "Lifecycle tick outcomes by result (issued, renewed, noop, failed).",
	}, []string{"result"})

	c.certExpirySeconds = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "certificate_expiry_seconds",
		Help:      "Seconds until the stored certificate expires, per domain.",
	}, []string{"domain"})

	c.lifecycleState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "lifecycle_state",
		Help:      "Lifecycle state (0=no_cert 1=acquiring 2=valid 3=renewal_due 4=renewing).",
	})

	c.reloads = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "reloads_total",
		Help:      "Reload coordinator outcomes by result (reloaded, validation_failed, reload_failed).",
	}, []string{"result"})

	c.validationFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "config_validation_failures_total",
		Help:      "Configuration validation failures that blocked a reload.",
	})

	c.watcherState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: cfg.Namespace,
		Subsystem: cfg.Subsystem,
		Name:      "watcher_state",
		Help:      "Change watcher state (0=awaiting_first_cert 1=watching).",
	})

	registry.MustRegister(
		c.renewalTicks,
		c.certExpirySeconds,
		c.lifecycleState,
		c.reloads,
		c.validationFailures,
		c.watcherState,
	)

	return c
}

// RecordRenewalTick records the outcome of one lifecycle tick.
func (c *Collector) RecordRenewalTick(result string) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.renewalTicks.WithLabelValues(result).Inc()
}

// SetCertificateExpiry publishes the time remaining on the stored bundle.
func (c *Collector) SetCertificateExpiry(domain string, notAfter time.Time) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.certExpirySeconds.WithLabelValues(domain).Set(time.Until(notAfter).Seconds())
}

// SetLifecycleState publishes the lifecycle state machine position.
func (c *Collector) SetLifecycleState(state int) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.lifecycleState.Set(float64(state))
}

// RecordReload records a reload coordinator outcome.
func (c *Collector) RecordReload(result string) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.reloads.WithLabelValues(result).Inc()
}

// RecordValidationFailure counts a blocked reload.
func (c *Collector) RecordValidationFailure() {
	if c == nil || !c.config.Enabled {
		return
	}
	c.validationFailures.Inc()
}

// SetWatcherState publishes the change watcher state.
func (c *Collector) SetWatcherState(state int) {
	if c == nil || !c.config.Enabled {
		return
	}
	c.watcherState.Set(float64(state))
}

// Handler returns the HTTP handler serving this collector's registry.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}
