package metrics

import (
	"strconv"
	"time"

	"venuely/api/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// unmatchedRoute labels requests that no route pattern matched, so that
// arbitrary request paths never become label values.
const unmatchedRoute = "unmatched"

// Collector owns every Prometheus metric exported by the API edge.
//
// All Record methods are safe for concurrent use and are no-ops on a nil
// Collector or when metrics are disabled, so callers never need to guard
// them.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	admissionRejected *prometheus.CounterVec
	admissionAccepted *prometheus.CounterVec

	lifecycleState *prometheus.GaugeVec
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a fresh one is created.
//
// Example:
//
//	collector := metrics.NewCollector(cfg.Telemetry.Metrics, nil)
//	mux.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),

		admissionRejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "admission_rejections_total",
				Help:      "Requests to privileged routes rejected by the API key gate",
			},
			[]string{"code"},
		),

		admissionAccepted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "admission_accepted_total",
				Help:      "Requests to privileged routes admitted, by key label",
			},
			[]string{"key"},
		),

		lifecycleState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "lifecycle_state",
				Help:      "Current process lifecycle state (1 for the active state)",
			},
			[]string{"state"},
		),
	}

	registry.MustRegister(
		c.requestsTotal,
		c.requestDuration,
		c.admissionRejected,
		c.admissionAccepted,
		c.lifecycleState,
	)

	return c
}

// RecordRequest records a completed HTTP request. route should be the
// matched route pattern; an empty route is recorded as "unmatched".
func (c *Collector) RecordRequest(method, route string, status int, duration time.Duration) {
	if !c.active() {
		return
	}
	if route == "" {
		route = unmatchedRoute
	}

	c.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.requestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordAdmissionRejected counts a request refused by the key gate with
// the given error code (MISSING_API_KEY, INVALID_API_KEY).
func (c *Collector) RecordAdmissionRejected(code string) {
	if !c.active() {
		return
	}
	c.admissionRejected.WithLabelValues(code).Inc()
}

// RecordAdmissionAccepted counts an admitted request by the label of the
// key that was presented. The key itself is never a label value.
func (c *Collector) RecordAdmissionAccepted(keyName string) {
	if !c.active() {
		return
	}
	c.admissionAccepted.WithLabelValues(keyName).Inc()
}

// SetLifecycleState marks state as the only active lifecycle state.
func (c *Collector) SetLifecycleState(state string) {
	if !c.active() {
		return
	}
	c.lifecycleState.Reset()
	c.lifecycleState.WithLabelValues(state).Set(1)
}

// Enabled reports whether the collector records anything.
func (c *Collector) Enabled() bool {
	return c.active()
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) active() bool {
	return c != nil && c.enabled
}
