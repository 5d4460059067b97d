// Package metrics provides Prometheus instrumentation for the schema
// evolution registry.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager owns every Prometheus collector exposed by the registry.
type Manager struct {
	registry *prometheus.Registry
	enabled  bool

	registrations *prometheus.CounterVec
	checkDuration *prometheus.HistogramVec
	parseFailures *prometheus.CounterVec
	subjectCount  prometheus.Gauge
}

// Config controls which collectors are registered.
type Config struct {
	Enabled              bool
	CheckDurationBuckets []float64
}

// DefaultConfig returns the bucket layout tuned for compatibility
// checks, which run in single-digit milliseconds for typical schemas.
func DefaultConfig() Config {
	return Config{
		Enabled:              true,
		CheckDurationBuckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}
}

// NewManager constructs a Manager. A disabled Manager's recording
// methods are no-ops so call sites never need to branch on Enabled.
func NewManager(cfg Config) *Manager {
	if !cfg.Enabled {
		return &Manager{enabled: false}
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Manager{registry: registry, enabled: true}

	m.registrations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sbecheck_registrations_total",
			Help: "Total schema registration attempts by subject and verdict",
		},
		[]string{"subject", "verdict"},
	)
	m.checkDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sbecheck_check_duration_seconds",
			Help:    "Compatibility check duration in seconds",
			Buckets: cfg.CheckDurationBuckets,
		},
		[]string{"subject"},
	)
	m.parseFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sbecheck_parse_failures_total",
			Help: "Total schema XML parse failures by subject",
		},
		[]string{"subject"},
	)
	m.subjectCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "sbecheck_subjects",
			Help: "Current number of registered subjects",
		},
	)

	m.registry.MustRegister(m.registrations, m.checkDuration, m.parseFailures, m.subjectCount)
	return m
}

// NoOpManager returns a Manager with every collector disabled.
func NoOpManager() *Manager {
	return &Manager{enabled: false}
}

// Enabled reports whether metrics are being collected.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Manager) Handler() http.Handler {
	if !m.enabled {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordRegistration records a registration outcome for subject, where
// verdict is the outcome label the caller passes ("accepted" or
// "rejected" from the service layer).
func (m *Manager) RecordRegistration(subject, verdict string) {
	if !m.enabled {
		return
	}
	m.registrations.WithLabelValues(subject, verdict).Inc()
}

// RecordCheckDuration records how long a compatibility check against
// subject took, in seconds.
func (m *Manager) RecordCheckDuration(subject string, seconds float64) {
	if !m.enabled {
		return
	}
	m.checkDuration.WithLabelValues(subject).Observe(seconds)
}

// RecordParseFailure records a schema XML that failed to parse.
func (m *Manager) RecordParseFailure(subject string) {
	if !m.enabled {
		return
	}
	m.parseFailures.WithLabelValues(subject).Inc()
}

// SetSubjectCount updates the current number of registered subjects.
func (m *Manager) SetSubjectCount(count int) {
	if !m.enabled {
		return
	}
	m.subjectCount.Set(float64(count))
}
