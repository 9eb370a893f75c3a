// Package metrics exports automation and outbound HTTP metrics for Prometheus.
package metrics

import (
	"net/http"
	"time"

	"sauna_automation/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sauna"

// Run outcomes.
const (
	OutcomeExecuted = "executed"
	OutcomeFailed   = "failed"
	OutcomeNoop     = "noop"
)

// Metrics holds all collectors of the process.
type Metrics struct {
	registry *prometheus.Registry

	runs            *prometheus.CounterVec
	runDuration     prometheus.Histogram
	lastRun         prometheus.Gauge
	requestCounter  *prometheus.CounterVec
	requestDuration *prometheus.SummaryVec
}

// New creates the collectors on a fresh registry that also carries the Go
// and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "automation",
			Name:      "runs_total",
			Help:      "automation runs by planned action and outcome",
		},
			[]string{"action", "outcome"},
		),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "automation",
			Name:      "run_duration_seconds",
			Help:      "duration of automation runs",
			Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 20, 40},
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "automation",
			Name:      "last_run_timestamp_seconds",
			Help:      "time of the last automation run",
		}),
		requestCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "http_requests_total",
			Help:      "total number of outbound http requests",
		},
			[]string{"target", "code", "method"},
		),
		requestDuration: prometheus.NewSummaryVec(prometheus.SummaryOpts{
			Namespace: namespace,
			Subsystem: "client",
			Name:      "http_request_duration_seconds",
			Help:      "duration of outbound http requests",
		},
			[]string{"target", "code", "method"},
		),
	}
	m.registry.MustRegister(
		m.runs, m.runDuration, m.lastRun, m.requestCounter, m.requestDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveRun records one automation run.
func (m *Metrics) ObserveRun(d models.Decision, took time.Duration) {
	m.runs.WithLabelValues(d.Action, Outcome(d)).Inc()
	m.runDuration.Observe(took.Seconds())
	m.lastRun.Set(float64(d.EvaluatedAt.Unix()))
}

// Outcome classifies a decision for the runs_total metric.
func Outcome(d models.Decision) string {
	switch {
	case d.Error != "":
		return OutcomeFailed
	case d.Executed:
		return OutcomeExecuted
	default:
		return OutcomeNoop
	}
}

// Instrument returns a transport wrapper that counts and times requests to
// the named target.
func (m *Metrics) Instrument(target string) func(http.RoundTripper) http.RoundTripper {
	labels := prometheus.Labels{"target": target}
	counter := m.requestCounter.MustCurryWith(labels)
	obs := m.requestDuration.MustCurryWith(labels)
	return func(next http.RoundTripper) http.RoundTripper {
		return promhttp.InstrumentRoundTripperCounter(counter,
			promhttp.InstrumentRoundTripperDuration(obs, next),
		)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry, e.g. for tests.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }
