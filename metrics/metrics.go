// Package metrics provides Prometheus collectors for the workspace API.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	OutcomeCommitted = "committed"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TransitionsTotal   *prometheus.CounterVec
	TransitionDuration *prometheus.HistogramVec
	ConflictRetries    prometheus.Counter
	DocumentsCreated   prometheus.Counter
	DocumentsDeleted   prometheus.Counter
}

// NewMetrics builds collectors on their own registry so that several
// instances can coexist in tests.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prd_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prd_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		TransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "prd_document_transitions_total",
				Help: "Document transitions by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		TransitionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "prd_document_transition_duration_seconds",
				Help:    "Duration of commit transitions in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"kind"},
		),
		ConflictRetries: factory.NewCounter(prometheus.CounterOpts{
			Name: "prd_document_conflict_retries_total",
			Help: "Reload-and-resubmit attempts caused by version conflicts",
		}),
		DocumentsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "prd_documents_created_total",
			Help: "Documents created",
		}),
		DocumentsDeleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "prd_documents_deleted_total",
			Help: "Documents deleted",
		}),
	}
}

func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTransition counts a transition that reached the store and observes
// how long the commit took.
func (m *Metrics) RecordTransition(kind, outcome string, duration time.Duration) {
	m.TransitionsTotal.WithLabelValues(kind, outcome).Inc()
	m.TransitionDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// RecordRejection counts a transition refused before any commit was tried.
func (m *Metrics) RecordRejection(kind string) {
	m.TransitionsTotal.WithLabelValues(kind, OutcomeRejected).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
