// Package metrics collects Prometheus metrics for the TTS API.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Status label values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Metrics holds all application metrics on a dedicated registry, so multiple
// instances (tests included) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	synthesisRequests *prometheus.CounterVec
	batchRequests     prometheus.Counter
	synthesisSeconds  prometheus.Histogram
	artifactsEvicted  prometheus.Counter
	bytesWritten      prometheus.Counter
}

// New creates and registers all metrics.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		synthesisRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tts_synthesis_requests_total",
				Help: "Synthesis requests by outcome.",
			},
			[]string{"status"},
		),

		batchRequests: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tts_batch_requests_total",
				Help: "Batch synthesis requests accepted for processing.",
			},
		),

		synthesisSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tts_synthesis_duration_seconds",
				Help:    "End-to-end duration of one synthesis request.",
				Buckets: prometheus.DefBuckets,
			},
		),

		artifactsEvicted: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tts_artifacts_evicted_total",
				Help: "Artifacts removed by eviction sweeps.",
			},
		),

		bytesWritten: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "tts_artifact_bytes_written_total",
				Help: "Audio bytes persisted to the artifact store.",
			},
		),
	}

	m.registry.MustRegister(
		m.synthesisRequests,
		m.batchRequests,
		m.synthesisSeconds,
		m.artifactsEvicted,
		m.bytesWritten,
	)

	return m
}

// RecordSynthesis records one synthesis request's outcome and duration.
func (m *Metrics) RecordSynthesis(success bool, seconds float64, bytesWritten int64) {
	status := StatusSuccess
	if !success {
		status = StatusFailed
	}

	m.synthesisRequests.WithLabelValues(status).Inc()
	m.synthesisSeconds.Observe(seconds)

	if bytesWritten > 0 {
		m.bytesWritten.Add(float64(bytesWritten))
	}
}

// RecordBatch records one accepted batch request.
func (m *Metrics) RecordBatch() {
	m.batchRequests.Inc()
}

// RecordEviction records the number of artifacts removed by one sweep.
func (m *Metrics) RecordEviction(removed int) {
	if removed > 0 {
		m.artifactsEvicted.Add(float64(removed))
	}
}

// Handler returns the HTTP handler exposing the metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
