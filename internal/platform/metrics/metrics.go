// Package metrics owns the Prometheus registry and the counters the pipeline records
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"certifica/internal/platform/net/middleware"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "certifica"

// Metrics groups every collector; each instance has its own registry so tests never collide
type Metrics struct {
	reg *prometheus.Registry

	Submissions      *prometheus.CounterVec // outcome
	UploadBytes      *prometheus.CounterVec // content_type
	BlobOps          *prometheus.CounterVec // op, status
	BlobOrphans      prometheus.Counter
	PublishFailures  prometheus.Counter
	Validations      *prometheus.CounterVec // decision
	Deletions        *prometheus.CounterVec // outcome
	Processed        *prometheus.CounterVec // outcome
	SweepRepublished prometheus.Counter
	HTTPDuration     *prometheus.HistogramVec // method, route, status
}

// New builds a registry with the Go and process collectors plus the certifica set
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	f := promauto.With(reg)

	counter := func(name, help string, labels ...string) *prometheus.CounterVec {
		return f.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help}, labels)
	}
	single := func(name, help string) prometheus.Counter {
		return f.NewCounter(prometheus.CounterOpts{Namespace: namespace, Name: name, Help: help})
	}

	return &Metrics{
		reg:              reg,
		Submissions:      counter("submissions_total", "Certificate submissions by outcome", "outcome"),
		UploadBytes:      counter("upload_bytes_total", "Bytes accepted into the blob store", "content_type"),
		BlobOps:          counter("blob_operations_total", "Blob store calls", "op", "status"),
		BlobOrphans:      single("blob_orphans_total", "Objects written whose record was never persisted"),
		PublishFailures:  single("publish_failures_total", "Processing messages that could not be published"),
		Validations:      counter("validations_total", "Admin decisions applied", "decision"),
		Deletions:        counter("deletions_total", "Certificate deletions by outcome", "outcome"),
		Processed:        counter("processed_total", "Processing messages handled by outcome", "outcome"),
		SweepRepublished: single("sweep_republished_total", "Certificates republished by the reconciliation sweep"),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),
	}
}

// Registry exposes the underlying registry for custom collectors
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// BlobOp records one blob call; err decides the status label
func (m *Metrics) BlobOp(op string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.BlobOps.WithLabelValues(op, status).Inc()
}

// HTTP records request latency labelled by the chi route pattern
func (m *Metrics) HTTP() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sw := middleware.WrapStatus(w)
			start := time.Now()
			next.ServeHTTP(sw, r)
			m.HTTPDuration.
				WithLabelValues(r.Method, middleware.RoutePattern(r), strconv.Itoa(sw.Status)).
				Observe(time.Since(start).Seconds())
		})
	}
}
