// Package metrics exposes Prometheus collectors for the aggregation service.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	sourceJobsTotal            *prometheus.CounterVec
	sourceErrorsTotal          *prometheus.CounterVec
	runsTotal                  *prometheus.CounterVec
	runDurationSeconds         *prometheus.HistogramVec
	rateLimitDelaySeconds      *prometheus.HistogramVec
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec

	once sync.Once
)

// Init initializes the Prometheus metrics collectors.
// It is safe to call this function multiple times.
func Init() {
	once.Do(func() {
		sourceJobsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_source_jobs_total",
				Help: "Total number of postings fetched, labeled by source.",
			},
			[]string{"source"},
		)

		sourceErrorsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_source_errors_total",
				Help: "Total number of per-source fetch failures, labeled by source.",
			},
			[]string{"source"},
		)

		runsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jobradar_runs_total",
				Help: "Total number of aggregation runs, labeled by mode.",
			},
			[]string{"mode"},
		)

		runDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobradar_run_duration_seconds",
				Help:    "Histogram of aggregation run durations, labeled by mode.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"mode"},
		)

		rateLimitDelaySeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jobradar_rate_limit_delay_seconds",
				Help:    "Histogram of delays introduced by per-source rate limiting.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
			},
			[]string{"source"},
		)

		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests, labeled by method and code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies, labeled by method and route.",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
			},
			[]string{"method", "route"},
		)
	})
}

// AddSourceJobs records postings fetched from one source.
func AddSourceJobs(source string, count int) {
	Init()
	sourceJobsTotal.WithLabelValues(source).Add(float64(count))
}

// ObserveSourceError records one per-source fetch failure.
func ObserveSourceError(source string) {
	Init()
	sourceErrorsTotal.WithLabelValues(source).Inc()
}

// ObserveRun records a completed aggregation run and its duration.
func ObserveRun(mode string, duration time.Duration) {
	Init()
	runsTotal.WithLabelValues(mode).Inc()
	runDurationSeconds.WithLabelValues(mode).Observe(duration.Seconds())
}

// ObserveRateLimitDelay records time spent blocked on a source's limiter.
func ObserveRateLimitDelay(source string, duration time.Duration) {
	Init()
	rateLimitDelaySeconds.WithLabelValues(source).Observe(duration.Seconds())
}

// ObserveHTTPRequest records one inbound API request.
func ObserveHTTPRequest(method, code, route string, duration time.Duration) {
	Init()
	httpRequestsTotal.WithLabelValues(method, code).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// Handler returns the Prometheus scrape handler.
func Handler() http.Handler {
	Init()
	return promhttp.Handler()
}
