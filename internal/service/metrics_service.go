package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coderscenter/training-optimizer-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP surface
// and the optimizer.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	jobsStarted     prometheus.Counter
	jobsFinished    *prometheus.CounterVec
	solveDuration   prometheus.Histogram
}

// NewMetricsService registers core Prometheus collectors on a private registry.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	jobsStarted := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "optimizer_jobs_started_total",
		Help: "Total optimization jobs submitted",
	})

	jobsFinished := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "optimizer_jobs_finished_total",
		Help: "Total optimization jobs by terminal status",
	}, []string{"status"})

	solveDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "optimizer_solve_duration_seconds",
		Help:    "Wall-clock duration of optimization solves",
		Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, jobsStarted, jobsFinished, solveDuration, goroutines)

	handler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})

	return &MetricsService{
		registry:        registry,
		handler:         handler,
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		jobsStarted:     jobsStarted,
		jobsFinished:    jobsFinished,
		solveDuration:   solveDuration,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// JobStarted counts a submitted optimization job.
func (m *MetricsService) JobStarted() {
	if m == nil {
		return
	}
	m.jobsStarted.Inc()
}

// ObserveSolve records a finished solve with its terminal status.
func (m *MetricsService) ObserveSolve(status models.JobStatus, duration time.Duration) {
	if m == nil {
		return
	}
	m.jobsFinished.WithLabelValues(string(status)).Inc()
	m.solveDuration.Observe(duration.Seconds())
}
