package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the API and the
// scheduling engine.
type MetricsService struct {
	registry *prometheus.Registry
	handler  http.Handler

	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	planRuns        *prometheus.CounterVec
	planDuration    prometheus.Histogram
	planWindows     prometheus.Histogram
	oracleRequests  *prometheus.CounterVec
}

// NewMetricsService registers core Prometheus collectors.
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

	planRuns := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_runs_total",
		Help: "Schedule generation runs by allocator and outcome",
	}, []string{"allocator", "outcome"})

	planDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_run_duration_seconds",
		Help:    "Duration of schedule generation runs",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30},
	})

	planWindows := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "availability_windows_per_run",
		Help:    "Availability windows found per generation run",
		Buckets: []float64{0, 5, 10, 20, 40, 80},
	})

	oracleRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "oracle_requests_total",
		Help: "Oracle allocation attempts by result",
	}, []string{"result"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, planRuns, planDuration, planWindows, oracleRequests, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		planRuns:        planRuns,
		planDuration:    planDuration,
		planWindows:     planWindows,
		oracleRequests:  oracleRequests,
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

// ObservePlanRun records one schedule generation run.
func (m *MetricsService) ObservePlanRun(allocator, outcome string, windows int, duration time.Duration) {
	if m == nil {
		return
	}
	m.planRuns.WithLabelValues(allocator, outcome).Inc()
	m.planDuration.Observe(duration.Seconds())
	m.planWindows.Observe(float64(windows))
}

// ObserveOracle records one oracle allocation attempt.
func (m *MetricsService) ObserveOracle(result string) {
	if m == nil {
		return
	}
	m.oracleRequests.WithLabelValues(result).Inc()
}
