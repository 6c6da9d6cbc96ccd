package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the schedule API.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	pipelineFailures *prometheus.CounterVec
	calendarEntries  prometheus.Histogram
	undatedActions   prometheus.Counter
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

	upstreamDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Duration of challenge API requests; status 0 marks transport failures",
		Buckets: prometheus.DefBuckets,
	}, []string{"status"})

	pipelineFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "schedule_pipeline_failures_total",
		Help: "Schedule fetches that ended in an error, by error code",
	}, []string{"code"})

	calendarEntries := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "schedule_calendar_entries",
		Help:    "Number of calendar entries per normalized schedule",
		Buckets: []float64{0, 1, 3, 6, 12, 24, 48},
	})

	undatedActions := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "schedule_undated_actions_total",
		Help: "Actions whose scheduledDate could not be parsed",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, upstreamDuration, pipelineFailures, calendarEntries, undatedActions, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		upstreamDuration: upstreamDuration,
		pipelineFailures: pipelineFailures,
		calendarEntries:  calendarEntries,
		undatedActions:   undatedActions,
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

// ObserveHTTPRequest records inbound request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := strconv.Itoa(status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
}

// ObserveUpstreamRequest records a challenge API call.
func (m *MetricsService) ObserveUpstreamRequest(status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.upstreamDuration.WithLabelValues(strconv.Itoa(status)).Observe(duration.Seconds())
}

// RecordPipelineFailure counts a failed schedule fetch.
func (m *MetricsService) RecordPipelineFailure(code string) {
	if m == nil {
		return
	}
	m.pipelineFailures.WithLabelValues(code).Inc()
}

// RecordSchedule records the shape of a normalized schedule.
func (m *MetricsService) RecordSchedule(entries, undated int) {
	if m == nil {
		return
	}
	m.calendarEntries.Observe(float64(entries))
	m.undatedActions.Add(float64(undated))
}
