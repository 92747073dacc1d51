package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/courseshelf/courseshelf/internal/scanner"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the scan engine.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	scanDuration    prometheus.Histogram
	coursesScanned  prometheus.Counter
	coursesDropped  *prometheus.CounterVec
	importsTotal    *prometheus.CounterVec
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

	scanDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "library_scan_duration_seconds",
		Help:    "Duration of full library scan passes",
		Buckets: prometheus.DefBuckets,
	})

	coursesScanned := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "library_courses_scanned_total",
		Help: "Courses successfully scanned across all passes",
	})

	coursesDropped := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "library_courses_dropped_total",
		Help: "Courses excluded from scan results, by reason",
	}, []string{"reason"})

	importsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "library_imports_total",
		Help: "Stored courses imported or rejected as duplicates",
	}, []string{"outcome"})

	registry.MustRegister(requestDuration, requestTotal, scanDuration, coursesScanned, coursesDropped, importsTotal)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		scanDuration:    scanDuration,
		coursesScanned:  coursesScanned,
		coursesDropped:  coursesDropped,
		importsTotal:    importsTotal,
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served HTTP request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := []string{method, path, strconv.Itoa(status)}
	s.requestDuration.WithLabelValues(labels...).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(labels...).Inc()
}

// ObserveScan records the outcome of one full scan pass.
func (s *MetricsService) ObserveScan(duration time.Duration, report scanner.ScanReport) {
	s.scanDuration.Observe(duration.Seconds())
	s.coursesScanned.Add(float64(report.Scanned))
	s.coursesDropped.WithLabelValues(string(scanner.DropNotFound)).Add(float64(report.NotFound))
	s.coursesDropped.WithLabelValues(string(scanner.DropUnreadable)).Add(float64(report.Unreadable))
	s.coursesDropped.WithLabelValues(string(scanner.DropEmpty)).Add(float64(report.Empty))
}

// ObserveImport records the outcome counts of one import action.
func (s *MetricsService) ObserveImport(added, duplicates int) {
	s.importsTotal.WithLabelValues("added").Add(float64(added))
	s.importsTotal.WithLabelValues("duplicate").Add(float64(duplicates))
}
