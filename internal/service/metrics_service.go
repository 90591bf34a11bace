package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/iea-horarios-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation for HTTP traffic, imports and conflict checks.
type MetricsService struct {
	registry          *prometheus.Registry
	handler           http.Handler
	requestDuration   *prometheus.HistogramVec
	requestTotal      *prometheus.CounterVec
	importRows        *prometheus.CounterVec
	importDuration    *prometheus.HistogramVec
	conflictsRejected prometheus.Counter
	overlapsFound     *prometheus.CounterVec
	overlapScanSize   prometheus.Histogram
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

	importRows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "import_rows_total",
		Help: "Spreadsheet rows processed by import kind and outcome",
	}, []string{"kind", "outcome"})

	importDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "import_duration_seconds",
		Help:    "Duration of spreadsheet imports",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})

	conflictsRejected := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "assignment_conflicts_rejected_total",
		Help: "Assignment writes rejected by the subject overlap check",
	})

	overlapsFound := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "assignment_overlaps_found_total",
		Help: "Overlapping assignment pairs reported by severity",
	}, []string{"severity"})

	overlapScanSize := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "assignment_overlap_scan_size",
		Help:    "Scheduled assignments examined per overlap scan",
		Buckets: prometheus.ExponentialBuckets(8, 2, 8),
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, importRows, importDuration, conflictsRejected, overlapsFound, overlapScanSize, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		importRows:        importRows,
		importDuration:    importDuration,
		conflictsRejected: conflictsRejected,
		overlapsFound:     overlapsFound,
		overlapScanSize:   overlapScanSize,
	}
}

// Registry exposes the underlying registry for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
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

// ObserveImport records the tally of a finished import.
func (m *MetricsService) ObserveImport(result *models.ImportResult, duration time.Duration) {
	if m == nil || result == nil {
		return
	}
	kind := string(result.Kind)
	m.importDuration.WithLabelValues(kind).Observe(duration.Seconds())
	for outcome, n := range map[string]int{
		"created": result.Created,
		"updated": result.Updated,
		"skipped": result.Skipped,
		"omitted": result.Omitted,
		"error":   result.ErrorCount,
	} {
		if n > 0 {
			m.importRows.WithLabelValues(kind, outcome).Add(float64(n))
		}
	}
}

// IncConflictRejected counts an assignment write blocked by a subject overlap.
func (m *MetricsService) IncConflictRejected() {
	if m == nil {
		return
	}
	m.conflictsRejected.Inc()
}

// ObserveOverlapScan records a full overlap scan.
func (m *MetricsService) ObserveOverlapScan(report *models.OverlapReport) {
	if m == nil || report == nil {
		return
	}
	m.overlapScanSize.Observe(float64(report.Scanned))
	m.overlapsFound.WithLabelValues(string(models.SeverityCritical)).Add(float64(report.Critical))
	m.overlapsFound.WithLabelValues(string(models.SeverityHigh)).Add(float64(report.High))
}
