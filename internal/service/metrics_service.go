package service

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Invoice generation modes used as metric labels.
const (
	GenerationModeBatch  = "batch"
	GenerationModeSingle = "single"
)

// MetricsService encapsulates Prometheus instrumentation.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	cacheLatency    prometheus.Observer
	cacheWrite      prometheus.Observer
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
	dbQueryDuration *prometheus.HistogramVec

	penaltiesCreated  prometheus.Counter
	invoicesGenerated *prometheus.CounterVec
	invoicesSkipped   prometheus.Counter
	invoicesFailed    prometheus.Counter
	statusChanges     *prometheus.CounterVec
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

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	dbQueryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of document store queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	penaltiesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "penalties_created_total",
		Help: "Late-pickup penalties created",
	})

	invoicesGenerated := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoices_generated_total",
		Help: "Invoices created or regenerated",
	}, []string{"mode"})

	invoicesSkipped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoice_generation_skipped_total",
		Help: "Students skipped by batch invoice generation for lack of a valid schedule",
	})

	invoicesFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoice_generation_failed_total",
		Help: "Invoices that could not be written during batch generation",
	})

	statusChanges := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_status_changes_total",
		Help: "Manual invoice status transitions",
	}, []string{"to"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHits, cacheMisses, dbQueryDuration,
		penaltiesCreated, invoicesGenerated, invoicesSkipped, invoicesFailed, statusChanges, goroutines)

	return &MetricsService{
		registry:          registry,
		handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:   requestDuration,
		requestTotal:      requestTotal,
		cacheLatency:      cacheLatency,
		cacheWrite:        cacheWrite,
		cacheHits:         cacheHits,
		cacheMisses:       cacheMisses,
		dbQueryDuration:   dbQueryDuration,
		penaltiesCreated:  penaltiesCreated,
		invoicesGenerated: invoicesGenerated,
		invoicesSkipped:   invoicesSkipped,
		invoicesFailed:    invoicesFailed,
		statusChanges:     statusChanges,
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

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	return m.registry
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

// RecordCacheOperation records cache hit/miss metrics.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
	} else {
		m.cacheMisses.Inc()
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveDBQuery records document store timing.
func (m *MetricsService) ObserveDBQuery(label string, duration time.Duration) {
	if m == nil {
		return
	}
	m.dbQueryDuration.WithLabelValues(label).Observe(duration.Seconds())
}

// PenaltyCreated counts a new late-pickup penalty.
func (m *MetricsService) PenaltyCreated() {
	if m == nil {
		return
	}
	m.penaltiesCreated.Inc()
}

// InvoiceGeneration records the outcome of an invoice run.
func (m *MetricsService) InvoiceGeneration(mode string, generated, skipped, failed int) {
	if m == nil {
		return
	}
	m.invoicesGenerated.WithLabelValues(mode).Add(float64(generated))
	m.invoicesSkipped.Add(float64(skipped))
	m.invoicesFailed.Add(float64(failed))
}

// InvoiceStatusChanged counts a manual status transition.
func (m *MetricsService) InvoiceStatusChanged(to string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(to).Inc()
}
