// Package metrics provides Prometheus metrics for the reelrank service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Cache lookup outcomes used as the "result" label.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"
	CacheError = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Catalog build pipeline
	catalogBuilds        *prometheus.CounterVec
	catalogBuildDuration prometheus.Histogram
	catalogLastBuildUnix prometheus.Gauge
	catalogMerged        prometheus.Gauge
	catalogServable      prometheus.Gauge
	catalogInteractions  prometheus.Gauge
	sourceRecords        *prometheus.GaugeVec
	sourceLoadDuration   *prometheus.HistogramVec

	// Snapshot cache
	cacheRequests     *prometheus.CounterVec
	cacheSaveDuration prometheus.Histogram

	// Recommendations
	recommendations       *prometheus.CounterVec
	recommendationLatency prometheus.Histogram

	// Rebuild queue and worker
	queueSize               prometheus.Gauge
	queueCapacity           prometheus.Gauge
	queueEnqueue            prometheus.Counter
	queueDequeue            prometheus.Counter
	queueRejected           prometheus.Counter
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers every metric on the
// configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "reelrank",
		subsystem:        "catalog",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) gauge(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels}
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.HistogramOpts {
	if buckets == nil {
		buckets = m.histogramBuckets
	}
	return prometheus.HistogramOpts{Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: buckets, ConstLabels: m.constLabels}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric
	auto := promauto.With(m.registry)

	m.catalogBuilds = auto.NewCounterVec(m.counter("builds_total", "Catalog builds by outcome"), []string{"outcome"})
	m.catalogBuildDuration = auto.NewHistogram(m.histogram("build_duration_milliseconds", "End-to-end catalog build duration", nil))
	m.catalogLastBuildUnix = auto.NewGauge(m.gauge("last_build_unix", "Unix timestamp of the last published catalog"))
	m.catalogMerged = auto.NewGauge(m.gauge("merged_records", "Records after aggregation, before filtering"))
	m.catalogServable = auto.NewGauge(m.gauge("servable_records", "Records in the published catalog"))
	m.catalogInteractions = auto.NewGauge(m.gauge("interactions", "Synthetic interactions attached to the published catalog"))
	m.sourceRecords = auto.NewGaugeVec(m.gauge("source_records", "Canonical records produced by the last load of each source"), []string{"source"})
	m.sourceLoadDuration = auto.NewHistogramVec(m.histogram("source_load_duration_milliseconds", "Duration of one source load", nil), []string{"source"})

	m.cacheRequests = auto.NewCounterVec(m.counter("cache_requests_total", "Snapshot cache lookups by result"), []string{"result"})
	m.cacheSaveDuration = auto.NewHistogram(m.histogram("cache_save_duration_milliseconds", "Snapshot cache write duration", nil))

	m.recommendations = auto.NewCounterVec(m.counter("recommendations_total", "Recommendation requests by result status"), []string{"status"})
	m.recommendationLatency = auto.NewHistogram(m.histogram("recommendation_latency_milliseconds", "Selection latency",
		[]float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50}))

	m.queueSize = auto.NewGauge(m.gauge("rebuild_queue_size", "Pending rebuild requests"))
	m.queueCapacity = auto.NewGauge(m.gauge("rebuild_queue_capacity", "Rebuild queue capacity"))
	m.queueEnqueue = auto.NewCounter(m.counter("rebuild_enqueued_total", "Rebuild requests accepted"))
	m.queueDequeue = auto.NewCounter(m.counter("rebuild_dequeued_total", "Rebuild requests taken by the worker"))
	m.queueRejected = auto.NewCounter(m.counter("rebuild_rejected_total", "Rebuild requests rejected by backpressure"))
	m.workerProcessingLatency = auto.NewHistogram(m.histogram("rebuild_processing_latency_milliseconds", "Rebuild request processing latency", nil))
	m.workerErrors = auto.NewCounter(m.counter("rebuild_errors_total", "Rebuild requests that failed"))

	m.httpRequests = auto.NewCounterVec(m.counter("http_requests_total", "HTTP requests by endpoint, method and status"),
		[]string{"endpoint", "method", "status_code"})
	m.httpRequestDuration = auto.NewHistogramVec(m.histogram("http_request_duration_milliseconds", "HTTP request duration", nil),
		[]string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(m.counter("errors_by_component_total", "Errors by component"), []string{"component", "error_type"})
	m.errorRateByType = auto.NewCounterVec(m.counter("errors_by_type_total", "Errors by type"), []string{"error_type", "severity"})
	m.errorRateByEndpoint = auto.NewCounterVec(m.counter("errors_by_endpoint_total", "Errors by endpoint"), []string{"endpoint", "method", "error_type"})
	m.errorLatency = auto.NewHistogramVec(m.histogram("error_latency_milliseconds", "Latency of operations that resulted in errors", nil),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gauge("system_memory_usage_bytes", "Heap bytes allocated"))
	m.systemGoroutineCount = auto.NewGauge(m.gauge("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogram("system_gc_pause_time_milliseconds", "GC pause time",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// Catalog build metrics.

// RecordCatalogBuild records one finished build. outcome is "built",
// "cached" or "failed".
func RecordCatalogBuild(outcome string, durationMs float64) {
	globalManager.catalogBuilds.WithLabelValues(outcome).Inc()
	if outcome != "failed" {
		globalManager.catalogBuildDuration.Observe(durationMs)
	}
}

// UpdateCatalogSize publishes the sizes of the current catalog.
func UpdateCatalogSize(merged, servable, interactions int, builtAtUnix int64) {
	globalManager.catalogMerged.Set(float64(merged))
	globalManager.catalogServable.Set(float64(servable))
	globalManager.catalogInteractions.Set(float64(interactions))
	globalManager.catalogLastBuildUnix.Set(float64(builtAtUnix))
}

// RecordSourceLoad records the record count and duration of one source load.
func RecordSourceLoad(source string, records int, durationMs float64) {
	globalManager.sourceRecords.WithLabelValues(source).Set(float64(records))
	globalManager.sourceLoadDuration.WithLabelValues(source).Observe(durationMs)
}

// Cache metrics.

// RecordCacheLookup counts one snapshot cache lookup by result.
func RecordCacheLookup(result string) {
	globalManager.cacheRequests.WithLabelValues(result).Inc()
}

// RecordCacheSave records a snapshot cache write duration.
func RecordCacheSave(durationMs float64) {
	globalManager.cacheSaveDuration.Observe(durationMs)
}

// Recommendation metrics.

// RecordRecommendation counts one recommendation request by status and
// records its latency.
func RecordRecommendation(status string, latencyMs float64) {
	globalManager.recommendations.WithLabelValues(status).Inc()
	globalManager.recommendationLatency.Observe(latencyMs)
}

// Rebuild queue and worker metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueue.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeue.Inc()
}

// RecordQueueRejected increments the backpressure counter.
func RecordQueueRejected() {
	globalManager.queueRejected.Inc()
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of an operation that resulted in an error.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Families gathers the custom registry keyed by fully qualified name.
func Families() (map[string]*dto.MetricFamily, error) {
	mfs, err := customRegistry.Gather()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGatherFailed, err)
	}
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out, nil
}
