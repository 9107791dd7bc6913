// Package metrics provides Prometheus metrics for the ghostrun engine service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default buckets for the recording frame count histogram. Recordings
// typically run from a handful of frames up to a few hundred.
var defaultFrameBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000} //nolint:gochecknoglobals // shared default bucket layout

// Manager manages all Prometheus metrics for the ghostrun service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	frameBuckets     []float64
	registry         prometheus.Registerer

	// Core Engine Metrics - The three operations the engine exposes
	profilesBuilt   prometheus.Counter
	runsScored      prometheus.Counter
	resampleOps     prometheus.Counter
	buildLatency    prometheus.Histogram
	scoreLatency    prometheus.Histogram
	resampleLatency prometheus.Histogram

	// Engine Quality Metrics - Error tracking per operation
	buildErrors           prometheus.Counter
	scoreErrors           prometheus.Counter
	resampleErrors        prometheus.Counter
	extractionUnavailable prometheus.Counter

	// Engine Shape Metrics - Input/output characteristics
	recordingFrames        prometheus.Histogram
	normalizedFrameCount   prometheus.Gauge
	representativeDistance prometheus.Gauge
	aggregationWorkers     prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Enhanced Error Metrics - Detailed error tracking
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
	errorLatency         *prometheus.HistogramVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "ghostrun",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		frameBuckets:     defaultFrameBuckets,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	// Core Engine Metrics - One counter + latency histogram per engine operation
	m.profilesBuilt = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profiles_built_total",
		Help:      "Total number of ghost profiles successfully built",
	})

	m.runsScored = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_scored_total",
		Help:      "Total number of recordings scored against a profile",
	})

	m.resampleOps = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resample_operations_total",
		Help:      "Total number of standalone resample operations",
	})

	m.buildLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_build_latency_milliseconds",
		Help:      "Histogram of profile build latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.scoreLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_score_latency_milliseconds",
		Help:      "Histogram of run scoring latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.resampleLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resample_latency_milliseconds",
		Help:      "Histogram of resample latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// Engine Quality Metrics - Rejected and failed operations
	m.buildErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "profile_build_errors_total",
		Help:      "Total number of failed profile builds",
	})

	m.scoreErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_score_errors_total",
		Help:      "Total number of failed run scorings",
	})

	m.resampleErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resample_errors_total",
		Help:      "Total number of failed resample operations",
	})

	m.extractionUnavailable = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_unavailable_total",
		Help:      "Total number of extraction requests refused because no extractor is installed",
	})

	// Engine Shape Metrics - Sizes flowing through the engine
	m.recordingFrames = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "recording_frames",
		Help:      "Distribution of input recording frame counts",
		Buckets:   m.frameBuckets,
	})

	m.normalizedFrameCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "normalized_frame_count",
		Help:      "Frame count of the most recently built profile",
	})

	m.representativeDistance = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "representative_distance",
		Help:      "Representative recording distance of the most recently built profile",
	})

	m.aggregationWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "aggregation_workers",
		Help:      "Number of goroutines used for profile aggregation",
	})

	// HTTP Performance Metrics - User experience indicators
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds (user experience)",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Enhanced Error Metrics - Detailed error tracking
	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByType = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_type_total",
			Help:      "Total number of errors by type",
		},
		[]string{"error_type", "severity"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.errorLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "error_latency_milliseconds",
			Help:      "Latency of operations that resulted in errors",
			Buckets:   m.histogramBuckets,
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordProfileBuilt increments the profiles built counter.
func RecordProfileBuilt() {
	globalManager.profilesBuilt.Inc()
}

// RecordRunScored increments the runs scored counter.
func RecordRunScored() {
	globalManager.runsScored.Inc()
}

// RecordResample increments the resample operations counter.
func RecordResample() {
	globalManager.resampleOps.Inc()
}

// RecordProfileBuildLatency records profile build latency in milliseconds.
func RecordProfileBuildLatency(latencyMs float64) {
	globalManager.buildLatency.Observe(latencyMs)
}

// RecordRunScoreLatency records run scoring latency in milliseconds.
func RecordRunScoreLatency(latencyMs float64) {
	globalManager.scoreLatency.Observe(latencyMs)
}

// RecordResampleLatency records resample latency in milliseconds.
func RecordResampleLatency(latencyMs float64) {
	globalManager.resampleLatency.Observe(latencyMs)
}

// RecordProfileBuildError increments the profile build errors counter.
func RecordProfileBuildError() {
	globalManager.buildErrors.Inc()
}

// RecordRunScoreError increments the run scoring errors counter.
func RecordRunScoreError() {
	globalManager.scoreErrors.Inc()
}

// RecordResampleError increments the resample errors counter.
func RecordResampleError() {
	globalManager.resampleErrors.Inc()
}

// RecordExtractionUnavailable increments the refused-extraction counter.
func RecordExtractionUnavailable() {
	globalManager.extractionUnavailable.Inc()
}

// ObserveRecordingFrames records the frame count of an input recording.
func ObserveRecordingFrames(frames int) {
	globalManager.recordingFrames.Observe(float64(frames))
}

// UpdateNormalizedFrameCount sets the frame count of the latest profile.
func UpdateNormalizedFrameCount(frames int) {
	globalManager.normalizedFrameCount.Set(float64(frames))
}

// UpdateRepresentativeDistance sets the representative distance of the latest profile.
func UpdateRepresentativeDistance(distance float64) {
	globalManager.representativeDistance.Set(distance)
}

// UpdateAggregationWorkers sets the number of aggregation goroutines.
func UpdateAggregationWorkers(count int) {
	globalManager.aggregationWorkers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Enhanced Error Metrics Functions.

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

// System Performance Metrics Functions.

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
