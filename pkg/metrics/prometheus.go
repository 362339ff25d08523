// Package metrics provides Prometheus metrics for the roster service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	namespace              = "roster"
	defaultRefreshInterval = 10 * time.Second
)

// Source outcomes used as label values.
const (
	OutcomeOK          = "ok"
	OutcomeFetchError  = "fetch_error"
	OutcomeSchemaError = "schema_error"
)

// Manager manages all Prometheus metrics for the roster service.
type Manager struct {
	enabled         bool
	refreshInterval time.Duration
	customLabels    map[string]string
	registry        prometheus.Registerer

	// Ingestion Metrics
	ingestRuns          prometheus.Counter
	ingestDuration      prometheus.Histogram
	sourceOutcomes      *prometheus.CounterVec
	sourceRows          *prometheus.CounterVec
	sourceRowsSkipped   *prometheus.CounterVec
	sourceParticipants  *prometheus.GaugeVec
	participantsTotal   prometheus.Gauge
	ingestRetained      prometheus.Counter
	fetchLatency        *prometheus.HistogramVec
	fetchProxyFallbacks prometheus.Counter

	// Query Metrics
	queries         *prometheus.CounterVec
	queryLatency    prometheus.Histogram
	queryResultSize prometheus.Histogram
	embedResolved   *prometheus.CounterVec

	// Snapshot Metrics - Roster store publication
	snapshotRebuildDuration prometheus.Histogram
	snapshotLastUnix        prometheus.Gauge
	snapshotCount           prometheus.Counter
	snapshotVersion         prometheus.Gauge

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
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

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Configure replaces the global manager with one built from opts on a fresh
// registry. It must run before anything records or serves metrics.
func Configure(opts ...Option) {
	registry := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(registry))...)
	customRegistry = registry
}

// active returns the global manager, or nil when metrics are disabled.
func active() *Manager {
	if !globalManager.enabled {
		return nil
	}
	return globalManager
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		customLabels:    make(map[string]string),
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)
	latencyBuckets := []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}

	m.ingestRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "ingest_runs_total",
		Help: "Total number of ingestion runs",
	})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "ingest_duration_milliseconds",
		Help:    "Duration of a full ingestion run across all sources",
		Buckets: latencyBuckets,
	})

	m.sourceOutcomes = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "source_ingest_total",
		Help: "Source ingestions by outcome (ok, fetch_error, schema_error)",
	}, []string{"source", "outcome"})

	m.sourceRows = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "source_rows_total",
		Help: "Data rows read per source",
	}, []string{"source"})

	m.sourceRowsSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "source_rows_skipped_total",
		Help: "Data rows dropped for a blank name, per source",
	}, []string{"source"})

	m.sourceParticipants = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "source_participants",
		Help: "Participants contributed by each source in the last run",
	}, []string{"source"})

	m.participantsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "participants_total",
		Help: "Participants in the published roster",
	})

	m.ingestRetained = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "ingest_retained_total",
		Help: "Runs where every source failed and the previous roster was kept",
	})

	m.fetchLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "fetch_latency_milliseconds",
		Help:    "Latency of fetching raw source text",
		Buckets: latencyBuckets,
	}, []string{"scheme", "outcome"})

	m.fetchProxyFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "fetch_proxy_fallbacks_total",
		Help: "Fetches that fell back to the proxy after a direct failure",
	})

	m.queries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "queries_total",
		Help: "Roster queries by view",
	}, []string{"view"})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "query_latency_milliseconds",
		Help:    "Roster query latency in milliseconds",
		Buckets: prometheus.DefBuckets,
	})

	m.queryResultSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "query_result_size",
		Help:    "Number of participants returned per query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500, 1000},
	})

	m.embedResolved = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "embed_resolved_total",
		Help: "Video references resolved by descriptor kind",
	}, []string{"kind"})

	m.snapshotRebuildDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "snapshot_rebuild_duration_milliseconds",
		Help:    "Time to build and publish a roster snapshot",
		Buckets: prometheus.DefBuckets,
	})

	m.snapshotLastUnix = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "snapshot_last_unix_seconds",
		Help: "Unix time of the last published roster snapshot",
	})

	m.snapshotCount = auto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "snapshots_total",
		Help: "Total number of roster snapshots published",
	})

	m.snapshotVersion = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "snapshot_version",
		Help: "Version of the currently published roster snapshot",
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "http_requests_total",
		Help: "Total number of HTTP requests by endpoint and method",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "http_request_duration_milliseconds",
		Help:    "HTTP request duration in milliseconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "errors_by_component_total",
		Help: "Errors by component and type",
	}, []string{"component", "error_type"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "errors_by_type_total",
		Help: "Errors by type and severity",
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "errors_by_endpoint_total",
		Help: "Errors by HTTP endpoint",
	}, []string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "error_latency_milliseconds",
		Help:    "Latency of failed operations in milliseconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "system_memory_usage_bytes",
		Help: "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name: "system_goroutine_count",
		Help: "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace, ConstLabels: constLabels,
		Name:    "system_gc_pause_time_milliseconds",
		Help:    "GC pause time in milliseconds",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// Ingestion Metrics Functions.

// RecordIngestRun records one ingestion run and its duration.
func RecordIngestRun(durationMs float64) {
	m := active()
	if m == nil {
		return
	}
	m.ingestRuns.Inc()
	m.ingestDuration.Observe(durationMs)
}

// RecordSourceOutcome counts the outcome of ingesting one source.
func RecordSourceOutcome(source, outcome string) {
	m := active()
	if m == nil {
		return
	}
	m.sourceOutcomes.WithLabelValues(source, outcome).Inc()
}

// RecordSourceRows records rows read, rows skipped and participants produced by a source.
func RecordSourceRows(source string, rows, skipped, participants int) {
	m := active()
	if m == nil {
		return
	}
	m.sourceRows.WithLabelValues(source).Add(float64(rows))
	m.sourceRowsSkipped.WithLabelValues(source).Add(float64(skipped))
	m.sourceParticipants.WithLabelValues(source).Set(float64(participants))
}

// UpdateParticipantsTotal sets the size of the published roster.
func UpdateParticipantsTotal(count int) {
	m := active()
	if m == nil {
		return
	}
	m.participantsTotal.Set(float64(count))
}

// RecordIngestRetained counts runs that kept the previous roster.
func RecordIngestRetained() {
	m := active()
	if m == nil {
		return
	}
	m.ingestRetained.Inc()
}

// RecordFetchLatency records how long fetching a source took.
func RecordFetchLatency(scheme, outcome string, latencyMs float64) {
	m := active()
	if m == nil {
		return
	}
	m.fetchLatency.WithLabelValues(scheme, outcome).Observe(latencyMs)
}

// RecordFetchProxyFallback counts a direct fetch failure retried through the proxy.
func RecordFetchProxyFallback() {
	m := active()
	if m == nil {
		return
	}
	m.fetchProxyFallbacks.Inc()
}

// Query Metrics Functions.

// RecordQuery records one roster query.
func RecordQuery(view string, latencyMs float64, results int) {
	m := active()
	if m == nil {
		return
	}
	m.queries.WithLabelValues(view).Inc()
	m.queryLatency.Observe(latencyMs)
	m.queryResultSize.Observe(float64(results))
}

// RecordEmbedResolved counts a resolved video reference by descriptor kind.
func RecordEmbedResolved(kind string) {
	m := active()
	if m == nil {
		return
	}
	m.embedResolved.WithLabelValues(kind).Inc()
}

// Snapshot Metrics Functions.

// RecordSnapshotPublished records a roster snapshot publication.
func RecordSnapshotPublished(version uint64, rebuildMs float64, at time.Time) {
	m := active()
	if m == nil {
		return
	}
	m.snapshotCount.Inc()
	m.snapshotRebuildDuration.Observe(rebuildMs)
	m.snapshotLastUnix.Set(float64(at.Unix()))
	m.snapshotVersion.Set(float64(version))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	m := active()
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	m := active()
	if m == nil {
		return
	}
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error for a specific component.
func RecordErrorByComponent(component, errorType string) {
	m := active()
	if m == nil {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	m := active()
	if m == nil {
		return
	}
	m.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error for a specific HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	m := active()
	if m == nil {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed operation.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	m := active()
	if m == nil {
		return
	}
	m.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// System Metrics Functions.

// UpdateSystemMemoryUsage sets the current memory usage.
func UpdateSystemMemoryUsage(bytes uint64) {
	m := active()
	if m == nil {
		return
	}
	m.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the current goroutine count.
func UpdateSystemGoroutineCount(count int) {
	m := active()
	if m == nil {
		return
	}
	m.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	m := active()
	if m == nil {
		return
	}
	m.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// RefreshInterval returns how often gauge-style system metrics should be sampled.
func RefreshInterval() time.Duration {
	return globalManager.refreshInterval
}
