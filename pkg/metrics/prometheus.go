// Package metrics provides Prometheus metrics for the novhub service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Lifecycle metrics
	applicationsSubmitted prometheus.Counter
	applicationsReviewed  *prometheus.CounterVec
	reviewsRepeated       prometheus.Counter
	bookingsCreated       *prometheus.CounterVec
	validationFailures    *prometheus.CounterVec
	logins                prometheus.Counter
	adminUnlocks          *prometheus.CounterVec
	duplicateSubmissions  prometheus.Counter
	applicationsTotal     prometheus.Gauge
	bookingsTotal         prometheus.Gauge

	// Store metrics
	storeOpLatency   *prometheus.HistogramVec
	storeErrors      *prometheus.CounterVec
	storeConflicts   prometheus.Counter
	malformedRecords *prometheus.CounterVec

	// Notification outbox metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDropped       *prometheus.CounterVec
	notificationsSent  *prometheus.CounterVec
	notificationErrors prometheus.Counter
	dispatchLatency    prometheus.Histogram
	workerCount        prometheus.Gauge

	// Upload simulation
	uploadsActive   prometheus.Gauge
	uploadsFinished *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec
	errorsByType        *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

var globalManager *Manager //nolint:gochecknoglobals // singleton used by the Record* helpers

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // keeps default Go collectors out of /metrics

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "novhub",
		subsystem:        "core",
		histogramBuckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000},
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	})
}

func (m *Manager) histogramVec(name, help string, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, Buckets: m.histogramBuckets,
	}, labels)
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	m.applicationsSubmitted = m.counter("applications_submitted_total", "Applications accepted into the pending state")
	m.applicationsReviewed = m.counterVec("applications_reviewed_total", "Admin decisions applied to pending applications", "decision")
	m.reviewsRepeated = m.counter("applications_review_repeated_total", "Admin decisions ignored because the application was already reviewed")
	m.bookingsCreated = m.counterVec("bookings_created_total", "Bookings created by kind", "kind")
	m.validationFailures = m.counterVec("validation_failures_total", "Submissions rejected by presence checks", "operation")
	m.logins = m.counter("logins_total", "Demo logins")
	m.adminUnlocks = m.counterVec("admin_unlock_attempts_total", "Admin passcode checks by outcome", "outcome")
	m.duplicateSubmissions = m.counter("duplicate_submissions_total", "Submissions rejected by the idempotency key tracker")
	m.applicationsTotal = m.gauge("applications", "Applications currently stored")
	m.bookingsTotal = m.gauge("bookings", "Bookings currently stored")

	m.storeOpLatency = m.histogramVec("store_operation_latency_milliseconds", "Key-value store latency by operation", "op")
	m.storeErrors = m.counterVec("store_errors_total", "Key-value store failures by operation", "op")
	m.storeConflicts = m.counter("store_conflicts_total", "Optimistic transactions that lost a race and were retried")
	m.malformedRecords = m.counterVec("malformed_records_total", "Persisted values that failed to decode and were treated as empty", "key")

	m.queueSize = m.gauge("notify_queue_size", "Notifications waiting for dispatch")
	m.queueCapacity = m.gauge("notify_queue_capacity", "Notification queue capacity")
	m.queueEnqueued = m.counter("notify_enqueued_total", "Notifications accepted by the queue")
	m.queueDropped = m.counterVec("notify_dropped_total", "Notifications dropped by reason", "reason")
	m.notificationsSent = m.counterVec("notifications_sent_total", "Notifications dispatched by kind", "kind")
	m.notificationErrors = m.counter("notification_errors_total", "Notifier failures")
	m.dispatchLatency = m.histogram("notify_dispatch_latency_milliseconds", "Time spent inside the notifier")
	m.workerCount = m.gauge("notify_workers", "Notification dispatch workers")

	m.uploadsActive = m.gauge("uploads_active", "Simulated uploads in progress")
	m.uploadsFinished = m.counterVec("uploads_finished_total", "Simulated uploads by outcome", "outcome")

	m.httpRequests = m.counterVec("http_requests_total", "HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration", "endpoint", "method", "status_code")
	m.errorsByEndpoint = m.counterVec("http_errors_by_endpoint_total", "HTTP errors by endpoint", "endpoint", "method", "error_type")
	m.errorsByType = m.counterVec("http_errors_by_type_total", "HTTP errors by type and severity", "error_type", "severity")

	m.systemMemoryUsage = m.gauge("system_memory_bytes", "Heap bytes allocated")
	m.systemGoroutineCount = m.gauge("system_goroutines", "Live goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_milliseconds", "Average GC pause")
}

// Lifecycle metrics.

// RecordApplicationSubmitted counts a newly created application.
func RecordApplicationSubmitted() { globalManager.applicationsSubmitted.Inc() }

// RecordApplicationReviewed counts an applied admin decision ("approved"/"rejected").
func RecordApplicationReviewed(status string) {
	globalManager.applicationsReviewed.WithLabelValues(status).Inc()
}

// RecordReviewRepeated counts a decision ignored on an already reviewed application.
func RecordReviewRepeated() { globalManager.reviewsRepeated.Inc() }

// RecordBookingCreated counts a booking of the given kind.
func RecordBookingCreated(kind string) { globalManager.bookingsCreated.WithLabelValues(kind).Inc() }

// RecordValidationFailure counts a rejected submission.
func RecordValidationFailure(operation string) {
	globalManager.validationFailures.WithLabelValues(operation).Inc()
}

// RecordLogin counts a demo login.
func RecordLogin() { globalManager.logins.Inc() }

// RecordAdminUnlock counts a passcode check.
func RecordAdminUnlock(ok bool) {
	outcome := "denied"
	if ok {
		outcome = "granted"
	}
	globalManager.adminUnlocks.WithLabelValues(outcome).Inc()
}

// RecordDuplicateSubmission counts a replayed idempotency key.
func RecordDuplicateSubmission() { globalManager.duplicateSubmissions.Inc() }

// UpdateApplicationsTotal sets the stored application count.
func UpdateApplicationsTotal(n int) { globalManager.applicationsTotal.Set(float64(n)) }

// UpdateBookingsTotal sets the stored booking count.
func UpdateBookingsTotal(n int) { globalManager.bookingsTotal.Set(float64(n)) }

// Store metrics.

// RecordStoreOperation observes the latency of a store call.
func RecordStoreOperation(op string, latencyMs float64) {
	globalManager.storeOpLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError counts a failed store call.
func RecordStoreError(op string) { globalManager.storeErrors.WithLabelValues(op).Inc() }

// RecordStoreConflict counts a retried optimistic transaction.
func RecordStoreConflict() { globalManager.storeConflicts.Inc() }

// RecordMalformedRecord counts a value under key that could not be decoded.
func RecordMalformedRecord(key string) { globalManager.malformedRecords.WithLabelValues(key).Inc() }

// Notification metrics.

// UpdateQueueSize sets the pending notification count.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts an accepted notification.
func RecordQueueEnqueue() { globalManager.queueEnqueued.Inc() }

// RecordQueueDrop counts a dropped notification.
func RecordQueueDrop(reason string) { globalManager.queueDropped.WithLabelValues(reason).Inc() }

// RecordNotificationSent counts a dispatched notification.
func RecordNotificationSent(kind string) {
	globalManager.notificationsSent.WithLabelValues(kind).Inc()
}

// RecordNotificationError counts a notifier failure.
func RecordNotificationError() { globalManager.notificationErrors.Inc() }

// RecordDispatchLatency observes time spent in the notifier.
func RecordDispatchLatency(latencyMs float64) { globalManager.dispatchLatency.Observe(latencyMs) }

// UpdateWorkerCount sets the number of dispatch workers.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// Upload metrics.

// UpdateUploadsActive sets the number of running simulated uploads.
func UpdateUploadsActive(n int) { globalManager.uploadsActive.Set(float64(n)) }

// RecordUploadFinished counts an upload by outcome (completed, canceled, rejected).
func RecordUploadFinished(outcome string) {
	globalManager.uploadsFinished.WithLabelValues(outcome).Inc()
}

// HTTP metrics.

// RecordHTTPRequest increments the HTTP request counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration observes an HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an HTTP error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorByType records an HTTP error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorsByType.WithLabelValues(errorType, severity).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets heap usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) { globalManager.systemMemoryUsage.Set(float64(bytes)) }

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) { globalManager.systemGCPauseTime.Observe(pauseMs) }

// GetRegistry returns the private registry served at /metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
