package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all dashboard service metrics
type Metrics struct {
	serviceName string
	registry    *prometheus.Registry

	// HTTP metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	// MongoDB metrics
	MongoDBOperations        *prometheus.CounterVec
	MongoDBOperationDuration *prometheus.HistogramVec
	MongoDBConnectionsOpen   prometheus.Gauge

	// Business metrics
	TasksCreated      *prometheus.CounterVec
	TasksCompleted    *prometheus.CounterVec
	MissingReports    *prometheus.CounterVec
	AuditsCompleted   *prometheus.CounterVec
	ScrapDispatchedKg *prometheus.CounterVec
	AnalyticsRuns     *prometheus.CounterVec
	AnalyticsDuration *prometheus.HistogramVec
	ReportsExported   *prometheus.CounterVec

	// Circuit breaker metrics
	CircuitBreakerState *prometheus.GaugeVec
	CircuitBreakerTrips *prometheus.CounterVec
}

// Config holds metrics configuration
type Config struct {
	ServiceName string
	Namespace   string
	Subsystem   string
}

// DefaultConfig returns default metrics configuration
func DefaultConfig(serviceName string) *Config {
	return &Config{
		ServiceName: serviceName,
		Namespace:   "warehouse",
		Subsystem:   serviceName,
	}
}

// New creates a new Metrics instance
func New(config *Config) *Metrics {
	registry := prometheus.NewRegistry()

	// Register standard Go metrics
	registry.MustRegister(prometheus.NewGoCollector())
	registry.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		serviceName: config.ServiceName,
		registry:    registry,
	}

	// HTTP metrics
	m.HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	m.HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"service", "method", "path"},
	)

	m.HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "http_requests_in_flight",
			Help:        "Number of HTTP requests currently being processed",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	// MongoDB metrics
	m.MongoDBOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operations_total",
			Help:      "Total number of MongoDB operations",
		},
		[]string{"service", "collection", "operation", "status"},
	)

	m.MongoDBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "mongodb_operation_duration_seconds",
			Help:      "MongoDB operation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "collection", "operation"},
	)

	m.MongoDBConnectionsOpen = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Name:        "mongodb_connections_open",
			Help:        "Number of open MongoDB connections",
			ConstLabels: prometheus.Labels{"service": config.ServiceName},
		},
	)

	// Business metrics
	m.TasksCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "tasks_created_total",
			Help:      "Total number of warehouse tasks created",
		},
		[]string{"service", "priority"},
	)

	m.TasksCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "tasks_completed_total",
			Help:      "Total number of warehouse tasks completed",
		},
		[]string{"service", "source"},
	)

	m.MissingReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "missing_reports_total",
			Help:      "Total number of missing-item reports filed",
		},
		[]string{"service"},
	)

	m.AuditsCompleted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "audits_completed_total",
			Help:      "Total number of missing-item audits completed",
		},
		[]string{"service", "result"},
	)

	m.ScrapDispatchedKg = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "scrap_dispatched_kilograms_total",
			Help:      "Total scrap weight dispatched in kilograms",
		},
		[]string{"service"},
	)

	m.AnalyticsRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "analytics_runs_total",
			Help:      "Total number of analytics aggregation runs",
		},
		[]string{"service", "view"},
	)

	m.AnalyticsDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: config.Namespace,
			Name:      "analytics_duration_seconds",
			Help:      "Analytics aggregation duration in seconds",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		},
		[]string{"service", "view"},
	)

	m.ReportsExported = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "reports_exported_total",
			Help:      "Total number of spreadsheet reports exported",
		},
		[]string{"service", "report"},
	)

	// Circuit breaker metrics
	m.CircuitBreakerState = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"service", "name"},
	)

	m.CircuitBreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: config.Namespace,
			Name:      "circuit_breaker_trips_total",
			Help:      "Total number of circuit breaker trips",
		},
		[]string{"service", "name"},
	)

	// Register all metrics
	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
		m.MongoDBOperations,
		m.MongoDBOperationDuration,
		m.MongoDBConnectionsOpen,
		m.TasksCreated,
		m.TasksCompleted,
		m.MissingReports,
		m.AuditsCompleted,
		m.ScrapDispatchedKg,
		m.AnalyticsRuns,
		m.AnalyticsDuration,
		m.ReportsExported,
		m.CircuitBreakerState,
		m.CircuitBreakerTrips,
	)

	return m
}

// Handler returns an HTTP handler for metrics endpoint
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the prometheus registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	statusStr := strconv.Itoa(status)
	m.HTTPRequestsTotal.WithLabelValues(m.serviceName, method, path, statusStr).Inc()
	m.HTTPRequestDuration.WithLabelValues(m.serviceName, method, path).Observe(duration.Seconds())
}

// RecordMongoDBOperation records a MongoDB operation
func (m *Metrics) RecordMongoDBOperation(collection, operation string, success bool, duration time.Duration) {
	status := "success"
	if !success {
		status = "error"
	}
	m.MongoDBOperations.WithLabelValues(m.serviceName, collection, operation, status).Inc()
	m.MongoDBOperationDuration.WithLabelValues(m.serviceName, collection, operation).Observe(duration.Seconds())
}

// SetMongoDBConnections sets the number of open MongoDB connections
func (m *Metrics) SetMongoDBConnections(count int) {
	m.MongoDBConnectionsOpen.Set(float64(count))
}

// RecordTaskCreated records a task creation
func (m *Metrics) RecordTaskCreated(priority string) {
	m.TasksCreated.WithLabelValues(m.serviceName, priority).Inc()
}

// RecordTaskCompleted records a task completion
func (m *Metrics) RecordTaskCompleted(source string) {
	m.TasksCompleted.WithLabelValues(m.serviceName, source).Inc()
}

// RecordMissingReport records a missing-item report
func (m *Metrics) RecordMissingReport() {
	m.MissingReports.WithLabelValues(m.serviceName).Inc()
}

// RecordAuditCompleted records a finished missing-item audit
func (m *Metrics) RecordAuditCompleted(result string) {
	m.AuditsCompleted.WithLabelValues(m.serviceName, result).Inc()
}

// RecordScrapDispatched records the net weight of a scrap export
func (m *Metrics) RecordScrapDispatched(kilograms float64) {
	m.ScrapDispatchedKg.WithLabelValues(m.serviceName).Add(kilograms)
}

// RecordAnalyticsRun records one analytics aggregation pass
func (m *Metrics) RecordAnalyticsRun(view string, duration time.Duration) {
	m.AnalyticsRuns.WithLabelValues(m.serviceName, view).Inc()
	m.AnalyticsDuration.WithLabelValues(m.serviceName, view).Observe(duration.Seconds())
}

// RecordReportExported records a spreadsheet export
func (m *Metrics) RecordReportExported(report string) {
	m.ReportsExported.WithLabelValues(m.serviceName, report).Inc()
}

// SetCircuitBreakerState sets the circuit breaker state
func (m *Metrics) SetCircuitBreakerState(name string, state int) {
	m.CircuitBreakerState.WithLabelValues(m.serviceName, name).Set(float64(state))
}

// RecordCircuitBreakerTrip records a circuit breaker trip
func (m *Metrics) RecordCircuitBreakerTrip(name string) {
	m.CircuitBreakerTrips.WithLabelValues(m.serviceName, name).Inc()
}

// IncrementHTTPRequestsInFlight increments in-flight requests
func (m *Metrics) IncrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Inc()
}

// DecrementHTTPRequestsInFlight decrements in-flight requests
func (m *Metrics) DecrementHTTPRequestsInFlight() {
	m.HTTPRequestsInFlight.Dec()
}
