// Package observability exposes the service's Prometheus metrics.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kimtaewoo9/mansereok/application/queries/bus"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Business metrics
	ChartsComputed *prometheus.CounterVec

	// Query bus metrics
	Queries       *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Almanac metrics
	AlmanacOperations *prometheus.CounterVec
	AlmanacDuration   *prometheus.HistogramVec
	AlmanacRecords    prometheus.Gauge
	BreakerState      *prometheus.GaugeVec

	// Cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// NewCollector creates a collector with its own registry, so several
// instances can live in one process.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		ChartsComputed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "charts_computed_total",
			Help:      "Total number of charts computed",
		}, []string{"calendar", "direction"}),
		Queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of dispatched queries",
		}, []string{"metric", "query"}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query handler duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		AlmanacOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "almanac_operations_total",
			Help:      "Total number of almanac lookups",
		}, []string{"operation", "status"}),
		AlmanacDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "almanac_operation_duration_seconds",
			Help:      "Almanac lookup duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"operation"}),
		AlmanacRecords: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "almanac_records",
			Help:      "Number of records in the loaded almanac",
		}),
		BreakerState: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "circuit_breaker_state",
			Help:      "Circuit breaker state (0 closed, 1 half-open, 2 open)",
		}, []string{"name"}),
		CacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Total number of cache hits",
		}),
		CacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_misses_total",
			Help:      "Total number of cache misses",
		}),
	}

	c.registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.ChartsComputed,
		c.Queries,
		c.QueryDuration,
		c.AlmanacOperations,
		c.AlmanacDuration,
		c.AlmanacRecords,
		c.BreakerState,
		c.CacheHits,
		c.CacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// RecordHTTPRequest records one served request.
func (c *Collector) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, status).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordChart counts a computed chart.
func (c *Collector) RecordChart(calendar, direction string) {
	c.ChartsComputed.WithLabelValues(calendar, direction).Inc()
}

// RecordAlmanacOperation records one almanac lookup and its outcome.
func (c *Collector) RecordAlmanacOperation(operation, status string, duration time.Duration) {
	c.AlmanacOperations.WithLabelValues(operation, status).Inc()
	c.AlmanacDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// SetBreakerState publishes a circuit breaker's state as a number.
func (c *Collector) SetBreakerState(name string, state int) {
	c.BreakerState.WithLabelValues(name).Set(float64(state))
}

// SetAlmanacRecords publishes the size of the loaded almanac.
func (c *Collector) SetAlmanacRecords(n int) {
	c.AlmanacRecords.Set(float64(n))
}

// RecordCache counts a cache hit or miss.
func (c *Collector) RecordCache(hit bool) {
	if hit {
		c.CacheHits.Inc()
		return
	}
	c.CacheMisses.Inc()
}

// Increment counts a query bus event such as query_count or query_errors.
func (c *Collector) Increment(metric, label string) {
	c.Queries.WithLabelValues(metric, label).Inc()
}

// StartTimer starts timing a query handler.
func (c *Collector) StartTimer(metric, label string) bus.Timer {
	return &Timer{
		observer: c.QueryDuration.WithLabelValues(label),
		start:    time.Now(),
	}
}

// Timer observes the elapsed time into a histogram when stopped.
type Timer struct {
	observer prometheus.Observer
	start    time.Time
}

// Stop records the duration since the timer started.
func (t *Timer) Stop() {
	t.observer.Observe(time.Since(t.start).Seconds())
}
