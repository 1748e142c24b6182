// Package metrics exposes the dashboard service's Prometheus metrics:
// served API requests, upstream API calls, view cache lookups, single-flight
// sharing and session transitions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"
)

// Metric names without namespace
const (
	MetricUpstreamRequestsTotal   = "upstream_requests_total"
	MetricUpstreamDurationSeconds = "upstream_request_duration_seconds"
	MetricCacheLookupsTotal       = "cache_lookups_total"
	MetricSingleFlightTotal       = "singleflight_requests_total"
	MetricSessionTransitionsTotal = "session_transitions_total"
	MetricHTTPRequestsTotal       = "http_requests_total"
	MetricHTTPDurationSeconds     = "http_request_duration_seconds"
)

// Config holds collector configuration
type Config struct {
	// Namespace is the prefix for all metrics.
	// Default: "easm_dashboard"
	Namespace string

	// HistogramBuckets are the buckets for upstream request duration.
	// Default: prometheus.DefBuckets
	HistogramBuckets []float64
}

// Collector owns a private registry so tests and multiple instances never
// collide on the global one.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	upstreamRequests   *prometheus.CounterVec
	upstreamDuration   *prometheus.HistogramVec
	cacheLookups       *prometheus.CounterVec
	singleFlight       *prometheus.CounterVec
	sessionTransitions *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewCollector creates a collector with its own registry
func NewCollector(cfg Config) *Collector {
	if cfg.Namespace == "" {
		cfg.Namespace = "easm_dashboard"
	}
	if len(cfg.HistogramBuckets) == 0 {
		cfg.HistogramBuckets = prometheus.DefBuckets
	}

	c := &Collector{
		config:   cfg,
		registry: prometheus.NewRegistry(),
	}
	c.initMetrics()
	return c
}

func (c *Collector) initMetrics() {
	c.upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      MetricUpstreamRequestsTotal,
			Help:      "Requests sent to the asset-discovery backend by endpoint and outcome.",
		},
		[]string{"endpoint", "status", "outcome"},
	)

	c.upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.config.Namespace,
			Name:      MetricUpstreamDurationSeconds,
			Help:      "Duration of requests to the asset-discovery backend in seconds.",
			Buckets:   c.config.HistogramBuckets,
		},
		[]string{"endpoint"},
	)

	c.cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      MetricCacheLookupsTotal,
			Help:      "View cache lookups by cache and result (hit or miss).",
		},
		[]string{"cache", "result"},
	)

	c.singleFlight = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      MetricSingleFlightTotal,
			Help:      "Callers that waited on a single-flight fetch, by whether the result was shared.",
		},
		[]string{"resource", "shared"},
	)

	c.sessionTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      MetricSessionTransitionsTotal,
			Help:      "Session state transitions by target state.",
		},
		[]string{"state"},
	)

	c.httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: c.config.Namespace,
			Name:      MetricHTTPRequestsTotal,
			Help:      "API requests served by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	c.httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: c.config.Namespace,
			Name:      MetricHTTPDurationSeconds,
			Help:      "Duration of served API requests in seconds.",
			Buckets:   c.config.HistogramBuckets,
		},
		[]string{"method", "route"},
	)

	c.registry.MustRegister(
		c.httpRequests,
		c.httpDuration,
		c.upstreamRequests,
		c.upstreamDuration,
		c.cacheLookups,
		c.singleFlight,
		c.sessionTransitions,
	)
}

// RecordHTTPRequest records one served request. route is the matched
// route pattern, never the raw path.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordUpstream records one upstream call. status is 0 for transport failures.
func (c *Collector) RecordUpstream(endpoint string, status int, outcome string, elapsed time.Duration) {
	c.upstreamRequests.WithLabelValues(endpoint, strconv.Itoa(status), outcome).Inc()
	c.upstreamDuration.WithLabelValues(endpoint).Observe(elapsed.Seconds())
}

// RecordCacheLookup records a view cache hit or miss
func (c *Collector) RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	c.cacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordSingleFlight records a caller served by a single-flight fetch
func (c *Collector) RecordSingleFlight(resource string, shared bool) {
	c.singleFlight.WithLabelValues(resource, strconv.FormatBool(shared)).Inc()
}

// RecordSessionTransition records a session state change
func (c *Collector) RecordSessionTransition(state string) {
	c.sessionTransitions.WithLabelValues(state).Inc()
}

// Handler returns the /metrics handler for this registry
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry returns the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Gather returns all metric families
func (c *Collector) Gather() ([]*dto.MetricFamily, error) {
	return c.registry.Gather()
}

// CounterValue sums the counter samples of the named metric whose labels
// include every pair in labels. Unknown metrics yield 0.
func (c *Collector) CounterValue(name string, labels map[string]string) float64 {
	families, err := c.registry.Gather()
	if err != nil {
		return 0
	}
	fullName := prometheus.BuildFQName(c.config.Namespace, "", name)

	var total float64
	for _, mf := range families {
		if mf.GetName() != fullName {
			continue
		}
		for _, m := range mf.GetMetric() {
			if matchLabels(m.GetLabel(), labels) && m.GetCounter() != nil {
				total += m.GetCounter().GetValue()
			}
		}
	}
	return total
}

func matchLabels(pairs []*dto.LabelPair, want map[string]string) bool {
	for k, v := range want {
		found := false
		for _, p := range pairs {
			if p.GetName() == k && p.GetValue() == v {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
