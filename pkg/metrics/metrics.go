// Package metrics exposes Prometheus collectors for the builder, the
// worker and the API server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const DefaultNamespace = "jad"

// Collector holds every metric of one process. Each collector owns its
// registry, so tests can create as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// build metrics
	BuildsTotal       *prometheus.CounterVec
	BuildDuration     prometheus.Histogram
	GraphsBuilt       prometheus.Counter
	GraphNodes        prometheus.Histogram
	DanglingRefs      prometheus.Counter
	PassagesPublished prometheus.Gauge

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// cache metrics
	CacheHits   prometheus.Counter
	CacheMisses prometheus.Counter
}

// New creates a collector with the given namespace. An empty namespace
// uses DefaultNamespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		registry: prometheus.NewRegistry(),
		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "builds_total",
				Help:      "Total number of build runs by outcome",
			},
			[]string{"status"},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "build_duration_seconds",
				Help:      "Duration of a full build run in seconds",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 30, 60, 120, 300},
			},
		),
		GraphsBuilt: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "graphs_built_total",
				Help:      "Total number of transmission graphs built",
			},
		),
		GraphNodes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "graph_nodes",
				Help:      "Number of nodes per transmission graph",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
			},
		),
		DanglingRefs: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "dangling_references_total",
				Help:      "Total number of source references that did not resolve to a passage",
			},
		),
		PassagesPublished: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "passages_published",
				Help:      "Number of passages written by the last build",
			},
		),
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_hits_total",
				Help:      "Total number of graph cache hits",
			},
		),
		CacheMisses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_misses_total",
				Help:      "Total number of graph cache misses",
			},
		),
	}

	c.registry.MustRegister(
		c.BuildsTotal,
		c.BuildDuration,
		c.GraphsBuilt,
		c.GraphNodes,
		c.DanglingRefs,
		c.PassagesPublished,
		c.HTTPRequests,
		c.HTTPDuration,
		c.CacheHits,
		c.CacheMisses,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return c
}

func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveBuild records the outcome of one build run.
func (c *Collector) ObserveBuild(started time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.BuildsTotal.WithLabelValues(status).Inc()
	c.BuildDuration.Observe(time.Since(started).Seconds())
}

// ObserveGraph records the size of one built graph.
func (c *Collector) ObserveGraph(nodes, dangling int) {
	c.GraphsBuilt.Inc()
	c.GraphNodes.Observe(float64(nodes))
	if dangling > 0 {
		c.DanglingRefs.Add(float64(dangling))
	}
}

// ObserveHTTP records one served request.
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, http.StatusText(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
