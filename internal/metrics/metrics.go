// Package metrics defines Prometheus metrics for the visit graph server.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "visitgraph_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visitgraph_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	ErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visitgraph_errors_total",
			Help: "Total errors by type",
		},
		[]string{"type"},
	)

	GraphLoads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "visitgraph_graph_loads_total",
			Help: "Graph lookups by cache outcome",
		},
		[]string{"outcome"},
	)

	RenderDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "visitgraph_render_duration_seconds",
			Help:    "Time spent laying out and encoding a graph as SVG",
			Buckets: prometheus.DefBuckets,
		},
	)

	RenderedNodes = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "visitgraph_rendered_nodes",
			Help: "Circles drawn by the most recent render",
		},
	)

	SkippedNodes = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "visitgraph_skipped_nodes_total",
			Help: "Malformed nodes skipped while rendering",
		},
	)

	CachedGraphs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "visitgraph_cached_graphs",
			Help: "Analyzed graphs held in the cache",
		},
	)

	WSConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "visitgraph_websocket_connections",
			Help: "Active WebSocket connections",
		},
	)
)

func init() {
	prometheus.MustRegister(
		RequestDuration, RequestsTotal, ErrorsTotal,
		GraphLoads, RenderDuration, RenderedNodes, SkippedNodes,
		CachedGraphs, WSConnections,
	)
}
