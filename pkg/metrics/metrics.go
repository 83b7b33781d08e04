// Package metrics defines the Prometheus collectors exported by the
// gravec server. Collectors register themselves via promauto; importing
// the package is enough to make them visible on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts requests by method, path and status code.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gravec_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures server response time per path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gravec_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// NodesTotal tracks the number of nodes currently stored.
	NodesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gravec_nodes_total",
			Help: "Number of nodes in the store",
		},
	)

	// EdgesTotal tracks the number of edges currently stored.
	EdgesTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "gravec_edges_total",
			Help: "Number of edges in the store",
		},
	)

	// SearchesTotal counts search operations by kind (vector, graph,
	// hybrid).
	SearchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gravec_searches_total",
			Help: "Total number of search operations executed",
		},
		[]string{"kind"},
	)

	// IngestedChunksTotal counts chunks created through ingestion.
	IngestedChunksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gravec_ingested_chunks_total",
			Help: "Total number of text chunks ingested",
		},
	)
)

// SetStoreSize updates the node and edge gauges in one call.
func SetStoreSize(nodes, edges int) {
	NodesTotal.Set(float64(nodes))
	EdgesTotal.Set(float64(edges))
}
