package core

import "github.com/prometheus/client_golang/prometheus"

// Metrics used in monitoring service.
var (
	rpcRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of JSON-RPC requests sent to the node",
			Name:      "rpc_requests_total",
			Namespace: "chainstate",
		},
		[]string{"method"},
	)

	rpcErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Help:      "Number of failed JSON-RPC requests",
			Name:      "rpc_errors_total",
			Namespace: "chainstate",
		},
		[]string{"method"},
	)

	rpcDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Help:      "JSON-RPC request duration",
			Name:      "rpc_request_duration_seconds",
			Namespace: "chainstate",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	watcherHeight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Help:      "Height of the last block handed to subscribers",
			Name:      "watcher_height",
			Namespace: "chainstate",
		},
	)
)

func init() {
	prometheus.MustRegister(
		rpcRequests,
		rpcErrors,
		rpcDuration,
		watcherHeight,
	)
}
