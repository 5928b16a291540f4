package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RPCCallsTotal tracks ledger RPC calls per provider and method
	RPCCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warroom_rpc_calls_total",
			Help: "Total number of ledger RPC calls",
		},
		[]string{"provider", "method"},
	)

	// RPCErrorsTotal tracks ledger RPC errors per provider
	RPCErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warroom_rpc_errors_total",
			Help: "Total number of ledger RPC errors",
		},
		[]string{"provider", "error_type"},
	)

	// RPCLatency tracks ledger RPC call latency
	RPCLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warroom_rpc_latency_seconds",
			Help:    "Ledger RPC call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"provider", "method"},
	)

	// VerificationsTotal tracks holder checks by outcome
	VerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warroom_verifications_total",
			Help: "Total number of holder verifications",
		},
		[]string{"outcome"},
	)

	// MessagesPosted tracks messages accepted into the store
	MessagesPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warroom_messages_posted_total",
			Help: "Total number of messages stored",
		},
		[]string{"backend"},
	)

	// PostRejections tracks rejected posts by reason
	PostRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warroom_post_rejections_total",
			Help: "Total number of rejected posts",
		},
		[]string{"reason"},
	)

	// BroadcastFailures tracks realtime fan-out failures
	BroadcastFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "warroom_broadcast_failures_total",
			Help: "Total number of failed realtime broadcasts",
		},
	)

	// RealtimeClients tracks connected websocket subscribers
	RealtimeClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warroom_realtime_clients",
			Help: "Number of connected realtime clients",
		},
	)

	// DBConnectionPoolUsage tracks open postgres connections as a percentage of the pool
	DBConnectionPoolUsage = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warroom_db_connection_pool_usage_percent",
			Help: "Database connection pool usage percentage",
		},
	)
)
