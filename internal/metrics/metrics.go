package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// IndexerRequestsTotal counts indexing API calls by method, chain and status
	IndexerRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_indexer_requests_total",
			Help: "Total number of indexing API requests",
		},
		[]string{"method", "chain", "status"},
	)

	// IndexerRequestDuration tracks indexing API latency
	IndexerRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_indexer_request_duration_seconds",
			Help:    "Indexing API request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "chain"},
	)

	// IndexerClients tracks how many per-chain clients the pool holds
	IndexerClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_indexer_clients",
			Help: "Number of cached indexing API clients",
		},
	)

	// AggregationsTotal counts aggregation calls by query and outcome
	AggregationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_aggregations_total",
			Help: "Total number of aggregation calls",
		},
		[]string{"query", "outcome"},
	)

	// AggregationResultSize tracks the number of records returned per aggregation
	AggregationResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_aggregation_result_size",
			Help:    "Number of records returned by an aggregation",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
		[]string{"query"},
	)

	// MetadataFallbacksTotal counts tokens rendered with placeholder metadata
	MetadataFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_token_metadata_fallbacks_total",
			Help: "Total number of token metadata lookups replaced by placeholders",
		},
	)

	// QueryCacheTotal counts query cache lookups by query and result (hit, miss, shared)
	QueryCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_query_cache_total",
			Help: "Total number of query cache lookups",
		},
		[]string{"query", "result"},
	)
)
