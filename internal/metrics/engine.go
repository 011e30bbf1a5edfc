package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "mindsync"

// Retrieval and indexing Prometheus metrics.
var (
	RetrievalDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Time to rank one user's journal for a query",
			Buckets:   []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	RetrievalRecordsScanned = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_records_scanned",
			Help:      "Records compared per retrieval",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
	)

	RetrievalWeightingTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "retrieval_weighting_total",
			Help:      "Retrievals by weighting mode",
		},
		[]string{"mode"}, // "keyword" / "semantic"
	)

	EmbeddingDimMismatchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "embedding_dimension_mismatch_total",
			Help:      "Stored embeddings whose length differs from the encoder dimension",
		},
	)

	IndexOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_operations_total",
			Help:      "Index maintenance operations",
		},
		[]string{"op", "status"},
	)

	ResponderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responder_requests_total",
			Help:      "Answer generation requests",
		},
		[]string{"provider", "status"},
	)

	ResponderTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "responder_tokens_total",
			Help:      "Tokens consumed by the language-model responder",
		},
		[]string{"provider", "type"},
	)
)

var registerOnce sync.Once

// Register registers all Prometheus metrics with the default registry. Called once from main.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			RetrievalDuration,
			RetrievalRecordsScanned,
			RetrievalWeightingTotal,
			EmbeddingDimMismatchTotal,
			IndexOperationsTotal,
			ResponderRequestsTotal,
			ResponderTokensTotal,
		)
	})
}
