package metrics

import "github.com/prometheus/client_golang/prometheus"

// Retrieval Prometheus metrics.
var (
	RetrievalQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "faqdex",
			Name:      "retrieval_queries_total",
			Help:      "Total retrieval queries by guidance outcome",
		},
		[]string{"outcome"}, // "ok" / "narrow" / "no_match" / "no_query" / "error"
	)

	RetrievalMatchCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "faqdex",
			Name:      "retrieval_match_count",
			Help:      "Number of matches at or above the score threshold per query",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var retrievalMetricsRegistered bool

// RegisterRetrievalMetrics registers Prometheus retrieval metrics. Must be called once from main.
func RegisterRetrievalMetrics() {
	if retrievalMetricsRegistered {
		return
	}
	prometheus.MustRegister(RetrievalQueriesTotal)
	prometheus.MustRegister(RetrievalMatchCount)
	retrievalMetricsRegistered = true
}
