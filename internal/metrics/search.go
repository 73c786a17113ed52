package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equisearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests",
		},
		[]string{"scope", "status"}, // scope: tenant / marketplace / dual
	)

	SearchRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "equisearch",
			Name:      "search_request_duration_seconds",
			Help:      "Search request duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"scope"},
	)

	MarketplaceFallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equisearch",
			Name:      "marketplace_fallbacks_total",
			Help:      "Marketplace suggestion searches triggered by thin tenant results",
		},
		[]string{"reason"}, // "low_count" / "missing_spec"
	)

	InsightsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equisearch",
			Name:      "insights_generated_total",
			Help:      "Total insights attached to search responses",
		},
		[]string{"type"}, // "spec_deviation" / "price_deviation"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchRequestDuration)
	prometheus.MustRegister(MarketplaceFallbacksTotal)
	prometheus.MustRegister(InsightsGeneratedTotal)
	searchMetricsRegistered = true
}
