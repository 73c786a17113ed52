package metrics

import "github.com/prometheus/client_golang/prometheus"

// Entity recognizer Prometheus metrics.
var (
	RecognizerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "equisearch",
			Name:      "recognizer_requests_total",
			Help:      "Total number of entity recognition requests",
		},
		[]string{"provider", "status"},
	)

	RecognizerRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "equisearch",
			Name:      "recognizer_request_duration_seconds",
			Help:      "Entity recognition request duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"provider"},
	)

	RecognizerFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "equisearch",
			Name:      "recognizer_fallbacks_total",
			Help:      "Recognition requests served by the gazetteer after a provider failure",
		},
	)
)

var recognizerMetricsRegistered bool

// RegisterRecognizerMetrics registers Prometheus recognizer metrics. Must be called once from main.
func RegisterRecognizerMetrics() {
	if recognizerMetricsRegistered {
		return
	}
	prometheus.MustRegister(RecognizerRequestsTotal)
	prometheus.MustRegister(RecognizerRequestDuration)
	prometheus.MustRegister(RecognizerFallbacksTotal)
	recognizerMetricsRegistered = true
}
