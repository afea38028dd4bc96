package metrics

import "github.com/prometheus/client_golang/prometheus"

// Narrative generation Prometheus metrics.
var (
	NarrativeRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerank",
			Name:      "narrative_requests_total",
			Help:      "Total number of narrative generation requests",
		},
		[]string{"provider", "model", "status"},
	)

	NarrativeRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinerank",
			Name:      "narrative_request_duration_seconds",
			Help:      "Narrative generation request duration in seconds",
			Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	NarrativeTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerank",
			Name:      "narrative_tokens_total",
			Help:      "Total narrative generation tokens consumed",
		},
		[]string{"provider", "model", "type"},
	)

	NarrativeCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerank",
			Name:      "narrative_cache_total",
			Help:      "Narrative cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var narrativeMetricsRegistered bool

// RegisterNarrativeMetrics registers narrative metrics. Must be called once from main.
func RegisterNarrativeMetrics() {
	if narrativeMetricsRegistered {
		return
	}
	prometheus.MustRegister(NarrativeRequestsTotal)
	prometheus.MustRegister(NarrativeRequestDuration)
	prometheus.MustRegister(NarrativeTokensTotal)
	prometheus.MustRegister(NarrativeCacheTotal)
	narrativeMetricsRegistered = true
}
