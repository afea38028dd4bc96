package metrics

import "github.com/prometheus/client_golang/prometheus"

// Platform source Prometheus metrics.
var (
	SourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerank",
			Name:      "source_requests_total",
			Help:      "Total number of platform API requests",
		},
		[]string{"source", "operation", "status"},
	)

	SourceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "dinerank",
			Name:      "source_request_duration_seconds",
			Help:      "Platform API request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"source", "operation"},
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerank",
			Name:      "search_cache_total",
			Help:      "Search result cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	AnalysisCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "dinerank",
			Name:      "analysis_cache_total",
			Help:      "Review analysis cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var sourceMetricsRegistered bool

// RegisterSourceMetrics registers platform source metrics. Must be called once from main.
func RegisterSourceMetrics() {
	if sourceMetricsRegistered {
		return
	}
	prometheus.MustRegister(SourceRequestsTotal)
	prometheus.MustRegister(SourceRequestDuration)
	prometheus.MustRegister(SearchCacheTotal)
	prometheus.MustRegister(AnalysisCacheTotal)
	sourceMetricsRegistered = true
}
