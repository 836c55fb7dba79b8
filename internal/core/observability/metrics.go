package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	upstreamLatencySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "overpass_query_duration_seconds",
			Help:    "Latency of Overpass context queries in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms to ~20s
		},
		[]string{"category"},
	)

	fetchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "context_fetch_total",
			Help: "Context fetches by category and outcome.",
		},
		[]string{"category", "outcome"},
	)

	layerFeatures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "context_layer_features",
			Help: "Feature count per context layer for the last run.",
		},
		[]string{"category"},
	)

	cacheResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_results_total",
			Help: "Cache results by outcome.",
		},
		[]string{"outcome"},
	)

	cacheOpSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cache_op_duration_seconds",
			Help:    "Duration of cache store operations in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		},
		[]string{"op", "status"},
	)

	stageSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of pipeline stages in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
		[]string{"stage"},
	)

	buildInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_build_info",
			Help: "Build information for the binary.",
		},
		[]string{"version"},
	)
)

func ObserveUpstreamLatency(category string, durationSeconds float64) {
	upstreamLatencySeconds.WithLabelValues(category).Observe(durationSeconds)
}

// outcome is one of ok, empty, degraded, cached.
func IncFetchOutcome(category, outcome string) {
	fetchOutcomes.WithLabelValues(category, outcome).Inc()
}

func SetLayerFeatures(category string, n int) {
	layerFeatures.WithLabelValues(category).Set(float64(n))
}

func IncCacheHit()  { cacheResults.WithLabelValues("hit").Inc() }
func IncCacheMiss() { cacheResults.WithLabelValues("miss").Inc() }

func ObserveCacheOp(op string, err error, durationSeconds float64) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	cacheOpSeconds.WithLabelValues(op, status).Observe(durationSeconds)
}

func ObserveStage(stage string, durationSeconds float64) {
	stageSeconds.WithLabelValues(stage).Observe(durationSeconds)
}

func ExposeBuildInfo(version string) {
	if version == "" {
		version = "dev"
	}
	buildInfo.WithLabelValues(version).Set(1)
}
