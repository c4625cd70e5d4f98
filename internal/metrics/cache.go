package metrics

import "github.com/prometheus/client_golang/prometheus"

// StatsCacheTotal counts salary-stats cache hits and misses.
var StatsCacheTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "wagedex",
		Name:      "stats_cache_total",
		Help:      "Salary stats cache hits and misses",
	},
	[]string{"result"}, // "hit" / "miss"
)

var cacheMetricsRegistered bool

// RegisterCacheMetrics registers the cache metrics. Must be called once from main.
func RegisterCacheMetrics() {
	if cacheMetricsRegistered {
		return
	}
	prometheus.MustRegister(StatsCacheTotal)
	cacheMetricsRegistered = true
}
