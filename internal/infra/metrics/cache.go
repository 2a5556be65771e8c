package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(cacheHits, cacheMisses)
}

var (
	cacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Redis cache hits per cache name.",
		},
		[]string{"cache"},
	)

	cacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Redis cache misses per cache name.",
		},
		[]string{"cache"},
	)
)

func IncCacheHit(cache string)  { cacheHits.WithLabelValues(norm(cache)).Inc() }
func IncCacheMiss(cache string) { cacheMisses.WithLabelValues(norm(cache)).Inc() }
