// Package metrics exposes Prometheus counters for the lookup cache and the
// underlying secret store. Registration is opt-in and happens at most once per
// process; the increment helpers are safe to call when metrics are disabled.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal    prometheus.Counter
	cacheMissesTotal  prometheus.Counter
	storeReadsTotal   *prometheus.CounterVec
	storeErrorsTotal  *prometheus.CounterVec
	metricsOnce       sync.Once
	metricsRegistered bool
)

// Init registers the Prometheus metrics. Call once at startup when metrics
// are enabled; increments before Init are dropped.
func Init() {
	metricsOnce.Do(func() {
		cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaultvars_cache_hits_total",
			Help: "Total number of lookup cache hits",
		})
		cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
			Name: "vaultvars_cache_misses_total",
			Help: "Total number of lookup cache misses",
		})
		storeReadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultvars_store_reads_total",
			Help: "Total number of secret store reads, by store backend",
		}, []string{"store"})
		storeErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vaultvars_store_errors_total",
			Help: "Total number of failed secret store reads, by store backend",
		}, []string{"store"})
		metricsRegistered = true
	})
}

// CacheHit increments the cache hit counter.
func CacheHit() {
	if metricsRegistered {
		cacheHitsTotal.Inc()
	}
}

// CacheMiss increments the cache miss counter.
func CacheMiss() {
	if metricsRegistered {
		cacheMissesTotal.Inc()
	}
}

// StoreRead increments the read counter for the named store backend.
func StoreRead(store string) {
	if metricsRegistered {
		storeReadsTotal.WithLabelValues(store).Inc()
	}
}

// StoreError increments the error counter for the named store backend.
func StoreError(store string) {
	if metricsRegistered {
		storeErrorsTotal.WithLabelValues(store).Inc()
	}
}
