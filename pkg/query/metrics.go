package query

import "github.com/prometheus/client_golang/prometheus"

var (
	cacheHits = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evidence",
		Subsystem: "query",
		Name:      "cache_hits_total",
		Help:      "Requests served by an already compiled statement pair.",
	}, []string{"category"})

	cacheMisses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evidence",
		Subsystem: "query",
		Name:      "cache_misses_total",
		Help:      "Requests that compiled a new statement pair.",
	}, []string{"category"})

	compileErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "evidence",
		Subsystem: "query",
		Name:      "compile_errors_total",
		Help:      "Statement pairs that failed composition or validation.",
	}, []string{"category"})

	executionDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "evidence",
		Subsystem: "query",
		Name:      "execution_duration_seconds",
		Help:      "Duration of COUNT plus SELECT executions.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"category"})
)

func init() {
	prometheus.MustRegister(cacheHits, cacheMisses, compileErrors, executionDuration)
}

// CacheHits returns the hit counter of category.
func CacheHits(category string) prometheus.Counter {
	return cacheHits.WithLabelValues(category)
}

// CacheMisses returns the miss counter of category.
func CacheMisses(category string) prometheus.Counter {
	return cacheMisses.WithLabelValues(category)
}

// CompileErrors returns the compile error counter of category.
func CompileErrors(category string) prometheus.Counter {
	return compileErrors.WithLabelValues(category)
}
