package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tip_allowance",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Tip cache lookups by backend and outcome (hit, miss, error).",
		},
		[]string{"backend", "outcome"},
	)

	cacheWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tip_allowance",
			Subsystem: "cache",
			Name:      "writes_total",
			Help:      "Tip cache writes by backend and outcome (ok, error).",
		},
		[]string{"backend", "outcome"},
	)

	tipFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tip_allowance",
			Subsystem: "tips",
			Name:      "fetches_total",
			Help:      "Tip fetches by path (fresh, rebuild, incremental, degraded).",
		},
		[]string{"path"},
	)

	upstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tip_allowance",
			Subsystem: "upstream",
			Name:      "requests_total",
			Help:      "Upstream provider calls by provider and outcome (ok, no_data, error).",
		},
		[]string{"provider", "outcome"},
	)

	upstreamDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "tip_allowance",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of upstream provider calls.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 10), // 10ms to ~5s
		},
		[]string{"provider"},
	)

	reportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "tip_allowance",
			Subsystem: "stats",
			Name:      "report_duration_seconds",
			Help:      "Duration of allowance report computation.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	degradedReports = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tip_allowance",
			Subsystem: "stats",
			Name:      "degraded_sources_total",
			Help:      "Sources replaced by neutral defaults while building a report.",
		},
		[]string{"source"},
	)
)

func init() {
	Registry.MustRegister(
		cacheLookups,
		cacheWrites,
		tipFetches,
		upstreamRequests,
		upstreamDuration,
		reportDuration,
		degradedReports,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordCacheLookup counts a cache read
func RecordCacheLookup(backend, outcome string) {
	cacheLookups.WithLabelValues(backend, outcome).Inc()
}

// RecordCacheWrite counts a cache write
func RecordCacheWrite(backend, outcome string) {
	cacheWrites.WithLabelValues(backend, outcome).Inc()
}

// RecordTipFetch counts which path a tip fetch took
func RecordTipFetch(path string) {
	tipFetches.WithLabelValues(path).Inc()
}

// RecordUpstream records an upstream call outcome and its duration in seconds
func RecordUpstream(provider, outcome string, seconds float64) {
	upstreamRequests.WithLabelValues(provider, outcome).Inc()
	upstreamDuration.WithLabelValues(provider).Observe(seconds)
}

// RecordReport records the time spent building a report
func RecordReport(seconds float64) {
	reportDuration.Observe(seconds)
}

// RecordDegraded counts a source replaced by its neutral default
func RecordDegraded(source string) {
	degradedReports.WithLabelValues(source).Inc()
}
