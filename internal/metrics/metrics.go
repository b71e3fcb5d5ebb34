// Package metrics holds the Prometheus collectors shared by the API server,
// the ranking service and the cache layer.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// CacheHitsTotal counts successful cache lookups per cache group.
	CacheHitsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestlastyear_cache_hits_total",
			Help: "Total number of cache hits.",
		},
		[]string{"cache"},
	)

	// CacheMissesTotal counts failed cache lookups per cache group.
	CacheMissesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestlastyear_cache_misses_total",
			Help: "Total number of cache misses.",
		},
		[]string{"cache"},
	)

	// MasterListFetchesTotal counts upstream master list builds by content
	// type and outcome ("ok" or "error").
	MasterListFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestlastyear_master_list_fetches_total",
			Help: "Total number of master list fetches from upstream providers.",
		},
		[]string{"type", "outcome"},
	)

	// MasterListItems reports the size of the last master list built per content type.
	MasterListItems = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "bestlastyear_master_list_items",
			Help: "Number of items in the most recently fetched master list.",
		},
		[]string{"type"},
	)

	// HTTPRequestsTotal counts API requests by route pattern and status code.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestlastyear_http_requests_total",
			Help: "Total number of API requests.",
		},
		[]string{"route", "status"},
	)

	// HTTPRequestDuration observes API latency by route pattern.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "bestlastyear_http_request_duration_seconds",
			Help:    "API request latency.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	// WarmupRunsTotal counts scheduled cache warm-up runs by outcome.
	WarmupRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bestlastyear_warmup_runs_total",
			Help: "Total number of scheduled cache warm-up runs.",
		},
		[]string{"outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		CacheHitsTotal,
		CacheMissesTotal,
		MasterListFetchesTotal,
		MasterListItems,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		WarmupRunsTotal,
	)
}

// Outcome labels an operation result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
