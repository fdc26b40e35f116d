package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Domain collectors. Label values are fixed small sets.
var (
	// searchRequests counts search calls by how the page was sourced:
	// cache, api or mixed.
	searchRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bible_search_requests_total",
			Help: "Search requests by page source (cache|api|mixed).",
		},
		[]string{"source"},
	)

	searchItems = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bible_search_items_total",
			Help: "Search result items returned, by source (cache|api).",
		},
		[]string{"source"},
	)

	aiCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ai_calls_total",
			Help: "Generative model invocations by operation and outcome.",
		},
		[]string{"operation", "outcome"},
	)

	pipelineRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "devotional_pipeline_runs_total",
			Help: "Devotional pipeline runs by outcome (created|updated|skipped|in_progress|failed).",
		},
		[]string{"outcome"},
	)

	cacheEvictions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "search_cache_evictions_total",
			Help: "Search cache entries removed by TTL/LRU eviction.",
		},
	)
)

func init() {
	prometheus.MustRegister(searchRequests, searchItems, aiCalls, pipelineRuns, cacheEvictions)
}

// ObserveSearch records one search response.
func ObserveSearch(fromCache, fromAPI int) {
	source := "mixed"
	switch {
	case fromAPI == 0:
		source = "cache"
	case fromCache == 0:
		source = "api"
	}
	searchRequests.WithLabelValues(source).Inc()
	searchItems.WithLabelValues("cache").Add(float64(fromCache))
	searchItems.WithLabelValues("api").Add(float64(fromAPI))
}

// ObserveAICall records one model invocation outcome (ok|error|invalid).
func ObserveAICall(operation, outcome string) {
	aiCalls.WithLabelValues(operation, outcome).Inc()
}

// ObservePipelineRun records a devotional pipeline outcome.
func ObservePipelineRun(outcome string) {
	pipelineRuns.WithLabelValues(outcome).Inc()
}

// ObserveEvictions adds n evicted cache entries.
func ObserveEvictions(n int64) {
	if n > 0 {
		cacheEvictions.Add(float64(n))
	}
}
