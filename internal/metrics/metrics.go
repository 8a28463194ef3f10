package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Correlation metrics
	CorrelationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_correlations_total",
			Help: "Total number of forensic events correlated",
		},
	)

	CorrelationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sift_correlation_duration_seconds",
			Help:    "Duration of correlation runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	SkippedTimestamps = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_skipped_timestamps_total",
			Help: "Total number of unparsable timestamps substituted with the current time",
		},
	)

	// Ranking metrics
	ItemsRanked = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_items_ranked_total",
			Help: "Total number of OSINT items scored by the ranking pipeline",
		},
	)

	ItemsFiltered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sift_items_filtered_total",
			Help: "Total number of OSINT items dropped by ranking filters",
		},
		[]string{"reason"},
	)

	RankDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sift_rank_duration_seconds",
			Help:    "Duration of ranking runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// External analysis metrics
	AnalyzerCalls = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_analyzer_calls_total",
			Help: "Total number of external analysis calls",
		},
	)

	AnalyzerErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_analyzer_errors_total",
			Help: "Total number of failed external analysis calls",
		},
	)

	AnalyzerTimeouts = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_analyzer_timeouts_total",
			Help: "Total number of external analysis calls that hit their deadline",
		},
	)

	AnalysisCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_analysis_cache_hits_total",
			Help: "Total number of analysis cache hits",
		},
	)

	AnalysisCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sift_analysis_cache_misses_total",
			Help: "Total number of analysis cache misses",
		},
	)
)
