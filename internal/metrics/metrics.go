package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PromptScoresComputed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_scores_computed_total",
			Help: "Total number of prompt scores computed, by trigger",
		},
		[]string{"trigger"},
	)

	PromptScoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prompt_score_failures_total",
			Help: "Total number of prompt score computations that failed",
		},
		[]string{"trigger"},
	)

	UserTotalsRecomputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "user_totals_recomputed_total",
			Help: "Total number of user total score recomputations",
		},
	)

	BadgesGranted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "badges_granted_total",
			Help: "Total number of badges granted, by badge type",
		},
		[]string{"badge_type"},
	)

	LeaderboardRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leaderboard_requests_total",
			Help: "Leaderboard reads by board and cache result",
		},
		[]string{"board", "cache"},
	)

	RescoreDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rescore_duration_seconds",
			Help:    "Duration of full rescore runs in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)
