package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels shared by the vote and rating counters
const (
	OutcomeCreated   = "created"
	OutcomeConflict  = "conflict"
	OutcomeRejected  = "rejected"
	OutcomeNotFound  = "not_found"
	OutcomeError     = "error"
	OutcomeWithdrawn = "withdrawn"
	OutcomeDeleted   = "deleted"
)

// Metrics groups the collectors of the showcase API. Collectors are registered on
// the Registerer handed to New so tests can use an isolated registry.
type Metrics struct {
	// VotesTotal tracks castVote/withdraw outcomes
	VotesTotal *prometheus.CounterVec

	// RatingsTotal tracks submitRating/delete outcomes
	RatingsTotal *prometheus.CounterVec

	// StatsRecalculations tracks recompute runs by result (ok/error)
	StatsRecalculations *prometheus.CounterVec

	LeaderboardCacheHits   prometheus.Counter
	LeaderboardCacheMisses prometheus.Counter

	// CleanupDeletedRatings counts ratings removed by the retention job
	CleanupDeletedRatings prometheus.Counter
	CleanupRuns           *prometheus.CounterVec

	// HTTPRequestDuration tracks request latency by route and status
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers the collectors on reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		VotesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_votes_total",
				Help: "Vote operations by outcome",
			},
			[]string{"outcome"},
		),
		RatingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_ratings_total",
				Help: "Rating operations by outcome",
			},
			[]string{"outcome"},
		),
		StatsRecalculations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_stats_recalculations_total",
				Help: "Project stats recalculations by result",
			},
			[]string{"result"},
		),
		LeaderboardCacheHits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nexus_leaderboard_cache_hits_total",
				Help: "Leaderboard reads served from cache",
			},
		),
		LeaderboardCacheMisses: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nexus_leaderboard_cache_misses_total",
				Help: "Leaderboard reads that queried the database",
			},
		),
		CleanupDeletedRatings: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "nexus_cleanup_deleted_ratings_total",
				Help: "Ratings removed by the retention cleanup",
			},
		),
		CleanupRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "nexus_cleanup_runs_total",
				Help: "Retention cleanup runs by result",
			},
			[]string{"result"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "nexus_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "route", "status"},
		),
	}
}

// NewNop returns metrics registered on a throwaway registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
