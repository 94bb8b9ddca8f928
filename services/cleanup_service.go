package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/repositories"
	"gorm.io/gorm"
)

// CleanupResult summarizes one retention run
type CleanupResult struct {
	Cutoff           time.Time
	DeletedRatings   int64
	AffectedProjects int
}

// CleanupService deletes ratings past the retention window and recomputes the
// stats of every project that lost ratings
type CleanupService struct {
	ratingRepo *repositories.RatingRepository
	stats      *StatsService
	retention  time.Duration
	clock      clockwork.Clock
	metrics    *metrics.Metrics
}

func NewCleanupService(db *gorm.DB, stats *StatsService, retention time.Duration, clock clockwork.Clock, m *metrics.Metrics) *CleanupService {
	return &CleanupService{
		ratingRepo: repositories.NewRatingRepository(db),
		stats:      stats,
		retention:  retention,
		clock:      clock,
		metrics:    m,
	}
}

// Run performs one cleanup pass
func (s *CleanupService) Run(ctx context.Context) (CleanupResult, error) {
	cutoff := s.clock.Now().UTC().Add(-s.retention)

	projectIDs, deleted, err := s.ratingRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		s.metrics.CleanupRuns.WithLabelValues("error").Inc()
		return CleanupResult{Cutoff: cutoff}, fmt.Errorf("delete old ratings: %w", err)
	}

	for _, id := range projectIDs {
		s.stats.RecalculateQuietly(ctx, id)
	}

	s.metrics.CleanupRuns.WithLabelValues("ok").Inc()
	s.metrics.CleanupDeletedRatings.Add(float64(deleted))
	slog.InfoContext(ctx, "Rating cleanup finished", "cutoff", cutoff, "deleted", deleted, "projects", len(projectIDs))

	return CleanupResult{
		Cutoff:           cutoff,
		DeletedRatings:   deleted,
		AffectedProjects: len(projectIDs),
	}, nil
}
