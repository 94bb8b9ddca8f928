package services

import (
	"context"
	"fmt"
	"math"

	"github.com/project-nexus/logging"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/repositories"
	"gorm.io/gorm"
)

// StatsService recomputes a project's derived fields from its vote and rating rows
type StatsService struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewStatsService creates a new stats service instance
func NewStatsService(db *gorm.DB, m *metrics.Metrics) *StatsService {
	return &StatsService{db: db, metrics: m}
}

// Recalculate counts the project's votes and ratings and writes vote_count,
// average_score and rating_count in one UPDATE. average_score is nil when the
// project has no ratings. Returns repositories.ErrNotFound if the project is gone.
//
// The project row is locked for the duration so concurrent recomputes of the
// same project apply in order and the last one always sees every committed row.
func (s *StatsService) Recalculate(ctx context.Context, projectID string) (repositories.ProjectStats, error) {
	var stats repositories.ProjectStats

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		projectRepo := repositories.NewProjectRepository(tx)
		if err := projectRepo.LockForUpdate(ctx, projectID); err != nil {
			return err
		}

		agg, err := repositories.NewRatingRepository(tx).AggregateByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("aggregate ratings: %w", err)
		}

		votes, err := repositories.NewVoteRepository(tx).CountByProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("count votes: %w", err)
		}

		stats = repositories.ProjectStats{
			VoteCount:   int(votes),
			RatingCount: int(agg.Count),
		}
		if agg.Count > 0 && agg.Avg != nil {
			avg := roundScore(*agg.Avg)
			stats.AverageScore = &avg
		}

		return projectRepo.UpdateStats(ctx, projectID, stats)
	})
	if err != nil {
		return repositories.ProjectStats{}, err
	}
	return stats, nil
}

// RecalculateQuietly runs Recalculate after a committed vote/rating mutation.
// Failures are logged and swallowed: the triggering write already succeeded and
// the next recompute corrects the stats. Returns nil when the recompute failed.
func (s *StatsService) RecalculateQuietly(ctx context.Context, projectID string) *repositories.ProjectStats {
	stats, err := s.Recalculate(ctx, projectID)
	if err != nil {
		s.metrics.StatsRecalculations.WithLabelValues("error").Inc()
		logging.WithProject(projectID).WarnContext(ctx, "Stats recalculation failed", "error", err)
		return nil
	}
	s.metrics.StatsRecalculations.WithLabelValues("ok").Inc()
	return &stats
}

func roundScore(v float64) float64 {
	return math.Round(v*100) / 100
}
