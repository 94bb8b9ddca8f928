package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/logging"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/models"
	"github.com/project-nexus/repositories"
	"gorm.io/gorm"
)

// RatingService admits ratings and keeps project stats in step with them
type RatingService struct {
	projectRepo  *repositories.ProjectRepository
	criteriaRepo *repositories.CriteriaRepository
	ratingRepo   *repositories.RatingRepository
	stats        *StatsService
	clock        clockwork.Clock
	metrics      *metrics.Metrics
}

// NewRatingService creates a new rating service instance
func NewRatingService(db *gorm.DB, stats *StatsService, clock clockwork.Clock, m *metrics.Metrics) *RatingService {
	return &RatingService{
		projectRepo:  repositories.NewProjectRepository(db),
		criteriaRepo: repositories.NewCriteriaRepository(db),
		ratingRepo:   repositories.NewRatingRepository(db),
		stats:        stats,
		clock:        clock,
		metrics:      m,
	}
}

// SubmitRating checks, in order: score range, criteria/project category match,
// then lets the unique index reject a second rating of the same criteria.
func (s *RatingService) SubmitRating(ctx context.Context, user dto.Principal, projectID string, req dto.SubmitRatingRequest) (*dto.RatingResponse, error) {
	if !user.IsAuthenticated() {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if req.Score == nil {
		return nil, s.reject(apperrors.ValidationError("score is required"))
	}
	if *req.Score < models.MinScore || *req.Score > models.MaxScore {
		return nil, s.reject(apperrors.ValidationError(
			fmt.Sprintf("score must be between %d and %d", models.MinScore, models.MaxScore),
		).WithContext("score", *req.Score))
	}

	project, err := s.projectRepo.FindPublishedByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return nil, apperrors.NotFoundError("project not found")
		}
		return nil, apperrors.InternalError("failed to load project", err)
	}

	criteria, err := s.criteriaRepo.FindByID(ctx, req.CriteriaID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return nil, apperrors.NotFoundError("criteria not found")
		}
		return nil, apperrors.InternalError("failed to load criteria", err)
	}

	if criteria.Category != project.Category {
		return nil, s.reject(apperrors.ValidationError("criteria mismatch").
			WithContext("criteria_category", criteria.Category).
			WithContext("project_category", project.Category))
	}

	rating := &models.Rating{
		UserID:     user.UserID,
		ProjectID:  project.ID,
		CriteriaID: criteria.ID,
		Score:      *req.Score,
		CreatedAt:  s.clock.Now().UTC(),
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, apperrors.ConflictError("already rated")
		}
		s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, apperrors.InternalError("failed to submit rating", err)
	}
	s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeCreated).Inc()
	logging.WithUser(user.UserID).DebugContext(ctx, "Rating submitted", "project_id", project.ID, "criteria_id", criteria.ID, "score", rating.Score)

	s.stats.RecalculateQuietly(ctx, project.ID)

	resp := dto.NewRatingResponse(rating)
	return &resp, nil
}

// ListRatings returns a project's ratings, newest first
func (s *RatingService) ListRatings(ctx context.Context, projectID string) ([]dto.RatingResponse, error) {
	exists, err := s.projectRepo.Exists(ctx, projectID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load project", err)
	}
	if !exists {
		return nil, apperrors.NotFoundError("project not found")
	}

	ratings, err := s.ratingRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list ratings", err)
	}

	resp := make([]dto.RatingResponse, 0, len(ratings))
	for i := range ratings {
		resp = append(resp, dto.NewRatingResponse(&ratings[i]))
	}
	return resp, nil
}

// DeleteRating removes one of the caller's ratings. Admins may delete any rating.
func (s *RatingService) DeleteRating(ctx context.Context, user dto.Principal, projectID, ratingID string) error {
	if !user.IsAuthenticated() {
		return apperrors.UnauthorizedError("authentication required")
	}

	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFoundError("rating not found")
		}
		return apperrors.InternalError("failed to load rating", err)
	}
	if rating.ProjectID != projectID {
		return apperrors.NotFoundError("rating not found")
	}
	if rating.UserID != user.UserID && !user.IsAdmin() {
		return apperrors.ForbiddenError("you can only delete your own ratings")
	}

	if err := s.ratingRepo.Delete(ctx, rating.ID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return apperrors.NotFoundError("rating not found")
		}
		return apperrors.InternalError("failed to delete rating", err)
	}
	s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeDeleted).Inc()
	logging.WithUser(user.UserID).DebugContext(ctx, "Rating deleted", "project_id", projectID, "rating_id", rating.ID)

	s.stats.RecalculateQuietly(ctx, projectID)
	return nil
}

func (s *RatingService) reject(err *apperrors.Error) error {
	s.metrics.RatingsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
	return err
}
