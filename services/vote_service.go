package services

import (
	"context"
	"errors"

	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/logging"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/models"
	"github.com/project-nexus/repositories"
	"gorm.io/gorm"
)

// VoteService admits votes. Uniqueness is decided by the store's unique index,
// never by a lookup before the insert.
type VoteService struct {
	projectRepo *repositories.ProjectRepository
	voteRepo    *repositories.VoteRepository
	stats       *StatsService
	clock       clockwork.Clock
	metrics     *metrics.Metrics
}

// NewVoteService creates a new vote service instance
func NewVoteService(db *gorm.DB, stats *StatsService, clock clockwork.Clock, m *metrics.Metrics) *VoteService {
	return &VoteService{
		projectRepo: repositories.NewProjectRepository(db),
		voteRepo:    repositories.NewVoteRepository(db),
		stats:       stats,
		clock:       clock,
		metrics:     m,
	}
}

// CastVote records the user's vote on a published project. A repeat vote is a
// conflict ("already voted") and writes nothing.
func (s *VoteService) CastVote(ctx context.Context, user dto.Principal, projectID string) (*dto.VoteResponse, error) {
	if !user.IsAuthenticated() {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	project, err := s.projectRepo.FindPublishedByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			s.metrics.VotesTotal.WithLabelValues(metrics.OutcomeNotFound).Inc()
			return nil, apperrors.NotFoundError("project not found")
		}
		return nil, apperrors.InternalError("failed to load project", err)
	}

	vote := &models.Vote{
		UserID:    user.UserID,
		ProjectID: project.ID,
		CreatedAt: s.clock.Now().UTC(),
	}
	if err := s.voteRepo.Create(ctx, vote); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			s.metrics.VotesTotal.WithLabelValues(metrics.OutcomeConflict).Inc()
			return nil, apperrors.ConflictError("already voted")
		}
		s.metrics.VotesTotal.WithLabelValues(metrics.OutcomeError).Inc()
		return nil, apperrors.InternalError("failed to cast vote", err)
	}
	s.metrics.VotesTotal.WithLabelValues(metrics.OutcomeCreated).Inc()
	logging.WithUser(user.UserID).DebugContext(ctx, "Vote cast", "project_id", project.ID)

	resp := &dto.VoteResponse{ProjectID: project.ID, VoteCount: project.VoteCount + 1, HasVoted: true}
	if stats := s.stats.RecalculateQuietly(ctx, project.ID); stats != nil {
		resp.VoteCount = stats.VoteCount
	}
	return resp, nil
}

// WithdrawVote removes the user's vote; NotFound when there was none
func (s *VoteService) WithdrawVote(ctx context.Context, user dto.Principal, projectID string) (*dto.VoteResponse, error) {
	if !user.IsAuthenticated() {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	if err := s.voteRepo.Delete(ctx, user.UserID, projectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFoundError("vote not found")
		}
		return nil, apperrors.InternalError("failed to withdraw vote", err)
	}
	s.metrics.VotesTotal.WithLabelValues(metrics.OutcomeWithdrawn).Inc()
	logging.WithUser(user.UserID).DebugContext(ctx, "Vote withdrawn", "project_id", projectID)

	resp := &dto.VoteResponse{ProjectID: projectID, HasVoted: false}
	if stats := s.stats.RecalculateQuietly(ctx, projectID); stats != nil {
		resp.VoteCount = stats.VoteCount
	}
	return resp, nil
}
