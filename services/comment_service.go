package services

import (
	"context"
	"errors"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/models"
	"github.com/project-nexus/repositories"
	"gorm.io/gorm"
)

// CommentService handles threaded project comments
type CommentService struct {
	projectRepo *repositories.ProjectRepository
	commentRepo *repositories.CommentRepository
	clock       clockwork.Clock
}

func NewCommentService(db *gorm.DB, clock clockwork.Clock) *CommentService {
	return &CommentService{
		projectRepo: repositories.NewProjectRepository(db),
		commentRepo: repositories.NewCommentRepository(db),
		clock:       clock,
	}
}

// ListComments returns a published project's comments, newest first
func (s *CommentService) ListComments(ctx context.Context, projectID string) ([]dto.CommentResponse, error) {
	if _, err := s.projectRepo.FindPublishedByID(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFoundError("project not found")
		}
		return nil, apperrors.InternalError("failed to load project", err)
	}

	comments, err := s.commentRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list comments", err)
	}

	resp := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		resp = append(resp, dto.NewCommentResponse(&comments[i]))
	}
	return resp, nil
}

// CreateComment posts a comment. A reply's parent must be on the same project.
func (s *CommentService) CreateComment(ctx context.Context, user dto.Principal, projectID string, req dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	if !user.IsAuthenticated() {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	content := strings.TrimSpace(req.Content)
	if content == "" {
		return nil, apperrors.ValidationError("content is required")
	}

	if _, err := s.projectRepo.FindPublishedByID(ctx, projectID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFoundError("project not found")
		}
		return nil, apperrors.InternalError("failed to load project", err)
	}

	if req.ParentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *req.ParentID)
		if err != nil && !errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.InternalError("failed to load parent comment", err)
		}
		if parent == nil || parent.ProjectID != projectID {
			return nil, apperrors.ValidationError("parent comment must belong to the same project")
		}
	}

	now := s.clock.Now().UTC()
	comment := &models.Comment{
		UserID:    user.UserID,
		ProjectID: projectID,
		ParentID:  req.ParentID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, apperrors.InternalError("failed to create comment", err)
	}

	created, err := s.commentRepo.FindByID(ctx, comment.ID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load comment", err)
	}

	resp := dto.NewCommentResponse(created)
	return &resp, nil
}
