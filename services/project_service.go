package services

import (
	"context"
	"errors"
	"strings"

	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/models"
	"github.com/project-nexus/repositories"
	"gorm.io/gorm"
)

// ProjectService handles business logic for projects
type ProjectService struct {
	projectRepo *repositories.ProjectRepository
	voteRepo    *repositories.VoteRepository
}

// NewProjectService creates a new project service instance
func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		projectRepo: repositories.NewProjectRepository(db),
		voteRepo:    repositories.NewVoteRepository(db),
	}
}

// CreateProject stores a new project owned by the caller. Projects go live immediately.
func (s *ProjectService) CreateProject(ctx context.Context, user dto.Principal, req dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	if !user.IsAuthenticated() {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError("name is required")
	}
	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, apperrors.ValidationError("invalid category").WithContext("category", req.Category)
	}

	creatorID := user.UserID
	project := &models.Project{
		Name:        name,
		Description: req.Description,
		Category:    category,
		Status:      models.StatusPublished,
		CreatorID:   &creatorID,
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, apperrors.InternalError("failed to create project", err)
	}

	created, err := s.projectRepo.FindByID(ctx, project.ID)
	if err != nil {
		return nil, apperrors.InternalError("failed to load project", err)
	}

	resp := dto.NewProjectResponse(created, false)
	return &resp, nil
}

// ListProjects returns published projects, optionally filtered by category.
// Ordering accepts created_at, -created_at, vote_count and -vote_count.
func (s *ProjectService) ListProjects(ctx context.Context, user dto.Principal, filter dto.ProjectFilter) ([]dto.ProjectResponse, error) {
	var category *models.Category
	if filter.Category != "" {
		c := models.Category(filter.Category)
		if !c.Valid() {
			return nil, apperrors.ValidationError("invalid category").WithContext("category", filter.Category)
		}
		category = &c
	}

	order := repositories.DefaultProjectOrder
	if filter.Ordering != "" {
		order = repositories.ProjectOrder(filter.Ordering)
		if !order.Valid() {
			return nil, apperrors.ValidationError("invalid ordering").WithContext("ordering", filter.Ordering)
		}
	}

	projects, err := s.projectRepo.ListPublished(ctx, category, order)
	if err != nil {
		return nil, apperrors.InternalError("failed to list projects", err)
	}

	return s.represent(ctx, user, projects)
}

// GetProject returns a single published project
func (s *ProjectService) GetProject(ctx context.Context, user dto.Principal, id string) (*dto.ProjectResponse, error) {
	project, err := s.findPublished(ctx, id)
	if err != nil {
		return nil, err
	}

	list, err := s.represent(ctx, user, []models.Project{*project})
	if err != nil {
		return nil, err
	}
	return &list[0], nil
}

// GetProjectStats returns the derived statistics of a published project
func (s *ProjectService) GetProjectStats(ctx context.Context, id string) (*dto.ProjectStatsResponse, error) {
	project, err := s.findPublished(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := dto.NewProjectStatsResponse(project)
	return &resp, nil
}

// AddImage attaches an image URL to a project. Only the creator (or an admin) may do so.
func (s *ProjectService) AddImage(ctx context.Context, user dto.Principal, projectID string, req dto.AddImageRequest) (*dto.ImageResponse, error) {
	if !user.IsAuthenticated() {
		return nil, apperrors.UnauthorizedError("authentication required")
	}

	creatorID, err := s.projectRepo.GetCreatorID(ctx, projectID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFoundError("project not found")
		}
		return nil, apperrors.InternalError("failed to load project", err)
	}

	isCreator := creatorID != nil && *creatorID == user.UserID
	if !isCreator && !user.IsAdmin() {
		return nil, apperrors.ForbiddenError("only the project creator can add images")
	}

	image := &models.ProjectImage{
		ProjectID: projectID,
		URL:       req.URL,
		Caption:   req.Caption,
		SortOrder: req.Order,
	}
	if err := s.projectRepo.AddImage(ctx, image); err != nil {
		return nil, apperrors.InternalError("failed to add image", err)
	}

	resp := dto.NewImageResponse(image)
	return &resp, nil
}

func (s *ProjectService) findPublished(ctx context.Context, id string) (*models.Project, error) {
	project, err := s.projectRepo.FindPublishedByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, apperrors.NotFoundError("project not found")
		}
		return nil, apperrors.InternalError("failed to load project", err)
	}
	return project, nil
}

// represent maps projects to their public form with has_voted resolved in one query
func (s *ProjectService) represent(ctx context.Context, user dto.Principal, projects []models.Project) ([]dto.ProjectResponse, error) {
	ids := make([]string, len(projects))
	for i := range projects {
		ids[i] = projects[i].ID
	}

	voted, err := s.voteRepo.VotedProjectIDs(ctx, user.UserID, ids)
	if err != nil {
		return nil, apperrors.InternalError("failed to resolve votes", err)
	}

	resp := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		resp = append(resp, dto.NewProjectResponse(&projects[i], voted[projects[i].ID]))
	}
	return resp, nil
}
