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

// CriteriaService manages the per-category rating rubric
type CriteriaService struct {
	criteriaRepo *repositories.CriteriaRepository
}

func NewCriteriaService(db *gorm.DB) *CriteriaService {
	return &CriteriaService{
		criteriaRepo: repositories.NewCriteriaRepository(db),
	}
}

// ListCriteria returns every criteria, or those of one category
func (s *CriteriaService) ListCriteria(ctx context.Context, category string) ([]dto.CriteriaResponse, error) {
	var filter *models.Category
	if category != "" {
		c := models.Category(category)
		if !c.Valid() {
			return nil, apperrors.ValidationError("invalid category").WithContext("category", category)
		}
		filter = &c
	}

	criteria, err := s.criteriaRepo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.InternalError("failed to list criteria", err)
	}

	resp := make([]dto.CriteriaResponse, 0, len(criteria))
	for i := range criteria {
		resp = append(resp, dto.NewCriteriaResponse(&criteria[i]))
	}
	return resp, nil
}

// CreateCriteria adds a rubric item; (category, name) must be unique
func (s *CriteriaService) CreateCriteria(ctx context.Context, req dto.CreateCriteriaRequest) (*dto.CriteriaResponse, error) {
	category := models.Category(req.Category)
	if !category.Valid() {
		return nil, apperrors.ValidationError("invalid category").WithContext("category", req.Category)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError("name is required")
	}

	criteria := &models.Criteria{
		Category:    category,
		Name:        name,
		Description: req.Description,
		Weight:      req.Weight,
		SortOrder:   req.Order,
	}
	if err := s.criteriaRepo.Create(ctx, criteria); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, apperrors.ConflictError("criteria already exists for this category")
		}
		return nil, apperrors.InternalError("failed to create criteria", err)
	}

	resp := dto.NewCriteriaResponse(criteria)
	return &resp, nil
}
