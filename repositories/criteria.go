package repositories

import (
	"context"

	"github.com/project-nexus/models"
	"gorm.io/gorm"
)

// CriteriaRepository handles database operations for rating criteria
type CriteriaRepository struct {
	db *gorm.DB
}

// NewCriteriaRepository creates a new criteria repository instance
func NewCriteriaRepository(db *gorm.DB) *CriteriaRepository {
	return &CriteriaRepository{db: db}
}

// Create inserts a criteria; ErrDuplicate when (category, name) exists
func (r *CriteriaRepository) Create(ctx context.Context, criteria *models.Criteria) error {
	return translate(r.db.WithContext(ctx).Create(criteria).Error)
}

// FindByID retrieves a criteria by its ID
func (r *CriteriaRepository) FindByID(ctx context.Context, id string) (*models.Criteria, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var criteria models.Criteria
	if err := r.db.WithContext(ctx).First(&criteria, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &criteria, nil
}

// List returns criteria ordered by category then display order
func (r *CriteriaRepository) List(ctx context.Context, category *models.Category) ([]models.Criteria, error) {
	query := r.db.WithContext(ctx).Model(&models.Criteria{})
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var criteria []models.Criteria
	err := query.Order("category ASC, sort_order ASC, name ASC").Find(&criteria).Error
	return criteria, err
}
