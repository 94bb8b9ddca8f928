package repositories

import (
	"context"

	"github.com/project-nexus/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// CommentRepository handles database operations for comments
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new comment repository instance
func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error)
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var comment models.Comment
	if err := r.db.WithContext(ctx).Preload("User").First(&comment, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

// ListByProject returns a project's comments newest first, with authors loaded
func (r *CommentRepository) ListByProject(ctx context.Context, projectID string) ([]models.Comment, error) {
	var comments []models.Comment
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("project_id = ?", projectID).
		Order("created_at DESC, id ASC").
		Find(&comments).Error
	return comments, err
}
