package repositories

import (
	"context"
	"time"

	"github.com/project-nexus/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RatingAggregate is the COUNT/AVG of a project's rating scores
type RatingAggregate struct {
	Count int64
	Avg   *float64
}

// RatingRepository handles database operations for ratings
type RatingRepository struct {
	db *gorm.DB
}

// NewRatingRepository creates a new rating repository instance
func NewRatingRepository(db *gorm.DB) *RatingRepository {
	return &RatingRepository{db: db}
}

// Create inserts a rating. The (user_id, project_id, criteria_id) unique index
// rejects duplicates with ErrDuplicate.
func (r *RatingRepository) Create(ctx context.Context, rating *models.Rating) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(rating).Error)
}

// FindByID retrieves a rating by its ID
func (r *RatingRepository) FindByID(ctx context.Context, id string) (*models.Rating, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var rating models.Rating
	if err := r.db.WithContext(ctx).First(&rating, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &rating, nil
}

// ListByProject returns a project's ratings, newest first
func (r *RatingRepository) ListByProject(ctx context.Context, projectID string) ([]models.Rating, error) {
	var ratings []models.Rating
	err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC, id ASC").
		Find(&ratings).Error
	return ratings, err
}

// Delete removes a rating by ID
func (r *RatingRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	result := r.db.WithContext(ctx).Delete(&models.Rating{}, "id = ?", id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AggregateByProject computes count and mean score of a project's ratings.
// Avg is nil when the project has no ratings.
func (r *RatingRepository) AggregateByProject(ctx context.Context, projectID string) (RatingAggregate, error) {
	var agg RatingAggregate
	err := r.db.WithContext(ctx).
		Model(&models.Rating{}).
		Select("COUNT(*) AS count, CAST(AVG(score) AS DOUBLE PRECISION) AS avg").
		Where("project_id = ?", projectID).
		Scan(&agg).Error
	return agg, err
}

// DeleteOlderThan removes every rating created before cutoff and returns the
// distinct projects that lost ratings, along with the number of rows removed.
func (r *RatingRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) ([]string, int64, error) {
	var (
		projectIDs []string
		deleted    int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Rating{}).
			Where("created_at < ?", cutoff).
			Distinct("project_id").
			Pluck("project_id", &projectIDs).Error; err != nil {
			return err
		}
		if len(projectIDs) == 0 {
			return nil
		}

		result := tx.Where("created_at < ?", cutoff).Delete(&models.Rating{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	return projectIDs, deleted, nil
}
