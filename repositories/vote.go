package repositories

import (
	"context"

	"github.com/project-nexus/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository handles database operations for votes
type VoteRepository struct {
	db *gorm.DB
}

// NewVoteRepository creates a new vote repository instance
func NewVoteRepository(db *gorm.DB) *VoteRepository {
	return &VoteRepository{db: db}
}

// Create inserts a vote. The (user_id, project_id) unique index decides races:
// a concurrent duplicate fails with ErrDuplicate.
func (r *VoteRepository) Create(ctx context.Context, vote *models.Vote) error {
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(vote).Error)
}

// Delete removes the user's vote on a project; ErrNotFound when there was none
func (r *VoteRepository) Delete(ctx context.Context, userID, projectID string) error {
	if !validID(projectID) {
		return ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND project_id = ?", userID, projectID).
		Delete(&models.Vote{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByProject counts the votes of a project
func (r *VoteRepository) CountByProject(ctx context.Context, projectID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Vote{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}

// ListByProject returns the votes of a project, newest first
func (r *VoteRepository) ListByProject(ctx context.Context, projectID string) ([]models.Vote, error) {
	var votes []models.Vote
	err := r.db.WithContext(ctx).Where("project_id = ?", projectID).Order("created_at DESC").Find(&votes).Error
	return votes, err
}

// VotedProjectIDs returns which of the given projects the user has voted on
func (r *VoteRepository) VotedProjectIDs(ctx context.Context, userID string, projectIDs []string) (map[string]bool, error) {
	voted := make(map[string]bool, len(projectIDs))
	if userID == "" || len(projectIDs) == 0 {
		return voted, nil
	}

	var ids []string
	err := r.db.WithContext(ctx).
		Model(&models.Vote{}).
		Where("user_id = ? AND project_id IN ?", userID, projectIDs).
		Pluck("project_id", &ids).Error
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		voted[id] = true
	}
	return voted, nil
}
