package repositories

import (
	"context"

	"github.com/project-nexus/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ProjectOrder is a whitelisted ORDER BY for project listings
type ProjectOrder string

const (
	OrderCreatedAsc     ProjectOrder = "created_at"
	OrderCreatedDesc    ProjectOrder = "-created_at"
	OrderVoteCountAsc   ProjectOrder = "vote_count"
	OrderVoteCountDesc  ProjectOrder = "-vote_count"
	DefaultProjectOrder              = OrderCreatedDesc
)

var projectOrderClauses = map[ProjectOrder]string{
	OrderCreatedAsc:    "created_at ASC, id ASC",
	OrderCreatedDesc:   "created_at DESC, id DESC",
	OrderVoteCountAsc:  "vote_count ASC, created_at DESC, id ASC",
	OrderVoteCountDesc: "vote_count DESC, created_at DESC, id ASC",
}

// Valid reports whether o is a supported ordering
func (o ProjectOrder) Valid() bool {
	_, ok := projectOrderClauses[o]
	return ok
}

// ProjectStats are the derived columns written by the stats aggregator
type ProjectStats struct {
	VoteCount    int
	AverageScore *float64
	RatingCount  int
}

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository instance
func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Creator").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, created_at ASC")
		})
}

// Create inserts a new project. Derived stats always start at zero/null.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	project.VoteCount = 0
	project.RatingCount = 0
	project.AverageScore = nil
	return translate(r.db.WithContext(ctx).Omit(clause.Associations).Create(project).Error)
}

// FindByID retrieves a project by its ID regardless of status
func (r *ProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var project models.Project
	if err := r.withRelations(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// FindPublishedByID retrieves a published project by its ID
func (r *ProjectRepository) FindPublishedByID(ctx context.Context, id string) (*models.Project, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var project models.Project
	err := r.withRelations(ctx).
		Where("status = ?", models.StatusPublished).
		First(&project, "id = ?", id).Error
	if err != nil {
		return nil, translate(err)
	}
	return &project, nil
}

// ListPublished returns published projects, optionally filtered by category
func (r *ProjectRepository) ListPublished(ctx context.Context, category *models.Category, order ProjectOrder) ([]models.Project, error) {
	orderBy, ok := projectOrderClauses[order]
	if !ok {
		orderBy = projectOrderClauses[DefaultProjectOrder]
	}

	query := r.withRelations(ctx).Where("status = ?", models.StatusPublished)
	if category != nil {
		query = query.Where("category = ?", *category)
	}

	var projects []models.Project
	if err := query.Order(orderBy).Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// TopByVotes returns the n published projects with the most votes
func (r *ProjectRepository) TopByVotes(ctx context.Context, n int) ([]models.Project, error) {
	var projects []models.Project
	err := r.withRelations(ctx).
		Where("status = ?", models.StatusPublished).
		Order(projectOrderClauses[OrderVoteCountDesc]).
		Limit(n).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

// UpdateStats persists all three derived columns in a single UPDATE
func (r *ProjectRepository) UpdateStats(ctx context.Context, id string, stats ProjectStats) error {
	if !validID(id) {
		return ErrNotFound
	}
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"vote_count":    stats.VoteCount,
			"average_score": stats.AverageScore,
			"rating_count":  stats.RatingCount,
		})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// LockForUpdate takes a row lock on the project until the surrounding
// transaction ends. SQLite has no row locks; its single writer serializes instead.
func (r *ProjectRepository) LockForUpdate(ctx context.Context, id string) error {
	if !validID(id) {
		return ErrNotFound
	}
	var project models.Project
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&project, "id = ?", id).Error
	return translate(err)
}

// GetCreatorID returns the creator of a project, nil when the creator was deleted
func (r *ProjectRepository) GetCreatorID(ctx context.Context, id string) (*string, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}
	var project models.Project
	if err := r.db.WithContext(ctx).Select("id", "creator_id").First(&project, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return project.CreatorID, nil
}

// Exists checks if a project exists
func (r *ProjectRepository) Exists(ctx context.Context, id string) (bool, error) {
	if !validID(id) {
		return false, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).Count(&count).Error
	return count > 0, translate(err)
}

// AddImage attaches an image to a project
func (r *ProjectRepository) AddImage(ctx context.Context, image *models.ProjectImage) error {
	return translate(r.db.WithContext(ctx).Create(image).Error)
}
