package database

import (
	"fmt"
	"log/slog"

	"github.com/project-nexus/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const copyBatchSize = 500

// MigrateDataBetweenDatabases copies every table from source to target in dependency order.
// Rows whose primary key already exists in the target are skipped.
func MigrateDataBetweenDatabases(source, target *DBConnection) error {
	slog.Info("Starting data migration", "source", source.Name, "target", target.Name)

	steps := []struct {
		name string
		copy func() (int, error)
	}{
		{"users", func() (int, error) { return copyTable[models.User](source.DB, target.DB) }},
		{"projects", func() (int, error) { return copyTable[models.Project](source.DB, target.DB) }},
		{"project images", func() (int, error) { return copyTable[models.ProjectImage](source.DB, target.DB) }},
		{"criteria", func() (int, error) { return copyTable[models.Criteria](source.DB, target.DB) }},
		{"votes", func() (int, error) { return copyTable[models.Vote](source.DB, target.DB) }},
		{"ratings", func() (int, error) { return copyTable[models.Rating](source.DB, target.DB) }},
		{"comments", func() (int, error) { return copyTable[models.Comment](source.DB, target.DB) }},
	}

	for _, step := range steps {
		n, err := step.copy()
		if err != nil {
			return fmt.Errorf("failed to migrate %s: %w", step.name, err)
		}
		slog.Info("Migrated table", "table", step.name, "rows", n)
	}

	slog.Info("Data migration completed")
	return nil
}

func copyTable[T any](source, target *gorm.DB) (int, error) {
	var rows []T
	if err := source.Order("created_at").Find(&rows).Error; err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	err := target.
		Omit(clause.Associations).
		Clauses(clause.OnConflict{DoNothing: true}).
		CreateInBatches(&rows, copyBatchSize).Error
	return len(rows), err
}

// defaultCriteria is the starter rubric for each category
var defaultCriteria = map[models.Category][]models.Criteria{
	models.CategoryPoll: {
		{Name: "Question clarity", Description: "Questions are unambiguous and easy to answer", Weight: 2},
		{Name: "Result presentation", Description: "Results are readable and update promptly", Weight: 1},
		{Name: "Vote integrity", Description: "Duplicate and fraudulent votes are prevented", Weight: 2},
	},
	models.CategoryMovie: {
		{Name: "Recommendation quality", Description: "Suggestions match the viewer's taste", Weight: 2},
		{Name: "Catalogue browsing", Description: "Search and filters make titles easy to find", Weight: 1},
		{Name: "Visual design", Description: "Posters, layout and typography", Weight: 1},
	},
	models.CategoryEcommerce: {
		{Name: "Checkout flow", Description: "Cart to payment without friction", Weight: 2},
		{Name: "Product pages", Description: "Images, descriptions and pricing are complete", Weight: 1},
		{Name: "Search relevance", Description: "Queries return the expected products", Weight: 1},
	},
	models.CategorySocial: {
		{Name: "Feed relevance", Description: "Posts shown are timely and relevant", Weight: 2},
		{Name: "Engagement tools", Description: "Likes, replies and sharing work smoothly", Weight: 1},
		{Name: "Moderation", Description: "Abuse can be reported and handled", Weight: 1},
	},
	models.CategoryJob: {
		{Name: "Listing quality", Description: "Postings are detailed and current", Weight: 1},
		{Name: "Application flow", Description: "Applying takes few steps", Weight: 2},
		{Name: "Matching", Description: "Candidates see roles that fit their profile", Weight: 2},
	},
}

// SeedCriteria inserts the default rubric. Existing (category, name) pairs are left untouched,
// so running it repeatedly is safe. Returns the number of rows inserted.
func SeedCriteria(db *gorm.DB) (int, error) {
	inserted := 0
	for _, category := range models.Categories {
		for i, c := range defaultCriteria[category] {
			row := c
			row.Category = category
			row.SortOrder = i

			result := db.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "category"}, {Name: "name"}},
				DoNothing: true,
			}).Create(&row)
			if result.Error != nil {
				return inserted, fmt.Errorf("failed to seed criteria %q for %s: %w", c.Name, category, result.Error)
			}
			inserted += int(result.RowsAffected)
		}
	}
	return inserted, nil
}
