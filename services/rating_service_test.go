package services

import (
	"context"
	"testing"

	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitRatingCreatesAndRecalculates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	plot := env.criterion(t, models.CategoryMovie, "Plot")
	visuals := env.criterion(t, models.CategoryMovie, "Visuals")

	r, err := env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: plot.ID, Score: intPtr(7)})
	require.NoError(t, err)
	assert.Equal(t, 7, r.Score)
	assert.Equal(t, plot.ID, r.CriteriaID)
	assert.Equal(t, testEpoch, r.CreatedAt.UTC())

	_, err = env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: visuals.ID, Score: intPtr(8)})
	require.NoError(t, err)

	got := env.loadProject(t, p.ID)
	assert.Equal(t, 2, got.RatingCount)
	require.NotNil(t, got.AverageScore)
	assert.Equal(t, 7.5, *got.AverageScore)
	env.assertStatsConsistent(t, p.ID)
}

func TestSubmitRatingTwiceIsConflict(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	c := env.criterion(t, models.CategoryMovie, "Plot")
	req := dto.SubmitRatingRequest{CriteriaID: c.ID, Score: intPtr(6)}

	_, err := env.ratings.SubmitRating(ctx, rater, p.ID, req)
	require.NoError(t, err)

	_, err = env.ratings.SubmitRating(ctx, rater, p.ID, req)
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeConflict))
	assert.Equal(t, "already rated", apperrors.AsStructuredError(err).Message)

	assert.EqualValues(t, 1, env.count(t, &models.Rating{}, "project_id = ?", p.ID))
	env.assertStatsConsistent(t, p.ID)
}

func TestSubmitRatingRejectsOutOfRangeScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	c := env.criterion(t, models.CategoryMovie, "Plot")

	for _, score := range []*int{intPtr(0), intPtr(11), intPtr(-3), nil} {
		_, err := env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: c.ID, Score: score})
		require.Error(t, err)
		assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
	}

	// The range check wins even when the project does not exist.
	_, err := env.ratings.SubmitRating(ctx, rater, "missing", dto.SubmitRatingRequest{CriteriaID: c.ID, Score: intPtr(11)})
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))

	assert.Zero(t, env.count(t, &models.Rating{}, "1 = 1"))
	env.assertStatsConsistent(t, p.ID)
}

func TestSubmitRatingBoundaryScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	low := env.criterion(t, models.CategoryMovie, "Plot")
	high := env.criterion(t, models.CategoryMovie, "Visuals")

	_, err := env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: low.ID, Score: intPtr(1)})
	require.NoError(t, err)
	_, err = env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: high.ID, Score: intPtr(10)})
	require.NoError(t, err)

	assert.Equal(t, 5.5, *env.loadProject(t, p.ID).AverageScore)
}

func TestSubmitRatingCriteriaMismatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	jobCriteria := env.criterion(t, models.CategoryJob, "Matching")

	_, err := env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: jobCriteria.ID, Score: intPtr(5)})
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.TypeValidation))
	assert.Equal(t, "criteria mismatch", apperrors.AsStructuredError(err).Message)

	assert.Zero(t, env.count(t, &models.Rating{}, "project_id = ?", p.ID))
}

func TestSubmitRatingNotFound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	c := env.criterion(t, models.CategoryMovie, "Plot")

	_, err := env.ratings.SubmitRating(ctx, rater, "00000000-0000-4000-8000-000000000000", dto.SubmitRatingRequest{CriteriaID: c.ID, Score: intPtr(5)})
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))

	_, err = env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: "00000000-0000-4000-8000-000000000000", Score: intPtr(5)})
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))
}

func TestSubmitRatingRequiresIdentity(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "owner")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	c := env.criterion(t, models.CategoryMovie, "Plot")

	_, err := env.ratings.SubmitRating(context.Background(), dto.Anonymous(), p.ID, dto.SubmitRatingRequest{CriteriaID: c.ID, Score: intPtr(5)})
	assert.True(t, apperrors.Is(err, apperrors.TypeUnauthorized))
}

func TestDeleteRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	stranger := env.user(t, "stranger")
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	plot := env.criterion(t, models.CategoryMovie, "Plot")
	visuals := env.criterion(t, models.CategoryMovie, "Visuals")

	first, err := env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: plot.ID, Score: intPtr(4)})
	require.NoError(t, err)
	_, err = env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: visuals.ID, Score: intPtr(9)})
	require.NoError(t, err)

	err = env.ratings.DeleteRating(ctx, stranger, p.ID, first.ID)
	assert.True(t, apperrors.Is(err, apperrors.TypeForbidden))

	other := env.project(t, owner, "Other", models.CategoryMovie)
	err = env.ratings.DeleteRating(ctx, rater, other.ID, first.ID)
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))

	require.NoError(t, env.ratings.DeleteRating(ctx, rater, p.ID, first.ID))
	got := env.loadProject(t, p.ID)
	assert.Equal(t, 1, got.RatingCount)
	assert.Equal(t, 9.0, *got.AverageScore)
	env.assertStatsConsistent(t, p.ID)

	err = env.ratings.DeleteRating(ctx, rater, p.ID, first.ID)
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))

	list, err := env.ratings.ListRatings(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAdminCanDeleteAnyRating(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	owner := env.user(t, "owner")
	rater := env.user(t, "rater")
	admin := env.user(t, "admin")
	admin.Role = models.RoleAdmin
	p := env.project(t, owner, "Flicks", models.CategoryMovie)
	c := env.criterion(t, models.CategoryMovie, "Plot")

	r, err := env.ratings.SubmitRating(ctx, rater, p.ID, dto.SubmitRatingRequest{CriteriaID: c.ID, Score: intPtr(4)})
	require.NoError(t, err)

	require.NoError(t, env.ratings.DeleteRating(ctx, admin, p.ID, r.ID))
	got := env.loadProject(t, p.ID)
	assert.Zero(t, got.RatingCount)
	assert.Nil(t, got.AverageScore)
}

func TestListRatingsUnknownProject(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.ratings.ListRatings(context.Background(), "00000000-0000-4000-8000-000000000000")
	assert.True(t, apperrors.Is(err, apperrors.TypeNotFound))
}
