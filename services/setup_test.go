package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/cache"
	"github.com/project-nexus/database"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testEpoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

type testEnv struct {
	db      *gorm.DB
	clock   *clockwork.FakeClock
	metrics *metrics.Metrics
	store   *cache.MemoryStore

	stats       *StatsService
	votes       *VoteService
	ratings     *RatingService
	projects    *ProjectService
	leaderboard *LeaderboardService
	criteria    *CriteriaService
	comments    *CommentService
	auth        *AuthService
	cleanup     *CleanupService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return newTestEnvWithDB(t, database.NewTestDB(t))
}

func newTestEnvWithDB(t *testing.T, db *gorm.DB) *testEnv {
	t.Helper()

	clock := clockwork.NewFakeClockAt(testEpoch)
	m := metrics.NewNop()
	store := cache.NewMemoryStore(clock)
	stats := NewStatsService(db, m)

	return &testEnv{
		db:          db,
		clock:       clock,
		metrics:     m,
		store:       store,
		stats:       stats,
		votes:       NewVoteService(db, stats, clock, m),
		ratings:     NewRatingService(db, stats, clock, m),
		projects:    NewProjectService(db),
		leaderboard: NewLeaderboardService(db, store, 300*time.Second, 5, m),
		criteria:    NewCriteriaService(db),
		comments:    NewCommentService(db, clock),
		auth:        NewAuthService(db, "test-secret", time.Hour, clock),
		cleanup:     NewCleanupService(db, stats, 7*24*time.Hour, clock, m),
	}
}

// user inserts an account directly; bcrypt is only exercised by the auth tests
func (e *testEnv) user(t *testing.T, name string) dto.Principal {
	t.Helper()
	u := &models.User{Email: name + "@example.com", Username: name, Password: "unused"}
	require.NoError(t, e.db.Create(u).Error)
	return dto.Principal{UserID: u.ID, Email: u.Email, Role: u.Role}
}

func (e *testEnv) users(t *testing.T, prefix string, n int) []dto.Principal {
	t.Helper()
	out := make([]dto.Principal, n)
	for i := range out {
		out[i] = e.user(t, fmt.Sprintf("%s%d", prefix, i))
	}
	return out
}

func (e *testEnv) project(t *testing.T, owner dto.Principal, name string, category models.Category) *dto.ProjectResponse {
	t.Helper()
	p, err := e.projects.CreateProject(context.Background(), owner, dto.CreateProjectRequest{
		Name:     name,
		Category: string(category),
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) criterion(t *testing.T, category models.Category, name string) *dto.CriteriaResponse {
	t.Helper()
	c, err := e.criteria.CreateCriteria(context.Background(), dto.CreateCriteriaRequest{
		Category: string(category),
		Name:     name,
	})
	require.NoError(t, err)
	return c
}

func (e *testEnv) loadProject(t *testing.T, id string) models.Project {
	t.Helper()
	var p models.Project
	require.NoError(t, e.db.First(&p, "id = ?", id).Error)
	return p
}

func (e *testEnv) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

// assertStatsConsistent checks the derived columns against the underlying rows
func (e *testEnv) assertStatsConsistent(t *testing.T, projectID string) {
	t.Helper()
	p := e.loadProject(t, projectID)

	votes := e.count(t, &models.Vote{}, "project_id = ?", projectID)
	ratings := e.count(t, &models.Rating{}, "project_id = ?", projectID)
	require.EqualValues(t, votes, p.VoteCount, "vote_count")
	require.EqualValues(t, ratings, p.RatingCount, "rating_count")

	if ratings == 0 {
		require.Nil(t, p.AverageScore, "average_score must be null without ratings")
		return
	}

	var scores []int
	require.NoError(t, e.db.Model(&models.Rating{}).Where("project_id = ?", projectID).Pluck("score", &scores).Error)
	sum := 0
	for _, s := range scores {
		sum += s
	}
	require.NotNil(t, p.AverageScore)
	require.InDelta(t, roundScore(float64(sum)/float64(len(scores))), *p.AverageScore, 1e-9)
}

func intPtr(v int) *int {
	return &v
}
