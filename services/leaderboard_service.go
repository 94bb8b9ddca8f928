package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/project-nexus/apperrors"
	"github.com/project-nexus/cache"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/repositories"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// MaxLeaderboardSize bounds the n accepted by GetTop
const MaxLeaderboardSize = 50

const leaderboardKeyPrefix = "leaderboard:top:"

// LeaderboardService serves the top-N published projects by vote count through a
// read-through cache. Entries expire after the TTL; votes never invalidate them,
// so readers may see a ranking up to one TTL old.
type LeaderboardService struct {
	projectRepo *repositories.ProjectRepository
	voteRepo    *repositories.VoteRepository
	store       cache.Store
	ttl         time.Duration
	defaultSize int
	metrics     *metrics.Metrics

	group singleflight.Group
}

// NewLeaderboardService creates a new leaderboard service instance
func NewLeaderboardService(db *gorm.DB, store cache.Store, ttl time.Duration, defaultSize int, m *metrics.Metrics) *LeaderboardService {
	return &LeaderboardService{
		projectRepo: repositories.NewProjectRepository(db),
		voteRepo:    repositories.NewVoteRepository(db),
		store:       store,
		ttl:         ttl,
		defaultSize: defaultSize,
		metrics:     m,
	}
}

func leaderboardKey(n int) string {
	return fmt.Sprintf("%s%d", leaderboardKeyPrefix, n)
}

// GetTop returns the n most voted published projects (n <= 0 means the default size).
// The cached list is viewer independent; has_voted is filled in per caller.
func (s *LeaderboardService) GetTop(ctx context.Context, user dto.Principal, n int) ([]dto.ProjectResponse, error) {
	if n <= 0 {
		n = s.defaultSize
	}
	if n > MaxLeaderboardSize {
		return nil, apperrors.ValidationError(fmt.Sprintf("limit must be between 1 and %d", MaxLeaderboardSize))
	}

	top, err := s.cachedTop(ctx, n)
	if err != nil {
		return nil, err
	}

	if !user.IsAuthenticated() || len(top) == 0 {
		return top, nil
	}

	ids := make([]string, len(top))
	for i := range top {
		ids[i] = top[i].ID
	}
	voted, err := s.voteRepo.VotedProjectIDs(ctx, user.UserID, ids)
	if err != nil {
		return nil, apperrors.InternalError("failed to resolve votes", err)
	}
	for i := range top {
		top[i].HasVoted = voted[top[i].ID]
	}
	return top, nil
}

// cachedTop returns a private copy of the anonymous top-n list
func (s *LeaderboardService) cachedTop(ctx context.Context, n int) ([]dto.ProjectResponse, error) {
	key := leaderboardKey(n)

	if top, ok := s.lookup(ctx, key); ok {
		s.metrics.LeaderboardCacheHits.Inc()
		return top, nil
	}
	s.metrics.LeaderboardCacheMisses.Inc()

	// Concurrent misses in this process share one query. The query is detached
	// from the caller that started it; each caller only waits on its own context.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx), key, n)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, apperrors.InternalError("leaderboard request cancelled", ctx.Err())
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}

	shared := res.Val.([]dto.ProjectResponse)
	top := make([]dto.ProjectResponse, len(shared))
	copy(top, shared)
	return top, nil
}

func (s *LeaderboardService) lookup(ctx context.Context, key string) ([]dto.ProjectResponse, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		slog.WarnContext(ctx, "Leaderboard cache read failed", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var top []dto.ProjectResponse
	if err := json.Unmarshal(raw, &top); err != nil {
		slog.WarnContext(ctx, "Leaderboard cache entry is corrupt", "key", key, "error", err)
		return nil, false
	}
	return top, true
}

func (s *LeaderboardService) load(ctx context.Context, key string, n int) ([]dto.ProjectResponse, error) {
	projects, err := s.projectRepo.TopByVotes(ctx, n)
	if err != nil {
		return nil, apperrors.InternalError("failed to load leaderboard", err)
	}

	top := make([]dto.ProjectResponse, 0, len(projects))
	for i := range projects {
		top = append(top, dto.NewProjectResponse(&projects[i], false))
	}

	raw, err := json.Marshal(top)
	if err != nil {
		return nil, apperrors.InternalError("failed to encode leaderboard", err)
	}
	if err := s.store.Set(ctx, key, raw, s.ttl); err != nil {
		slog.WarnContext(ctx, "Leaderboard cache write failed", "key", key, "error", err)
	}
	return top, nil
}
