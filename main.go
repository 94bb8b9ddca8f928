package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	v1 "github.com/project-nexus/api/v1"
	"github.com/project-nexus/cache"
	"github.com/project-nexus/config"
	"github.com/project-nexus/database"
	"github.com/project-nexus/jobs"
	"github.com/project-nexus/logging"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/middleware"
	"github.com/project-nexus/services"
)

const (
	shutdownTimeout    = 10 * time.Second
	cacheEvictInterval = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if err := run(cfg); err != nil {
		slog.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	conn, err := database.NewDBConnection("main", cfg.DatabaseType, cfg.DatabaseURL, database.LogLevelFor(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.Migrate(); err != nil {
		return err
	}

	clock := clockwork.NewRealClock()
	m := metrics.New(prometheus.DefaultRegisterer)

	store, err := newLeaderboardStore(ctx, cfg, clock)
	if err != nil {
		return err
	}

	db := conn.DB
	stats := services.NewStatsService(db, m)
	authService := services.NewAuthService(db, cfg.JWTSecret, cfg.TokenTTL, clock)
	cleanup := services.NewCleanupService(db, stats, cfg.RatingRetention, clock, m)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router, err := newRouter(cfg, m)
	if err != nil {
		return err
	}

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1.RegisterRoutes(router.Group("/api/v1"), v1.Dependencies{
		DB:            db,
		Auth:          authService,
		Projects:      services.NewProjectService(db),
		Leaderboard:   services.NewLeaderboardService(db, store, cfg.LeaderboardTTL, cfg.LeaderboardSize, m),
		Votes:         services.NewVoteService(db, stats, clock, m),
		Ratings:       services.NewRatingService(db, stats, clock, m),
		Comments:      services.NewCommentService(db, clock),
		Criteria:      services.NewCriteriaService(db),
		RateLimiter:   middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, clock),
		SecureCookies: cfg.IsProduction(),
	})

	// Rating retention
	go jobs.NewScheduler("rating-cleanup", cfg.CleanupInterval, func(ctx context.Context) error {
		_, err := cleanup.Run(ctx)
		return err
	}, clock).Run(ctx)

	if mem, ok := store.(*cache.MemoryStore); ok {
		go jobs.NewScheduler("cache-evict", cacheEvictInterval, func(context.Context) error {
			mem.EvictExpired()
			return nil
		}, clock).Run(ctx)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Project Nexus API starting", "port", cfg.Port, "env", cfg.AppEnv, "database", cfg.DatabaseType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newRouter builds the engine with the global middleware. Only TRUSTED_PROXIES may
// set X-Forwarded-For, so the per-client limiter keys on the real peer otherwise.
func newRouter(cfg *config.Config, m *metrics.Metrics) (*gin.Engine, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	router.Use(gin.Logger(), gin.Recovery())

	// CORS configuration
	router.Use(cors.New(cors.Config{
		AllowAllOrigins:  true,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(middleware.MetricsMiddleware(m))

	return router, nil
}

// newLeaderboardStore uses Redis when REDIS_URL is set so replicas share one leaderboard
func newLeaderboardStore(ctx context.Context, cfg *config.Config, clock clockwork.Clock) (cache.Store, error) {
	if cfg.RedisURL == "" {
		slog.Info("Leaderboard cache: in-process")
		return cache.NewMemoryStore(clock), nil
	}

	rdb, err := cache.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	slog.Info("Leaderboard cache: redis")
	return cache.NewRedisStore(rdb, "nexus:"), nil
}
