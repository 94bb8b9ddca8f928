// Command manage runs one-off administration tasks against the Project Nexus database.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/project-nexus/config"
	"github.com/project-nexus/database"
	"github.com/project-nexus/dto"
	"github.com/project-nexus/logging"
	"github.com/project-nexus/metrics"
	"github.com/project-nexus/models"
	"github.com/project-nexus/services"
	"github.com/project-nexus/utils"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "manage",
		Short:        "Project Nexus management commands",
		SilenceUsage: true,
	}

	root.AddCommand(
		newMigrateCmd(),
		newSeedCriteriaCmd(),
		newCreateUserCmd(),
		newCleanupRatingsCmd(),
		newCopyDataCmd(),
	)
	return root
}

// connect loads the configuration and opens the configured database
func connect() (*config.Config, *database.DBConnection, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)

	conn, err := database.NewDBConnection("main", cfg.DatabaseType, cfg.DatabaseURL, database.LogLevelFor(cfg.LogLevel))
	if err != nil {
		return nil, nil, err
	}
	return cfg, conn, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := conn.Migrate(); err != nil {
				return err
			}
			slog.Info("Database migration completed")
			return nil
		},
	}
}

func newSeedCriteriaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-criteria",
		Short: "Insert the default rating criteria for every category (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			n, err := database.SeedCriteria(conn.DB)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d criteria\n", n)
			return nil
		},
	}
}

func newCreateUserCmd() *cobra.Command {
	var (
		email    string
		username string
		password string
		role     string
	)

	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create a user account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			if password == "" {
				password = os.Getenv("NEXUS_USER_PASSWORD")
			}
			generated := password == ""
			if generated {
				if password, err = utils.GenerateSecurePassword(16); err != nil {
					return err
				}
			}

			auth := services.NewAuthService(conn.DB, cfg.JWTSecret, cfg.TokenTTL, clockwork.NewRealClock())
			user, err := auth.CreateUser(cmd.Context(), dto.CreateUserRequest{
				Email:    email,
				Username: username,
				Password: password,
				Role:     models.Role(role),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s %s (%s)\n", user.Role, user.Username, user.ID)
			if generated {
				fmt.Fprintf(cmd.OutOrStdout(), "Generated password: %s\n", password)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address (required)")
	cmd.Flags().StringVar(&username, "username", "", "display name (required)")
	cmd.Flags().StringVar(&password, "password", "", "password, falls back to NEXUS_USER_PASSWORD, generated when both are empty")
	cmd.Flags().StringVar(&role, "role", string(models.RoleUser), "user or admin")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newCleanupRatingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup-ratings",
		Short: "Delete ratings older than RATING_RETENTION and recompute project stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, conn, err := connect()
			if err != nil {
				return err
			}
			defer conn.Close()

			m := metrics.NewNop()
			stats := services.NewStatsService(conn.DB, m)
			cleanup := services.NewCleanupService(conn.DB, stats, cfg.RatingRetention, clockwork.NewRealClock(), m)

			result, err := cleanup.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d ratings older than %s across %d projects\n",
				result.DeletedRatings, result.Cutoff.Format("2006-01-02 15:04:05"), result.AffectedProjects)
			return nil
		},
	}
}

func newCopyDataCmd() *cobra.Command {
	var sourceType, targetType string

	cmd := &cobra.Command{
		Use:   "copy-data",
		Short: "Copy all rows from SOURCE_DATABASE_URL into TARGET_DATABASE_URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnv()

			sourceURL := os.Getenv("SOURCE_DATABASE_URL")
			targetURL := os.Getenv("TARGET_DATABASE_URL")
			if sourceURL == "" || targetURL == "" {
				return errors.New("SOURCE_DATABASE_URL and TARGET_DATABASE_URL are required")
			}
			logging.InitLogger(config.GetEnv("LOG_LEVEL", "info"), config.GetEnv("LOG_FORMAT", "text"))

			source, err := database.NewDBConnection("source", sourceType, sourceURL, database.LogLevelFor("warn"))
			if err != nil {
				return fmt.Errorf("failed to connect to source database: %w", err)
			}
			defer source.Close()

			target, err := database.NewDBConnection("target", targetType, targetURL, database.LogLevelFor("warn"))
			if err != nil {
				return fmt.Errorf("failed to connect to target database: %w", err)
			}
			defer target.Close()

			// Ensure target database schema is migrated
			if err := target.Migrate(); err != nil {
				return fmt.Errorf("failed to migrate target database schema: %w", err)
			}

			return database.MigrateDataBetweenDatabases(source, target)
		},
	}

	cmd.Flags().StringVar(&sourceType, "source-type", config.DatabasePostgres, "postgres or sqlite")
	cmd.Flags().StringVar(&targetType, "target-type", config.DatabasePostgres, "postgres or sqlite")
	return cmd
}
