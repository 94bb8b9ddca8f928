package database

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/project-nexus/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConnection represents a database connection
type DBConnection struct {
	DB     *gorm.DB
	Name   string
	Type   string
	DbURL  string
	Models []interface{}
}

// AllModels returns the schema in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Project{},
		&models.ProjectImage{},
		&models.Criteria{},
		&models.Vote{},
		&models.Rating{},
		&models.Comment{},
	}
}

// NewDBConnection opens a database of the given type ("postgres" or "sqlite")
func NewDBConnection(name, dbType, dbURL string, logLevel logger.LogLevel) (*DBConnection, error) {
	if dbURL == "" {
		return nil, errors.New("database URL cannot be empty")
	}

	// Configure GORM logger
	newLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
			Colorful:                  false,
		},
	)

	var dialector gorm.Dialector
	switch dbType {
	case "postgres":
		dialector = postgres.Open(dbURL)
	case "sqlite":
		dialector = sqlite.Open(SQLiteDSN(dbURL))
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         newLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", name, err)
	}

	// Get and configure the underlying SQL DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for %s: %w", name, err)
	}

	if dbType == "sqlite" {
		// SQLite allows a single writer; serialize through one connection.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	slog.Info("Connected to database", "name", name, "type", dbType)

	return &DBConnection{
		DB:     db,
		Name:   name,
		Type:   dbType,
		DbURL:  dbURL,
		Models: AllModels(),
	}, nil
}

// SQLiteDSN turns a file path into a DSN with foreign keys and a busy timeout enabled
func SQLiteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return "file:" + strings.TrimPrefix(path, "file:") + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate migrates the database schema
func (c *DBConnection) Migrate() error {
	slog.Info("Migrating database schema", "name", c.Name)
	if err := c.DB.AutoMigrate(c.Models...); err != nil {
		return fmt.Errorf("failed to migrate %s database: %w", c.Name, err)
	}
	slog.Info("Database schema migrated", "name", c.Name)
	return nil
}

// Close releases the underlying connection pool
func (c *DBConnection) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LogLevelFor maps the application log level onto gorm's
func LogLevelFor(level string) logger.LogLevel {
	switch level {
	case "debug":
		return logger.Info
	case "error":
		return logger.Error
	default:
		return logger.Warn
	}
}
