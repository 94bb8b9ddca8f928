package database

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB returns a migrated SQLite database that lives in the test's temp dir
func NewTestDB(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "nexus.db")
	conn, err := NewDBConnection("test", "sqlite", path, logger.Silent)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := conn.Migrate(); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn.DB
}
