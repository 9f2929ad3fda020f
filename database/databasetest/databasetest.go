// Package databasetest opens migrated in-memory databases for tests.
package databasetest

import (
	"solara/config"
	"solara/database"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Open returns a fresh, fully migrated sqlite database private to t.
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   "file:" + uuid.NewString() + "?mode=memory&cache=shared",
	})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return db
}
