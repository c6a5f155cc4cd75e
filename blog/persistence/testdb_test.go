package persistence

import (
	"database/sql"
	"testing"

	"github.com/benjination/portfolio-blog/shared/db/sqlite"
)

// setupTestDB opens an in-memory build index with the full schema applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database := sqlite.NewSQLiteDB(sqlite.MemoryPath)
	if err := database.Connect(); err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return database.DB()
}
