// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"taskapi/internal/database"
)

// OpenInMemoryDB opens a migrated in-memory sqlite database named after the
// test, so tests do not share rows. The database is closed on cleanup.
func OpenInMemoryDB(t testing.TB) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	db, err := database.OpenDialector(sqlite.Open(dsn), nil)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}
