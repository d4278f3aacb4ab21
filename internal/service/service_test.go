package service

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/olegiv/agenda-go/internal/store"
)

// testDB creates a temporary, migrated and seeded test database.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp(t.TempDir(), "agenda-test-*.db")
	if err != nil {
		t.Fatalf("creating temp file: %v", err)
	}
	dbPath := f.Name()
	f.Close()

	db, err := store.NewDB(dbPath)
	if err != nil {
		t.Fatalf("NewDB: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := store.Seed(context.Background(), db, false); err != nil {
		t.Fatalf("Seed: %v", err)
	}

	return db
}
