package repository

import (
	"database/sql"
	"testing"
)

// newTestDB opens an in-memory DuckDB database with the schema applied.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := NewDB("")
	if err != nil {
		t.Fatalf("NewDB() unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestNewDBBootstrapsSchema(t *testing.T) {
	db := newTestDB(t)

	for _, table := range []string{"users", "sessions", "auth_log", "portfolios", "portfolio_assets", "assets"} {
		var count int
		if err := db.QueryRow("SELECT count(*) FROM " + table).Scan(&count); err != nil {
			t.Errorf("table %s not created: %v", table, err)
		}
	}
}

func TestNewDBIdempotentBootstrap(t *testing.T) {
	db := newTestDB(t)

	// Re-running the schema must not fail on an initialized database.
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("re-running schema statement failed: %v", err)
		}
	}
}
