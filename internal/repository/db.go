package repository

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
)

// schema is executed on every open; all statements are idempotent.
// Integer primary keys come from sequences so concurrent inserts cannot
// collide on a computed next id.
var schema = []string{
	`CREATE SEQUENCE IF NOT EXISTS users_seq`,
	`CREATE SEQUENCE IF NOT EXISTS auth_log_seq`,
	`CREATE SEQUENCE IF NOT EXISTS portfolios_seq`,
	`CREATE SEQUENCE IF NOT EXISTS assets_seq`,
	`CREATE TABLE IF NOT EXISTS users (
		user_id INTEGER PRIMARY KEY DEFAULT nextval('users_seq'),
		email TEXT UNIQUE NOT NULL,
		hashed_password TEXT NOT NULL,
		name TEXT,
		role TEXT DEFAULT 'user',
		date_joined TIMESTAMP DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS sessions (
		session_id TEXT PRIMARY KEY,
		user_id INTEGER,
		created_at TIMESTAMP DEFAULT current_timestamp,
		expires_at TIMESTAMP,
		active_flag BOOLEAN DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS auth_log (
		log_id BIGINT PRIMARY KEY DEFAULT nextval('auth_log_seq'),
		user_id INTEGER,
		login_time TIMESTAMP DEFAULT current_timestamp,
		ip_address TEXT,
		token_preview TEXT,
		status TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS portfolios (
		portfolio_id INTEGER PRIMARY KEY DEFAULT nextval('portfolios_seq'),
		user_id INTEGER NOT NULL,
		name TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT current_timestamp
	)`,
	`CREATE TABLE IF NOT EXISTS portfolio_assets (
		portfolio_id INTEGER,
		asset_id INTEGER,
		weight DOUBLE DEFAULT 0.0,
		PRIMARY KEY (portfolio_id, asset_id)
	)`,
	`CREATE TABLE IF NOT EXISTS assets (
		asset_id INTEGER PRIMARY KEY DEFAULT nextval('assets_seq'),
		symbol TEXT UNIQUE NOT NULL,
		name TEXT,
		asset_type TEXT CHECK (asset_type IN ('stock','crypto','bond','etf')),
		currency TEXT DEFAULT 'USD'
	)`,
}

// NewDB opens the embedded DuckDB database at path and bootstraps the
// schema. An empty path opens an in-memory database.
func NewDB(path string) (*sql.DB, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, err
	}

	// Embedded single-file database: one writer connection.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("bootstrapping schema: %w", err)
		}
	}

	return db, nil
}
