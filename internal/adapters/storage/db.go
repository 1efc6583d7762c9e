package storage

import (
	"database/sql"
	"fmt"
)

// Open opens the session database and prepares the schema. This is the only
// thing the server persists locally; every gym record lives behind the REST
// backend.
func Open(path string) (*sql.DB, error) {
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open session db: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("session db unreachable: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB creates the schema.
// PRE: db is a valid database connection
// POST: All tables are created
func InitDB(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS session (
		token_hash TEXT PRIMARY KEY,
		bearer_token TEXT NOT NULL,
		name TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		expires_at TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
