package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// connPragmas are applied by the driver to every pooled connection, so
// foreign keys and the busy timeout hold no matter which connection serves
// a query.
const connPragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

// OpenDB opens a SQLite database at the given path.
// If path is ":memory:", uses an in-memory database pinned to a single
// connection (each SQLite connection would otherwise see its own empty
// database). File databases use WAL mode.
// Runs migrations automatically.
func OpenDB(path string) (*sql.DB, error) {
	memory := path == ":memory:"
	if !memory {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	dsn := path + "?" + connPragmas
	if !memory {
		dsn += "&_pragma=journal_mode(WAL)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if memory {
		db.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return db, nil
}
