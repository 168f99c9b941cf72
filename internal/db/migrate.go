package db

import (
	"database/sql"
	"fmt"
)

// Migrate runs all schema migrations. Every statement is idempotent.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	// One summary row per layout. AUTOINCREMENT keeps deleted ids from
	// being handed out again.
	`CREATE TABLE IF NOT EXISTS layout (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		node_id    INTEGER,
		site_id    INTEGER,
		region     TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_layout_node ON layout(node_id)`,
	`CREATE INDEX IF NOT EXISTS idx_layout_site ON layout(site_id)`,
	`CREATE INDEX IF NOT EXISTS idx_layout_region ON layout(region)`,

	// One row per tree node, rewritten as a whole on every save.
	`CREATE TABLE IF NOT EXISTS layout_data (
		layout_id  INTEGER NOT NULL REFERENCES layout(id) ON DELETE CASCADE,
		storage_id TEXT NOT NULL,
		parent_id  TEXT,
		position   INTEGER NOT NULL CHECK(position >= 0),
		kind       TEXT NOT NULL
		           CHECK(kind IN ('top','hbox','column','item')),
		item_type  TEXT,
		item_id    INTEGER,
		options    TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (layout_id, storage_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_layout_data_parent ON layout_data(layout_id, parent_id, position)`,

	`CREATE TABLE IF NOT EXISTS layout_token (
		token      TEXT PRIMARY KEY,
		created_at TEXT NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS layout_token_layout (
		token     TEXT NOT NULL REFERENCES layout_token(token) ON DELETE CASCADE,
		layout_id INTEGER NOT NULL REFERENCES layout(id) ON DELETE CASCADE,
		PRIMARY KEY (token, layout_id)
	)`,

	// Payloads of the built-in fragment item type.
	`CREATE TABLE IF NOT EXISTS fragment (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		title      TEXT NOT NULL DEFAULT '',
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
}
