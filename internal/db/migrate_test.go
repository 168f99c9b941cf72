package db

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	expected := []string{"layout", "layout_data", "layout_token", "layout_token_layout", "fragment"}
	for _, table := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_CreatesIndexes(t *testing.T) {
	db := openTestDB(t)

	expected := []string{
		"idx_layout_node",
		"idx_layout_site",
		"idx_layout_region",
		"idx_layout_data_parent",
	}
	for _, idx := range expected {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='index' AND name=?`, idx).Scan(&name)
		require.NoError(t, err, "index %s should exist", idx)
	}
}

func TestOpenDB_ForeignKeysEnforced(t *testing.T) {
	db := openTestDB(t)

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	_, err := db.Exec(`INSERT INTO layout_data (layout_id, storage_id, position, kind) VALUES (999, 'x', 0, 'top')`)
	assert.Error(t, err, "rows for a missing layout must be rejected")
}

func TestOpenDB_FileUsesWAL(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "nested", "layouts.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
