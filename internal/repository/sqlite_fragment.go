package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/gridlayout/internal/db"
	"github.com/alexanderramin/gridlayout/internal/domain"
)

const fragmentColumns = `id, title, body, created_at, updated_at`

// SQLiteFragmentRepo implements FragmentRepo using a SQLite database.
type SQLiteFragmentRepo struct {
	conn db.DBTX
}

func NewSQLiteFragmentRepo(conn db.DBTX) *SQLiteFragmentRepo {
	return &SQLiteFragmentRepo{conn: conn}
}

// Create inserts f and sets its ID and timestamps.
func (r *SQLiteFragmentRepo) Create(ctx context.Context, f *domain.Fragment) error {
	now := nowUTC()
	res, err := r.conn.ExecContext(ctx,
		`INSERT INTO fragment (title, body, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		f.Title, f.Body, now.Format(time.RFC3339), now.Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("inserting fragment: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading fragment id: %w", err)
	}
	f.ID = id
	f.CreatedAt = now
	f.UpdatedAt = now
	return nil
}

func (r *SQLiteFragmentRepo) GetByID(ctx context.Context, id int64) (*domain.Fragment, error) {
	row := r.conn.QueryRowContext(ctx, `SELECT `+fragmentColumns+` FROM fragment WHERE id = ?`, id)
	var f domain.Fragment
	var createdStr, updatedStr string
	if err := row.Scan(&f.ID, &f.Title, &f.Body, &createdStr, &updatedStr); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("fragment %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("scanning fragment: %w", err)
	}
	if err := populateFragment(&f, createdStr, updatedStr); err != nil {
		return nil, err
	}
	return &f, nil
}

// GetMany returns the fragments among ids that exist, keyed by id.
func (r *SQLiteFragmentRepo) GetMany(ctx context.Context, ids []int64) (map[int64]*domain.Fragment, error) {
	out := make(map[int64]*domain.Fragment, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+fragmentColumns+` FROM fragment WHERE id IN (`+placeholders(len(ids))+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("listing fragments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var f domain.Fragment
		var createdStr, updatedStr string
		if err := rows.Scan(&f.ID, &f.Title, &f.Body, &createdStr, &updatedStr); err != nil {
			return nil, fmt.Errorf("scanning fragment row: %w", err)
		}
		if err := populateFragment(&f, createdStr, updatedStr); err != nil {
			return nil, err
		}
		out[f.ID] = &f
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating fragments: %w", err)
	}
	return out, nil
}

func populateFragment(f *domain.Fragment, createdStr, updatedStr string) error {
	var err error
	if f.CreatedAt, err = parseTimestamp(createdStr); err != nil {
		return err
	}
	if f.UpdatedAt, err = parseTimestamp(updatedStr); err != nil {
		return err
	}
	return nil
}
