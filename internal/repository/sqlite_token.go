package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/alexanderramin/gridlayout/internal/db"
	"github.com/alexanderramin/gridlayout/internal/domain"
)

// SQLiteTokenRepo implements TokenRepo using a SQLite database.
type SQLiteTokenRepo struct {
	conn db.DBTX
	uow  db.UnitOfWork
}

// NewSQLiteTokenRepo creates a new SQLiteTokenRepo.
func NewSQLiteTokenRepo(database *sql.DB) *SQLiteTokenRepo {
	return &SQLiteTokenRepo{conn: database, uow: db.NewSQLiteUnitOfWork(database)}
}

func (r *SQLiteTokenRepo) Create(ctx context.Context, t *domain.EditToken) error {
	return r.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO layout_token (token, created_at) VALUES (?, ?)`,
			t.Token, t.CreatedAt.UTC().Format(time.RFC3339))
		if err != nil {
			return fmt.Errorf("inserting edit token: %w", err)
		}
		for _, id := range t.LayoutIDs {
			_, err := tx.ExecContext(ctx,
				`INSERT OR IGNORE INTO layout_token_layout (token, layout_id) VALUES (?, ?)`, t.Token, id)
			if err != nil {
				return fmt.Errorf("attaching layout %d to edit token: %w", id, err)
			}
		}
		return nil
	})
}

func (r *SQLiteTokenRepo) Get(ctx context.Context, token string) (*domain.EditToken, error) {
	var createdStr string
	err := r.conn.QueryRowContext(ctx, `SELECT created_at FROM layout_token WHERE token = ?`, token).Scan(&createdStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("edit token: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("scanning edit token: %w", err)
	}
	created, err := parseTimestamp(createdStr)
	if err != nil {
		return nil, err
	}

	rows, err := r.conn.QueryContext(ctx,
		`SELECT layout_id FROM layout_token_layout WHERE token = ? ORDER BY layout_id`, token)
	if err != nil {
		return nil, fmt.Errorf("listing edit token layouts: %w", err)
	}
	defer rows.Close()

	t := &domain.EditToken{Token: token, CreatedAt: created}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning edit token layout: %w", err)
		}
		t.LayoutIDs = append(t.LayoutIDs, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating edit token layouts: %w", err)
	}
	return t, nil
}

func (r *SQLiteTokenRepo) Delete(ctx context.Context, token string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM layout_token WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting edit token: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("edit token: %w", ErrNotFound)
	}
	return nil
}
