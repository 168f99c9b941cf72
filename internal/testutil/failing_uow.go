package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"github.com/alexanderramin/gridlayout/internal/db"
)

// FailingStatementUoW runs transactions against DB and fails the Nth write
// whose SQL starts with Statement, returning Err. Occurrence defaults to 1.
// Reads and other writes pass through, so rollback tests can name the exact
// write a multi-statement save dies on.
type FailingStatementUoW struct {
	DB         *sql.DB
	Statement  string
	Occurrence int
	Err        error

	mu   sync.Mutex
	hits int
}

// Hits returns how many matching writes were attempted, including the
// failing one.
func (u *FailingStatementUoW) Hits() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.hits
}

func (u *FailingStatementUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if fnErr := fn(ctx, &failingStatementTx{DBTX: tx, uow: u}); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

// matches counts query and reports whether it is the write to fail.
func (u *FailingStatementUoW) matches(query string) bool {
	if !strings.HasPrefix(strings.TrimSpace(query), u.Statement) {
		return false
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hits++
	return u.hits == max(u.Occurrence, 1)
}

type failingStatementTx struct {
	db.DBTX
	uow *FailingStatementUoW
}

func (f *failingStatementTx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if f.uow.matches(query) {
		return nil, f.uow.Err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}
