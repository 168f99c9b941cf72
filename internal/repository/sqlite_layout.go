package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/alexanderramin/gridlayout/internal/db"
	"github.com/alexanderramin/gridlayout/internal/domain"
	"github.com/alexanderramin/gridlayout/internal/itemtype"
)

// layoutColumns is the canonical SELECT column list for layout.
const layoutColumns = `id, node_id, site_id, region, created_at, updated_at`

// layoutDataColumns is the canonical SELECT column list for layout_data.
const layoutDataColumns = `storage_id, parent_id, position, kind, item_type, item_id, options`

// conditionColumns lists the layout columns ListWithConditions may filter
// on. Anything else is rejected rather than silently ignored.
var conditionColumns = map[string]bool{
	"node_id": true,
	"site_id": true,
	"region":  true,
}

// SQLiteLayoutRepo implements LayoutRepo using a SQLite database. Trees are
// saved by full replace: every node row of the layout is deleted and the
// current tree is written back, inside one transaction.
type SQLiteLayoutRepo struct {
	conn  db.DBTX
	uow   db.UnitOfWork
	types *itemtype.Registry
}

// NewSQLiteLayoutRepo creates a repo that opens its own transactions for
// multi-statement writes. Items are hydrated through types.
func NewSQLiteLayoutRepo(database *sql.DB, types *itemtype.Registry) *SQLiteLayoutRepo {
	return &SQLiteLayoutRepo{conn: database, uow: db.NewSQLiteUnitOfWork(database), types: types}
}

// NewSQLiteLayoutRepoWithUoW is NewSQLiteLayoutRepo with a caller-supplied
// unit of work for writes.
func NewSQLiteLayoutRepoWithUoW(database *sql.DB, uow db.UnitOfWork, types *itemtype.Registry) *SQLiteLayoutRepo {
	return &SQLiteLayoutRepo{conn: database, uow: uow, types: types}
}

// NewTxLayoutRepo creates a repo bound to a caller-managed transaction.
func NewTxLayoutRepo(tx db.DBTX, types *itemtype.Registry) *SQLiteLayoutRepo {
	return &SQLiteLayoutRepo{conn: tx, types: types}
}

func (r *SQLiteLayoutRepo) withinTx(ctx context.Context, fn func(ctx context.Context, conn db.DBTX) error) error {
	if r.uow == nil {
		return fn(ctx, r.conn)
	}
	return r.uow.WithinTx(ctx, fn)
}

// layoutRow is one layout_data record.
type layoutRow struct {
	StorageID string
	ParentID  sql.NullString
	Position  int
	Kind      string
	ItemType  sql.NullString
	ItemID    sql.NullInt64
	Options   string
}

func (r *SQLiteLayoutRepo) Create(ctx context.Context, attrs domain.Attributes) (*domain.Layout, error) {
	now := nowUTC()
	var l *domain.Layout
	err := r.withinTx(ctx, func(ctx context.Context, conn db.DBTX) error {
		res, err := conn.ExecContext(ctx,
			`INSERT INTO layout (node_id, site_id, region, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			nullableInt64ToValue(attrs.NodeID),
			nullableInt64ToValue(attrs.SiteID),
			nullableStringToValue(attrs.Region),
			now.Format(time.RFC3339),
			now.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("inserting layout: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return fmt.Errorf("reading layout id: %w", err)
		}
		l = domain.NewLayout(id, attrs)
		l.CreatedAt = now
		l.UpdatedAt = now
		return insertTree(ctx, conn, l)
	})
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *SQLiteLayoutRepo) Load(ctx context.Context, id int64) (*domain.Layout, error) {
	attrs, created, updated, err := r.loadSummary(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := r.loadRows(ctx, id)
	if err != nil {
		return nil, err
	}
	root, err := r.buildTree(id, rows)
	if err != nil {
		return nil, fmt.Errorf("rebuilding layout %d: %w", id, err)
	}
	l, err := domain.NewLayoutWithRoot(id, attrs, root)
	if err != nil {
		return nil, err
	}
	l.CreatedAt = created
	l.UpdatedAt = updated
	return l, nil
}

// LoadMultiple loads every layout in ids that exists. Missing ids are
// omitted from the result without error.
func (r *SQLiteLayoutRepo) LoadMultiple(ctx context.Context, ids []int64) (map[int64]*domain.Layout, error) {
	out := make(map[int64]*domain.Layout, len(ids))
	for _, id := range ids {
		if _, done := out[id]; done {
			continue
		}
		l, err := r.Load(ctx, id)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return nil, err
		}
		out[id] = l
	}
	return out, nil
}

// Update persists the whole in-memory tree, replacing every stored node row
// of the layout.
func (r *SQLiteLayoutRepo) Update(ctx context.Context, l *domain.Layout) error {
	now := nowUTC()
	err := r.withinTx(ctx, func(ctx context.Context, conn db.DBTX) error {
		// Write the summary first so the transaction takes the write lock
		// before it reads anything.
		res, err := conn.ExecContext(ctx,
			`UPDATE layout SET node_id = ?, site_id = ?, region = ?, updated_at = ? WHERE id = ?`,
			nullableInt64ToValue(l.NodeID),
			nullableInt64ToValue(l.SiteID),
			nullableStringToValue(l.Region),
			now.Format(time.RFC3339),
			l.ID,
		)
		if err != nil {
			return fmt.Errorf("updating layout: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("updating layout: %w", err)
		} else if n == 0 {
			return fmt.Errorf("layout %d: %w", l.ID, ErrNotFound)
		}
		if _, err := conn.ExecContext(ctx, `DELETE FROM layout_data WHERE layout_id = ?`, l.ID); err != nil {
			return fmt.Errorf("clearing layout data: %w", err)
		}
		return insertTree(ctx, conn, l)
	})
	if err != nil {
		return err
	}
	l.UpdatedAt = now
	return nil
}

func (r *SQLiteLayoutRepo) Delete(ctx context.Context, id int64) error {
	return r.withinTx(ctx, func(ctx context.Context, conn db.DBTX) error {
		if _, err := conn.ExecContext(ctx, `DELETE FROM layout_data WHERE layout_id = ?`, id); err != nil {
			return fmt.Errorf("deleting layout data: %w", err)
		}
		res, err := conn.ExecContext(ctx, `DELETE FROM layout WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting layout: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("deleting layout: %w", err)
		} else if n == 0 {
			return fmt.Errorf("layout %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *SQLiteLayoutRepo) Exists(ctx context.Context, id int64) (bool, error) {
	var one int
	err := r.conn.QueryRowContext(ctx, `SELECT 1 FROM layout WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking layout existence: %w", err)
	}
	return true, nil
}

// ListWithConditions returns the ids of layouts matching every condition.
// A nil value (or nil pointer) matches rows where the column is unset.
// Only node_id, site_id and region are accepted, and at least one
// condition is required.
func (r *SQLiteLayoutRepo) ListWithConditions(ctx context.Context, conditions map[string]any) ([]int64, error) {
	if len(conditions) == 0 {
		return nil, fmt.Errorf("%w: listing layouts requires at least one condition", domain.ErrValidation)
	}
	cols := make([]string, 0, len(conditions))
	for col := range conditions {
		if !conditionColumns[col] {
			return nil, fmt.Errorf("%w: unknown layout condition column %q", domain.ErrValidation, col)
		}
		cols = append(cols, col)
	}
	sort.Strings(cols)

	where := make([]string, 0, len(cols))
	args := make([]any, 0, len(cols))
	for _, col := range cols {
		v := conditionValue(conditions[col])
		if v == nil {
			where = append(where, col+" IS NULL")
			continue
		}
		where = append(where, col+" = ?")
		args = append(args, v)
	}

	query := `SELECT id FROM layout WHERE ` + strings.Join(where, " AND ") + ` ORDER BY id`
	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing layouts: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning layout id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layouts: %w", err)
	}
	return ids, nil
}

// conditionValue unwraps the pointer forms callers use for nullable
// attributes, mapping nil pointers to SQL NULL.
func conditionValue(v any) any {
	switch p := v.(type) {
	case *int64:
		if p == nil {
			return nil
		}
		return *p
	case *int:
		if p == nil {
			return nil
		}
		return *p
	case *string:
		if p == nil {
			return nil
		}
		return *p
	default:
		return v
	}
}

func (r *SQLiteLayoutRepo) loadSummary(ctx context.Context, id int64) (domain.Attributes, time.Time, time.Time, error) {
	var (
		attrs                  domain.Attributes
		layoutID               int64
		nodeID, siteID         sql.NullInt64
		region                 sql.NullString
		createdStr, updatedStr string
	)
	err := r.conn.QueryRowContext(ctx, `SELECT `+layoutColumns+` FROM layout WHERE id = ?`, id).
		Scan(&layoutID, &nodeID, &siteID, &region, &createdStr, &updatedStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return attrs, time.Time{}, time.Time{}, fmt.Errorf("layout %d: %w", id, ErrNotFound)
		}
		return attrs, time.Time{}, time.Time{}, fmt.Errorf("scanning layout: %w", err)
	}
	attrs.NodeID = parseNullableInt64(nodeID)
	attrs.SiteID = parseNullableInt64(siteID)
	attrs.Region = parseNullableString(region)

	created, err := parseTimestamp(createdStr)
	if err != nil {
		return attrs, time.Time{}, time.Time{}, err
	}
	updated, err := parseTimestamp(updatedStr)
	if err != nil {
		return attrs, time.Time{}, time.Time{}, err
	}
	return attrs, created, updated, nil
}

// loadRows reads every node row of a layout. The rows are fully drained
// before returning so no cursor stays open while the tree is rebuilt.
func (r *SQLiteLayoutRepo) loadRows(ctx context.Context, id int64) ([]layoutRow, error) {
	rows, err := r.conn.QueryContext(ctx,
		`SELECT `+layoutDataColumns+` FROM layout_data WHERE layout_id = ? ORDER BY parent_id, position`, id)
	if err != nil {
		return nil, fmt.Errorf("listing layout data: %w", err)
	}
	defer rows.Close()

	var out []layoutRow
	for rows.Next() {
		var row layoutRow
		if err := rows.Scan(&row.StorageID, &row.ParentID, &row.Position, &row.Kind,
			&row.ItemType, &row.ItemID, &row.Options); err != nil {
			return nil, fmt.Errorf("scanning layout data row: %w", err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating layout data: %w", err)
	}
	return out, nil
}

// buildTree groups rows by parent id and attaches children recursively,
// ordered by position, starting from the row without a parent. Rows that
// cannot be reached from the root are ignored.
func (r *SQLiteLayoutRepo) buildTree(layoutID int64, rows []layoutRow) (*domain.Node, error) {
	root := domain.NewTopLevel(layoutID)
	byParent := make(map[string][]layoutRow)
	for _, row := range rows {
		if !row.ParentID.Valid {
			if domain.NodeKind(row.Kind) != domain.KindTopLevel {
				return nil, fmt.Errorf("%w: parentless row %q has kind %q", domain.ErrValidation, row.StorageID, row.Kind)
			}
			opts, err := decodeOptions(row.Options)
			if err != nil {
				return nil, err
			}
			root.Options = opts
			continue
		}
		byParent[row.ParentID.String] = append(byParent[row.ParentID.String], row)
	}
	for _, children := range byParent {
		sort.SliceStable(children, func(i, j int) bool { return children[i].Position < children[j].Position })
	}
	if err := r.attachChildren(root, byParent); err != nil {
		return nil, err
	}
	return root, nil
}

func (r *SQLiteLayoutRepo) attachChildren(parent *domain.Node, byParent map[string][]layoutRow) error {
	for _, row := range byParent[parent.ID] {
		child, err := r.hydrate(row)
		if err != nil {
			return err
		}
		if err := parent.Append(child); err != nil {
			return fmt.Errorf("attaching %q to %q: %w", row.StorageID, parent.ID, err)
		}
		if child.IsContainer() {
			if err := r.attachChildren(child, byParent); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *SQLiteLayoutRepo) hydrate(row layoutRow) (*domain.Node, error) {
	opts, err := decodeOptions(row.Options)
	if err != nil {
		return nil, err
	}
	var n *domain.Node
	switch domain.NodeKind(row.Kind) {
	case domain.KindHorizontal:
		n = domain.NewHorizontal(row.StorageID)
	case domain.KindColumn:
		n = domain.NewColumn(row.StorageID)
	case domain.KindItem:
		n = r.types.Create(row.ItemType.String, row.ItemID.Int64, opts)
		n.ID = row.StorageID
	default:
		return nil, fmt.Errorf("%w: row %q has unexpected kind %q", domain.ErrValidation, row.StorageID, row.Kind)
	}
	n.Options = opts
	return n, nil
}

// insertTree writes one layout_data row per node, walking the tree in
// pre-order.
func insertTree(ctx context.Context, conn db.DBTX, l *domain.Layout) error {
	return l.TopLevel().Walk(func(n *domain.Node) error {
		opts, err := encodeOptions(n.Options)
		if err != nil {
			return err
		}
		var parentID, itemType, itemID interface{}
		if p := n.Parent(); p != nil {
			parentID = p.ID
		}
		if n.Kind == domain.KindItem {
			itemType = n.ItemType
			itemID = n.PayloadID
		}
		_, err = conn.ExecContext(ctx,
			`INSERT INTO layout_data (layout_id, `+layoutDataColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			l.ID, n.ID, parentID, n.Position(), string(n.Kind), itemType, itemID, opts,
		)
		if err != nil {
			return fmt.Errorf("inserting layout node %q: %w", n.ID, err)
		}
		return nil
	})
}

