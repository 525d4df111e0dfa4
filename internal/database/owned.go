package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Querier is the subset of *sql.DB and *sql.Tx used by OwnedTable.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// TableSpec describes how rows of T are read. Every table has an id and a user_id column.
type TableSpec[T any] struct {
	// Table is the physical table, used for counts and deletes.
	Table string
	// Alias qualifies the owner and filter columns in SELECTs.
	Alias string
	// Joins is appended after "FROM Table Alias"; it may be empty.
	Joins string
	// Columns is the select list consumed by Scan.
	Columns string
	Scan    func(Scanner) (T, error)
}

// OwnedTable reads and deletes rows that always belong to a single user.
// Rows of other users are invisible: they behave exactly like missing rows.
type OwnedTable[T any] struct {
	q    Querier
	spec TableSpec[T]
}

// NewOwnedTable binds spec to q.
func NewOwnedTable[T any](q Querier, spec TableSpec[T]) *OwnedTable[T] {
	return &OwnedTable[T]{q: q, spec: spec}
}

// WithTx returns a copy of the table that runs its statements inside tx.
func (t *OwnedTable[T]) WithTx(tx *sql.Tx) *OwnedTable[T] {
	return &OwnedTable[T]{q: tx, spec: t.spec}
}

type filter struct {
	column string
	value  any
}

type query struct {
	filters []filter
	orderBy string
}

// QueryOption narrows List, Count and DeleteWhere.
type QueryOption func(*query)

// Where adds an equality condition on an unqualified column of the physical table.
func Where(column string, value any) QueryOption {
	return func(q *query) {
		q.filters = append(q.filters, filter{column: column, value: value})
	}
}

// OrderBy sets the ORDER BY expression of List. It is ignored elsewhere.
func OrderBy(expr string) QueryOption {
	return func(q *query) {
		q.orderBy = expr
	}
}

func buildQuery(opts []QueryOption) query {
	var q query
	for _, opt := range opts {
		opt(&q)
	}
	return q
}

// where renders the owner condition plus the filters. prefix is "" or "alias.".
func (q query) where(prefix, userID string) (string, []any) {
	conds := []string{prefix + "user_id = ?"}
	args := []any{userID}
	for _, f := range q.filters {
		conds = append(conds, prefix+f.column+" = ?")
		args = append(args, f.value)
	}
	return strings.Join(conds, " AND "), args
}

func (t *OwnedTable[T]) selectFrom() string {
	s := fmt.Sprintf("SELECT %s FROM %s %s", t.spec.Columns, t.spec.Table, t.spec.Alias)
	if t.spec.Joins != "" {
		s += " " + t.spec.Joins
	}
	return s
}

// Get returns the row with the given id owned by userID, or ErrNotFound.
func (t *OwnedTable[T]) Get(ctx context.Context, userID, id string) (T, error) {
	cond, args := buildQuery([]QueryOption{Where("id", id)}).where(t.spec.Alias+".", userID)
	row := t.q.QueryRowContext(ctx, t.selectFrom()+" WHERE "+cond, args...)

	v, err := t.spec.Scan(row)
	if err != nil {
		var zero T
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, fmt.Errorf("get %s %s: %w", t.spec.Table, id, err)
	}
	return v, nil
}

// Exists reports whether a row with the given id is owned by userID.
func (t *OwnedTable[T]) Exists(ctx context.Context, userID, id string) (bool, error) {
	n, err := t.Count(ctx, userID, Where("id", id))
	return n > 0, err
}

// List returns every row owned by userID that matches opts. It never returns nil.
func (t *OwnedTable[T]) List(ctx context.Context, userID string, opts ...QueryOption) ([]T, error) {
	q := buildQuery(opts)
	cond, args := q.where(t.spec.Alias+".", userID)
	stmt := t.selectFrom() + " WHERE " + cond
	if q.orderBy != "" {
		stmt += " ORDER BY " + q.orderBy
	}

	rows, err := t.q.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.spec.Table, err)
	}
	defer rows.Close()

	out := make([]T, 0)
	for rows.Next() {
		v, err := t.spec.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.spec.Table, err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// Count returns the number of rows owned by userID that match opts.
func (t *OwnedTable[T]) Count(ctx context.Context, userID string, opts ...QueryOption) (int, error) {
	cond, args := buildQuery(opts).where("", userID)
	var n int
	err := t.q.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+t.spec.Table+" WHERE "+cond, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count %s: %w", t.spec.Table, err)
	}
	return n, nil
}

// Delete removes the row with the given id owned by userID, or returns ErrNotFound.
func (t *OwnedTable[T]) Delete(ctx context.Context, userID, id string) error {
	n, err := t.DeleteWhere(ctx, userID, Where("id", id))
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteWhere removes every row owned by userID that matches opts and returns how many went.
func (t *OwnedTable[T]) DeleteWhere(ctx context.Context, userID string, opts ...QueryOption) (int64, error) {
	cond, args := buildQuery(opts).where("", userID)
	res, err := t.q.ExecContext(ctx, "DELETE FROM "+t.spec.Table+" WHERE "+cond, args...)
	if err != nil {
		return 0, fmt.Errorf("delete from %s: %w", t.spec.Table, err)
	}
	return res.RowsAffected()
}
