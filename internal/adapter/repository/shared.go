package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"github.com/eslsoft/lingocast/internal/entity"
	"github.com/eslsoft/lingocast/internal/repository"
	"github.com/eslsoft/lingocast/pkg/filterexpr"
)

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// store bundles the connection with a dialect-aware statement builder.
type store struct {
	db *sql.DB
	b  *entsql.DialectBuilder
}

func newStore(drv *entsql.Driver) store {
	return store{db: drv.DB(), b: entsql.Dialect(drv.Dialect())}
}

func exec(ctx context.Context, q querier, stmt entsql.Querier) (sql.Result, error) {
	query, args := stmt.Query()
	return q.ExecContext(ctx, query, args...)
}

func (s store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// isUniqueViolation reports unique constraint failures across the supported drivers.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			liteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func translateWriteError(err error, duplicate error, op string) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return duplicate
	}
	return fmt.Errorf("%s: %w", op, err)
}

// scopedList builds the shared WHERE clause of list endpoints: fixed owner
// and scope predicates plus the compiled user filter.
type scopedList struct {
	table  string
	fixed  []*entsql.Predicate
	filter filterexpr.Query
}

func compileList(table string, fo *repository.FilterOrder, schema filterexpr.ResourceSchema, fixed ...*entsql.Predicate) (scopedList, error) {
	q, err := filterexpr.Compile(fo, schema)
	if err != nil {
		return scopedList{}, fmt.Errorf("%w: %v", entity.ErrInvalidFilter, err)
	}
	return scopedList{table: table, fixed: fixed, filter: q}, nil
}

func (l scopedList) predicate() *entsql.Predicate {
	preds := append([]*entsql.Predicate(nil), l.fixed...)
	for _, c := range l.filter.Conditions {
		preds = append(preds, conditionPredicate(c))
	}
	switch len(preds) {
	case 0:
		return nil
	case 1:
		return preds[0]
	default:
		return entsql.And(preds...)
	}
}

func conditionPredicate(c filterexpr.Condition) *entsql.Predicate {
	switch c.Op {
	case filterexpr.OpGTE:
		return entsql.GTE(c.Column, c.Value)
	case filterexpr.OpLTE:
		return entsql.LTE(c.Column, c.Value)
	case filterexpr.OpSW:
		return entsql.HasPrefix(c.Column, c.Value.(string))
	case filterexpr.OpIN:
		values := c.Value.([]string)
		args := make([]any, len(values))
		for i, v := range values {
			args[i] = v
		}
		return entsql.In(c.Column, args...)
	default:
		return entsql.EQ(c.Column, c.Value)
	}
}

// count returns the number of rows matching the list predicate.
func (l scopedList) count(ctx context.Context, s store) (int64, error) {
	sel := s.b.Select().Count().From(s.b.Table(l.table))
	if p := l.predicate(); p != nil {
		sel.Where(p)
	}
	query, args := sel.Query()
	var total int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count %s: %w", l.table, err)
	}
	return total, nil
}

// selector returns the ordered, paginated SELECT of columns.
func (l scopedList) selector(s store, page repository.Pagination, columns ...string) *entsql.Selector {
	sel := s.b.Select(columns...).From(s.b.Table(l.table))
	if p := l.predicate(); p != nil {
		sel.Where(p)
	}
	for _, term := range l.filter.Order {
		if term.Desc {
			sel.OrderBy(entsql.Desc(term.Column))
		} else {
			sel.OrderBy(entsql.Asc(term.Column))
		}
	}
	if page.PageSize > 0 {
		sel.Limit(int(page.PageSize)).Offset(int(page.Offset()))
	}
	return sel
}

// Timestamps are stored in UTC so sqlite and postgres compare them alike.
func utc(t time.Time) time.Time {
	return t.UTC()
}
