package backend

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/morsel-app/morsel-restaurant/pkg/database"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore implements DataStore against PostgreSQL.
type PostgresStore struct {
	q  querier
	db *database.Database // nil when bound to a transaction
}

// NewPostgresStore returns a PostgresStore backed by the given pool.
func NewPostgresStore(db *database.Database) *PostgresStore {
	return &PostgresStore{q: db.Pool(), db: db}
}

// WithinTx runs fn against a store bound to a single transaction.
// Calls on a store that is already transactional reuse that transaction.
func (s *PostgresStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx DataStore) error) error {
	if s.db == nil {
		return fn(ctx, s)
	}
	return s.db.WithTx(ctx, func(tx pgx.Tx) error {
		return fn(ctx, &PostgresStore{q: tx})
	})
}

// Insert creates one row and returns it with server-assigned columns.
func (s *PostgresStore) Insert(ctx context.Context, table Table, row Row) (Row, error) {
	sql, args := buildInsert(table, []Row{row}, nil)
	rows, err := s.queryRows(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert %s: %w", table, ErrNoRows)
	}
	return rows[0], nil
}

// InsertBatch creates all rows in one statement. Every row must carry the same columns.
func (s *PostgresStore) InsertBatch(ctx context.Context, table Table, rows []Row, ignoreConflictOn ...string) error {
	if len(rows) == 0 {
		return nil
	}
	if err := sameColumns(rows); err != nil {
		return fmt.Errorf("insert batch %s: %w", table, err)
	}
	sql, args := buildInsert(table, rows, ignoreConflictOn)
	if _, err := s.q.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert batch %s: %w", table, mapPgError(err))
	}
	return nil
}

// Select returns the rows matching filter.
func (s *PostgresStore) Select(ctx context.Context, table Table, filter Filter) ([]Row, error) {
	sql, args := buildSelect(table, filter)
	rows, err := s.queryRows(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	return rows, nil
}

// Upsert inserts row or updates the row that conflicts on conflictKey.
func (s *PostgresStore) Upsert(ctx context.Context, table Table, row Row, conflictKey string) (Row, error) {
	sql, args := buildUpsert(table, row, conflictKey)
	rows, err := s.queryRows(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("upsert %s: %w", table, ErrNoRows)
	}
	return rows[0], nil
}

// Update sets columns on every row matching filter and returns the updated rows.
func (s *PostgresStore) Update(ctx context.Context, table Table, set Row, filter Filter) ([]Row, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("update %s: no columns to set", table)
	}
	sql, args := buildUpdate(table, set, filter)
	rows, err := s.queryRows(ctx, sql, args)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", table, err)
	}
	return rows, nil
}

// Delete removes the rows matching filter. An empty filter is refused.
func (s *PostgresStore) Delete(ctx context.Context, table Table, filter Filter) (int64, error) {
	if len(filter) == 0 {
		return 0, fmt.Errorf("delete %s: refusing to delete without a filter", table)
	}
	sql, args := buildDelete(table, filter)
	tag, err := s.q.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, mapPgError(err))
	}
	return tag.RowsAffected(), nil
}

func (s *PostgresStore) queryRows(ctx context.Context, sql string, args []any) ([]Row, error) {
	rows, err := s.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapPgError(err)
	}
	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, mapPgError(err)
	}
	out := make([]Row, len(maps))
	for i, m := range maps {
		r := make(Row, len(m))
		for k, v := range m {
			r[k] = normalizePgValue(v)
		}
		out[i] = r
	}
	return out, nil
}

func normalizePgValue(v any) any {
	if n, ok := v.(pgtype.Numeric); ok {
		if !n.Valid {
			return nil
		}
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	}
	return normalizeValue(v)
}

// mapPgError translates Postgres error codes into backend sentinels while
// keeping the driver error in the chain for its message.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case "23505":
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case "23502", "23503", "23514", "22003":
		return fmt.Errorf("%w: %w", ErrConstraint, err)
	default:
		return err
	}
}

func ident(name string) string {
	return pgx.Identifier{name}.Sanitize()
}

func sortedColumns(row Row) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func sameColumns(rows []Row) error {
	want := sortedColumns(rows[0])
	for i, r := range rows[1:] {
		got := sortedColumns(r)
		if strings.Join(got, ",") != strings.Join(want, ",") {
			return fmt.Errorf("row %d columns %v differ from %v", i+1, got, want)
		}
	}
	return nil
}

func buildInsert(table Table, rows []Row, ignoreConflictOn []string) (string, []any) {
	cols := sortedColumns(rows[0])
	quoted := make([]string, len(cols))
	for i, c := range cols {
		quoted[i] = ident(c)
	}

	var b strings.Builder
	args := make([]any, 0, len(rows)*len(cols))
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", ident(string(table)), strings.Join(quoted, ", "))
	for i, r := range rows {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(")
		for j, c := range cols {
			if j > 0 {
				b.WriteString(", ")
			}
			args = append(args, r[c])
			fmt.Fprintf(&b, "$%d", len(args))
		}
		b.WriteString(")")
	}
	if len(ignoreConflictOn) > 0 {
		conflict := make([]string, len(ignoreConflictOn))
		for i, c := range ignoreConflictOn {
			conflict[i] = ident(c)
		}
		fmt.Fprintf(&b, " ON CONFLICT (%s) DO NOTHING", strings.Join(conflict, ", "))
	}
	b.WriteString(" RETURNING *")
	return b.String(), args
}

func buildUpsert(table Table, row Row, conflictKey string) (string, []any) {
	sql, args := buildInsert(table, []Row{row}, nil)
	sql = strings.TrimSuffix(sql, " RETURNING *")

	var sets []string
	for _, c := range sortedColumns(row) {
		if c == conflictKey || c == "id" {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", ident(c), ident(c)))
	}
	if len(sets) == 0 {
		// Still return the existing row on conflict.
		sets = append(sets, fmt.Sprintf("%s = EXCLUDED.%s", ident(conflictKey), ident(conflictKey)))
	}
	return fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s RETURNING *",
		sql, ident(conflictKey), strings.Join(sets, ", ")), args
}

func buildSelect(table Table, filter Filter) (string, []any) {
	where, args := buildWhere(filter, nil)
	return fmt.Sprintf("SELECT * FROM %s%s", ident(string(table)), where), args
}

func buildUpdate(table Table, set Row, filter Filter) (string, []any) {
	cols := sortedColumns(set)
	args := make([]any, 0, len(cols)+len(filter))
	sets := make([]string, len(cols))
	for i, c := range cols {
		args = append(args, set[c])
		sets[i] = fmt.Sprintf("%s = $%d", ident(c), len(args))
	}
	where, args := buildWhere(filter, args)
	return fmt.Sprintf("UPDATE %s SET %s%s RETURNING *", ident(string(table)), strings.Join(sets, ", "), where), args
}

func buildDelete(table Table, filter Filter) (string, []any) {
	where, args := buildWhere(filter, nil)
	return fmt.Sprintf("DELETE FROM %s%s", ident(string(table)), where), args
}

// buildWhere appends filter conditions to args. nil values compare with IS NULL.
func buildWhere(filter Filter, args []any) (string, []any) {
	if len(filter) == 0 {
		return "", args
	}
	cols := sortedColumns(Row(filter))
	conds := make([]string, len(cols))
	for i, c := range cols {
		if filter[c] == nil {
			conds[i] = fmt.Sprintf("%s IS NULL", ident(c))
			continue
		}
		args = append(args, filter[c])
		conds[i] = fmt.Sprintf("%s = $%d", ident(c), len(args))
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}
