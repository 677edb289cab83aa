// Package resource implements the generic persistence layer shared by every
// record kind: create, point reads, keyset-paginated listing, presence-based
// partial update and read-back delete, all over a single table descriptor.
package resource

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"registra.org/internal/pgerr"
)

// ErrUnknownField reports a field lookup against a column the descriptor
// does not declare.
var ErrUnknownField = errors.New("resource: unknown field")

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Descriptor binds a record kind to its table. Entity packages supply the
// mapping functions; the repository never reflects over record fields.
type Descriptor[R, C, U any] struct {
	// Table is the relation name.
	Table string
	// Columns lists every selected column in the order Scan expects.
	Columns []string
	// Scan builds a record from one row.
	Scan func(Scanner) (*R, error)
	// Insert maps a creation input to the columns it populates. Identity and
	// timestamps are owned by the store and must not appear here.
	Insert func(*C) (columns []string, values []any)
	// Update maps an update input to the columns present in it. Absent fields
	// stay untouched.
	Update func(*U) map[string]any
}

// Page is a computed, non-persisted slice of a listing.
type Page[R any] struct {
	TotalRecords int64 `json:"total_records"`
	Page         int   `json:"page"`
	Limit        int64 `json:"limit"`
	Records      []*R  `json:"records"`
}

// Repository provides uniform CRUD semantics for one record kind.
type Repository[R, C, U any] struct {
	db      *sql.DB
	desc    Descriptor[R, C, U]
	columns map[string]struct{}
}

// New constructs a Repository over db for the described table.
func New[R, C, U any](db *sql.DB, desc Descriptor[R, C, U]) *Repository[R, C, U] {
	cols := make(map[string]struct{}, len(desc.Columns))
	for _, c := range desc.Columns {
		cols[c] = struct{}{}
	}
	return &Repository[R, C, U]{db: db, desc: desc, columns: cols}
}

// DB exposes the underlying handle for entity services that run bespoke
// multi-statement transactions (admin registration).
func (r *Repository[R, C, U]) DB() *sql.DB { return r.db }

// Create persists input in a single transaction and returns the stored
// record with its assigned identity and timestamps. Constraint violations
// come back classified; uniqueness is deliberately not pre-checked here.
func (r *Repository[R, C, U]) Create(ctx context.Context, input *C) (*R, error) {
	cols, values := r.desc.Insert(input)
	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	query := fmt.Sprintf(
		"insert into %s (%s) values (%s) returning %s",
		r.desc.Table,
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(r.desc.Columns, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	record, err := r.desc.Scan(tx.QueryRowContext(ctx, query, values...))
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, pgerr.Classify(err)
	}
	return record, nil
}

// GetByID returns the record or (nil, nil) when absent. Absence is a valid,
// silent outcome that callers must check.
func (r *Repository[R, C, U]) GetByID(ctx context.Context, id int64) (*R, error) {
	query := fmt.Sprintf(
		"select %s from %s where id = $1",
		strings.Join(r.desc.Columns, ", "), r.desc.Table,
	)
	return r.getOne(ctx, r.db, query, id)
}

// GetByField performs an equality lookup on one declared column, with the
// same absence contract as GetByID.
func (r *Repository[R, C, U]) GetByField(ctx context.Context, field string, value any) (*R, error) {
	if _, ok := r.columns[field]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	query := fmt.Sprintf(
		"select %s from %s where %s = $1",
		strings.Join(r.desc.Columns, ", "), r.desc.Table, field,
	)
	return r.getOne(ctx, r.db, query, value)
}

// List returns one page of records ordered by identity ascending. With page
// and limit both set it uses the keyset predicate id > (page-1)*limit, so
// page boundaries track identity values, not row offsets; identity gaps left
// by deletes shift page contents. Without page and limit every record comes
// back as a single page whose limit equals the total count.
func (r *Repository[R, C, U]) List(ctx context.Context, page, limit int) (*Page[R], error) {
	var total int64
	countQuery := fmt.Sprintf("select count(id) from %s", r.desc.Table)
	if err := r.db.QueryRowContext(ctx, countQuery).Scan(&total); err != nil {
		return nil, pgerr.Classify(err)
	}

	paged := page > 0 && limit > 0

	var (
		rows *sql.Rows
		err  error
	)
	if paged {
		query := fmt.Sprintf(
			"select %s from %s where id > $1 order by id asc limit $2",
			strings.Join(r.desc.Columns, ", "), r.desc.Table,
		)
		rows, err = r.db.QueryContext(ctx, query, int64(page-1)*int64(limit), limit)
	} else {
		query := fmt.Sprintf(
			"select %s from %s order by id asc",
			strings.Join(r.desc.Columns, ", "), r.desc.Table,
		)
		rows, err = r.db.QueryContext(ctx, query)
	}
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	defer rows.Close()

	records := make([]*R, 0)
	for rows.Next() {
		record, err := r.desc.Scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if !paged {
		return &Page[R]{TotalRecords: total, Page: 1, Limit: total, Records: records}, nil
	}
	return &Page[R]{TotalRecords: total, Page: page, Limit: int64(limit), Records: records}, nil
}

// Update applies only the fields present in input, commits, and returns the
// re-read record. Returns (nil, nil) when id does not resolve. An input with
// no fields set degenerates to a plain read.
func (r *Repository[R, C, U]) Update(ctx context.Context, id int64, input *U) (*R, error) {
	changes := r.desc.Update(input)
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}

	cols := make([]string, 0, len(changes))
	for col := range changes {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, len(cols))
	args := make([]any, 0, len(cols)+1)
	for i, col := range cols {
		sets[i] = fmt.Sprintf("%s = $%d", col, i+1)
		args = append(args, changes[col])
	}
	args = append(args, id)

	query := fmt.Sprintf(
		"update %s set %s where id = $%d",
		r.desc.Table, strings.Join(sets, ", "), len(cols)+1,
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, pgerr.Classify(err)
	}

	readBack := fmt.Sprintf(
		"select %s from %s where id = $1",
		strings.Join(r.desc.Columns, ", "), r.desc.Table,
	)
	record, err := r.getOne(ctx, tx, readBack, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, pgerr.Classify(err)
	}
	return record, nil
}

// Delete reads the record, removes it, and returns the pre-deletion
// snapshot. Returns (nil, nil) when absent, with no side effects.
func (r *Repository[R, C, U]) Delete(ctx context.Context, id int64) (*R, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	readQuery := fmt.Sprintf(
		"select %s from %s where id = $1",
		strings.Join(r.desc.Columns, ", "), r.desc.Table,
	)
	record, err := r.getOne(ctx, tx, readQuery, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, nil
	}

	deleteQuery := fmt.Sprintf("delete from %s where id = $1", r.desc.Table)
	if _, err := tx.ExecContext(ctx, deleteQuery, id); err != nil {
		return nil, pgerr.Classify(err)
	}
	if err := tx.Commit(); err != nil {
		return nil, pgerr.Classify(err)
	}
	return record, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *Repository[R, C, U]) getOne(ctx context.Context, q querier, query string, args ...any) (*R, error) {
	record, err := r.desc.Scan(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	return record, nil
}
