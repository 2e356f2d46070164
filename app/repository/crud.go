package repository

import (
	"context"
	"database/sql"
	"strings"
)

type ListFilter struct {
	ActiveOnly bool
	ParentID   uint64
	Limit      int32
	Offset     int32
}

// table describes how one CMS table maps onto its entity. Columns exclude id,
// values and scan must follow the same column order.
type table[T any] struct {
	name         string
	columns      []string
	orderBy      string
	activeColumn string
	parentColumn string

	// Statements run in the delete transaction before the row itself is removed.
	// Each receives the deleted id as its only argument.
	beforeDelete []string

	id     func(item *T) uint64
	setID  func(item *T, id uint64)
	values func(item *T) ([]interface{}, error)
	scan   func(scan rowScanner, item *T) error
}

func (t *table[T]) selectColumns() string {
	return "id, " + strings.Join(t.columns, ", ")
}

type CRUDRepository[T any] struct {
	db    DBTX
	table table[T]
}

func newCRUDRepository[T any](db DBTX, t table[T]) *CRUDRepository[T] {
	return &CRUDRepository[T]{db: db, table: t}
}

func (r *CRUDRepository[T]) Create(ctx context.Context, item *T) error {
	args, err := r.table.values(item)
	if err != nil {
		return err
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(r.table.columns)), ", ")
	query := "INSERT INTO " + r.table.name + " (" + strings.Join(r.table.columns, ", ") + ") VALUES (" + placeholders + ")"

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateWriteError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	r.table.setID(item, uint64(id))
	return nil
}

func (r *CRUDRepository[T]) Update(ctx context.Context, item *T) error {
	args, err := r.table.values(item)
	if err != nil {
		return err
	}

	assignments := make([]string, 0, len(r.table.columns))
	for _, column := range r.table.columns {
		if column == "created_at" {
			args = dropArg(args, len(assignments))
			continue
		}
		assignments = append(assignments, column+" = ?")
	}
	query := "UPDATE " + r.table.name + " SET " + strings.Join(assignments, ", ") + " WHERE id = ?"
	args = append(args, r.table.id(item))

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return translateWriteError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		existing, err := r.FindByID(ctx, r.table.id(item))
		if err != nil {
			return err
		}
		if existing == nil {
			return ErrNotFound
		}
	}
	return nil
}

func (r *CRUDRepository[T]) Delete(ctx context.Context, id uint64) error {
	return withTx(ctx, r.db, func(db DBTX) error {
		for _, stmt := range r.table.beforeDelete {
			if _, err := db.ExecContext(ctx, stmt, id); err != nil {
				return err
			}
		}

		result, err := db.ExecContext(ctx, "DELETE FROM "+r.table.name+" WHERE id = ?", id)
		if err != nil {
			return translateWriteError(err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *CRUDRepository[T]) FindByID(ctx context.Context, id uint64) (*T, error) {
	query := "SELECT " + r.table.selectColumns() + " FROM " + r.table.name + " WHERE id = ?"
	return r.findOne(ctx, query, id)
}

func (r *CRUDRepository[T]) List(ctx context.Context, filter ListFilter) ([]*T, error) {
	query := "SELECT " + r.table.selectColumns() + " FROM " + r.table.name

	conditions := make([]string, 0, 2)
	args := make([]interface{}, 0, 4)
	if filter.ActiveOnly && r.table.activeColumn != "" {
		conditions = append(conditions, r.table.activeColumn+" = 1")
	}
	if filter.ParentID > 0 && r.table.parentColumn != "" {
		conditions = append(conditions, r.table.parentColumn+" = ?")
		args = append(args, filter.ParentID)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	orderBy := r.table.orderBy
	if orderBy == "" {
		orderBy = "id DESC"
	}
	query += " ORDER BY " + orderBy

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	return r.findMany(ctx, query, args...)
}

func (r *CRUDRepository[T]) findOne(ctx context.Context, query string, args ...interface{}) (*T, error) {
	item := new(T)
	if err := r.table.scan(r.db.QueryRowContext(ctx, query, args...), item); err == sql.ErrNoRows {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	return item, nil
}

func (r *CRUDRepository[T]) findMany(ctx context.Context, query string, args ...interface{}) ([]*T, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*T, 0)
	for rows.Next() {
		item := new(T)
		if err := r.table.scan(rows, item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func dropArg(args []interface{}, idx int) []interface{} {
	out := make([]interface{}, 0, len(args)-1)
	out = append(out, args[:idx]...)
	return append(out, args[idx+1:]...)
}
