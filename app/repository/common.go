package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrDuplicate         = errors.New("record already exists")
	ErrReferenceNotFound = errors.New("referenced record does not exist")
)

type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txStarter interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

// withTx runs fn inside a transaction when db can start one, otherwise directly on db.
func withTx(ctx context.Context, db DBTX, fn func(DBTX) error) error {
	starter, ok := db.(txStarter)
	if !ok {
		return fn(db)
	}

	tx, err := starter.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func isDuplicateEntryError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

func isForeignKeyError(err error) bool {
	var mysqlErr *mysqlDriver.MySQLError
	return errors.As(err, &mysqlErr) && (mysqlErr.Number == 1452 || mysqlErr.Number == 1451)
}

func translateWriteError(err error) error {
	switch {
	case err == nil:
		return nil
	case isDuplicateEntryError(err):
		return ErrDuplicate
	case isForeignKeyError(err):
		return ErrReferenceNotFound
	default:
		return err
	}
}

func nullableStringValue(v *string) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableUint64Value(v *uint64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableTimeValue(v *time.Time) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringPtrFromNull(v sql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

func uint64PtrFromNull(v sql.NullInt64) *uint64 {
	if !v.Valid {
		return nil
	}
	n := uint64(v.Int64)
	return &n
}

func timePtrFromNull(v sql.NullTime) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

func serializeAmounts(amounts []int64) (string, error) {
	if amounts == nil {
		amounts = []int64{}
	}
	payload, err := json.Marshal(amounts)
	if err != nil {
		return "", err
	}
	return string(payload), nil
}

func parseAmounts(raw string) ([]int64, error) {
	if raw == "" {
		return []int64{}, nil
	}
	var amounts []int64
	if err := json.Unmarshal([]byte(raw), &amounts); err != nil {
		return nil, err
	}
	if amounts == nil {
		amounts = []int64{}
	}
	return amounts, nil
}
