package migrations

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const createVersionTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
    version VARCHAR(255) NOT NULL,
    applied_at DATETIME(6) NOT NULL,
    PRIMARY KEY (version)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// Apply runs every embedded migration not yet recorded in schema_migrations,
// in file name order. It returns the versions it applied.
func Apply(ctx context.Context, db *sql.DB, files fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	versions, err := Versions(files)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, version := range versions {
		var count int
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM schema_migrations WHERE version = ?", version).Scan(&count); err != nil {
			return applied, err
		}
		if count > 0 {
			continue
		}

		raw, err := fs.ReadFile(files, version)
		if err != nil {
			return applied, err
		}
		for _, stmt := range Statements(string(raw)) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return applied, fmt.Errorf("%s: %w", version, err)
			}
		}

		if _, err := db.ExecContext(ctx, "INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)", version, time.Now().UTC()); err != nil {
			return applied, err
		}
		logrus.WithField("version", version).Info("migration_applied")
		applied = append(applied, version)
	}
	return applied, nil
}

// Versions lists the .sql files of files in apply order.
func Versions(files fs.FS) ([]string, error) {
	entries, err := fs.Glob(files, "*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	return entries, nil
}

// Statements splits a migration file on semicolons. Line comments are dropped.
// Migrations must not carry semicolons inside string literals.
func Statements(script string) []string {
	var b strings.Builder
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	var out []string
	for _, stmt := range strings.Split(b.String(), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			out = append(out, stmt)
		}
	}
	return out
}
