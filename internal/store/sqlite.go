// ABOUTME: SQLite-backed Record Store using sqlx over modernc.org/sqlite.
// ABOUTME: Pure Go driver, foreign keys enforced, WAL journal.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

// SQLite wraps a pooled sqlx connection to a SQLite file.
type SQLite struct {
	db     *sqlx.DB
	dbPath string
}

// Compile-time check that SQLite implements Store.
var _ Store = (*SQLite)(nil)

// OpenSQLite opens or creates a SQLite database at dbPath and applies the schema.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", dbPath)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &SQLite{db: db, dbPath: dbPath}, nil
}

// Path returns the database file path.
func (s *SQLite) Path() string {
	return s.dbPath
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Insert writes rows in one transaction, as multi-row statements sized to
// stay under SQLite's bind-parameter limit.
func (s *SQLite) Insert(ctx context.Context, table string, rows ...Record) ([]Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	for _, r := range rows {
		if err := t.checkColumns(r); err != nil {
			return nil, err
		}
	}

	chunks := chunkRows(t, rows, sqliteMaxArgs)
	if len(chunks) == 1 {
		query, args := buildInsert(t, rows)
		if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert %s: %w", table, err)
		}
		return cloneAll(rows), nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("insert %s: begin: %w", table, err)
	}
	defer func() { _ = tx.Rollback() }()
	for _, chunk := range chunks {
		query, args := buildInsert(t, chunk)
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return nil, fmt.Errorf("insert %s: %w", table, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("insert %s: commit: %w", table, err)
	}
	return cloneAll(rows), nil
}

// Upsert writes row, replacing any row with the same key.
func (s *SQLite) Upsert(ctx context.Context, table string, row Record) (Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkColumns(row); err != nil {
		return nil, err
	}

	query, args := buildUpsert(t, row)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	return row.Clone(), nil
}

// Select returns the rows matching filters.
func (s *SQLite) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkFilters(filters); err != nil {
		return nil, err
	}
	if matchesNothing(filters) {
		return nil, nil
	}

	query, args := buildSelect(t, filters)
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		m := make(map[string]any, len(t.Columns))
		if err := rows.MapScan(m); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		out = append(out, normalizeRow(m))
	}
	return out, rows.Err()
}

// Delete removes the rows matching filters.
func (s *SQLite) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
	t, err := LookupTable(table)
	if err != nil {
		return 0, err
	}
	if len(filters) == 0 {
		return 0, ErrNoFilter
	}
	if err := t.checkFilters(filters); err != nil {
		return 0, err
	}
	if matchesNothing(filters) {
		return 0, nil
	}

	query, args := buildDelete(t, filters)
	result, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return int(affected), nil
}

// normalizeRow turns driver byte slices into strings.
func normalizeRow(m map[string]any) Record {
	r := make(Record, len(m))
	for k, v := range m {
		if b, ok := v.([]byte); ok {
			v = string(b)
		}
		r[k] = v
	}
	return r
}

func cloneAll(rows []Record) []Record {
	out := make([]Record, len(rows))
	for i, r := range rows {
		out[i] = r.Clone()
	}
	return out
}
