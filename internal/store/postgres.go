// ABOUTME: Postgres-backed Record Store over a pgx connection pool.
// ABOUTME: Shares the SQL builder with SQLite and rebinds placeholders to $n.
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

// Postgres talks to a hosted Postgres database. Each method is one
// statement, except an Insert too large for one statement, which runs its
// chunks in a transaction.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Store = (*Postgres)(nil)

// OpenPostgres connects to databaseURL, pings it and applies the schema.
func OpenPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL not set")
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the pool.
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

func rebind(query string) string {
	return sqlx.Rebind(sqlx.DOLLAR, query)
}

func (p *Postgres) Insert(ctx context.Context, table string, rows ...Record) ([]Record, error) {
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

	chunks := chunkRows(t, rows, postgresMaxArgs)
	if len(chunks) == 1 {
		query, args := buildInsert(t, rows)
		if _, err := p.pool.Exec(ctx, rebind(query), args...); err != nil {
			return nil, fmt.Errorf("insert %s: %w", table, err)
		}
		return cloneAll(rows), nil
	}

	err = pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		for _, chunk := range chunks {
			query, args := buildInsert(t, chunk)
			if _, err := tx.Exec(ctx, rebind(query), args...); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", table, err)
	}
	return cloneAll(rows), nil
}

func (p *Postgres) Upsert(ctx context.Context, table string, row Record) (Record, error) {
	t, err := LookupTable(table)
	if err != nil {
		return nil, err
	}
	if err := t.checkColumns(row); err != nil {
		return nil, err
	}

	query, args := buildUpsert(t, row)
	if _, err := p.pool.Exec(ctx, rebind(query), args...); err != nil {
		return nil, fmt.Errorf("upsert %s: %w", table, err)
	}
	return row.Clone(), nil
}

func (p *Postgres) Select(ctx context.Context, table string, filters ...Filter) ([]Record, error) {
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
	rows, err := p.pool.Query(ctx, rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("select %s: %w", table, err)
	}

	maps, err := pgx.CollectRows(rows, pgx.RowToMap)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", table, err)
	}

	out := make([]Record, len(maps))
	for i, m := range maps {
		out[i] = Record(m)
	}
	return out, nil
}

func (p *Postgres) Delete(ctx context.Context, table string, filters ...Filter) (int, error) {
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
	tag, err := p.pool.Exec(ctx, rebind(query), args...)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", table, err)
	}
	return int(tag.RowsAffected()), nil
}
