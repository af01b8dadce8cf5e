package kv

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps every key as one row of a two-column table.
type PostgresStore struct {
	pool  *pgxpool.Pool
	table string
}

func NewPostgresStore(pool *pgxpool.Pool, table string) *PostgresStore {
	return &PostgresStore{
		pool:  pool,
		table: pgx.Identifier{table}.Sanitize(),
	}
}

// EnsureSchema creates the backing table if it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	createTableQuery := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    key        TEXT PRIMARY KEY,
    value      TEXT        NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)
`, s.table)
	_, err := s.pool.Exec(ctx, createTableQuery)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrInvalidKey
	}

	selectValueQuery := fmt.Sprintf(`
SELECT value
FROM %s
WHERE key = $1
`, s.table)

	var value string
	err := s.pool.QueryRow(ctx, selectValueQuery, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}

		// Nothing was ever written when the table is missing.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UndefinedTable {
			return "", false, nil
		}
		return "", false, err
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrInvalidKey
	}

	upsertValueQuery := fmt.Sprintf(`
INSERT INTO %s (key, value, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE
SET value = EXCLUDED.value,
    updated_at = EXCLUDED.updated_at
`, s.table)
	_, err := s.pool.Exec(ctx, upsertValueQuery, key, value)
	return err
}
