package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// PostgresStore keeps items in a shared table; every row belongs to an
// origin so several clients can share one database without seeing each
// other's keys.
type PostgresStore struct {
	db     DBTX
	origin string
	close  closerFunc
}

func NewPostgresStore(db DBTX, origin string) *PostgresStore {
	return &PostgresStore{db: db, origin: origin}
}

// OpenPostgres connects through pgx, checks the connection and applies the
// embedded migrations.
func OpenPostgres(ctx context.Context, dsn, origin string) (*PostgresStore, error) {
	if origin == "" {
		return nil, ErrNoOrigin
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if err := runMigrations(ctx, db, "pgx", "migrations/postgres"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres migrations: %w", err)
	}

	s := NewPostgresStore(db, origin)
	s.close = db.Close
	return s, nil
}

func (s *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	query := `
		SELECT value
		FROM storage_items
		WHERE origin = $1 AND key = $2
	`
	var value string
	err := s.db.QueryRowContext(ctx, query, s.origin, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get item[%s]: %w", key, err)
	}
	return value, true, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO storage_items (origin, key, value)
		VALUES ($1, $2, $3)
		ON CONFLICT (origin, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()
	`
	if _, err := s.db.ExecContext(ctx, query, s.origin, key, value); err != nil {
		return fmt.Errorf("failed to set item[%s]: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Remove(ctx context.Context, key string) error {
	query := `
		DELETE FROM storage_items
		WHERE origin = $1 AND key = $2
	`
	if _, err := s.db.ExecContext(ctx, query, s.origin, key); err != nil {
		return fmt.Errorf("failed to remove item[%s]: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	return s.close.close()
}
