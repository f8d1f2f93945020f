package storage

import (
	"context"
	"database/sql"
	"errors"
)

// Store is the durable key-value capability.
type Store interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

// Backend is a Store that owns a connection.
type Backend interface {
	Store
	Close() error
}

// DBTX is the subset of database/sql the SQL stores use.
// Both *sql.DB and *sql.Tx satisfy it.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	ErrUnknownBackend = errors.New("unknown storage backend")
	ErrNoOrigin       = errors.New("origin is required for shared backends")
)

type closerFunc func() error

func (f closerFunc) close() error {
	if f == nil {
		return nil
	}
	return f()
}
