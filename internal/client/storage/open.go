package storage

import (
	"context"
	"fmt"
)

const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendS3       = "s3"
)

// Options selects a backend. DSN means the SQLite file for sqlite, the
// connection string for postgres and host:port for redis; s3 uses S3.
// A non-empty Passphrase encrypts stored values, see EncryptedStore.
type Options struct {
	Backend    string
	DSN        string
	Origin     string
	S3         S3Options
	Passphrase string
}

// Open connects the backend named in o.Backend.
func Open(ctx context.Context, o Options) (Backend, error) {
	b, err := openBackend(ctx, o)
	if err != nil || o.Passphrase == "" {
		return b, err
	}

	enc, err := NewEncryptedStore(ctx, b, []byte(o.Passphrase))
	if err != nil {
		_ = b.Close()
		return nil, fmt.Errorf("encrypted store: %w", err)
	}
	return encryptedBackend{EncryptedStore: enc, backend: b}, nil
}

func openBackend(ctx context.Context, o Options) (Backend, error) {
	switch o.Backend {
	case BackendSQLite, "":
		return OpenSQLite(ctx, o.DSN)
	case BackendPostgres:
		return OpenPostgres(ctx, o.DSN, o.Origin)
	case BackendRedis:
		return OpenRedis(ctx, o.DSN, o.Origin)
	case BackendS3:
		if o.Origin == "" {
			return nil, ErrNoOrigin
		}
		client, err := NewS3Client(ctx, o.S3)
		if err != nil {
			return nil, fmt.Errorf("s3 client: %w", err)
		}
		return NewS3Store(client, o.S3.Bucket, o.Origin), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, o.Backend)
	}
}
