package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_DefaultsToSQLite(t *testing.T) {
	b, err := Open(context.Background(), Options{DSN: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.IsType(t, &SQLiteStore{}, b)
}

func TestOpen_UnknownBackend(t *testing.T) {
	_, err := Open(context.Background(), Options{Backend: "etcd"})
	require.ErrorIs(t, err, ErrUnknownBackend)
}

func TestOpen_SharedBackendsNeedOrigin(t *testing.T) {
	for _, backend := range []string{BackendPostgres, BackendRedis, BackendS3} {
		t.Run(backend, func(t *testing.T) {
			_, err := Open(context.Background(), Options{Backend: backend, DSN: "unused"})
			require.ErrorIs(t, err, ErrNoOrigin)
		})
	}
}

func TestOpen_S3(t *testing.T) {
	b, err := Open(context.Background(), Options{
		Backend: BackendS3,
		Origin:  "o",
		S3: S3Options{
			Bucket:       "settings",
			Region:       "us-east-1",
			BaseEndpoint: "http://127.0.0.1:9000",
			AccessKey:    "admin",
			SecretKey:    "secret",
		},
	})
	require.NoError(t, err)
	require.IsType(t, &S3Store{}, b)
	require.NoError(t, b.Close())
}

func TestOpen_WithPassphraseEncryptsValues(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "c.db")

	b, err := Open(ctx, Options{DSN: dsn, Passphrase: "pw"})
	require.NoError(t, err)
	require.NoError(t, b.Set(ctx, "token", "abc"))
	require.NoError(t, b.Close())

	plain, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	raw, ok, err := plain.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.NotEqual(t, "abc", raw)
	require.NoError(t, plain.Close())

	b, err = Open(ctx, Options{DSN: dsn, Passphrase: "pw"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	got, ok, err := b.Get(ctx, "token")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "abc", got)
}
