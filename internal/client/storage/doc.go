// Package storage provides the durable key-value capability used by the
// client: string values addressed by string keys, with Get/Set/Remove.
//
// # Backends
//
//   - SQLiteStore:   local file (default); schema applied by goose on open.
//   - PostgresStore: shared database, rows scoped by origin.
//   - RedisStore:    keys prefixed by origin.
//   - S3Store:       one object per key under an origin prefix.
//
// Open selects and connects a backend from Options. With a passphrase the
// backend is wrapped in an EncryptedStore, which seals values but not keys.
//
// # Contract
//
// Get reports a missing key as ("", false, nil); a missing key is not an
// error. Set overwrites. Remove of a missing key succeeds. Driver failures
// are wrapped with the operation and key, e.g. "failed to get item[token]".
package storage
