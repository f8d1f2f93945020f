package storage

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/taskkeeper/internal/cryptox"
)

// SaltKey holds the hex key-derivation salt of an encrypted store. It is
// written on first use and stored in clear.
const SaltKey = "encryption_salt"

var ErrDecrypt = errors.New("cannot decrypt stored value")

// EncryptedStore seals values before they reach the inner store. Keys are
// not encrypted.
type EncryptedStore struct {
	inner  Store
	sealer *cryptox.Sealer
}

// NewEncryptedStore derives the value key from passphrase and the salt kept
// in inner, creating the salt if the store has none yet.
func NewEncryptedStore(ctx context.Context, inner Store, passphrase []byte) (*EncryptedStore, error) {
	salt, err := loadSalt(ctx, inner)
	if err != nil {
		return nil, err
	}

	key := cryptox.DeriveKey(passphrase, salt)
	defer cryptox.Wipe(key)

	sealer, err := cryptox.NewSealer(key)
	if err != nil {
		return nil, err
	}
	return &EncryptedStore{inner: inner, sealer: sealer}, nil
}

func loadSalt(ctx context.Context, inner Store) ([]byte, error) {
	raw, ok, err := inner.Get(ctx, SaltKey)
	if err != nil {
		return nil, err
	}
	if ok {
		salt, err := hex.DecodeString(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", SaltKey, err)
		}
		return salt, nil
	}

	salt, err := cryptox.NewSalt()
	if err != nil {
		return nil, err
	}
	if err := inner.Set(ctx, SaltKey, hex.EncodeToString(salt)); err != nil {
		return nil, err
	}
	return salt, nil
}

func (s *EncryptedStore) Get(ctx context.Context, key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(ctx, key)
	if err != nil || !ok {
		return "", ok, err
	}
	v, err := s.sealer.Open(sealed)
	if err != nil {
		return "", false, fmt.Errorf("%w: item[%s]: %w", ErrDecrypt, key, err)
	}
	return v, true, nil
}

func (s *EncryptedStore) Set(ctx context.Context, key, value string) error {
	sealed, err := s.sealer.Seal(value)
	if err != nil {
		return fmt.Errorf("failed to seal item[%s]: %w", key, err)
	}
	return s.inner.Set(ctx, key, sealed)
}

func (s *EncryptedStore) Remove(ctx context.Context, key string) error {
	return s.inner.Remove(ctx, key)
}

type encryptedBackend struct {
	*EncryptedStore
	backend Backend
}

func (b encryptedBackend) Close() error {
	return b.backend.Close()
}
