package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"socialfi/internal/domain"
	"socialfi/internal/util/memzero"
)

const keyFilename = "wallet_key.json.enc"

// ErrNoKey is returned by LoadKey when no key has been saved.
var ErrNoKey = errors.New("no wallet key; run `socialfi wallet new` first")

type keyRecord struct {
	Private []byte `json:"private"`
}

// KeyFileStore persists the local signing key, encrypted under a passphrase.
type KeyFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewKeyFileStore returns a KeyFileStore rooted at dir.
func NewKeyFileStore(dir string) *KeyFileStore {
	return &KeyFileStore{dir: dir}
}

// SaveKey encrypts and writes key, replacing any existing one.
func (s *KeyFileStore) SaveKey(passphrase string, key domain.Ed25519Private) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, err := json.Marshal(keyRecord{Private: key.Slice()})
	if err != nil {
		return err
	}
	defer memzero.Zero(raw)

	N, r, p := scryptParamsDefault()
	ct, err := encrypt(passphrase, raw, N, r, p)
	if err != nil {
		return err
	}
	return writeFile(filepath.Join(s.dir, keyFilename), ct, 0o600)
}

// LoadKey reads and decrypts the key.
func (s *KeyFileStore) LoadKey(passphrase string) (domain.Ed25519Private, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(filepath.Join(s.dir, keyFilename))
	if errors.Is(err, os.ErrNotExist) {
		return domain.Ed25519Private{}, ErrNoKey
	}
	if err != nil {
		return domain.Ed25519Private{}, err
	}
	pt, err := decrypt(passphrase, b)
	if err != nil {
		return domain.Ed25519Private{}, err
	}
	defer memzero.Zero(pt)

	var rec keyRecord
	if err := json.Unmarshal(pt, &rec); err != nil {
		return domain.Ed25519Private{}, err
	}
	defer memzero.Zero(rec.Private)

	var key domain.Ed25519Private
	if len(rec.Private) != len(key) {
		return domain.Ed25519Private{}, errors.New("stored wallet key has wrong length")
	}
	copy(key[:], rec.Private)
	return key, nil
}

// HasKey reports whether a key file exists.
func (s *KeyFileStore) HasKey() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(filepath.Join(s.dir, keyFilename))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Compile-time assertion that KeyFileStore implements domain.KeyStore.
var _ domain.KeyStore = (*KeyFileStore)(nil)
