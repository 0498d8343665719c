package identity

import (
	"errors"
	"fmt"
	"unicode"

	"socialfi/internal/crypto"
	"socialfi/internal/domain"
	"socialfi/internal/util/memzero"
	"socialfi/internal/wallet"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrKeyExists is returned when a key is already stored and force is not set.
	ErrKeyExists = errors.New("a local wallet key already exists (use --force to replace it)")
)

// KeyInfo describes the local key without exposing it.
type KeyInfo struct {
	Address     domain.Address
	Fingerprint string
}

// Service manages local wallet key creation and inspection.
type Service struct {
	store domain.KeyStore
}

// New returns an identity service backed by the given key store.
func New(s domain.KeyStore) *Service { return &Service{store: s} }

// GenerateKey creates a new signing key, saves it encrypted with the
// passphrase, and returns its address and fingerprint. An existing key is only
// replaced when force is set.
func (s *Service) GenerateKey(passphrase string, force bool) (KeyInfo, error) {
	if !isSecurePassphrase(passphrase) {
		return KeyInfo{}, ErrWeakPassphrase
	}
	has, err := s.store.HasKey()
	if err != nil {
		return KeyInfo{}, err
	}
	if has && !force {
		return KeyInfo{}, ErrKeyExists
	}

	priv, pub, err := crypto.GenerateEd25519()
	if err != nil {
		return KeyInfo{}, err
	}
	defer memzero.Key(&priv)

	info, err := describe(pub)
	if err != nil {
		return KeyInfo{}, err
	}
	if err := s.store.SaveKey(passphrase, priv); err != nil {
		return KeyInfo{}, fmt.Errorf("save wallet key: %w", err)
	}
	return info, nil
}

// Describe unlocks the key and returns its address and fingerprint.
func (s *Service) Describe(passphrase string) (KeyInfo, error) {
	priv, err := s.store.LoadKey(passphrase)
	if err != nil {
		return KeyInfo{}, err
	}
	defer memzero.Key(&priv)
	return describe(priv.Public())
}

func describe(pub domain.Ed25519Public) (KeyInfo, error) {
	addr, err := wallet.EncodeAddress(pub)
	if err != nil {
		return KeyInfo{}, err
	}
	return KeyInfo{Address: addr, Fingerprint: crypto.Fingerprint(pub)}, nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}
