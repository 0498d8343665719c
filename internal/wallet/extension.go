package wallet

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"socialfi/internal/crypto"
	"socialfi/internal/domain"
	"socialfi/internal/logging"
	"socialfi/internal/util/memzero"
)

// ExtensionProvider signs with the local key from a domain.KeyStore.
type ExtensionProvider struct {
	keys       domain.KeyStore
	passphrase string
	log        *logrus.Entry

	mu      sync.Mutex
	key     *domain.Ed25519Private
	address domain.Address
}

// NewExtensionProvider returns a provider that unlocks keys with passphrase.
func NewExtensionProvider(keys domain.KeyStore, passphrase string, log *logrus.Entry) *ExtensionProvider {
	return &ExtensionProvider{
		keys:       keys,
		passphrase: passphrase,
		log:        logging.Component(log, "wallet.extension"),
	}
}

// Kind returns ProviderExtension.
func (p *ExtensionProvider) Kind() domain.ProviderKind { return domain.ProviderExtension }

// Init checks that a local key exists.
func (p *ExtensionProvider) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	has, err := p.keys.HasKey()
	if err != nil {
		return fmt.Errorf("check wallet key: %w", err)
	}
	if !has {
		return ErrNoKey
	}
	return nil
}

// Login decrypts the key and derives the address.
func (p *ExtensionProvider) Login(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.passphrase == "" {
		return fmt.Errorf("passphrase required to unlock the local wallet (-p)")
	}
	key, err := p.keys.LoadKey(p.passphrase)
	if err != nil {
		return fmt.Errorf("unlock wallet key: %w", err)
	}
	addr, err := EncodeAddress(key.Public())
	if err != nil {
		memzero.Key(&key)
		return err
	}

	p.mu.Lock()
	p.wipeLocked()
	p.key = &key
	p.address = addr
	p.mu.Unlock()

	p.log.WithField("address", addr).Debug("local wallet unlocked")
	return nil
}

// Logout wipes the key from memory.
func (p *ExtensionProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wipeLocked()
	return nil
}

// SignTransaction signs tx with the local key. An empty sender is filled in;
// a different sender is refused.
func (p *ExtensionProvider) SignTransaction(
	ctx context.Context,
	tx domain.Transaction,
) (domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return domain.Transaction{}, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.key == nil {
		return domain.Transaction{}, ErrNotLoggedIn
	}
	if tx.Sender == "" {
		tx.Sender = p.address
	}
	if tx.Sender != p.address {
		return domain.Transaction{}, fmt.Errorf("sender %s is not the unlocked wallet %s", tx.Sender, p.address)
	}
	msg, err := tx.SigningBytes()
	if err != nil {
		return domain.Transaction{}, err
	}
	tx.Signature = crypto.SignEd25519(*p.key, msg)
	return tx, nil
}

// Address returns the unlocked address, or empty.
func (p *ExtensionProvider) Address() domain.Address {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.address
}

func (p *ExtensionProvider) wipeLocked() {
	memzero.Key(p.key)
	p.key = nil
	p.address = ""
}

var _ domain.Provider = (*ExtensionProvider)(nil)
