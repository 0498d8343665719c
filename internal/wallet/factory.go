package wallet

import (
	"github.com/sirupsen/logrus"

	"socialfi/internal/domain"
)

// Factory builds providers from configuration.
type Factory struct {
	Keys       domain.KeyStore
	Passphrase string
	Remote     RemoteConfig
	Log        *logrus.Entry
}

// NewProvider returns a fresh, uninitialised provider of kind.
func (f *Factory) NewProvider(kind domain.ProviderKind) (domain.Provider, error) {
	if _, err := domain.ParseProviderKind(kind.String()); err != nil {
		return nil, err
	}
	switch kind {
	case domain.ProviderWalletConnect:
		return NewRemoteProvider(f.Remote, f.Log), nil
	default:
		return NewExtensionProvider(f.Keys, f.Passphrase, f.Log), nil
	}
}

var _ domain.ProviderFactory = (*Factory)(nil)
