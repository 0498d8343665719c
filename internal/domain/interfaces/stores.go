package interfaces

import domaintypes "socialfi/internal/domain/types"

// SessionStore persists the wallet address and provider kind between runs.
type SessionStore interface {
	SaveSession(session domaintypes.PersistedSession) error
	LoadSession() (domaintypes.PersistedSession, bool, error)
	ClearSession() error
}

// KeyStore keeps the local wallet key encrypted at rest.
type KeyStore interface {
	SaveKey(passphrase string, key domaintypes.Ed25519Private) error
	LoadKey(passphrase string) (domaintypes.Ed25519Private, error)
	HasKey() (bool, error)
}
