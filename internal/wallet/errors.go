package wallet

import "errors"

var (
	// ErrNoKey means the extension provider has no local key to unlock.
	ErrNoKey = errors.New("no local wallet key; run `socialfi wallet new` first")
	// ErrNotLoggedIn is returned when signing before Login succeeded.
	ErrNotLoggedIn = errors.New("wallet provider is not logged in")
	// ErrSessionRejected means the remote wallet declined the pairing.
	ErrSessionRejected = errors.New("wallet rejected the session")
	// ErrSignRejected means the remote wallet declined to sign.
	ErrSignRejected = errors.New("wallet rejected the signature request")
	// ErrRelayClosed means the relay connection dropped mid-request.
	ErrRelayClosed = errors.New("wallet relay connection closed")
)
