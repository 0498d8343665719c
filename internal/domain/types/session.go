package types

// WalletSession is a point-in-time view of the wallet connection.
// Balance is the raw smallest-unit integer string; empty means unknown.
type WalletSession struct {
	Connected bool         `json:"connected"`
	Address   Address      `json:"address,omitempty"`
	Balance   string       `json:"balance,omitempty"`
	Provider  ProviderKind `json:"provider,omitempty"`
}

// PersistedSession is what survives a restart so the wallet can be
// reconnected silently.
type PersistedSession struct {
	WalletAddress  Address      `json:"walletAddress"`
	WalletProvider ProviderKind `json:"walletProvider"`
}

// Complete reports whether both keys are present.
func (p PersistedSession) Complete() bool {
	return p.WalletAddress != "" && p.WalletProvider != ""
}

// SessionEvent is delivered to subscribers after every session transition.
type SessionEvent struct {
	Connected bool
	Address   Address
}
