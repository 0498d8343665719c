package types

import "fmt"

// Address is a bech32 wallet address (erd1...).
type Address string

// String returns the string form of the address.
func (a Address) String() string { return string(a) }

// IsZero reports whether no address is set.
func (a Address) IsZero() bool { return a == "" }

// ProviderKind selects which wallet provider backs a session.
type ProviderKind string

const (
	// ProviderExtension signs with a locally stored key.
	ProviderExtension ProviderKind = "extension"
	// ProviderWalletConnect signs through a remote wallet over a relay.
	ProviderWalletConnect ProviderKind = "walletconnect"
)

// String returns the string form of the provider kind.
func (k ProviderKind) String() string { return string(k) }

// ParseProviderKind validates s as a known provider kind.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch k := ProviderKind(s); k {
	case ProviderExtension, ProviderWalletConnect:
		return k, nil
	default:
		return "", fmt.Errorf("unknown wallet provider %q (want %q or %q)",
			s, ProviderExtension, ProviderWalletConnect)
	}
}

// TwitterStatus is the outcome of the social account link check.
type TwitterStatus int

const (
	// TwitterUnknown means the check has not run or failed.
	TwitterUnknown TwitterStatus = iota
	TwitterLinked
	TwitterNotLinked
)

// String returns a display label for the status.
func (s TwitterStatus) String() string {
	switch s {
	case TwitterLinked:
		return "linked"
	case TwitterNotLinked:
		return "not linked"
	default:
		return "unknown"
	}
}
