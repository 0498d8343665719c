// Package identity manages the local wallet key used by the extension
// provider.
//
// It creates the ed25519 key, stores it encrypted under a passphrase, and
// reports the resulting address and fingerprint.
package identity
