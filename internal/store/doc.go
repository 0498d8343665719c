// Package store provides file-based persistence for the wallet client.
//
// It implements the domain storage interfaces by writing JSON under the
// configured home directory. Writes go through a temp file and rename, and
// every store guards its file with a mutex.
//
// The package includes:
//   - the persisted wallet session (SessionFileStore)
//   - the passphrase-encrypted local signing key (KeyFileStore)
package store
