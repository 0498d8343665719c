// Package memzero wipes key material held in memory.
package memzero

import (
	"runtime"

	"socialfi/internal/domain"
)

// Zero overwrites b with zeros.
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// Key wipes a private signing key in place. A nil key is ignored.
func Key(k *domain.Ed25519Private) {
	if k == nil {
		return
	}
	Zero(k[:])
}
