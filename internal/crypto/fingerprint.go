package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"socialfi/internal/domain"
)

// fingerprintBytes is how much of the SHA-256 digest a fingerprint keeps.
const fingerprintBytes = 10

// Fingerprint identifies a wallet key for humans: the first ten bytes of the
// key's SHA-256 digest as hex, in groups of four separated by spaces.
func Fingerprint(pub domain.Ed25519Public) string {
	sum := sha256.Sum256(pub[:])
	h := hex.EncodeToString(sum[:fingerprintBytes])

	var b strings.Builder
	for i := 0; i < len(h); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(h[i:min(i+4, len(h))])
	}
	return b.String()
}
