package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"socialfi/internal/domain"
)

// GenerateEd25519 returns a new Ed25519 signing key pair.
func GenerateEd25519() (priv domain.Ed25519Private, pub domain.Ed25519Public, err error) {
	pk, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return priv, pub, err
	}
	copy(priv[:], sk)
	copy(pub[:], pk)
	return priv, pub, nil
}

// SignEd25519 signs msg with priv and returns the hex-encoded signature.
func SignEd25519(priv domain.Ed25519Private, msg []byte) string {
	return hex.EncodeToString(ed25519.Sign(ed25519.PrivateKey(priv[:]), msg))
}

// VerifyEd25519 checks a hex-encoded signature over msg.
func VerifyEd25519(pub domain.Ed25519Public, msg []byte, sigHex string) (bool, error) {
	sig, err := hex.DecodeString(sigHex)
	if err != nil {
		return false, fmt.Errorf("decode signature: %w", err)
	}
	return ed25519.Verify(ed25519.PublicKey(pub[:]), msg, sig), nil
}
