package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/crypto"
	"socialfi/internal/domain"
)

func TestSignVerify_RoundTrip(t *testing.T) {
	priv, pub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	assert.Equal(t, pub, priv.Public())

	sig := crypto.SignEd25519(priv, []byte("hello"))
	ok, err := crypto.VerifyEd25519(pub, []byte("hello"), sig)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = crypto.VerifyEd25519(pub, []byte("tampered"), sig)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = crypto.VerifyEd25519(pub, []byte("hello"), "zz")
	assert.Error(t, err)
}

func TestFingerprint_Grouped(t *testing.T) {
	var pub domain.Ed25519Public
	fp := crypto.Fingerprint(pub)
	assert.Len(t, fp, 24)
	assert.Len(t, strings.Fields(fp), 5)
	assert.Equal(t, fp, crypto.Fingerprint(pub))

	pub[0] = 1
	assert.NotEqual(t, fp, crypto.Fingerprint(pub))
}
