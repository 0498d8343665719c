package memzero_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"socialfi/internal/domain"
	"socialfi/internal/util/memzero"
)

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3}
	memzero.Zero(b)
	assert.Equal(t, []byte{0, 0, 0}, b)
}

func TestKey(t *testing.T) {
	var k domain.Ed25519Private
	for i := range k {
		k[i] = byte(i + 1)
	}
	memzero.Key(&k)
	assert.Equal(t, domain.Ed25519Private{}, k)

	assert.NotPanics(t, func() { memzero.Key(nil) })
}
