package wallet

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"

	"socialfi/internal/domain"
)

// AddressHRP is the human-readable prefix of account addresses.
const AddressHRP = "erd"

// EncodeAddress returns the bech32 address of pub.
func EncodeAddress(pub domain.Ed25519Public) (domain.Address, error) {
	conv, err := bech32.ConvertBits(pub[:], 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("encode address: %w", err)
	}
	s, err := bech32.Encode(AddressHRP, conv)
	if err != nil {
		return "", fmt.Errorf("encode address: %w", err)
	}
	return domain.Address(s), nil
}

// DecodeAddress parses a bech32 address back into its public key.
func DecodeAddress(addr domain.Address) (domain.Ed25519Public, error) {
	var pub domain.Ed25519Public

	hrp, data, err := bech32.Decode(addr.String())
	if err != nil {
		return pub, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if hrp != AddressHRP {
		return pub, fmt.Errorf("decode address %q: prefix %q, want %q", addr, hrp, AddressHRP)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return pub, fmt.Errorf("decode address %q: %w", addr, err)
	}
	if len(raw) != len(pub) {
		return pub, fmt.Errorf("decode address %q: %d bytes, want %d", addr, len(raw), len(pub))
	}
	copy(pub[:], raw)
	return pub, nil
}

// ValidAddress reports whether addr is a well-formed account address.
func ValidAddress(addr domain.Address) bool {
	_, err := DecodeAddress(addr)
	return err == nil
}
