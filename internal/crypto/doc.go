// Package crypto exposes the signing primitives used by the local wallet.
//
// Contents
//
//   - Ed25519 key generation, signing and verification (GenerateEd25519,
//     SignEd25519, VerifyEd25519)
//   - Grouped key fingerprints for display and logging (Fingerprint)
//
// Keys use the fixed-size array types from internal/domain. Callers treat
// private keys as sensitive and wipe them with memzero when done.
package crypto
