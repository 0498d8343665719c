// Package wallet implements the wallet providers a session can connect with.
//
// Two providers exist:
//
//   - ExtensionProvider signs with an ed25519 key kept encrypted in the local
//     key store. Login decrypts it and derives the erd1 address.
//   - RemoteProvider pairs with a wallet over a WebSocket relay and forwards
//     sign requests to it. The wallet side may end the session at any time;
//     the provider then invokes its logout handler.
//
// Factory builds a fresh provider per ProviderKind. Addresses are bech32
// with the "erd" prefix over the 32-byte public key.
package wallet
