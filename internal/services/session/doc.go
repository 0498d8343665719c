// Package session holds the wallet session: which provider is active, the
// connected address, and its last known balance.
//
// Connect and Disconnect are serialised. Each transition persists or clears
// the {walletAddress, walletProvider} record and notifies subscribers.
// Balance refreshes run in the background and never overwrite the balance of
// a newer address.
package session
