// Package stubapi is an in-memory stand-in for the credit backend, the
// network account API and a remote wallet. It serves the same routes the
// api, network and wallet packages call, so the CLI can run end to end
// without a chain.
//
// Loans, pools and scores live in memory and are seeded through Server
// methods. Transactions are prepared but never executed.
package stubapi
