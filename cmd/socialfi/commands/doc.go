// Package commands defines the socialfi CLI and wires dependencies for
// subcommands.
//
// Commands
//
//   - wallet new          Create the local signing key
//   - wallet connect      Connect a wallet (extension or walletconnect)
//   - wallet disconnect   Log out and forget the session
//   - wallet status       Show address, balance and provider
//   - wallet sign         Sign a transaction read from a file or stdin
//   - dashboard           Score, eligibility and loans in one view
//   - loans list|show     Active loans and history
//   - loans quote         Interest preview for an amount
//   - loans request       Apply for a loan
//   - loans repay         Repay an active loan
//   - pools list|show     Liquidity pools
//   - pools provide       Add liquidity
//   - pools withdraw      Remove liquidity
//   - profile             User record and social stats
//   - profile link-twitter  Link a social account
//
// # Implementation
//
// The root command loads configuration, builds the app.Wire and silently
// restores the persisted wallet session before any subcommand runs. A failed
// restore leaves the CLI disconnected and is only logged.
package commands
