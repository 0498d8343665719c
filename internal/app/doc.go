// Package app wires application dependencies for the CLI.
//
// LoadConfig reads SOCIALFI_* settings (optionally from a .env file) and
// NewWire builds the logger, backend and network clients, file stores,
// wallet providers and services from them, exposing everything via the Wire
// struct for commands to use. The score container is subscribed to the
// wallet session here.
package app
