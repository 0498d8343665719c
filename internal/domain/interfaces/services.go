package interfaces

import (
	"context"

	domaintypes "socialfi/internal/domain/types"
)

// SessionReader exposes the current wallet session to views and services.
type SessionReader interface {
	Snapshot() domaintypes.WalletSession
}

// WalletSessionService connects, disconnects and signs through the active wallet.
type WalletSessionService interface {
	SessionReader
	Connect(ctx context.Context, kind domaintypes.ProviderKind) error
	Disconnect(ctx context.Context) error
	Restore(ctx context.Context) error
	SignTransaction(ctx context.Context, tx domaintypes.Transaction) (domaintypes.Transaction, error)
	Subscribe(fn func(domaintypes.SessionEvent)) (unsubscribe func())
}

// ScoreReader exposes the cached score of the connected address.
type ScoreReader interface {
	// Score returns nil until a score for the current address is loaded.
	Score() *domaintypes.UserScore
}
