package interfaces

import (
	"context"

	domaintypes "socialfi/internal/domain/types"
)

// Provider is a wallet that can log in and sign on the user's behalf.
type Provider interface {
	Kind() domaintypes.ProviderKind
	Init(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SignTransaction(ctx context.Context, tx domaintypes.Transaction) (domaintypes.Transaction, error)
	// Address is empty until Login succeeds.
	Address() domaintypes.Address
}

// ProviderFactory builds a fresh provider of the requested kind.
type ProviderFactory interface {
	NewProvider(kind domaintypes.ProviderKind) (Provider, error)
}

// NetworkReader reads account state from the chain.
type NetworkReader interface {
	GetAccount(ctx context.Context, address domaintypes.Address) (domaintypes.Account, error)
}
