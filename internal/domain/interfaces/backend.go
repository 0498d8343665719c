package interfaces

import (
	"context"

	domaintypes "socialfi/internal/domain/types"
)

// UserAPI reads and updates user records on the backend.
type UserAPI interface {
	GetUser(ctx context.Context, address domaintypes.Address) (domaintypes.UserProfile, error)
	HasLinkedTwitter(ctx context.Context, address domaintypes.Address) (bool, error)
	GetUserScore(ctx context.Context, address domaintypes.Address) (domaintypes.UserScore, error)
	ConnectTwitter(
		ctx context.Context,
		address domaintypes.Address,
		conn domaintypes.TwitterConnection,
	) (domaintypes.StatusMessage, error)
	GetTwitterStats(ctx context.Context, address domaintypes.Address) (domaintypes.TwitterStats, error)
}

// LoanAPI lists, requests, repays and prices loans.
type LoanAPI interface {
	GetLoans(
		ctx context.Context,
		address domaintypes.Address,
		status domaintypes.LoanStatus,
	) ([]domaintypes.Loan, error)
	GetLoan(ctx context.Context, loanID string) (domaintypes.Loan, error)
	RequestLoan(ctx context.Context, req domaintypes.LoanRequest) (domaintypes.TxResponse, error)
	RepayLoan(ctx context.Context, req domaintypes.RepayRequest) (domaintypes.TxResponse, error)
	CalculateInterest(
		ctx context.Context,
		amount string,
		address domaintypes.Address,
	) (domaintypes.InterestQuote, error)
}

// PoolAPI reads pools and moves liquidity.
type PoolAPI interface {
	GetPools(ctx context.Context) ([]domaintypes.Pool, error)
	GetPool(ctx context.Context, poolID string) (domaintypes.Pool, error)
	ProvideLiquidity(
		ctx context.Context,
		req domaintypes.ProvideLiquidityRequest,
	) (domaintypes.TxResponse, error)
	WithdrawLiquidity(
		ctx context.Context,
		req domaintypes.WithdrawLiquidityRequest,
	) (domaintypes.TxResponse, error)
}

// BackendClient is the full REST surface.
type BackendClient interface {
	UserAPI
	LoanAPI
	PoolAPI
}
