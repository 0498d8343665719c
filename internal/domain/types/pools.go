package types

// Pool is a lending liquidity pool.
type Pool struct {
	ID             string  `json:"id"`
	TokenID        string  `json:"token_id"`
	TotalLiquidity string  `json:"total_liquidity"`
	Borrowed       string  `json:"borrowed"`
	APY            float64 `json:"apy"`
}

// ProvideLiquidityRequest is the body of POST /api/pools/provide.
type ProvideLiquidityRequest struct {
	PoolID  string `json:"pool_id"`
	Amount  string `json:"amount"`
	TokenID string `json:"token_id"`
}

// WithdrawLiquidityRequest is the body of POST /api/pools/withdraw.
type WithdrawLiquidityRequest struct {
	PoolID string `json:"pool_id"`
	Amount string `json:"amount"`
}
