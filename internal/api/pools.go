package api

import (
	"context"
	"net/url"

	"socialfi/internal/domain"
)

// GetPools lists liquidity pools.
func (c *Client) GetPools(ctx context.Context) ([]domain.Pool, error) {
	var out []domain.Pool
	if err := c.getJSON(ctx, "/api/pools", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPool fetches a pool by id.
func (c *Client) GetPool(ctx context.Context, poolID string) (domain.Pool, error) {
	var out domain.Pool
	if err := c.getJSON(ctx, "/api/pools/"+url.PathEscape(poolID), nil, &out); err != nil {
		return domain.Pool{}, err
	}
	return out, nil
}

// ProvideLiquidity deposits into a pool.
func (c *Client) ProvideLiquidity(
	ctx context.Context,
	req domain.ProvideLiquidityRequest,
) (domain.TxResponse, error) {
	var out domain.TxResponse
	if err := c.post(ctx, "/api/pools/provide", req, &out); err != nil {
		return domain.TxResponse{}, err
	}
	return out, nil
}

// WithdrawLiquidity withdraws from a pool.
func (c *Client) WithdrawLiquidity(
	ctx context.Context,
	req domain.WithdrawLiquidityRequest,
) (domain.TxResponse, error) {
	var out domain.TxResponse
	if err := c.post(ctx, "/api/pools/withdraw", req, &out); err != nil {
		return domain.TxResponse{}, err
	}
	return out, nil
}
