// Package pool lists lending pools and moves liquidity in and out of them.
package pool

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
)

// ValidationError reports a rejected liquidity request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Service wraps the pool endpoints with local validation.
type Service struct {
	api     domain.PoolAPI
	session domain.SessionReader
	log     *logrus.Entry
}

// New returns a pool service.
func New(api domain.PoolAPI, sess domain.SessionReader, log *logrus.Entry) *Service {
	return &Service{api: api, session: sess, log: logging.Component(log, "pool")}
}

// List returns all pools.
func (s *Service) List(ctx context.Context) ([]domain.Pool, error) {
	return s.api.GetPools(ctx)
}

// Get returns one pool.
func (s *Service) Get(ctx context.Context, id string) (domain.Pool, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Pool{}, &ValidationError{Field: "pool", Message: "Please choose a pool"}
	}
	return s.api.GetPool(ctx, id)
}

// Provide deposits amount of tokenID into poolID. tokenID defaults to EGLD.
func (s *Service) Provide(ctx context.Context, poolID, amount, tokenID string) (domain.TxResponse, error) {
	poolID, amount, err := s.check(poolID, amount)
	if err != nil {
		return domain.TxResponse{}, err
	}
	if strings.TrimSpace(tokenID) == "" {
		tokenID = domain.DefaultTokenID
	}
	resp, err := s.api.ProvideLiquidity(ctx, domain.ProvideLiquidityRequest{PoolID: poolID, Amount: amount, TokenID: tokenID})
	if err != nil {
		s.log.WithFields(logrus.Fields{"pool_id": poolID, "amount": amount}).WithError(err).Error("provide liquidity failed")
		return domain.TxResponse{}, fmt.Errorf("provide liquidity: %w", err)
	}
	return resp, nil
}

// Withdraw takes amount out of poolID.
func (s *Service) Withdraw(ctx context.Context, poolID, amount string) (domain.TxResponse, error) {
	poolID, amount, err := s.check(poolID, amount)
	if err != nil {
		return domain.TxResponse{}, err
	}
	resp, err := s.api.WithdrawLiquidity(ctx, domain.WithdrawLiquidityRequest{PoolID: poolID, Amount: amount})
	if err != nil {
		s.log.WithFields(logrus.Fields{"pool_id": poolID, "amount": amount}).WithError(err).Error("withdraw liquidity failed")
		return domain.TxResponse{}, fmt.Errorf("withdraw liquidity: %w", err)
	}
	return resp, nil
}

func (s *Service) check(poolID, amount string) (string, string, error) {
	if s.session.Snapshot().Address.IsZero() {
		return "", "", &ValidationError{Field: "wallet", Message: "Please connect your wallet first"}
	}
	poolID = strings.TrimSpace(poolID)
	if poolID == "" {
		return "", "", &ValidationError{Field: "pool", Message: "Please choose a pool"}
	}
	amount = strings.TrimSpace(amount)
	d, err := decimal.NewFromString(amount)
	if err != nil || !d.IsPositive() {
		return "", "", &ValidationError{Field: "amount", Message: "Please enter a valid amount"}
	}
	return poolID, amount, nil
}
