package pool_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/domain"
	"socialfi/internal/services/pool"
)

type fakePools struct {
	provided  []domain.ProvideLiquidityRequest
	withdrawn []domain.WithdrawLiquidityRequest
}

func (f *fakePools) GetPools(context.Context) ([]domain.Pool, error) {
	return []domain.Pool{{ID: "pool-egld", TokenID: "EGLD", APY: 4.2}}, nil
}

func (f *fakePools) GetPool(_ context.Context, id string) (domain.Pool, error) {
	return domain.Pool{ID: id}, nil
}

func (f *fakePools) ProvideLiquidity(_ context.Context, r domain.ProvideLiquidityRequest) (domain.TxResponse, error) {
	f.provided = append(f.provided, r)
	return domain.TxResponse{Status: "success"}, nil
}

func (f *fakePools) WithdrawLiquidity(_ context.Context, r domain.WithdrawLiquidityRequest) (domain.TxResponse, error) {
	f.withdrawn = append(f.withdrawn, r)
	return domain.TxResponse{Status: "success"}, nil
}

type fixedSession domain.Address

func (s fixedSession) Snapshot() domain.WalletSession {
	return domain.WalletSession{Connected: s != "", Address: domain.Address(s)}
}

func TestProvideWithdraw(t *testing.T) {
	ctx := context.Background()
	api := &fakePools{}
	svc := pool.New(api, fixedSession("erd1a"), nil)

	_, err := svc.Provide(ctx, " pool-egld ", " 10 ", "")
	require.NoError(t, err)
	_, err = svc.Withdraw(ctx, "pool-egld", "2.5")
	require.NoError(t, err)

	assert.Equal(t, []domain.ProvideLiquidityRequest{{PoolID: "pool-egld", Amount: "10", TokenID: "EGLD"}}, api.provided)
	assert.Equal(t, []domain.WithdrawLiquidityRequest{{PoolID: "pool-egld", Amount: "2.5"}}, api.withdrawn)
}

func TestValidation(t *testing.T) {
	ctx := context.Background()
	api := &fakePools{}

	cases := []struct {
		name, addr, pool, amount, field string
	}{
		{"no wallet", "", "pool-egld", "1", "wallet"},
		{"no pool", "erd1a", "", "1", "pool"},
		{"bad amount", "erd1a", "pool-egld", "ten", "amount"},
		{"negative", "erd1a", "pool-egld", "-1", "amount"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := pool.New(api, fixedSession(tc.addr), nil)
			_, err := svc.Provide(ctx, tc.pool, tc.amount, "EGLD")
			var ve *pool.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tc.field, ve.Field)
		})
	}
	assert.Empty(t, api.provided)
}

func TestList(t *testing.T) {
	svc := pool.New(&fakePools{}, fixedSession(""), nil)
	pools, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, pools, 1)

	_, err = svc.Get(context.Background(), "")
	assert.Error(t, err)
}
