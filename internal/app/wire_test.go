package app_test

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/app"
	"socialfi/internal/domain"
	"socialfi/internal/stubapi"
)

const pass = "Correct-Horse-9"

func newWire(t *testing.T) (*app.Wire, *stubapi.Server) {
	t.Helper()
	stub, err := stubapi.New()
	require.NoError(t, err)
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(func() {
		stub.Close()
		ts.Close()
	})

	w, err := app.NewWire(app.Config{
		Home:             t.TempDir(),
		APIURL:           ts.URL,
		NetworkURL:       ts.URL,
		Passphrase:       pass,
		HTTPTimeout:      5 * time.Second,
		LoanRefreshDelay: 10 * time.Millisecond,
		LogLevel:         "debug",
	}, app.WithLogOutput(io.Discard))
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w, stub
}

func TestWire_ConnectScoreSubmit(t *testing.T) {
	w, stub := newWire(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	info, err := w.Identity.GenerateKey(pass, false)
	require.NoError(t, err)
	stub.SetScore(info.Address, domain.UserScore{Current: 800, Max: 1000, EligibleForLoan: true, MaxLoanAmount: "5.0"})
	stub.AddLoan(domain.Loan{Borrower: info.Address, Amount: "1", Status: domain.LoanRepaid})

	require.NoError(t, w.Wallet.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, w.Scores.Await(ctx))
	require.NotNil(t, w.Scores.Score())
	assert.True(t, w.Scores.Score().EligibleForLoan)

	form := domain.NewLoanForm()
	form.Amount = "3"
	_, err = w.Loans.Submit(ctx, form)
	require.NoError(t, err)
	assert.Equal(t, []domain.LoanRequest{{Amount: "3", DurationDays: 30, TokenID: "EGLD"}}, stub.LoanRequests())

	require.NoError(t, w.Loans.AwaitRefresh(ctx))
	lists := w.Loans.Lists()
	assert.Empty(t, lists.Active)
	assert.Len(t, lists.History, 1)
}

func TestWire_DisconnectClearsDependents(t *testing.T) {
	w, stub := newWire(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	info, err := w.Identity.GenerateKey(pass, false)
	require.NoError(t, err)
	stub.SetScore(info.Address, domain.UserScore{Current: 100, Max: 1000, MaxLoanAmount: "0"})

	stub.AddLoan(domain.Loan{Borrower: info.Address, Amount: "1", Status: domain.LoanActive})
	stub.AddLoan(domain.Loan{Borrower: info.Address, Amount: "2", Status: domain.LoanRepaid})

	require.NoError(t, w.Wallet.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, w.Scores.Await(ctx))
	require.NotNil(t, w.Scores.Score())
	require.NoError(t, w.Loans.RefreshLoans(ctx))
	require.Len(t, w.Loans.Lists().Active, 1)
	require.Len(t, w.Loans.Lists().History, 1)

	require.NoError(t, w.Wallet.Disconnect(ctx))
	assert.Nil(t, w.Scores.Score())
	lists := w.Loans.Lists()
	assert.Empty(t, lists.Active)
	assert.Empty(t, lists.History)
	assert.False(t, w.Wallet.Snapshot().Connected)

	_, ok, err := w.Sessions.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewWire_RejectsInvalidConfig(t *testing.T) {
	_, err := app.NewWire(app.Config{})
	assert.Error(t, err)
}
