package commands

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/domain"
	"socialfi/internal/stubapi"
)

const testPass = "Correct-Horse-9"

type cli struct {
	t    *testing.T
	stub *stubapi.Server
	url  string
	home string
}

func newCLI(t *testing.T) *cli {
	t.Helper()
	stub, err := stubapi.New()
	require.NoError(t, err)
	ts := httptest.NewServer(stub.Handler())
	t.Cleanup(func() {
		stub.Close()
		ts.Close()
	})
	home := t.TempDir()
	t.Setenv("SOCIALFI_HOME", home)
	t.Setenv("SOCIALFI_RATE_LIMIT", "0")
	return &cli{t: t, stub: stub, url: ts.URL, home: home}
}

func (c *cli) run(args ...string) (string, error) {
	c.t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCmd(&out, &errOut)
	base := []string{
		"--home", c.home,
		"--api", c.url,
		"--network", c.url,
		"--relay", "ws" + strings.TrimPrefix(c.url, "http") + "/ws",
	}
	root.SetArgs(append(base, args...))
	err := run(context.Background(), root)
	return out.String(), err
}

func (c *cli) newKey() domain.Address {
	c.t.Helper()
	out, err := c.run("wallet", "new", "-p", testPass)
	require.NoError(c.t, err)
	for _, line := range strings.Split(out, "\n") {
		if f := strings.Fields(line); len(f) == 2 && f[0] == "Address:" {
			return domain.Address(f[1])
		}
	}
	c.t.Fatalf("no address in %q", out)
	return ""
}

func TestWalletNew_RequiresPassphrase(t *testing.T) {
	c := newCLI(t)
	_, err := c.run("wallet", "new")
	assert.ErrorContains(t, err, "passphrase required")
}

func TestLoanRequest_ExtensionWalletEndToEnd(t *testing.T) {
	c := newCLI(t)
	addr := c.newKey()
	c.stub.SetScore(addr, domain.UserScore{Current: 700, Max: 1000, EligibleForLoan: true, MaxLoanAmount: "5.0"})
	c.stub.SetBalance(addr, "1500000000000000000")

	out, err := c.run("wallet", "connect", "-p", testPass)
	require.NoError(t, err)
	assert.Contains(t, out, "1.5000 EGLD")

	// A later invocation reconnects from the saved session.
	out, err = c.run("loans", "request", "-p", testPass, "--amount", "3", "--days", "30", "--token", "EGLD", "--sign")
	require.NoError(t, err)
	assert.Contains(t, out, "Signature:")
	assert.Equal(t, []domain.LoanRequest{{Amount: "3", DurationDays: 30, TokenID: "EGLD"}}, c.stub.LoanRequests())
}

func TestLoanRequest_OverMaxIsRejectedLocally(t *testing.T) {
	c := newCLI(t)
	addr := c.newKey()
	c.stub.SetScore(addr, domain.UserScore{Current: 700, Max: 1000, EligibleForLoan: true, MaxLoanAmount: "5.0"})

	_, err := c.run("wallet", "connect", "-p", testPass)
	require.NoError(t, err)

	_, err = c.run("loans", "request", "-p", testPass, "--amount", "6")
	assert.EqualError(t, err, "Amount exceeds your maximum loan amount of 5 EGLD")
	assert.Empty(t, c.stub.LoanRequests())
}

func TestDashboard_ShowsScoreAndLoans(t *testing.T) {
	c := newCLI(t)
	addr := c.newKey()
	c.stub.SetScore(addr, domain.UserScore{Current: 450, Max: 1000, EligibleForLoan: false, MaxLoanAmount: "0"})
	c.stub.AddLoan(domain.Loan{ID: "loan-1", Borrower: addr, Amount: "2", RepaymentAmount: "2.1", InterestRate: 5})

	_, err := c.run("wallet", "connect", "-p", testPass)
	require.NoError(t, err)

	out, err := c.run("dashboard", "-p", testPass)
	require.NoError(t, err)
	assert.Contains(t, out, "Community score: 450 / 1000")
	assert.Contains(t, out, "Not yet eligible for a loan")
	assert.Contains(t, out, "loan-1")
}

func TestDashboard_Disconnected(t *testing.T) {
	c := newCLI(t)
	out, err := c.run("dashboard")
	require.NoError(t, err)
	assert.Contains(t, out, "not connected")
}

func TestWallet_RemoteConnectRestoreDisconnect(t *testing.T) {
	c := newCLI(t)

	out, err := c.run("wallet", "connect", "--provider", "walletconnect")
	require.NoError(t, err)
	assert.Contains(t, out, "walletconnect")

	out, err = c.run("wallet", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Provider: walletconnect")

	out, err = c.run("wallet", "disconnect")
	require.NoError(t, err)
	assert.Contains(t, out, "Wallet disconnected.")

	out, err = c.run("wallet", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "not connected")
}

func TestPools_List(t *testing.T) {
	c := newCLI(t)
	c.stub.AddPool(domain.Pool{ID: "egld-core", TokenID: "EGLD", TotalLiquidity: "10", APY: 6.2})

	out, err := c.run("pools", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "egld-core")
	assert.Contains(t, out, "6.20%")
}
