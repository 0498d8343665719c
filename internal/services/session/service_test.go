package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/domain"
	"socialfi/internal/services/session"
)

type fakeProvider struct {
	kind      domain.ProviderKind
	addr      domain.Address
	loginErr  error
	logoutErr error

	mu       sync.Mutex
	loggedIn bool
	logouts  int
	onLogout func()
}

func (p *fakeProvider) Kind() domain.ProviderKind   { return p.kind }
func (p *fakeProvider) Init(context.Context) error { return nil }

func (p *fakeProvider) Login(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loginErr != nil {
		return p.loginErr
	}
	p.loggedIn = true
	return nil
}

func (p *fakeProvider) Logout(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.logouts++
	p.loggedIn = false
	return p.logoutErr
}

func (p *fakeProvider) SignTransaction(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	tx.Signature = "signed-by-" + p.addr.String()
	return tx, nil
}

func (p *fakeProvider) Address() domain.Address {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loggedIn {
		return ""
	}
	return p.addr
}

func (p *fakeProvider) SetLogoutHandler(fn func()) {
	p.mu.Lock()
	p.onLogout = fn
	p.mu.Unlock()
}

func (p *fakeProvider) fireRemoteLogout() {
	p.mu.Lock()
	fn := p.onLogout
	p.mu.Unlock()
	fn()
}

type fakeFactory struct {
	mu   sync.Mutex
	next []*fakeProvider
}

func (f *fakeFactory) queue(p ...*fakeProvider) {
	f.mu.Lock()
	f.next = append(f.next, p...)
	f.mu.Unlock()
}

func (f *fakeFactory) NewProvider(kind domain.ProviderKind) (domain.Provider, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.next) == 0 {
		return nil, errors.New("no provider queued")
	}
	p := f.next[0]
	f.next = f.next[1:]
	p.kind = kind
	return p, nil
}

type memStore struct {
	mu       sync.Mutex
	saved    *domain.PersistedSession
	clearErr error
}

func (m *memStore) SaveSession(p domain.PersistedSession) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = &p
	return nil
}

func (m *memStore) LoadSession() (domain.PersistedSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saved == nil || !m.saved.Complete() {
		return domain.PersistedSession{}, false, nil
	}
	return *m.saved, true, nil
}

func (m *memStore) ClearSession() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = nil
	return m.clearErr
}

// fakeNetwork ignores context cancellation so stale results really arrive.
type fakeNetwork struct {
	mu       sync.Mutex
	balances map[domain.Address]string
	gates    map[domain.Address]chan struct{}
}

func newNetwork() *fakeNetwork {
	return &fakeNetwork{balances: map[domain.Address]string{}, gates: map[domain.Address]chan struct{}{}}
}

func (n *fakeNetwork) GetAccount(_ context.Context, addr domain.Address) (domain.Account, error) {
	n.mu.Lock()
	gate := n.gates[addr]
	bal, ok := n.balances[addr]
	n.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if !ok {
		return domain.Account{}, errors.New("unknown account")
	}
	return domain.Account{Address: addr, Balance: bal}, nil
}

func setup() (*session.Service, *fakeFactory, *memStore, *fakeNetwork) {
	f := &fakeFactory{}
	st := &memStore{}
	n := newNetwork()
	return session.New(f, st, n, nil), f, st, n
}

func TestConnect_PersistsAndRefreshesBalance(t *testing.T) {
	ctx := context.Background()
	svc, f, st, n := setup()
	defer svc.Close()

	n.balances["erd1a"] = "2500000000000000000"
	f.queue(&fakeProvider{addr: "erd1a"})

	var events []domain.SessionEvent
	unsub := svc.Subscribe(func(ev domain.SessionEvent) { events = append(events, ev) })
	defer unsub()

	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, svc.AwaitBalance(ctx))

	snap := svc.Snapshot()
	assert.True(t, snap.Connected)
	assert.Equal(t, domain.Address("erd1a"), snap.Address)
	assert.Equal(t, "2500000000000000000", snap.Balance)
	assert.Equal(t, domain.ProviderExtension, snap.Provider)

	saved, ok, err := st.LoadSession()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, domain.PersistedSession{WalletAddress: "erd1a", WalletProvider: domain.ProviderExtension}, saved)

	assert.Equal(t, []domain.SessionEvent{{Connected: true, Address: "erd1a"}}, events)
}

func TestDisconnect_ClearsEvenWhenLogoutFails(t *testing.T) {
	ctx := context.Background()
	svc, f, st, n := setup()
	defer svc.Close()

	n.balances["erd1a"] = "1"
	p := &fakeProvider{addr: "erd1a", logoutErr: errors.New("extension crashed")}
	f.queue(p)
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, svc.AwaitBalance(ctx))

	require.NoError(t, svc.Disconnect(ctx))

	assert.Equal(t, domain.WalletSession{}, svc.Snapshot())
	_, ok, err := st.LoadSession()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, p.logouts)

	_, err = svc.SignTransaction(ctx, domain.Transaction{})
	assert.ErrorIs(t, err, session.ErrNotConnected)
}

func TestDisconnect_ReportsStoreFailure(t *testing.T) {
	ctx := context.Background()
	svc, f, st, _ := setup()
	defer svc.Close()

	f.queue(&fakeProvider{addr: "erd1a"})
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))

	st.clearErr = errors.New("disk full")
	assert.Error(t, svc.Disconnect(ctx))
	assert.False(t, svc.Snapshot().Connected, "memory is cleared regardless")
}

func TestConnect_FailureLeavesStateUnchanged(t *testing.T) {
	ctx := context.Background()
	svc, f, _, _ := setup()
	defer svc.Close()

	f.queue(&fakeProvider{addr: "erd1a"}, &fakeProvider{addr: "erd1b", loginErr: errors.New("user closed popup")})
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	before := svc.Snapshot()

	err := svc.Connect(ctx, domain.ProviderWalletConnect)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user closed popup")
	assert.Equal(t, before.Address, svc.Snapshot().Address)
	assert.Equal(t, domain.ProviderExtension, svc.Snapshot().Provider)
}

func TestBalance_StaleFetchDoesNotOverwrite(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	svc, f, _, n := setup()
	defer svc.Close()

	gateA := make(chan struct{})
	n.balances["erd1a"] = "111"
	n.balances["erd1b"] = "222"
	n.gates["erd1a"] = gateA

	f.queue(&fakeProvider{addr: "erd1a"}, &fakeProvider{addr: "erd1b"})
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, svc.AwaitBalance(ctx))
	assert.Equal(t, "222", svc.Snapshot().Balance)

	close(gateA)
	svc.Close()
	assert.Equal(t, domain.Address("erd1b"), svc.Snapshot().Address)
	assert.Equal(t, "222", svc.Snapshot().Balance)
}

func TestBalance_FailureIsSwallowed(t *testing.T) {
	ctx := context.Background()
	svc, f, _, _ := setup()
	defer svc.Close()

	f.queue(&fakeProvider{addr: "erd1unknown"})
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	require.NoError(t, svc.RefreshBalance(ctx))
	assert.Empty(t, svc.Snapshot().Balance)
	assert.True(t, svc.Snapshot().Connected)
}

func TestRestore_ReplaysPersistedProvider(t *testing.T) {
	ctx := context.Background()
	svc, f, st, _ := setup()
	defer svc.Close()

	require.NoError(t, svc.Restore(ctx), "nothing persisted is not an error")
	assert.False(t, svc.Snapshot().Connected)

	require.NoError(t, st.SaveSession(domain.PersistedSession{WalletAddress: "erd1a", WalletProvider: domain.ProviderWalletConnect}))
	f.queue(&fakeProvider{addr: "erd1a"})
	require.NoError(t, svc.Restore(ctx))

	snap := svc.Snapshot()
	assert.True(t, snap.Connected)
	assert.Equal(t, domain.ProviderWalletConnect, snap.Provider)
}

func TestRemoteLogout_Disconnects(t *testing.T) {
	ctx := context.Background()
	svc, f, st, _ := setup()
	defer svc.Close()

	p := &fakeProvider{addr: "erd1a"}
	f.queue(p)
	require.NoError(t, svc.Connect(ctx, domain.ProviderWalletConnect))

	p.fireRemoteLogout()
	assert.False(t, svc.Snapshot().Connected)
	_, ok, _ := st.LoadSession()
	assert.False(t, ok)
}

func TestSignTransaction_UsesActiveProvider(t *testing.T) {
	ctx := context.Background()
	svc, f, _, _ := setup()
	defer svc.Close()

	f.queue(&fakeProvider{addr: "erd1a"})
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))

	tx, err := svc.SignTransaction(ctx, domain.Transaction{Nonce: 1})
	require.NoError(t, err)
	assert.Equal(t, "signed-by-erd1a", tx.Signature)
}

func TestUnsubscribe_StopsEvents(t *testing.T) {
	ctx := context.Background()
	svc, f, _, _ := setup()
	defer svc.Close()

	count := 0
	unsub := svc.Subscribe(func(domain.SessionEvent) { count++ })
	f.queue(&fakeProvider{addr: "erd1a"})
	require.NoError(t, svc.Connect(ctx, domain.ProviderExtension))
	unsub()
	unsub()
	require.NoError(t, svc.Disconnect(ctx))
	assert.Equal(t, 1, count)
}
