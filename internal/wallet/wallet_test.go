package wallet_test

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"socialfi/internal/crypto"
	"socialfi/internal/domain"
	"socialfi/internal/wallet"
)

const alice = domain.Address("erd1qyu5wthldzr8wx5c9ucg8kjagg0jfs53s8nr3zpz3hypefsdd8ssycr6th")

func TestAddress_KnownVector(t *testing.T) {
	pub, err := wallet.DecodeAddress(alice)
	require.NoError(t, err)
	assert.Equal(t, "0139472eff6886771a982f3083da5d421f24c29181e63888228dc81ca60d69e1", hex.EncodeToString(pub[:]))

	back, err := wallet.EncodeAddress(pub)
	require.NoError(t, err)
	assert.Equal(t, alice, back)
}

func TestAddress_Rejects(t *testing.T) {
	assert.False(t, wallet.ValidAddress(""))
	assert.False(t, wallet.ValidAddress("erd1notbech32"))
	assert.False(t, wallet.ValidAddress("bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq"))
}

type memKeys struct {
	mu   sync.Mutex
	pass string
	key  *domain.Ed25519Private
}

func (m *memKeys) SaveKey(pass string, k domain.Ed25519Private) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pass, m.key = pass, &k
	return nil
}

func (m *memKeys) LoadKey(pass string) (domain.Ed25519Private, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.key == nil {
		return domain.Ed25519Private{}, wallet.ErrNoKey
	}
	if pass != m.pass {
		return domain.Ed25519Private{}, errors.New("wrong passphrase")
	}
	return *m.key, nil
}

func (m *memKeys) HasKey() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.key != nil, nil
}

func seedKey(t *testing.T, keys domain.KeyStore, pass string) domain.Address {
	t.Helper()
	priv, pub, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	require.NoError(t, keys.SaveKey(pass, priv))
	addr, err := wallet.EncodeAddress(pub)
	require.NoError(t, err)
	return addr
}

func TestExtension_LoginSignLogout(t *testing.T) {
	ctx := context.Background()
	keys := &memKeys{}

	p := wallet.NewExtensionProvider(keys, "pw", nil)
	assert.ErrorIs(t, p.Init(ctx), wallet.ErrNoKey)

	addr := seedKey(t, keys, "pw")

	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Login(ctx))
	assert.Equal(t, addr, p.Address())

	tx := domain.Transaction{Nonce: 1, Value: "0", Receiver: alice, GasLimit: 50000, ChainID: "D", Version: 1}
	signed, err := p.SignTransaction(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, addr, signed.Sender)

	pub, err := wallet.DecodeAddress(addr)
	require.NoError(t, err)
	msg, err := signed.SigningBytes()
	require.NoError(t, err)
	ok, err := crypto.VerifyEd25519(pub, msg, signed.Signature)
	require.NoError(t, err)
	assert.True(t, ok)

	tx.Sender = alice
	_, err = p.SignTransaction(ctx, tx)
	assert.Error(t, err, "foreign sender is refused")

	require.NoError(t, p.Logout(ctx))
	assert.Empty(t, p.Address())
	_, err = p.SignTransaction(ctx, domain.Transaction{})
	assert.ErrorIs(t, err, wallet.ErrNotLoggedIn)
}

func TestExtension_WrongPassphrase(t *testing.T) {
	keys := &memKeys{}
	seedKey(t, keys, "right")

	p := wallet.NewExtensionProvider(keys, "wrong", nil)
	require.NoError(t, p.Init(context.Background()))
	assert.Error(t, p.Login(context.Background()))
	assert.Empty(t, p.Address())
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// fakeWallet answers relay frames; approve decides pairing and serverConn
// exposes the connection so a test can push frames.
type fakeWallet struct {
	approve bool

	mu   sync.Mutex
	conn *websocket.Conn
	seen []wallet.Message
}

func (f *fakeWallet) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer c.Close()
		f.mu.Lock()
		f.conn = c
		f.mu.Unlock()

		for {
			var m wallet.Message
			if err := c.ReadJSON(&m); err != nil {
				return
			}
			f.mu.Lock()
			f.seen = append(f.seen, m)
			f.mu.Unlock()

			var reply wallet.Message
			switch m.Type {
			case wallet.MsgSessionPropose:
				if f.approve {
					reply = wallet.Message{Type: wallet.MsgSessionApprove, ID: m.ID, Topic: m.Topic, Address: alice}
				} else {
					reply = wallet.Message{Type: wallet.MsgSessionReject, ID: m.ID, Reason: "user declined"}
				}
			case wallet.MsgSignRequest:
				reply = wallet.Message{Type: wallet.MsgSignResponse, ID: m.ID, Signature: "abcd"}
			default:
				continue
			}
			f.mu.Lock()
			err := c.WriteJSON(reply)
			f.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

func (f *fakeWallet) push(msg wallet.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conn.WriteJSON(msg)
}

// drop closes the relay's TCP connection without a close frame.
func (f *fakeWallet) drop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.conn.UnderlyingConn().Close()
}

func (f *fakeWallet) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.seen))
	for _, m := range f.seen {
		out = append(out, m.Type)
	}
	return out
}

func startRelay(t *testing.T, fw *fakeWallet) string {
	t.Helper()
	srv := httptest.NewServer(fw.handler(t))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestRemote_PairSignLogout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fw := &fakeWallet{approve: true}
	p := wallet.NewRemoteProvider(wallet.RemoteConfig{RelayURL: startRelay(t, fw), Project: "social-fi-credit", ChainID: "D"}, nil)

	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Login(ctx))
	assert.Equal(t, alice, p.Address())

	signed, err := p.SignTransaction(ctx, domain.Transaction{Nonce: 3, Receiver: alice})
	require.NoError(t, err)
	assert.Equal(t, "abcd", signed.Signature)
	assert.Equal(t, alice, signed.Sender)

	require.NoError(t, p.Logout(ctx))
	assert.Empty(t, p.Address())

	assert.Eventually(t, func() bool {
		got := fw.types()
		return len(got) == 3 && got[2] == wallet.MsgSessionDelete
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{wallet.MsgSessionPropose, wallet.MsgSignRequest, wallet.MsgSessionDelete}, fw.types())
}

func TestRemote_Rejected(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	p := wallet.NewRemoteProvider(wallet.RemoteConfig{RelayURL: startRelay(t, &fakeWallet{})}, nil)
	require.NoError(t, p.Init(ctx))
	err := p.Login(ctx)
	assert.ErrorIs(t, err, wallet.ErrSessionRejected)
	assert.Empty(t, p.Address())
	require.NoError(t, p.Logout(ctx))
}

func TestRemote_WalletEndsSession(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fw := &fakeWallet{approve: true}
	p := wallet.NewRemoteProvider(wallet.RemoteConfig{RelayURL: startRelay(t, fw)}, nil)
	called := make(chan struct{})
	p.SetLogoutHandler(func() { close(called) })

	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Login(ctx))
	require.NoError(t, fw.push(wallet.Message{Type: wallet.MsgSessionDelete}))

	select {
	case <-called:
	case <-ctx.Done():
		t.Fatal("logout handler not invoked")
	}
	assert.Empty(t, p.Address())
	require.NoError(t, p.Logout(ctx))
}

func TestRemote_RelayDropFailsFast(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	fw := &fakeWallet{approve: true}
	p := wallet.NewRemoteProvider(wallet.RemoteConfig{RelayURL: startRelay(t, fw)}, nil)
	require.NoError(t, p.Init(ctx))
	require.NoError(t, p.Login(ctx))
	require.NoError(t, fw.drop())

	signCtx, signCancel := context.WithTimeout(ctx, 2*time.Second)
	defer signCancel()
	_, err := p.SignTransaction(signCtx, domain.Transaction{Nonce: 1, Receiver: alice})
	require.ErrorIs(t, err, wallet.ErrRelayClosed)
	require.NoError(t, signCtx.Err(), "sign must not wait for the deadline")

	// Once the drop is noticed the provider dials a fresh connection.
	require.Eventually(t, func() bool {
		return p.Init(ctx) == nil && p.Login(ctx) == nil
	}, 2*time.Second, 10*time.Millisecond)
	signed, err := p.SignTransaction(ctx, domain.Transaction{Nonce: 2, Receiver: alice})
	require.NoError(t, err)
	assert.Equal(t, "abcd", signed.Signature)
	require.NoError(t, p.Logout(ctx))
}

func TestFactory_Kinds(t *testing.T) {
	f := &wallet.Factory{Keys: &memKeys{}, Passphrase: "pw"}

	p, err := f.NewProvider(domain.ProviderExtension)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderExtension, p.Kind())

	p, err = f.NewProvider(domain.ProviderWalletConnect)
	require.NoError(t, err)
	assert.Equal(t, domain.ProviderWalletConnect, p.Kind())

	_, err = f.NewProvider("ledger")
	assert.Error(t, err)
}
