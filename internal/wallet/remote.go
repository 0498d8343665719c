package wallet

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
)

// RemoteConfig configures a RemoteProvider.
type RemoteConfig struct {
	RelayURL     string
	Project      string
	ChainID      string
	WriteTimeout time.Duration
	Dialer       *websocket.Dialer
}

// RemoteProvider pairs with a wallet over a WebSocket relay.
type RemoteProvider struct {
	cfg RemoteConfig
	log *logrus.Entry

	connMu sync.Mutex
	conn   *websocket.Conn
	done   chan struct{}
	wg     sync.WaitGroup

	mu       sync.Mutex
	address  domain.Address
	topic    string
	onLogout func()

	pendingMu sync.Mutex
	pending   map[string]chan Message
}

// NewRemoteProvider returns an unconnected remote provider.
func NewRemoteProvider(cfg RemoteConfig, log *logrus.Entry) *RemoteProvider {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}
	if cfg.Dialer == nil {
		cfg.Dialer = &websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	}
	return &RemoteProvider{
		cfg:     cfg,
		log:     logging.Component(log, "wallet.remote"),
		pending: make(map[string]chan Message),
	}
}

// SetLogoutHandler registers fn to run when the wallet ends the session.
// fn runs on its own goroutine.
func (p *RemoteProvider) SetLogoutHandler(fn func()) {
	p.mu.Lock()
	p.onLogout = fn
	p.mu.Unlock()
}

// Kind returns ProviderWalletConnect.
func (p *RemoteProvider) Kind() domain.ProviderKind { return domain.ProviderWalletConnect }

// Init dials the relay. It is a no-op while connected; after the relay drops
// the connection it dials again.
func (p *RemoteProvider) Init(ctx context.Context) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.conn != nil {
		return nil
	}
	if p.cfg.RelayURL == "" {
		return fmt.Errorf("wallet relay URL is not configured")
	}
	conn, _, err := p.cfg.Dialer.DialContext(ctx, p.cfg.RelayURL, nil)
	if err != nil {
		return fmt.Errorf("dial wallet relay: %w", err)
	}
	p.conn = conn
	p.done = make(chan struct{})

	p.wg.Add(1)
	go p.readLoop(conn, p.done)
	return nil
}

// Login proposes a session and waits for the wallet to approve it.
func (p *RemoteProvider) Login(ctx context.Context) error {
	topic := uuid.NewString()
	reply, err := p.request(ctx, Message{
		Type:    MsgSessionPropose,
		Topic:   topic,
		Project: p.cfg.Project,
		ChainID: p.cfg.ChainID,
	})
	if err != nil {
		return err
	}

	switch reply.Type {
	case MsgSessionApprove:
		if !ValidAddress(reply.Address) {
			return fmt.Errorf("wallet approved with invalid address %q", reply.Address)
		}
		p.mu.Lock()
		p.address = reply.Address
		p.topic = topic
		p.mu.Unlock()
		p.log.WithFields(logrus.Fields{"address": reply.Address, "topic": topic}).Info("remote wallet paired")
		return nil
	case MsgSessionReject:
		if reply.Reason != "" {
			return fmt.Errorf("%w: %s", ErrSessionRejected, reply.Reason)
		}
		return ErrSessionRejected
	default:
		return fmt.Errorf("unexpected %q reply to %s", reply.Type, MsgSessionPropose)
	}
}

// SignTransaction forwards tx to the wallet and returns it with the
// wallet's signature.
func (p *RemoteProvider) SignTransaction(
	ctx context.Context,
	tx domain.Transaction,
) (domain.Transaction, error) {
	p.mu.Lock()
	addr, topic := p.address, p.topic
	p.mu.Unlock()
	if addr == "" {
		return domain.Transaction{}, ErrNotLoggedIn
	}
	if tx.Sender == "" {
		tx.Sender = addr
	}

	reply, err := p.request(ctx, Message{Type: MsgSignRequest, Topic: topic, Transaction: &tx})
	if err != nil {
		return domain.Transaction{}, err
	}
	switch reply.Type {
	case MsgSignResponse:
		tx.Signature = reply.Signature
		return tx, nil
	case MsgSignError:
		return domain.Transaction{}, fmt.Errorf("%w: %s", ErrSignRejected, reply.Reason)
	default:
		return domain.Transaction{}, fmt.Errorf("unexpected %q reply to %s", reply.Type, MsgSignRequest)
	}
}

// Logout tells the wallet the session is over and closes the relay
// connection.
func (p *RemoteProvider) Logout(ctx context.Context) error {
	p.mu.Lock()
	topic := p.topic
	p.address, p.topic = "", ""
	p.mu.Unlock()

	var sendErr error
	if topic != "" {
		sendErr = p.send(Message{Type: MsgSessionDelete, Topic: topic})
	}
	p.close()
	if sendErr != nil {
		return fmt.Errorf("notify wallet of logout: %w", sendErr)
	}
	return nil
}

// Close drops the relay connection without telling the wallet.
func (p *RemoteProvider) Close() error {
	p.close()
	return nil
}

// Address returns the paired address, or empty.
func (p *RemoteProvider) Address() domain.Address {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.address
}

// request sends msg with a fresh ID and waits for the matching reply.
func (p *RemoteProvider) request(ctx context.Context, msg Message) (Message, error) {
	msg.ID = uuid.NewString()
	ch := make(chan Message, 1)

	p.pendingMu.Lock()
	p.pending[msg.ID] = ch
	p.pendingMu.Unlock()
	defer func() {
		p.pendingMu.Lock()
		delete(p.pending, msg.ID)
		p.pendingMu.Unlock()
	}()

	if err := p.send(msg); err != nil {
		return Message{}, err
	}

	select {
	case reply, ok := <-ch:
		if !ok {
			return Message{}, ErrRelayClosed
		}
		return reply, nil
	case <-ctx.Done():
		return Message{}, ctx.Err()
	}
}

func (p *RemoteProvider) send(msg Message) error {
	p.connMu.Lock()
	defer p.connMu.Unlock()

	if p.conn == nil {
		return ErrRelayClosed
	}
	_ = p.conn.SetWriteDeadline(time.Now().Add(p.cfg.WriteTimeout))
	if err := p.conn.WriteJSON(msg); err != nil {
		return fmt.Errorf("%w: write %s: %w", ErrRelayClosed, msg.Type, err)
	}
	return nil
}

func (p *RemoteProvider) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer p.wg.Done()
	defer p.failPending()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-done:
			default:
				p.log.WithError(err).Warn("wallet relay connection lost")
				p.detach(conn)
			}
			return
		}
		p.dispatch(msg)
	}
}

func (p *RemoteProvider) dispatch(msg Message) {
	if msg.ID != "" {
		p.pendingMu.Lock()
		ch, ok := p.pending[msg.ID]
		p.pendingMu.Unlock()
		if ok {
			select {
			case ch <- msg:
			default:
			}
			return
		}
	}

	if msg.Type != MsgSessionDelete {
		p.log.WithField("type", msg.Type).Debug("unsolicited relay message ignored")
		return
	}

	p.mu.Lock()
	if p.topic == "" || (msg.Topic != "" && msg.Topic != p.topic) {
		p.mu.Unlock()
		return
	}
	addr := p.address
	p.address, p.topic = "", ""
	fn := p.onLogout
	p.mu.Unlock()

	p.log.WithField("address", addr).Info("remote wallet ended the session")
	if fn != nil {
		go fn()
	}
}

// failPending closes every waiting request channel.
func (p *RemoteProvider) failPending() {
	p.pendingMu.Lock()
	defer p.pendingMu.Unlock()
	for id, ch := range p.pending {
		close(ch)
		delete(p.pending, id)
	}
}

// detach forgets conn after the relay dropped it, so later sends fail with
// ErrRelayClosed and Init can dial again. It runs before pending requests
// are failed.
func (p *RemoteProvider) detach(conn *websocket.Conn) {
	p.connMu.Lock()
	defer p.connMu.Unlock()
	if p.conn != conn {
		return
	}
	p.conn = nil
	_ = conn.Close()
}

func (p *RemoteProvider) close() {
	p.connMu.Lock()
	conn := p.conn
	p.conn = nil
	if conn != nil {
		close(p.done)
		_ = conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		_ = conn.Close()
	}
	p.connMu.Unlock()
	p.wg.Wait()
}

var _ domain.Provider = (*RemoteProvider)(nil)
