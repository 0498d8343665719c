package stubapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"socialfi/internal/crypto"
	"socialfi/internal/wallet"
)

const walletWriteTimeout = 5 * time.Second

// walletConn is one relay client paired with the stub wallet.
type walletConn struct {
	conn *websocket.Conn

	mu     sync.Mutex
	topics map[string]struct{}
}

func (c *walletConn) write(msg wallet.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(walletWriteTimeout))
	return c.conn.WriteJSON(msg)
}

// handleWallet upgrades to the relay protocol and approves every session
// and signing request with the server's wallet key.
func (s *Server) handleWallet(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("wallet upgrade failed")
		return
	}
	wc := &walletConn{conn: conn, topics: make(map[string]struct{})}

	s.connsMu.Lock()
	s.conns[wc] = struct{}{}
	s.connsMu.Unlock()
	defer func() {
		s.connsMu.Lock()
		delete(s.conns, wc)
		s.connsMu.Unlock()
		_ = conn.Close()
	}()

	for {
		var msg wallet.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		reply, ok := s.answer(wc, msg)
		if !ok {
			continue
		}
		if err := wc.write(reply); err != nil {
			s.log.WithError(err).Debug("wallet write failed")
			return
		}
	}
}

func (s *Server) answer(wc *walletConn, msg wallet.Message) (wallet.Message, bool) {
	log := s.log.WithFields(logrus.Fields{"type": msg.Type, "topic": msg.Topic})

	switch msg.Type {
	case wallet.MsgSessionPropose:
		wc.mu.Lock()
		wc.topics[msg.Topic] = struct{}{}
		wc.mu.Unlock()
		log.Info("wallet session approved")
		return wallet.Message{
			Type:    wallet.MsgSessionApprove,
			ID:      msg.ID,
			Topic:   msg.Topic,
			Address: s.address,
		}, true

	case wallet.MsgSignRequest:
		reject := func(reason string) (wallet.Message, bool) {
			log.WithField("reason", reason).Info("wallet refused to sign")
			return wallet.Message{Type: wallet.MsgSignError, ID: msg.ID, Reason: reason}, true
		}
		if msg.Transaction == nil {
			return reject("no transaction")
		}
		if msg.Transaction.Sender != "" && msg.Transaction.Sender != s.address {
			return reject("sender is not this wallet")
		}
		payload, err := msg.Transaction.SigningBytes()
		if err != nil {
			return reject(err.Error())
		}
		s.metrics.signed.Inc()
		return wallet.Message{
			Type:      wallet.MsgSignResponse,
			ID:        msg.ID,
			Signature: crypto.SignEd25519(s.key, payload),
		}, true

	case wallet.MsgSessionDelete:
		wc.mu.Lock()
		delete(wc.topics, msg.Topic)
		wc.mu.Unlock()
		log.Info("wallet session ended by client")
		return wallet.Message{}, false

	default:
		log.Debug("unknown wallet message ignored")
		return wallet.Message{}, false
	}
}

// EndSessions makes the stub wallet end every paired session, as if the user
// disconnected from the wallet side.
func (s *Server) EndSessions() {
	s.connsMu.Lock()
	conns := make([]*walletConn, 0, len(s.conns))
	for wc := range s.conns {
		conns = append(conns, wc)
	}
	s.connsMu.Unlock()

	for _, wc := range conns {
		wc.mu.Lock()
		topics := make([]string, 0, len(wc.topics))
		for t := range wc.topics {
			topics = append(topics, t)
		}
		wc.topics = make(map[string]struct{})
		wc.mu.Unlock()

		for _, t := range topics {
			if err := wc.write(wallet.Message{Type: wallet.MsgSessionDelete, Topic: t}); err != nil {
				s.log.WithError(err).Debug("session delete not delivered")
			}
		}
	}
}

// Close drops every wallet connection.
func (s *Server) Close() {
	s.connsMu.Lock()
	defer s.connsMu.Unlock()
	for wc := range s.conns {
		_ = wc.conn.Close()
	}
}
