package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
)

// ErrNotConnected is returned when an operation needs an active wallet.
var ErrNotConnected = errors.New("wallet is not connected")

// logoutNotifier is implemented by providers whose wallet can end the
// session from its side.
type logoutNotifier interface {
	SetLogoutHandler(fn func())
}

// closer is implemented by providers holding a connection that should be
// released on shutdown without ending the session.
type closer interface {
	Close() error
}

// Service is the wallet session container.
type Service struct {
	providers domain.ProviderFactory
	store     domain.SessionStore
	network   domain.NetworkReader
	log       *logrus.Entry

	// opMu serialises Connect and Disconnect.
	opMu sync.Mutex

	mu            sync.Mutex
	provider      domain.Provider
	state         domain.WalletSession
	gen           uint64
	balanceSeq    uint64
	cancelBalance context.CancelFunc
	balanceDone   chan struct{}

	subMu   sync.Mutex
	subs    map[int]func(domain.SessionEvent)
	nextSub int

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// New returns a disconnected session container.
func New(
	providers domain.ProviderFactory,
	store domain.SessionStore,
	network domain.NetworkReader,
	log *logrus.Entry,
) *Service {
	ctx, stop := context.WithCancel(context.Background())
	return &Service{
		providers: providers,
		store:     store,
		network:   network,
		log:       logging.Component(log, "session"),
		subs:      make(map[int]func(domain.SessionEvent)),
		ctx:       ctx,
		stop:      stop,
	}
}

// Snapshot returns the current session.
func (s *Service) Snapshot() domain.WalletSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Connect logs in with a fresh provider of kind, persists the session and
// starts a balance refresh. On failure the current session is left as is.
func (s *Service) Connect(ctx context.Context, kind domain.ProviderKind) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	log := s.log.WithField("provider", kind)

	p, err := s.providers.NewProvider(kind)
	if err != nil {
		log.WithError(err).Error("wallet provider unavailable")
		return err
	}
	if err := p.Init(ctx); err != nil {
		log.WithError(err).Error("wallet provider init failed")
		return fmt.Errorf("init %s wallet: %w", kind, err)
	}
	if err := p.Login(ctx); err != nil {
		log.WithError(err).Error("wallet login failed")
		s.release(ctx, p)
		return fmt.Errorf("login %s wallet: %w", kind, err)
	}
	addr := p.Address()
	if addr.IsZero() {
		s.release(ctx, p)
		err := fmt.Errorf("login %s wallet: provider returned no address", kind)
		log.WithError(err).Error("wallet login failed")
		return err
	}
	if err := s.store.SaveSession(domain.PersistedSession{WalletAddress: addr, WalletProvider: kind}); err != nil {
		s.release(ctx, p)
		log.WithError(err).Error("persist wallet session failed")
		return fmt.Errorf("persist wallet session: %w", err)
	}

	if n, ok := p.(logoutNotifier); ok {
		n.SetLogoutHandler(func() { s.remoteLogout(p) })
	}

	s.mu.Lock()
	old := s.provider
	s.provider = p
	s.state = domain.WalletSession{Connected: true, Address: addr, Provider: kind}
	s.gen++
	gen := s.gen
	s.mu.Unlock()

	if old != nil {
		s.release(ctx, old)
	}

	log.WithField("address", addr).Info("wallet connected")
	s.emit(domain.SessionEvent{Connected: true, Address: addr})
	s.startBalance(gen, addr)
	return nil
}

// Disconnect logs out of the active provider and clears the session. Logout
// errors are logged only; the in-memory and persisted state is always
// cleared.
func (s *Service) Disconnect(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	return s.disconnectLocked(ctx)
}

func (s *Service) disconnectLocked(ctx context.Context) error {
	s.mu.Lock()
	p := s.provider
	addr := s.state.Address
	s.mu.Unlock()

	if p != nil {
		if err := p.Logout(ctx); err != nil {
			s.log.WithFields(logrus.Fields{"provider": p.Kind(), "address": addr}).
				WithError(err).Warn("wallet logout failed")
		}
	}

	s.mu.Lock()
	s.provider = nil
	s.state = domain.WalletSession{}
	s.gen++
	s.cancelBalanceLocked()
	s.mu.Unlock()

	err := s.store.ClearSession()
	if err != nil {
		s.log.WithError(err).Error("clear persisted wallet session failed")
	}

	s.log.WithField("address", addr).Info("wallet disconnected")
	s.emit(domain.SessionEvent{Connected: false})
	if err != nil {
		return fmt.Errorf("clear wallet session: %w", err)
	}
	return nil
}

// remoteLogout handles the wallet ending the session. It is a no-op when p
// is no longer the active provider.
func (s *Service) remoteLogout(p domain.Provider) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	active := s.provider == p
	s.mu.Unlock()
	if !active {
		return
	}
	_ = s.disconnectLocked(s.ctx)
}

// Restore reconnects the persisted session, if there is a complete one.
func (s *Service) Restore(ctx context.Context) error {
	saved, ok, err := s.store.LoadSession()
	if err != nil {
		s.log.WithError(err).Warn("read persisted wallet session failed")
		return fmt.Errorf("read wallet session: %w", err)
	}
	if !ok {
		return nil
	}
	if err := s.Connect(ctx, saved.WalletProvider); err != nil {
		return err
	}
	if got := s.Snapshot().Address; got != saved.WalletAddress {
		s.log.WithFields(logrus.Fields{"saved": saved.WalletAddress, "address": got}).
			Info("restored wallet reports a different address")
	}
	return nil
}

// SignTransaction signs through the active provider.
func (s *Service) SignTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error) {
	s.mu.Lock()
	p := s.provider
	s.mu.Unlock()
	if p == nil {
		return domain.Transaction{}, ErrNotConnected
	}
	return p.SignTransaction(ctx, tx)
}

// Subscribe registers fn for session events and returns its unsubscribe
// func. fn runs synchronously on the transitioning goroutine and must not
// block.
func (s *Service) Subscribe(fn func(domain.SessionEvent)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

func (s *Service) emit(ev domain.SessionEvent) {
	s.subMu.Lock()
	fns := make([]func(domain.SessionEvent), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// release logs out of a provider that will not become (or stay) active.
func (s *Service) release(ctx context.Context, p domain.Provider) {
	if err := p.Logout(ctx); err != nil {
		s.log.WithField("provider", p.Kind()).WithError(err).Debug("release wallet provider")
	}
}

// Close stops background work and releases provider connections. The
// persisted session is kept so it can be restored next run.
func (s *Service) Close() error {
	s.stop()
	s.wg.Wait()

	s.mu.Lock()
	p := s.provider
	s.mu.Unlock()
	if c, ok := p.(closer); ok {
		return c.Close()
	}
	return nil
}

var _ domain.WalletSessionService = (*Service)(nil)
