// Package score tracks the community score and social-link status of the
// connected address.
//
// It follows the wallet session through OnSessionEvent. Every fetch carries a
// generation number and only the newest fetch for the current address may
// write state, so a slow response for a previous address is dropped.
package score

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
	"socialfi/internal/services/session"
)

// LoadError is the user-facing message when the score cannot be fetched.
const LoadError = "Failed to load your reputation score. Please try again."

// State is a snapshot of the container.
type State struct {
	Address domain.Address
	Score   *domain.UserScore
	Loading bool
	Error   string
	Twitter domain.TwitterStatus
}

// fetchSlot tracks the newest fetch of one kind.
type fetchSlot struct {
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// next cancels the previous fetch and opens a new one whose context ends
// with parent or stop, whichever comes first. Callers hold s.mu.
func (f *fetchSlot) next(parent, stop context.Context) (context.Context, uint64, chan struct{}) {
	f.reset()
	ctx, cancel := context.WithCancel(parent)
	unhook := context.AfterFunc(stop, cancel)
	f.cancel = func() {
		unhook()
		cancel()
	}
	f.done = make(chan struct{})
	return ctx, f.gen, f.done
}

// reset cancels the in-flight fetch and invalidates its generation.
func (f *fetchSlot) reset() {
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.gen++
}

// Service is the user score container.
type Service struct {
	api domain.UserAPI
	log *logrus.Entry

	mu      sync.Mutex
	address domain.Address
	score   *domain.UserScore
	loading bool
	errMsg  string
	twitter domain.TwitterStatus

	scoreSlot   fetchSlot
	twitterSlot fetchSlot

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// New returns an empty score container.
func New(api domain.UserAPI, log *logrus.Entry) *Service {
	ctx, stop := context.WithCancel(context.Background())
	return &Service{
		api:  api,
		log:  logging.Component(log, "score"),
		ctx:  ctx,
		stop: stop,
	}
}

// OnSessionEvent follows the wallet session. A new address clears the old
// score and starts fresh score and link-check fetches; a disconnect clears
// everything.
func (s *Service) OnSessionEvent(ev domain.SessionEvent) {
	s.mu.Lock()
	if !ev.Connected || ev.Address.IsZero() {
		s.scoreSlot.reset()
		s.twitterSlot.reset()
		s.address = ""
		s.clearLocked()
		s.mu.Unlock()
		return
	}
	if ev.Address == s.address {
		s.mu.Unlock()
		return
	}
	s.address = ev.Address
	s.clearLocked()
	s.mu.Unlock()

	s.startScore(s.ctx)
	s.startTwitter(s.ctx)
}

func (s *Service) clearLocked() {
	s.score = nil
	s.loading = false
	s.errMsg = ""
	s.twitter = domain.TwitterUnknown
}

// Refresh refetches the score for the current address and waits for it. On
// failure the previous score is kept and State().Error is set.
func (s *Service) Refresh(ctx context.Context) error {
	res, err := s.startScore(ctx)
	if err != nil {
		return err
	}
	return wait(ctx, res)
}

// CheckTwitter refetches the link status and waits for it.
func (s *Service) CheckTwitter(ctx context.Context) (domain.TwitterStatus, error) {
	res, err := s.startTwitter(ctx)
	if err != nil {
		return domain.TwitterUnknown, err
	}
	if err := wait(ctx, res); err != nil {
		return domain.TwitterUnknown, err
	}
	return s.State().Twitter, nil
}

func wait(ctx context.Context, res <-chan error) error {
	select {
	case err := <-res:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) startScore(parent context.Context) (<-chan error, error) {
	s.mu.Lock()
	addr := s.address
	if addr.IsZero() {
		s.mu.Unlock()
		return nil, session.ErrNotConnected
	}
	ctx, gen, done := s.scoreSlot.next(parent, s.ctx)
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()

	res := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		res <- s.loadScore(ctx, addr, gen)
	}()
	return res, nil
}

func (s *Service) loadScore(ctx context.Context, addr domain.Address, gen uint64) error {
	sc, err := s.api.GetUserScore(ctx, addr)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scoreSlot.gen != gen || s.address != addr {
		return context.Canceled
	}
	s.loading = false
	if err != nil {
		s.errMsg = LoadError
		s.log.WithFields(logrus.Fields{"address": addr}).WithError(err).Error("score fetch failed")
		return fmt.Errorf("load score: %w", err)
	}
	s.score = &sc
	s.errMsg = ""
	return nil
}

func (s *Service) startTwitter(parent context.Context) (<-chan error, error) {
	s.mu.Lock()
	addr := s.address
	if addr.IsZero() {
		s.mu.Unlock()
		return nil, session.ErrNotConnected
	}
	ctx, gen, done := s.twitterSlot.next(parent, s.ctx)
	s.mu.Unlock()

	res := make(chan error, 1)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		res <- s.loadTwitter(ctx, addr, gen)
	}()
	return res, nil
}

func (s *Service) loadTwitter(ctx context.Context, addr domain.Address, gen uint64) error {
	linked, err := s.api.HasLinkedTwitter(ctx, addr)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.twitterSlot.gen != gen || s.address != addr {
		return context.Canceled
	}
	if err != nil {
		s.twitter = domain.TwitterUnknown
		s.log.WithFields(logrus.Fields{"address": addr}).WithError(err).Warn("twitter link check failed")
		return fmt.Errorf("check twitter link: %w", err)
	}
	if linked {
		s.twitter = domain.TwitterLinked
	} else {
		s.twitter = domain.TwitterNotLinked
	}
	return nil
}

// ConnectTwitter links handle to the current address and marks it linked.
func (s *Service) ConnectTwitter(ctx context.Context, handle, oauthToken string) (domain.StatusMessage, error) {
	handle = strings.TrimPrefix(strings.TrimSpace(handle), "@")
	if handle == "" {
		return domain.StatusMessage{}, errors.New("twitter handle is required")
	}
	addr := s.State().Address
	if addr.IsZero() {
		return domain.StatusMessage{}, session.ErrNotConnected
	}

	msg, err := s.api.ConnectTwitter(ctx, addr, domain.TwitterConnection{TwitterHandle: handle, OAuthToken: oauthToken})
	if err != nil {
		s.log.WithFields(logrus.Fields{"address": addr, "handle": handle}).WithError(err).Error("twitter link failed")
		return domain.StatusMessage{}, err
	}

	s.mu.Lock()
	if s.address == addr {
		s.twitterSlot.reset()
		s.twitter = domain.TwitterLinked
	}
	s.mu.Unlock()
	return msg, nil
}

// TwitterStats fetches activity stats for the current address.
func (s *Service) TwitterStats(ctx context.Context) (domain.TwitterStats, error) {
	addr := s.State().Address
	if addr.IsZero() {
		return domain.TwitterStats{}, session.ErrNotConnected
	}
	return s.api.GetTwitterStats(ctx, addr)
}

// Profile fetches the user record for the current address.
func (s *Service) Profile(ctx context.Context) (domain.UserProfile, error) {
	addr := s.State().Address
	if addr.IsZero() {
		return domain.UserProfile{}, session.ErrNotConnected
	}
	return s.api.GetUser(ctx, addr)
}

// State returns a snapshot.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := State{
		Address: s.address,
		Loading: s.loading,
		Error:   s.errMsg,
		Twitter: s.twitter,
	}
	if s.score != nil {
		sc := *s.score
		st.Score = &sc
	}
	return st
}

// Score returns a copy of the current score, or nil.
func (s *Service) Score() *domain.UserScore {
	return s.State().Score
}

// Await waits for the in-flight score and link-check fetches.
func (s *Service) Await(ctx context.Context) error {
	s.mu.Lock()
	chans := []chan struct{}{s.scoreSlot.done, s.twitterSlot.done}
	s.mu.Unlock()

	for _, done := range chans {
		if done == nil {
			continue
		}
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close cancels background fetches and waits for them.
func (s *Service) Close() {
	s.stop()
	s.wg.Wait()
}

var _ domain.ScoreReader = (*Service)(nil)
