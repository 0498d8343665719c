package session

import (
	"context"

	"github.com/sirupsen/logrus"

	"socialfi/internal/domain"
)

// RefreshBalance re-reads the balance of the connected address and waits for
// the result. Fetch failures are logged, not returned.
func (s *Service) RefreshBalance(ctx context.Context) error {
	s.mu.Lock()
	gen, addr := s.gen, s.state.Address
	s.mu.Unlock()
	if addr.IsZero() {
		return ErrNotConnected
	}
	s.startBalance(gen, addr)
	return s.AwaitBalance(ctx)
}

// AwaitBalance waits for the in-flight balance refresh, if any.
func (s *Service) AwaitBalance(ctx context.Context) error {
	s.mu.Lock()
	done := s.balanceDone
	s.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// startBalance fetches the balance for addr in the background. The result is
// written only if the session generation is still gen and no newer fetch has
// started.
func (s *Service) startBalance(gen uint64, addr domain.Address) {
	ctx, cancel := context.WithCancel(s.ctx)
	done := make(chan struct{})

	s.mu.Lock()
	if s.gen != gen {
		s.mu.Unlock()
		cancel()
		return
	}
	s.cancelBalanceLocked()
	s.balanceSeq++
	seq := s.balanceSeq
	s.cancelBalance, s.balanceDone = cancel, done
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer close(done)
		defer cancel()

		acct, err := s.network.GetAccount(ctx, addr)
		if err != nil {
			if ctx.Err() == nil {
				s.log.WithFields(logrus.Fields{"address": addr}).WithError(err).Warn("balance fetch failed")
			}
			return
		}

		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || s.balanceSeq != seq || s.state.Address != addr {
			return
		}
		s.state.Balance = acct.Balance
	}()
}

// cancelBalanceLocked cancels the in-flight fetch. Callers hold s.mu.
func (s *Service) cancelBalanceLocked() {
	if s.cancelBalance != nil {
		s.cancelBalance()
		s.cancelBalance = nil
	}
}
