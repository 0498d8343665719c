package loan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
	"socialfi/internal/services/session"
)

// LoadError is the user-facing message when the loan lists cannot be fetched.
const LoadError = "Failed to load your loans. Please try again."

// DefaultRefreshDelay is how long after a submission the lists are reloaded.
const DefaultRefreshDelay = 2 * time.Second

// ErrSubmissionInFlight is returned by Submit while another submit runs.
var ErrSubmissionInFlight = errors.New("a loan request is already being submitted")

// Signer signs a transaction with the connected wallet.
type Signer interface {
	SignTransaction(ctx context.Context, tx domain.Transaction) (domain.Transaction, error)
}

// Lists is a snapshot of the loan lists.
type Lists struct {
	Active  []domain.Loan
	History []domain.Loan
	Loading bool
	Error   string
}

// Option configures a Service.
type Option func(*Service)

// WithRefreshDelay sets the delay between a submission and the list reload.
func WithRefreshDelay(d time.Duration) Option {
	return func(s *Service) { s.refreshDelay = d }
}

// WithLogger sets the logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Service) { s.log = log }
}

// WithClock overrides time.Now for due-date calculation.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// Service is the loan application flow.
type Service struct {
	api          domain.LoanAPI
	session      domain.SessionReader
	scores       domain.ScoreReader
	signer       Signer
	refreshDelay time.Duration
	now          func() time.Time
	log          *logrus.Entry

	submitMu sync.Mutex

	mu          sync.Mutex
	address     domain.Address
	active      []domain.Loan
	history     []domain.Loan
	loading     bool
	errMsg      string
	loadGen     uint64
	timer       *time.Timer
	refreshDone chan struct{}

	ctx  context.Context
	stop context.CancelFunc
	wg   sync.WaitGroup
}

// New returns a loan service reading the wallet from sess and eligibility
// from scores.
func New(
	api domain.LoanAPI,
	sess domain.SessionReader,
	scores domain.ScoreReader,
	signer Signer,
	opts ...Option,
) *Service {
	ctx, stop := context.WithCancel(context.Background())
	s := &Service{
		api:          api,
		session:      sess,
		scores:       scores,
		signer:       signer,
		refreshDelay: DefaultRefreshDelay,
		now:          time.Now,
		ctx:          ctx,
		stop:         stop,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Component(s.log, "loan")
	return s
}

// Quote previews interest for form. It returns nil, without a network call,
// when the amount is not a positive number.
func (s *Service) Quote(ctx context.Context, form domain.LoanForm) (*domain.LoanCalculation, error) {
	if _, ok := parseAmount(form.Amount); !ok {
		return nil, nil
	}
	addr := s.session.Snapshot().Address
	if addr.IsZero() {
		return nil, session.ErrNotConnected
	}

	q, err := s.api.CalculateInterest(ctx, strings.TrimSpace(form.Amount), addr)
	if err != nil {
		s.log.WithFields(logrus.Fields{"address": addr, "amount": form.Amount}).WithError(err).Warn("interest preview failed")
		return nil, err
	}
	return &domain.LoanCalculation{
		InterestRate:    q.InterestRate,
		RepaymentAmount: q.RepaymentAmount,
		TotalInterest:   q.TotalInterest,
		DueDate:         s.now().AddDate(0, 0, form.DurationDays),
	}, nil
}

// Submit validates form and posts it. A scheduled reload of the loan lists
// follows a successful request.
func (s *Service) Submit(ctx context.Context, form domain.LoanForm) (domain.TxResponse, error) {
	form.Amount = strings.TrimSpace(form.Amount)
	form.TokenID = strings.TrimSpace(form.TokenID)
	if err := s.Validate(form); err != nil {
		return domain.TxResponse{}, err
	}
	if !s.submitMu.TryLock() {
		return domain.TxResponse{}, ErrSubmissionInFlight
	}
	defer s.submitMu.Unlock()

	req := form.Request()
	resp, err := s.api.RequestLoan(ctx, req)
	if err != nil {
		s.log.WithFields(logrus.Fields{"amount": req.Amount, "duration_days": req.DurationDays}).
			WithError(err).Error("loan request failed")
		return domain.TxResponse{}, fmt.Errorf("request loan: %w", err)
	}
	s.log.WithFields(logrus.Fields{"amount": req.Amount, "status": resp.Status}).Info("loan requested")
	s.scheduleRefresh()
	return resp, nil
}

// Repay prepares repayment of loanID. tokenID defaults to EGLD.
func (s *Service) Repay(ctx context.Context, loanID, tokenID string) (domain.TxResponse, error) {
	if s.session.Snapshot().Address.IsZero() {
		return domain.TxResponse{}, invalid("wallet", MsgConnectWallet)
	}
	loanID = strings.TrimSpace(loanID)
	if loanID == "" {
		return domain.TxResponse{}, invalid("loan", MsgLoanIDRequired)
	}
	if strings.TrimSpace(tokenID) == "" {
		tokenID = domain.DefaultTokenID
	}

	resp, err := s.api.RepayLoan(ctx, domain.RepayRequest{LoanID: loanID, TokenID: tokenID})
	if err != nil {
		s.log.WithField("loan_id", loanID).WithError(err).Error("loan repayment failed")
		return domain.TxResponse{}, fmt.Errorf("repay loan: %w", err)
	}
	s.scheduleRefresh()
	return resp, nil
}

// Sign decodes the transaction a backend response carries and signs it with
// the connected wallet.
func (s *Service) Sign(ctx context.Context, resp domain.TxResponse) (domain.Transaction, error) {
	raw := strings.TrimSpace(string(resp.Transaction))
	if raw == "" || raw == "null" {
		return domain.Transaction{}, errors.New("backend returned no transaction to sign")
	}
	var tx domain.Transaction
	if err := json.Unmarshal(resp.Transaction, &tx); err != nil {
		return domain.Transaction{}, fmt.Errorf("decode transaction: %w", err)
	}
	return s.signer.SignTransaction(ctx, tx)
}

// Loan fetches a single loan.
func (s *Service) Loan(ctx context.Context, id string) (domain.Loan, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Loan{}, invalid("loan", MsgLoanIDRequired)
	}
	return s.api.GetLoan(ctx, id)
}

// OnSessionEvent follows the wallet session. A disconnect or a new address
// drops the lists and any pending reload of the previous wallet.
func (s *Service) OnSessionEvent(ev domain.SessionEvent) {
	addr := ev.Address
	if !ev.Connected {
		addr = ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if addr == s.address {
		return
	}
	s.address = addr
	s.loadGen++
	s.active = nil
	s.history = nil
	s.loading = false
	s.errMsg = ""
	s.stopTimerLocked()
}

// RefreshLoans reloads active loans and history for the connected address.
// On failure the previous lists are kept and Lists().Error is set.
func (s *Service) RefreshLoans(ctx context.Context) error {
	addr := s.session.Snapshot().Address
	if addr.IsZero() {
		return session.ErrNotConnected
	}

	s.mu.Lock()
	s.loadGen++
	gen := s.loadGen
	s.loading = true
	s.mu.Unlock()

	var active, all []domain.Loan
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		active, err = s.api.GetLoans(gctx, addr, domain.LoanActive)
		return err
	})
	g.Go(func() error {
		var err error
		all, err = s.api.GetLoans(gctx, addr, "")
		return err
	})
	err := g.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadGen != gen {
		return err
	}
	s.loading = false
	if s.session.Snapshot().Address != addr {
		return err
	}
	if err != nil {
		s.errMsg = LoadError
		s.log.WithField("address", addr).WithError(err).Error("loan list fetch failed")
		return fmt.Errorf("load loans: %w", err)
	}
	s.active = active
	s.history = historyOf(all)
	s.errMsg = ""
	return nil
}

// historyOf drops active loans from all.
func historyOf(all []domain.Loan) []domain.Loan {
	out := make([]domain.Loan, 0, len(all))
	for _, l := range all {
		if l.Status != domain.LoanActive {
			out = append(out, l)
		}
	}
	return out
}

// Lists returns a snapshot of the loan lists.
func (s *Service) Lists() Lists {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Lists{
		Active:  append([]domain.Loan(nil), s.active...),
		History: append([]domain.Loan(nil), s.history...),
		Loading: s.loading,
		Error:   s.errMsg,
	}
}

// scheduleRefresh reloads the lists after refreshDelay, replacing any
// pending reload.
func (s *Service) scheduleRefresh() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopTimerLocked()
	done := make(chan struct{})
	s.refreshDone = done
	s.wg.Add(1)
	s.timer = time.AfterFunc(s.refreshDelay, func() {
		defer s.wg.Done()
		defer close(done)
		if s.ctx.Err() != nil {
			return
		}
		if err := s.RefreshLoans(s.ctx); err != nil && !errors.Is(err, session.ErrNotConnected) {
			s.log.WithError(err).Debug("scheduled loan refresh failed")
		}
	})
}

// stopTimerLocked cancels a pending reload that has not fired yet.
func (s *Service) stopTimerLocked() {
	if s.timer != nil && s.timer.Stop() {
		close(s.refreshDone)
		s.wg.Done()
	}
	s.timer = nil
}

// AwaitRefresh waits for the scheduled reload, if any.
func (s *Service) AwaitRefresh(ctx context.Context) error {
	s.mu.Lock()
	done := s.refreshDone
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

// Close cancels any pending reload and waits for running work.
func (s *Service) Close() {
	s.stop()
	s.mu.Lock()
	s.stopTimerLocked()
	s.mu.Unlock()
	s.wg.Wait()
}
