package loan

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"socialfi/internal/domain"
)

// Messages shown for a rejected loan form.
const (
	MsgConnectWallet  = "Please connect your wallet first"
	MsgNotEligible    = "Your score is not high enough to get a loan"
	MsgInvalidAmount  = "Please enter a valid amount"
	MsgExceedsMax     = "Amount exceeds your maximum loan amount of %s EGLD"
	MsgInvalidTerm    = "Please choose a loan duration of 7, 14, 30, 60 or 90 days"
	MsgTokenRequired  = "Please choose a token"
	MsgLoanIDRequired = "Please choose a loan"
)

// ValidationError reports the first form check that failed. It is never
// sent to the backend.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}

// Validate checks form against the connected wallet and its score. Checks run
// in order and the first failure is returned.
func (s *Service) Validate(form domain.LoanForm) error {
	if s.session.Snapshot().Address.IsZero() {
		return invalid("wallet", MsgConnectWallet)
	}
	sc := s.scores.Score()
	if sc == nil || !sc.EligibleForLoan {
		return invalid("score", MsgNotEligible)
	}
	amount, ok := parseAmount(form.Amount)
	if !ok {
		return invalid("amount", MsgInvalidAmount)
	}
	maxAmount, err := decimal.NewFromString(strings.TrimSpace(sc.MaxLoanAmount))
	if err != nil {
		s.log.WithField("max_loan_amount", sc.MaxLoanAmount).Warn("unparseable max loan amount")
		return invalid("score", MsgNotEligible)
	}
	if amount.GreaterThan(maxAmount) {
		return invalid("amount", fmt.Sprintf(MsgExceedsMax, maxAmount.String()))
	}
	if !domain.ValidLoanDuration(form.DurationDays) {
		return invalid("duration", MsgInvalidTerm)
	}
	if strings.TrimSpace(form.TokenID) == "" {
		return invalid("token", MsgTokenRequired)
	}
	return nil
}

// parseAmount accepts a positive decimal string.
func parseAmount(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
