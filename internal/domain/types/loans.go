package types

import (
	"encoding/json"
	"time"
)

// LoanStatus is the lifecycle state reported by the backend.
type LoanStatus string

const (
	LoanActive    LoanStatus = "Active"
	LoanRepaid    LoanStatus = "Repaid"
	LoanDefaulted LoanStatus = "Defaulted"
)

// Loan is a loan record as listed by the backend.
type Loan struct {
	ID              string     `json:"id"`
	Borrower        Address    `json:"borrower"`
	Amount          string     `json:"amount"`
	RepaymentAmount string     `json:"repayment_amount"`
	InterestRate    float64    `json:"interest_rate"`
	CreatedAt       string     `json:"created_at"`
	DueDate         string     `json:"due_date"`
	Status          LoanStatus `json:"status"`
	NFTID           *string    `json:"nft_id,omitempty"`
}

// LoanRequest is the body of POST /api/loans/request.
type LoanRequest struct {
	Amount       string `json:"amount"`
	DurationDays int    `json:"duration_days"`
	TokenID      string `json:"token_id"`
}

// RepayRequest is the body of POST /api/loans/repay.
type RepayRequest struct {
	LoanID  string `json:"loan_id"`
	TokenID string `json:"token_id"`
}

// TxResponse acknowledges a request and carries the transaction to sign.
type TxResponse struct {
	Status      string          `json:"status"`
	Message     string          `json:"message"`
	Transaction json.RawMessage `json:"transaction,omitempty"`
}

// InterestQuote is the backend's interest preview.
type InterestQuote struct {
	InterestRate    float64 `json:"interestRate"`
	RepaymentAmount string  `json:"repaymentAmount"`
	TotalInterest   string  `json:"totalInterest,omitempty"`
}

// LoanCalculation is an InterestQuote plus the client-side due date.
type LoanCalculation struct {
	InterestRate    float64
	RepaymentAmount string
	TotalInterest   string
	DueDate         time.Time
}

// LoanDurations lists the loan durations offered, in days.
var LoanDurations = []int{7, 14, 30, 60, 90}

// ValidLoanDuration reports whether days is one of LoanDurations.
func ValidLoanDuration(days int) bool {
	for _, d := range LoanDurations {
		if d == days {
			return true
		}
	}
	return false
}

const (
	DefaultLoanDuration = 30
	DefaultTokenID      = "EGLD"
)

// LoanForm is the user's in-progress loan application.
type LoanForm struct {
	Amount       string
	DurationDays int
	TokenID      string
}

// NewLoanForm returns an empty form with the default duration and token.
func NewLoanForm() LoanForm {
	return LoanForm{DurationDays: DefaultLoanDuration, TokenID: DefaultTokenID}
}

// Request converts the form into the wire payload, amount verbatim.
func (f LoanForm) Request() LoanRequest {
	return LoanRequest{Amount: f.Amount, DurationDays: f.DurationDays, TokenID: f.TokenID}
}
