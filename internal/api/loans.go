package api

import (
	"context"
	"net/url"

	"socialfi/internal/domain"
)

// GetLoans lists loans, optionally filtered by borrower and status. Empty
// filters are omitted from the query.
func (c *Client) GetLoans(
	ctx context.Context,
	address domain.Address,
	status domain.LoanStatus,
) ([]domain.Loan, error) {
	q := url.Values{}
	if address != "" {
		q.Set("address", address.String())
	}
	if status != "" {
		q.Set("status", string(status))
	}
	var out []domain.Loan
	if err := c.getJSON(ctx, "/api/loans", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetLoan fetches a single loan by id.
func (c *Client) GetLoan(ctx context.Context, loanID string) (domain.Loan, error) {
	var out domain.Loan
	if err := c.getJSON(ctx, "/api/loans/"+url.PathEscape(loanID), nil, &out); err != nil {
		return domain.Loan{}, err
	}
	return out, nil
}

// RequestLoan submits a loan request. The backend answers with the
// transaction the wallet must sign.
func (c *Client) RequestLoan(ctx context.Context, req domain.LoanRequest) (domain.TxResponse, error) {
	var out domain.TxResponse
	if err := c.post(ctx, "/api/loans/request", req, &out); err != nil {
		return domain.TxResponse{}, err
	}
	return out, nil
}

// RepayLoan prepares the repayment of a loan.
func (c *Client) RepayLoan(ctx context.Context, req domain.RepayRequest) (domain.TxResponse, error) {
	var out domain.TxResponse
	if err := c.post(ctx, "/api/loans/repay", req, &out); err != nil {
		return domain.TxResponse{}, err
	}
	return out, nil
}

// CalculateInterest asks the backend to price amount for address.
func (c *Client) CalculateInterest(
	ctx context.Context,
	amount string,
	address domain.Address,
) (domain.InterestQuote, error) {
	q := url.Values{}
	q.Set("amount", amount)
	q.Set("address", address.String())
	var out domain.InterestQuote
	if err := c.getJSON(ctx, "/api/loans/calculate-interest", q, &out); err != nil {
		return domain.InterestQuote{}, err
	}
	return out, nil
}
