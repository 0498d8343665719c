package stubapi

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"socialfi/internal/domain"
	"socialfi/internal/wallet"
)

const (
	gasPrice = 1_000_000_000
	gasLimit = 10_000_000

	// defaultPageSize matches the backend's default loan page.
	defaultPageSize = 10
)

var (
	interestFactor  = decimal.NewFromFloat(InterestRate).Div(decimal.NewFromInt(100))
	repaymentFactor = decimal.NewFromInt(1).Add(interestFactor)
)

func pathAddress(r *http.Request) domain.Address {
	return domain.Address(mux.Vars(r)["address"])
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "invalid request body: "+err.Error())
		return false
	}
	return true
}

// positiveAmount parses a decimal amount that must be above zero.
func positiveAmount(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil || !d.IsPositive() {
		return decimal.Decimal{}, false
	}
	return d, true
}

// Users

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.user(pathAddress(r)))
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.score(pathAddress(r)))
}

func (s *Server) handleConnectTwitter(w http.ResponseWriter, r *http.Request) {
	var conn domain.TwitterConnection
	if !decodeBody(w, r, &conn) {
		return
	}
	handle := strings.TrimPrefix(strings.TrimSpace(conn.TwitterHandle), "@")
	if handle == "" {
		writeDetail(w, http.StatusBadRequest, "Failed to connect Twitter account")
		return
	}
	s.store.linkTwitter(pathAddress(r), handle)
	writeJSON(w, http.StatusOK, domain.StatusMessage{
		Status:  "success",
		Message: "Twitter account connected successfully",
	})
}

func (s *Server) handleTwitterStats(w http.ResponseWriter, r *http.Request) {
	stats, ok := s.store.twitterStats(pathAddress(r))
	if !ok {
		writeDetail(w, http.StatusNotFound, "Twitter stats not found")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// Network

func (s *Server) handleAccount(w http.ResponseWriter, r *http.Request) {
	addr := pathAddress(r)
	if !wallet.ValidAddress(addr) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "invalid address",
			"code":  "bad_request",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"data": map[string]any{
			"account": domain.Account{Address: addr, Balance: s.store.balance(addr)},
		},
		"code": "successful",
	})
}

// Loans

func (s *Server) handleListLoans(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit := defaultPageSize
	if v, err := strconv.Atoi(q.Get("limit")); err == nil {
		limit = v
	}
	if skip < 0 {
		skip = 0
	}
	loans := s.store.listLoans(
		domain.Address(q.Get("address")),
		domain.LoanStatus(q.Get("status")),
		skip, limit,
	)
	writeJSON(w, http.StatusOK, loans)
}

func (s *Server) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	l, ok := s.store.loan(mux.Vars(r)["id"])
	if !ok {
		writeDetail(w, http.StatusNotFound, "Loan not found")
		return
	}
	writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleCalculateInterest(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("address") == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "address is required")
		return
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(q.Get("amount")))
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, "could not convert amount to a number")
		return
	}
	writeJSON(w, http.StatusOK, domain.InterestQuote{
		InterestRate:    InterestRate,
		RepaymentAmount: amount.Mul(repaymentFactor).String(),
		TotalInterest:   amount.Mul(interestFactor).String(),
	})
}

func (s *Server) handleRequestLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.LoanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	amount, ok := positiveAmount(req.Amount)
	switch {
	case !ok:
		writeDetail(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return
	case req.DurationDays <= 0:
		writeDetail(w, http.StatusUnprocessableEntity, "duration_days must be positive")
		return
	case strings.TrimSpace(req.TokenID) == "":
		writeDetail(w, http.StatusUnprocessableEntity, "token_id is required")
		return
	}
	s.store.recordRequest(req)

	tx := s.prepare("0", "requestLoan",
		amount.Shift(18).StringFixed(0), strconv.Itoa(req.DurationDays), req.TokenID)
	s.writeTx(w, http.StatusCreated,
		"Loan request created. Please sign the transaction in your wallet.", tx)
}

func (s *Server) handleRepayLoan(w http.ResponseWriter, r *http.Request) {
	var req domain.RepayRequest
	if !decodeBody(w, r, &req) {
		return
	}
	l, ok := s.store.loan(req.LoanID)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Loan not found")
		return
	}
	if l.Status != domain.LoanActive {
		writeDetail(w, http.StatusBadRequest, "Loan is not active")
		return
	}
	value := "0"
	if due, err := decimal.NewFromString(l.RepaymentAmount); err == nil && tokenOrDefault(req.TokenID) == domain.DefaultTokenID {
		value = due.Shift(18).StringFixed(0)
	}
	tx := s.prepare(value, "repayLoan", l.ID)
	s.writeTx(w, http.StatusOK,
		"Loan repayment prepared. Please sign the transaction in your wallet.", tx)
}

// Pools

func (s *Server) handleListPools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.listPools())
}

func (s *Server) handleGetPool(w http.ResponseWriter, r *http.Request) {
	p, ok := s.store.pool(mux.Vars(r)["id"])
	if !ok {
		writeDetail(w, http.StatusNotFound, "Pool not found")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProvide(w http.ResponseWriter, r *http.Request) {
	var req domain.ProvideLiquidityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pool, amount, ok := s.poolAmount(w, req.PoolID, req.Amount)
	if !ok {
		return
	}
	value := "0"
	if tokenOrDefault(req.TokenID) == domain.DefaultTokenID {
		value = amount.Shift(18).StringFixed(0)
	}
	tx := s.prepare(value, "provideLiquidity", pool.ID)
	s.writeTx(w, http.StatusOK,
		"Liquidity provision prepared. Please sign the transaction in your wallet.", tx)
}

func (s *Server) handleWithdraw(w http.ResponseWriter, r *http.Request) {
	var req domain.WithdrawLiquidityRequest
	if !decodeBody(w, r, &req) {
		return
	}
	pool, amount, ok := s.poolAmount(w, req.PoolID, req.Amount)
	if !ok {
		return
	}
	tx := s.prepare("0", "withdrawLiquidity", pool.ID, amount.Shift(18).StringFixed(0))
	s.writeTx(w, http.StatusOK,
		"Liquidity withdrawal prepared. Please sign the transaction in your wallet.", tx)
}

func (s *Server) poolAmount(w http.ResponseWriter, id, raw string) (domain.Pool, decimal.Decimal, bool) {
	pool, ok := s.store.pool(id)
	if !ok {
		writeDetail(w, http.StatusNotFound, "Pool not found")
		return domain.Pool{}, decimal.Decimal{}, false
	}
	amount, ok := positiveAmount(raw)
	if !ok {
		writeDetail(w, http.StatusUnprocessableEntity, "amount must be a positive number")
		return domain.Pool{}, decimal.Decimal{}, false
	}
	return pool, amount, true
}

func tokenOrDefault(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return domain.DefaultTokenID
}

// prepare builds an unsigned contract call. Arguments are hex-encoded and
// joined with '@' after the function name.
func (s *Server) prepare(value, function string, args ...string) domain.Transaction {
	data := function
	for _, a := range args {
		data += "@" + hex.EncodeToString([]byte(a))
	}
	return domain.Transaction{
		Value:    value,
		Receiver: s.contract,
		GasPrice: gasPrice,
		GasLimit: gasLimit,
		Data:     []byte(data),
		ChainID:  s.chainID,
		Version:  1,
	}
}

func (s *Server) writeTx(w http.ResponseWriter, status int, msg string, tx domain.Transaction) {
	raw, err := json.Marshal(tx)
	if err != nil {
		writeDetail(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, status, domain.TxResponse{Status: "success", Message: msg, Transaction: raw})
}
