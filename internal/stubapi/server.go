package stubapi

import (
	"crypto/sha256"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"socialfi/internal/crypto"
	"socialfi/internal/domain"
	"socialfi/internal/logging"
	"socialfi/internal/wallet"
)

// InterestRate is the flat percentage the stub charges on every loan.
const InterestRate = 5.0

// Server is the in-memory backend. The zero value is not usable; call New.
type Server struct {
	store   *memoryStore
	log     *logrus.Entry
	metrics *Metrics
	router  *mux.Router

	chainID  string
	contract domain.Address
	key      domain.Ed25519Private
	address  domain.Address
	upgrader websocket.Upgrader

	connsMu sync.Mutex
	conns   map[*walletConn]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(log *logrus.Entry) Option {
	return func(s *Server) { s.log = log }
}

// WithChainID sets the chain ID stamped on prepared transactions.
func WithChainID(id string) Option {
	return func(s *Server) { s.chainID = id }
}

// WithWalletKey sets the key the stub wallet signs with.
func WithWalletKey(priv domain.Ed25519Private) Option {
	return func(s *Server) { s.key = priv }
}

// New builds a server with an empty store. Without WithWalletKey a fresh
// wallet key is generated.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		store:   newMemoryStore(),
		metrics: newMetrics(),
		chainID: "D",
		conns:   make(map[*walletConn]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = logging.Component(s.log, "stubapi")

	if s.key == (domain.Ed25519Private{}) {
		priv, _, err := crypto.GenerateEd25519()
		if err != nil {
			return nil, err
		}
		s.key = priv
	}
	addr, err := wallet.EncodeAddress(s.key.Public())
	if err != nil {
		return nil, err
	}
	s.address = addr

	contract, err := wallet.EncodeAddress(sha256.Sum256([]byte("socialfi/loan-controller")))
	if err != nil {
		return nil, err
	}
	s.contract = contract

	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler, metrics included.
func (s *Server) Handler() http.Handler { return s.router }

// Metrics exposes the request collectors.
func (s *Server) Metrics() *Metrics { return s.metrics }

// WalletAddress is the address the stub wallet approves sessions with.
func (s *Server) WalletAddress() domain.Address { return s.address }

// ContractAddress is the receiver of prepared transactions.
func (s *Server) ContractAddress() domain.Address { return s.contract }

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests, s.metrics.middleware)

	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWallet)
	r.HandleFunc("/accounts/{address}", s.handleAccount).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/users/{address}", s.handleGetUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{address}/score", s.handleGetScore).Methods(http.MethodGet)
	api.HandleFunc("/users/{address}/connect-twitter", s.handleConnectTwitter).Methods(http.MethodPost)
	api.HandleFunc("/users/{address}/twitter-stats", s.handleTwitterStats).Methods(http.MethodGet)

	// Fixed paths first so {id} does not swallow them.
	api.HandleFunc("/loans", s.handleListLoans).Methods(http.MethodGet)
	api.HandleFunc("/loans/calculate-interest", s.handleCalculateInterest).Methods(http.MethodGet)
	api.HandleFunc("/loans/request", s.handleRequestLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/repay", s.handleRepayLoan).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", s.handleGetLoan).Methods(http.MethodGet)

	api.HandleFunc("/pools", s.handleListPools).Methods(http.MethodGet)
	api.HandleFunc("/pools/provide", s.handleProvide).Methods(http.MethodPost)
	api.HandleFunc("/pools/withdraw", s.handleWithdraw).Methods(http.MethodPost)
	api.HandleFunc("/pools/{id}", s.handleGetPool).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusNotFound, "Not Found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeDetail(w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})
	return r
}

// logRequests logs each request with the caller's request ID, minting one
// when absent.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)

		next.ServeHTTP(w, r)

		s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
			"elapsed":    time.Since(start),
		}).Debug("request served")
	})
}

// Seeding

// SetUser stores a profile.
func (s *Server) SetUser(u domain.UserProfile) {
	s.store.mu.Lock()
	s.store.users[u.Address] = u
	s.store.mu.Unlock()
}

// SetScore stores the score returned for addr.
func (s *Server) SetScore(addr domain.Address, score domain.UserScore) {
	s.store.mu.Lock()
	s.store.scores[addr] = score
	s.store.mu.Unlock()
}

// SetTwitterStats stores the activity stats returned for addr.
func (s *Server) SetTwitterStats(addr domain.Address, stats domain.TwitterStats) {
	s.store.mu.Lock()
	s.store.stats[addr] = stats
	s.store.mu.Unlock()
}

// SetBalance stores the raw smallest-unit balance served for addr.
func (s *Server) SetBalance(addr domain.Address, balance string) {
	s.store.mu.Lock()
	s.store.balances[addr] = balance
	s.store.mu.Unlock()
}

// AddLoan stores l, assigning an ID, creation time and Active status when
// missing, and returns the stored record.
func (s *Server) AddLoan(l domain.Loan) domain.Loan { return s.store.putLoan(l) }

// AddPool stores p.
func (s *Server) AddPool(p domain.Pool) {
	s.store.mu.Lock()
	s.store.pools[p.ID] = p
	s.store.mu.Unlock()
}

// LoanRequests returns every accepted loan request body, oldest first.
func (s *Server) LoanRequests() []domain.LoanRequest { return s.store.loanRequests() }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDetail writes a FastAPI-style {"detail": msg} error body.
func writeDetail(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}
