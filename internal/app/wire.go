package app

import (
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"socialfi/internal/api"
	"socialfi/internal/logging"
	"socialfi/internal/network"
	identitysvc "socialfi/internal/services/identity"
	loansvc "socialfi/internal/services/loan"
	poolsvc "socialfi/internal/services/pool"
	scoresvc "socialfi/internal/services/score"
	sessionsvc "socialfi/internal/services/session"
	"socialfi/internal/store"
	"socialfi/internal/wallet"
)

// Wire bundles all stores, services, and clients for the CLI.
type Wire struct {
	Config Config
	Log    *logrus.Logger

	API      *api.Client
	Network  *network.Reader
	Sessions *store.SessionFileStore
	Keys     *store.KeyFileStore

	Identity *identitysvc.Service
	Wallet   *sessionsvc.Service
	Scores   *scoresvc.Service
	Loans    *loansvc.Service
	Pools    *poolsvc.Service

	unsubscribe func()
}

type wireOptions struct {
	logOutput io.Writer
	http      *http.Client
}

// WireOption adjusts how NewWire builds its dependencies.
type WireOption func(*wireOptions)

// WithLogOutput sends logs to w instead of stderr.
func WithLogOutput(w io.Writer) WireOption {
	return func(o *wireOptions) { o.logOutput = w }
}

// WithHTTPClient sets the http.Client shared by the backend and network
// clients.
func WithHTTPClient(hc *http.Client) WireOption {
	return func(o *wireOptions) { o.http = hc }
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, opts ...WireOption) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	var o wireOptions
	for _, opt := range opts {
		opt(&o)
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("create home %s: %w", cfg.Home, err)
	}

	logger := logging.New(cfg.LogLevel, cfg.LogFormat, o.logOutput)
	log := logrus.NewEntry(logger)

	// Outbound clients
	apiOpts := []api.Option{
		api.WithTimeout(cfg.HTTPTimeout),
		api.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
		api.WithLogger(log),
	}
	netOpts := []network.Option{network.WithTimeout(cfg.HTTPTimeout), network.WithLogger(log)}
	if o.http != nil {
		apiOpts = append(apiOpts, api.WithHTTPClient(o.http))
		netOpts = append(netOpts, network.WithHTTPClient(o.http))
	}
	backend := api.New(cfg.APIURL, apiOpts...)
	reader := network.NewReader(cfg.NetworkURL, netOpts...)

	// File-based stores
	sessionStore := store.NewSessionFileStore(cfg.Home)
	keyStore := store.NewKeyFileStore(cfg.Home)

	providers := &wallet.Factory{
		Keys:       keyStore,
		Passphrase: cfg.Passphrase,
		Remote: wallet.RemoteConfig{
			RelayURL: cfg.RelayURL,
			Project:  cfg.ProjectName,
			ChainID:  cfg.ChainID,
		},
		Log: log,
	}

	// High-level services
	walletSvc := sessionsvc.New(providers, sessionStore, reader, log)
	scoreSvc := scoresvc.New(backend, log)
	loanSvc := loansvc.New(backend, walletSvc, scoreSvc, walletSvc,
		loansvc.WithRefreshDelay(cfg.LoanRefreshDelay),
		loansvc.WithLogger(log),
	)
	poolSvc := poolsvc.New(backend, walletSvc, log)
	unsubScores := walletSvc.Subscribe(scoreSvc.OnSessionEvent)
	unsubLoans := walletSvc.Subscribe(loanSvc.OnSessionEvent)

	return &Wire{
		Config:      cfg,
		Log:         logger,
		API:         backend,
		Network:     reader,
		Sessions:    sessionStore,
		Keys:        keyStore,
		Identity:    identitysvc.New(keyStore),
		Wallet:      walletSvc,
		Scores:      scoreSvc,
		Loans:       loanSvc,
		Pools:       poolSvc,
		unsubscribe: func() {
			unsubLoans()
			unsubScores()
		},
	}, nil
}

// Close stops background work in every service.
func (w *Wire) Close() error {
	w.unsubscribe()
	w.Loans.Close()
	w.Scores.Close()
	return w.Wallet.Close()
}
