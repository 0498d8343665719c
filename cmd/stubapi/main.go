package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"socialfi/internal/domain"
	"socialfi/internal/logging"
	"socialfi/internal/stubapi"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr      string
		chainID   string
		logLevel  string
		logFormat string
		seed      bool
		borrowers []string
	)

	cmd := &cobra.Command{
		Use:          "stubapi",
		Short:        "In-memory credit backend, account API and wallet relay",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(logLevel, logFormat, nil)
			log := logrus.NewEntry(logger)

			srv, err := stubapi.New(stubapi.WithLogger(log), stubapi.WithChainID(chainID))
			if err != nil {
				return err
			}
			if seed {
				seedDemo(srv, borrowers)
			}
			log.WithField("wallet", srv.WalletAddress()).Info("stub wallet ready")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, addr, srv, log)
		},
	}

	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8000", "listen address")
	f.StringVar(&chainID, "chain-id", "D", "chain ID stamped on prepared transactions")
	f.StringVar(&logLevel, "log-level", "info", "log level")
	f.StringVar(&logFormat, "log-format", "text", "log format (text or json)")
	f.BoolVar(&seed, "seed", true, "load demo pools and scores")
	f.StringSliceVar(&borrowers, "borrower", nil, "extra address to seed as loan-eligible (repeatable)")
	return cmd
}

func serve(ctx context.Context, addr string, srv *stubapi.Server, log *logrus.Entry) error {
	hs := &http.Server{
		Addr:              addr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.WithField("addr", addr).Info("stub backend listening")
		errc <- hs.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen %s: %w", addr, err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	srv.Close()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return hs.Shutdown(shutdownCtx)
}

// seedDemo loads two pools and makes the stub wallet and every extra
// borrower eligible for loans.
func seedDemo(srv *stubapi.Server, borrowers []string) {
	srv.AddPool(domain.Pool{ID: "egld-core", TokenID: "EGLD", TotalLiquidity: "1250.5", Borrowed: "310", APY: 6.2})
	srv.AddPool(domain.Pool{ID: "usdc-stable", TokenID: "USDC-c76f1f", TotalLiquidity: "98000", Borrowed: "41250", APY: 4.1})

	eligible := domain.UserScore{Current: 720, Max: 1000, EligibleForLoan: true, MaxLoanAmount: "5.0"}
	addrs := append([]domain.Address{srv.WalletAddress()}, toAddresses(borrowers)...)
	for _, a := range addrs {
		srv.SetScore(a, eligible)
		srv.SetBalance(a, "12500000000000000000")
	}
}

func toAddresses(in []string) []domain.Address {
	out := make([]domain.Address, 0, len(in))
	for _, s := range in {
		out = append(out, domain.Address(s))
	}
	return out
}
