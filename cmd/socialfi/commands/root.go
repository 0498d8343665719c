package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"socialfi/internal/app"
)

// skipRestore marks commands that must not reconnect the saved session.
const skipRestore = "skip-restore"

var (
	home       string
	apiURL     string
	networkURL string
	relayURL   string
	envFile    string
	logLevel   string
	passphrase string

	wire *app.Wire
)

// Execute runs the CLI with os.Args.
func Execute() error {
	return run(context.Background(), newRootCmd(os.Stdout, os.Stderr))
}

// run executes root and then closes the wire, whether or not the command
// succeeded.
func run(ctx context.Context, root *cobra.Command) error {
	err := root.ExecuteContext(ctx)
	if wire != nil {
		if cerr := wire.Close(); err == nil {
			err = cerr
		}
		wire = nil
	}
	return err
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	home, apiURL, networkURL, relayURL, envFile, logLevel, passphrase = "", "", "", "", "", "", ""
	wire = nil

	root := &cobra.Command{
		Use:          "socialfi",
		Short:        "Reputation-based credit on MultiversX",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			w, err := buildWire(cmd)
			if err != nil {
				return err
			}
			wire = w
			if _, skip := cmd.Annotations[skipRestore]; !skip {
				if err := wire.Wallet.Restore(cmd.Context()); err != nil {
					wire.Log.WithError(err).Debug("saved wallet session not restored")
				}
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default ~/.socialfi)")
	pf.StringVar(&apiURL, "api", "", "backend base URL")
	pf.StringVar(&networkURL, "network", "", "network account API base URL")
	pf.StringVar(&relayURL, "relay", "", "remote wallet relay URL (ws://...)")
	pf.StringVar(&envFile, "env-file", "", "load settings from this .env file")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase protecting the local key")

	root.AddCommand(walletCmd(), dashboardCmd(), loansCmd(), poolsCmd(), profileCmd())
	return root
}

func buildWire(cmd *cobra.Command) (*app.Wire, error) {
	// The home dir decides which config.yaml is read, so it has to be in
	// the environment before loading.
	if home != "" {
		if err := os.Setenv("SOCIALFI_HOME", home); err != nil {
			return nil, err
		}
	}
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := app.LoadConfig(files...)
	if err != nil {
		return nil, err
	}

	if apiURL != "" {
		cfg.APIURL = apiURL
	}
	if networkURL != "" {
		cfg.NetworkURL = networkURL
	}
	if relayURL != "" {
		cfg.RelayURL = relayURL
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if passphrase != "" {
		cfg.Passphrase = passphrase
	}
	return app.NewWire(cfg, app.WithLogOutput(cmd.ErrOrStderr()))
}
