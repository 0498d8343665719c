package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"socialfi/internal/display"
	"socialfi/internal/domain"
	sessionsvc "socialfi/internal/services/session"
)

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Manage the wallet connection",
	}
	cmd.AddCommand(walletNewCmd(), walletConnectCmd(), walletDisconnectCmd(), walletStatusCmd(), walletSignCmd())
	return cmd
}

func walletNewCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:         "new",
		Short:       "Generate a signing key and store it encrypted",
		Annotations: map[string]string{skipRestore: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			if wire.Config.Passphrase == "" {
				return errors.New("passphrase required (-p)")
			}
			info, err := wire.Identity.GenerateKey(wire.Config.Passphrase, force)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Key created.\nAddress:     %s\nFingerprint: %s\n", info.Address, info.Fingerprint)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing key")
	return cmd
}

func walletConnectCmd() *cobra.Command {
	var provider string
	cmd := &cobra.Command{
		Use:         "connect",
		Short:       "Connect a wallet and remember the session",
		Annotations: map[string]string{skipRestore: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := domain.ParseProviderKind(provider)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := wire.Wallet.Connect(ctx, kind); err != nil {
				return err
			}
			_ = wire.Wallet.AwaitBalance(ctx)
			display.Header(cmd.OutOrStdout(), wire.Wallet.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringVar(&provider, "provider", string(domain.ProviderExtension),
		"wallet provider: extension or walletconnect")
	return cmd
}

func walletDisconnectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "disconnect",
		Short: "Log out of the wallet and forget the session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Wallet.Disconnect(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Wallet disconnected.")
			return nil
		},
	}
}

func walletStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the connected address, balance and provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = wire.Wallet.AwaitBalance(cmd.Context())
			display.Header(cmd.OutOrStdout(), wire.Wallet.Snapshot())
			return nil
		},
	}
}

// sign [file]: sign a JSON transaction from file, or stdin when omitted or "-".
func walletSignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sign [file]",
		Short: "Sign a JSON transaction with the connected wallet",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var tx domain.Transaction
			if err := json.Unmarshal(raw, &tx); err != nil {
				return fmt.Errorf("decode transaction: %w", err)
			}
			signed, err := wire.Wallet.SignTransaction(cmd.Context(), tx)
			if errors.Is(err, sessionsvc.ErrNotConnected) {
				return fmt.Errorf("%w: run `socialfi wallet connect` first", err)
			}
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(signed)
		},
	}
}

func readInput(cmd *cobra.Command, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(args[0])
}
