package commands

import (
	"github.com/spf13/cobra"

	"socialfi/internal/display"
	"socialfi/internal/domain"
)

func poolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pools",
		Short: "Browse liquidity pools and move liquidity",
	}
	cmd.AddCommand(poolsListCmd(), poolsShowCmd(), poolsProvideCmd(), poolsWithdrawCmd())
	return cmd
}

func poolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "list",
		Short:       "List liquidity pools",
		Annotations: map[string]string{skipRestore: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			pools, err := wire.Pools.List(cmd.Context())
			if err != nil {
				return err
			}
			display.Pools(cmd.OutOrStdout(), pools)
			return nil
		},
	}
}

func poolsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:         "show <pool-id>",
		Short:       "Show one pool",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{skipRestore: ""},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := wire.Pools.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			display.Pools(cmd.OutOrStdout(), []domain.Pool{p})
			return nil
		},
	}
}

func poolsProvideCmd() *cobra.Command {
	var (
		token string
		sign  bool
	)
	cmd := &cobra.Command{
		Use:   "provide <pool-id> <amount>",
		Short: "Add liquidity to a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.Pools.Provide(cmd.Context(), args[0], args[1], token)
			if err != nil {
				return err
			}
			return showTx(cmd.Context(), cmd, resp, sign)
		},
	}
	cmd.Flags().StringVar(&token, "token", domain.DefaultTokenID, "token to provide")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the returned transaction with the connected wallet")
	return cmd
}

func poolsWithdrawCmd() *cobra.Command {
	var sign bool
	cmd := &cobra.Command{
		Use:   "withdraw <pool-id> <amount>",
		Short: "Remove liquidity from a pool",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.Pools.Withdraw(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return showTx(cmd.Context(), cmd, resp, sign)
		},
	}
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the returned transaction with the connected wallet")
	return cmd
}
