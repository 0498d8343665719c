package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"socialfi/internal/display"
	"socialfi/internal/domain"
)

func loansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loans",
		Short: "List, preview, request and repay loans",
	}
	cmd.AddCommand(loansListCmd(), loansShowCmd(), loansQuoteCmd(), loansRequestCmd(), loansRepayCmd())
	return cmd
}

// bindForm registers the loan form flags on cmd.
func bindForm(cmd *cobra.Command, form *domain.LoanForm) {
	*form = domain.NewLoanForm()
	f := cmd.Flags()
	f.StringVar(&form.Amount, "amount", "", "amount to borrow, in EGLD")
	f.IntVar(&form.DurationDays, "days", form.DurationDays, "loan duration in days (7, 14, 30, 60 or 90)")
	f.StringVar(&form.TokenID, "token", form.TokenID, "token identifier")
}

func loansListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show active loans and loan history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWallet(); err != nil {
				return err
			}
			// A fetch failure is shown through Lists().Error.
			_ = wire.Loans.RefreshLoans(cmd.Context())
			display.Loans(cmd.OutOrStdout(), wire.Loans.Lists())
			return nil
		},
	}
}

func loansShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <loan-id>",
		Short: "Show one loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ln, err := wire.Loans.Loan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			display.Loan(cmd.OutOrStdout(), ln)
			return nil
		},
	}
}

func loansQuoteCmd() *cobra.Command {
	var form domain.LoanForm
	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Preview interest and repayment for an amount",
		RunE: func(cmd *cobra.Command, args []string) error {
			calc, err := wire.Loans.Quote(cmd.Context(), form)
			if err != nil {
				return err
			}
			display.Quote(cmd.OutOrStdout(), form, calc)
			return nil
		},
	}
	bindForm(cmd, &form)
	return cmd
}

func loansRequestCmd() *cobra.Command {
	var (
		form domain.LoanForm
		sign bool
	)
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Apply for a loan",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			// Eligibility comes from the score fetched after restore.
			if err := wire.Scores.Await(ctx); err != nil {
				return err
			}
			form.Amount = strings.TrimSpace(form.Amount)
			resp, err := wire.Loans.Submit(ctx, form)
			if err != nil {
				return err
			}
			return showTx(ctx, cmd, resp, sign)
		},
	}
	bindForm(cmd, &form)
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the returned transaction with the connected wallet")
	return cmd
}

func loansRepayCmd() *cobra.Command {
	var (
		token string
		sign  bool
	)
	cmd := &cobra.Command{
		Use:   "repay <loan-id>",
		Short: "Repay an active loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := wire.Loans.Repay(cmd.Context(), args[0], token)
			if err != nil {
				return err
			}
			return showTx(cmd.Context(), cmd, resp, sign)
		},
	}
	cmd.Flags().StringVar(&token, "token", domain.DefaultTokenID, "token to repay with")
	cmd.Flags().BoolVar(&sign, "sign", false, "sign the returned transaction with the connected wallet")
	return cmd
}

// showTx prints a backend acknowledgement, signing its transaction first
// when asked.
func showTx(ctx context.Context, cmd *cobra.Command, resp domain.TxResponse, sign bool) error {
	if !sign {
		display.TxResult(cmd.OutOrStdout(), resp, nil)
		return nil
	}
	signed, err := wire.Loans.Sign(ctx, resp)
	if err != nil {
		display.TxResult(cmd.OutOrStdout(), resp, nil)
		return err
	}
	display.TxResult(cmd.OutOrStdout(), resp, &signed)
	return nil
}

func requireWallet() error {
	if !wire.Wallet.Snapshot().Connected {
		return errNotConnected
	}
	return nil
}
