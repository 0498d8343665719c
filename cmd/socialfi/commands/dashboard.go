package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"socialfi/internal/display"
)

func dashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show score, loan eligibility and loans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			sess := wire.Wallet.Snapshot()
			if sess.Connected {
				_ = wire.Wallet.AwaitBalance(ctx)
				sess = wire.Wallet.Snapshot()
			}
			display.Header(out, sess)
			if !sess.Connected {
				return nil
			}

			if err := wire.Scores.Await(ctx); err != nil {
				return err
			}
			fmt.Fprintln(out)
			display.Score(out, wire.Scores.State())

			// Load errors are carried in Lists().Error and rendered below.
			_ = wire.Loans.RefreshLoans(ctx)
			fmt.Fprintln(out)
			display.Loans(out, wire.Loans.Lists())
			return nil
		},
	}
}
