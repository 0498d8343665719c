package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"socialfi/internal/api"
	"socialfi/internal/display"
	"socialfi/internal/domain"
)

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your user record and social stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWallet(); err != nil {
				return err
			}
			ctx := cmd.Context()
			p, err := wire.Scores.Profile(ctx)
			if err != nil {
				return err
			}
			var stats *domain.TwitterStats
			st, err := wire.Scores.TwitterStats(ctx)
			switch {
			case err == nil:
				stats = &st
			case api.IsNotFound(err):
			default:
				return err
			}
			display.Profile(cmd.OutOrStdout(), p, stats)
			return nil
		},
	}
	cmd.AddCommand(linkTwitterCmd())
	return cmd
}

func linkTwitterCmd() *cobra.Command {
	var token string
	cmd := &cobra.Command{
		Use:   "link-twitter <handle>",
		Short: "Link a Twitter account to the connected wallet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireWallet(); err != nil {
				return err
			}
			msg, err := wire.Scores.ConnectTwitter(cmd.Context(), args[0], token)
			if err != nil {
				return err
			}
			out := msg.Message
			if out == "" {
				out = msg.Status
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&token, "oauth-token", "", "OAuth token from the Twitter authorization flow")
	return cmd
}
