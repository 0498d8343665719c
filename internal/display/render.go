package display

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"socialfi/internal/domain"
	"socialfi/internal/services/loan"
	"socialfi/internal/services/score"
)

const dateLayout = "2006-01-02"

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

// Header prints the wallet line shown above every view.
func Header(w io.Writer, s domain.WalletSession) {
	if !s.Connected {
		fmt.Fprintln(w, "Wallet: not connected (run `socialfi wallet connect`)")
		return
	}
	fmt.Fprintf(w, "Wallet: %s  Balance: %s EGLD  Provider: %s\n",
		ShortAddress(s.Address), FormatBalance(s.Balance), s.Provider)
}

// Score prints the score panel.
func Score(w io.Writer, st score.State) {
	switch {
	case st.Address.IsZero():
		fmt.Fprintln(w, "Connect your wallet to see your community score.")
		return
	case st.Score == nil && st.Error != "":
		fmt.Fprintf(w, "%s (run the command again to retry)\n", st.Error)
		return
	case st.Score == nil:
		fmt.Fprintln(w, "Loading your reputation score...")
		return
	}

	sc := *st.Score
	fmt.Fprintf(w, "Community score: %d / %d (%.0f%%, %s)\n", sc.Current, sc.Max, sc.Percentage(), ScoreCategory(sc))
	if sc.EligibleForLoan {
		fmt.Fprintf(w, "Eligible for a loan of up to %s EGLD\n", sc.MaxLoanAmount)
	} else {
		fmt.Fprintln(w, "Not yet eligible for a loan")
	}
	fmt.Fprintf(w, "Twitter: %s\n", st.Twitter)
	if st.Error != "" {
		fmt.Fprintf(w, "%s (showing last known score)\n", st.Error)
	}
}

// Loans prints the active and history tables.
func Loans(w io.Writer, l loan.Lists) {
	if l.Error != "" {
		fmt.Fprintln(w, l.Error)
	}
	loanTable(w, "Active loans", l.Active)
	fmt.Fprintln(w)
	loanTable(w, "Loan history", l.History)
}

func loanTable(w io.Writer, title string, loans []domain.Loan) {
	fmt.Fprintln(w, title)
	if len(loans) == 0 {
		fmt.Fprintln(w, "  none")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "  ID\tAMOUNT\tREPAY\tRATE\tDUE\tSTATUS")
	for _, ln := range loans {
		fmt.Fprintf(tw, "  %s\t%s\t%s\t%.2f%%\t%s\t%s\n",
			ln.ID, ln.Amount, ln.RepaymentAmount, ln.InterestRate, ln.DueDate, ln.Status)
	}
	_ = tw.Flush()
}

// Loan prints one loan.
func Loan(w io.Writer, ln domain.Loan) {
	tw := table(w)
	fmt.Fprintf(tw, "ID\t%s\n", ln.ID)
	fmt.Fprintf(tw, "Borrower\t%s\n", ln.Borrower)
	fmt.Fprintf(tw, "Amount\t%s\n", ln.Amount)
	fmt.Fprintf(tw, "Repayment\t%s\n", ln.RepaymentAmount)
	fmt.Fprintf(tw, "Interest\t%.2f%%\n", ln.InterestRate)
	fmt.Fprintf(tw, "Created\t%s\n", ln.CreatedAt)
	fmt.Fprintf(tw, "Due\t%s\n", ln.DueDate)
	fmt.Fprintf(tw, "Status\t%s\n", ln.Status)
	if ln.NFTID != nil {
		fmt.Fprintf(tw, "NFT\t%s\n", *ln.NFTID)
	}
	_ = tw.Flush()
}

// Quote prints an interest preview.
func Quote(w io.Writer, form domain.LoanForm, calc *domain.LoanCalculation) {
	if calc == nil {
		fmt.Fprintln(w, "Enter an amount to see the interest preview.")
		return
	}
	tw := table(w)
	fmt.Fprintf(tw, "Amount\t%s %s\n", form.Amount, form.TokenID)
	fmt.Fprintf(tw, "Duration\t%d days\n", form.DurationDays)
	fmt.Fprintf(tw, "Interest rate\t%.2f%%\n", calc.InterestRate)
	if calc.TotalInterest != "" {
		fmt.Fprintf(tw, "Total interest\t%s %s\n", calc.TotalInterest, form.TokenID)
	}
	fmt.Fprintf(tw, "Repayment\t%s %s\n", calc.RepaymentAmount, form.TokenID)
	fmt.Fprintf(tw, "Due date\t%s\n", calc.DueDate.Format(dateLayout))
	_ = tw.Flush()
}

// Pools prints the pool table.
func Pools(w io.Writer, pools []domain.Pool) {
	if len(pools) == 0 {
		fmt.Fprintln(w, "No liquidity pools.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTOKEN\tLIQUIDITY\tBORROWED\tAPY")
	for _, p := range pools {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%.2f%%\n", p.ID, p.TokenID, p.TotalLiquidity, p.Borrowed, p.APY)
	}
	_ = tw.Flush()
}

// Profile prints the user record and, when available, social stats.
func Profile(w io.Writer, p domain.UserProfile, stats *domain.TwitterStats) {
	tw := table(w)
	fmt.Fprintf(tw, "Address\t%s\n", p.Address)
	handle := "not linked"
	if p.TwitterHandle != nil && *p.TwitterHandle != "" {
		handle = "@" + strings.TrimPrefix(*p.TwitterHandle, "@")
	}
	fmt.Fprintf(tw, "Twitter\t%s\n", handle)
	fmt.Fprintf(tw, "Score\t%d\n", p.Score)
	fmt.Fprintf(tw, "Loans taken\t%d\n", p.LoansTaken)
	fmt.Fprintf(tw, "Loans repaid\t%d\n", p.LoansRepaid)
	if p.RegisteredAt != "" {
		fmt.Fprintf(tw, "Registered\t%s\n", p.RegisteredAt)
	}
	if stats != nil {
		fmt.Fprintf(tw, "Positive mentions\t%d\n", stats.PositiveMentions)
		fmt.Fprintf(tw, "Technical answers\t%d\n", stats.TechnicalAnswers)
		fmt.Fprintf(tw, "Resources shared\t%d\n", stats.ResourcesShared)
		fmt.Fprintf(tw, "Likes received\t%d\n", stats.TotalLikesReceived)
		fmt.Fprintf(tw, "Retweets\t%d\n", stats.TotalRetweets)
		if stats.LastUpdated != "" {
			fmt.Fprintf(tw, "Stats updated\t%s\n", stats.LastUpdated)
		}
	}
	_ = tw.Flush()
}

// TxResult prints a backend acknowledgement and, if signed, the signature.
func TxResult(w io.Writer, resp domain.TxResponse, signed *domain.Transaction) {
	msg := resp.Message
	if msg == "" {
		msg = resp.Status
	}
	fmt.Fprintln(w, msg)
	if signed != nil {
		fmt.Fprintf(w, "Signed transaction nonce %d to %s\nSignature: %s\n",
			signed.Nonce, ShortAddress(signed.Receiver), signed.Signature)
	}
}
