package cli

import (
	"context"

	"github.com/spf13/cobra"

	domain "loanbook/internal/domain/loan"
)

func (a *app) listCmd() *cobra.Command {
	var unpaid bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all loans",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().BoolVar(&unpaid, "unpaid", false, "only loans that are not fully repaid")
	cmd.RunE = a.run(func(context.Context, []string) error {
		loans := a.loans().List()
		if unpaid {
			kept := loans[:0]
			for _, l := range loans {
				if !l.Paid {
					kept = append(kept, l)
				}
			}
			loans = kept
		}
		return a.renderLoans(loans)
	})
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals across all loans",
		Args:  cobra.NoArgs,
	}
	cmd.RunE = a.run(func(context.Context, []string) error {
		return a.renderStats(a.loans().Stats())
	})
	return cmd
}

func (a *app) showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one loan with its lending and payment history",
		Args:  cobra.ExactArgs(1),
	}
	cmd.RunE = a.run(func(_ context.Context, args []string) error {
		l, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		return a.renderLoan(l)
	})
	return cmd
}

func (a *app) lookup(arg string) (domain.Loan, error) {
	loanID, err := parseID(arg)
	if err != nil {
		return domain.Loan{}, err
	}
	return a.loans().Get(loanID)
}
