package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	domain "loanbook/internal/domain/loan"
	"loanbook/internal/usecase/loan"
)

func (a *app) addCmd() *cobra.Command {
	var name, amount, date, note, onDuplicate string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record money lent to someone",
		Long: "Record money lent to someone. When the borrower already has a loan you are\n" +
			"asked whether to add to it or open a separate one, unless --on-duplicate says so.",
		Args: cobra.NoArgs,
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "borrower name")
	f.StringVar(&amount, "amount", "", "amount lent, e.g. 1.000.000")
	f.StringVar(&date, "date", "", "date lent as dd-mm-yyyy (default today)")
	f.StringVar(&note, "note", "", "free-form note")
	f.StringVar(&onDuplicate, "on-duplicate", "ask", "when the name exists: ask, merge, new or abort")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	cmd.RunE = a.run(func(ctx context.Context, _ []string) error {
		n, err := domain.ParseAmount(amount)
		if err != nil {
			return err
		}
		res, ok := loan.ParseResolution(onDuplicate)
		if !ok {
			return fmt.Errorf("invalid --on-duplicate %q (ask|merge|new|abort)", onDuplicate)
		}
		if date == "" {
			date = domain.DisplayDate(a.loans().Today())
		}
		in := loan.RecordLoanInput{Name: name, Amount: n, Date: date, Note: note, OnDuplicate: res}

		out, err := a.loans().RecordLoan(ctx, in)
		var dup *domain.DuplicateNameError
		if errors.As(err, &dup) {
			q := fmt.Sprintf("%s already has loan #%d with %s outstanding.",
				dup.Existing.Name, dup.Existing.ID, a.money(dup.Existing.Remaining()))
			if in.OnDuplicate, err = a.prompt.resolution(q); err != nil {
				return err
			}
			out, err = a.loans().RecordLoan(ctx, in)
		}
		if err != nil {
			return err
		}

		switch out.Outcome {
		case loan.OutcomeMerged:
			fmt.Fprintf(a.out, "Added %s to loan #%d for %s. Total lent is now %s.\n",
				a.money(n), out.Loan.ID, out.Loan.Name, a.money(out.Loan.Amount))
		case loan.OutcomeAborted:
			fmt.Fprintln(a.out, "Cancelled.")
		default:
			fmt.Fprintf(a.out, "Recorded loan #%d: %s to %s.\n", out.Loan.ID, a.money(n), out.Loan.Name)
		}
		return nil
	})
	return cmd
}

func (a *app) payCmd() *cobra.Command {
	var full bool
	cmd := &cobra.Command{
		Use:   "pay <id> [amount]",
		Short: "Record a repayment",
		Args:  cobra.RangeArgs(1, 2),
	}
	cmd.Flags().BoolVar(&full, "full", false, "pay off the remaining balance")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		l, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		var delta int64
		switch {
		case full && len(args) == 2:
			return errors.New("give an amount or --full, not both")
		case full:
			if l.Paid {
				return fmt.Errorf("%w: %d", domain.ErrAlreadyPaid, l.ID)
			}
			delta = l.Remaining()
		case len(args) == 2:
			if delta, err = domain.ParseAmount(args[1]); err != nil {
				return err
			}
		default:
			return errors.New("missing amount (or use --full)")
		}

		l, err = a.loans().RecordPayment(ctx, l.ID, delta)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Recorded %s from %s. Paid %s, remaining %s.\n",
			a.money(delta), l.Name, a.money(l.PaidAmount), a.money(l.Remaining()))
		if l.Paid {
			fmt.Fprintf(a.out, "Loan #%d is fully repaid.\n", l.ID)
		}
		return nil
	})
	return cmd
}

func (a *app) resetCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "reset <id>",
		Short: "Mark a repaid loan as unpaid again",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		l, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		if !l.Paid {
			return fmt.Errorf("%w: %d", domain.ErrNotPaid, l.ID)
		}
		if !yes {
			q := fmt.Sprintf("Reset loan #%d for %s to unpaid? The %s repaid will be cleared.",
				l.ID, l.Name, a.money(l.PaidAmount))
			if ok, err := a.prompt.confirm(q); err != nil || !ok {
				return a.cancelled(err)
			}
		}
		if _, err := a.loans().ResetPayment(ctx, l.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Loan #%d is unpaid again.\n", l.ID)
		return nil
	})
	return cmd
}

func (a *app) editCmd() *cobra.Command {
	var name, amount, date, note string
	var yes bool
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Correct a loan's name, amount, date or note",
		Long: "Correct a loan's name, amount, date or note. Flags that are not given keep\n" +
			"their current value, including a stored date in an older format.\n" +
			"Lending and payment history are not changed.",
		Args: cobra.ExactArgs(1),
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "borrower name")
	f.StringVar(&amount, "amount", "", "total amount lent")
	f.StringVar(&date, "date", "", "date as dd-mm-yyyy")
	f.StringVar(&note, "note", "", "free-form note")
	f.BoolVarP(&yes, "yes", "y", false, "keep a name that belongs to another loan without asking")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		if !f.Changed("name") && !f.Changed("amount") && !f.Changed("date") && !f.Changed("note") {
			return errors.New("nothing to change (use --name, --amount, --date or --note)")
		}
		l, err := a.lookup(args[0])
		if err != nil {
			return err
		}
		in := loan.EditLoanInput{
			ID:               l.ID,
			Name:             l.Name,
			Amount:           l.Amount,
			Note:             l.Note,
			ConfirmNameClash: yes,
		}
		if f.Changed("name") {
			in.Name = name
		}
		if f.Changed("amount") {
			if in.Amount, err = domain.ParseAmount(amount); err != nil {
				return err
			}
		}
		if f.Changed("date") {
			in.Date = date
		}
		if f.Changed("note") {
			in.Note = note
		}

		l, err = a.loans().EditLoan(ctx, in)
		var dup *domain.DuplicateNameError
		if errors.As(err, &dup) {
			q := fmt.Sprintf("Loan #%d is already recorded for %s. Save anyway?", dup.Existing.ID, dup.Existing.Name)
			if ok, err := a.prompt.confirm(q); err != nil || !ok {
				return a.cancelled(err)
			}
			in.ConfirmNameClash = true
			l, err = a.loans().EditLoan(ctx, in)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Updated loan #%d.\n", l.ID)
		return nil
	})
	return cmd
}

func (a *app) deleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a loan",
		Args:    cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		l, err := a.lookup(args[0])
		if errors.Is(err, domain.ErrNotFound) {
			fmt.Fprintf(a.out, "No loan #%s, nothing deleted.\n", args[0])
			return nil
		}
		if err != nil {
			return err
		}
		if !yes {
			q := fmt.Sprintf("Delete loan #%d for %s (%s)? This cannot be undone.", l.ID, l.Name, a.money(l.Amount))
			if ok, err := a.prompt.confirm(q); err != nil || !ok {
				return a.cancelled(err)
			}
		}
		if _, err := a.loans().DeleteLoan(ctx, l.ID); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Deleted loan #%d.\n", l.ID)
		return nil
	})
	return cmd
}

// cancelled reports a declined prompt. A read error is passed through.
func (a *app) cancelled(err error) error {
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Cancelled.")
	return nil
}
