package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	domain "loanbook/internal/domain/loan"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func status(l domain.Loan) string {
	switch {
	case l.Paid:
		return "paid"
	case l.PaidAmount > 0:
		return "partial"
	default:
		return "unpaid"
	}
}

func (a *app) renderLoans(loans []domain.Loan) error {
	tw := newTable(a.out)
	fmt.Fprintln(tw, "ID\tNAME\tAMOUNT\tPAID\tREMAINING\tDATE\tSTATUS\tNOTE")
	for _, l := range loans {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			l.ID, l.Name,
			a.money(l.Amount), a.money(l.PaidAmount), a.money(l.Remaining()),
			domain.DisplayDate(l.Date), status(l), l.Note)
	}
	return tw.Flush()
}

func (a *app) renderStats(s domain.Stats) error {
	tw := newTable(a.out)
	fmt.Fprintf(tw, "Loans:\t%d\n", s.TotalLoans)
	fmt.Fprintf(tw, "Unpaid loans:\t%d\n", s.UnpaidCount)
	fmt.Fprintf(tw, "Total lent:\t%s\n", a.money(s.TotalAmount))
	fmt.Fprintf(tw, "Repaid:\t%s\n", a.money(s.TotalPaidAmount))
	fmt.Fprintf(tw, "Outstanding:\t%s\n", a.money(s.TotalUnpaidAmount))
	return tw.Flush()
}

func (a *app) renderLoan(l domain.Loan) error {
	tw := newTable(a.out)
	fmt.Fprintf(tw, "Loan:\t#%d\n", l.ID)
	fmt.Fprintf(tw, "Borrower:\t%s\n", l.Name)
	fmt.Fprintf(tw, "Amount:\t%s\n", a.money(l.Amount))
	fmt.Fprintf(tw, "Paid:\t%s (%d%%)\n", a.money(l.PaidAmount), l.PaidPercent())
	fmt.Fprintf(tw, "Remaining:\t%s\n", a.money(l.Remaining()))
	fmt.Fprintf(tw, "Last lent:\t%s\n", domain.DisplayDate(l.Date))
	if l.PaidDate != nil {
		fmt.Fprintf(tw, "Settled:\t%s\n", domain.DisplayDate(*l.PaidDate))
	}
	fmt.Fprintf(tw, "Status:\t%s\n", status(l))
	fmt.Fprintf(tw, "Note:\t%s\n", l.Note)
	if err := tw.Flush(); err != nil {
		return err
	}

	if err := a.renderEvents("Lending history", l.History); err != nil {
		return err
	}
	return a.renderEvents("Payment history", l.PaymentHistory)
}

func (a *app) renderEvents(title string, events []domain.Event) error {
	fmt.Fprintf(a.out, "\n%s:\n", title)
	if len(events) == 0 {
		fmt.Fprintln(a.out, "  (none)")
		return nil
	}
	tw := newTable(a.out)
	for _, e := range events {
		fmt.Fprintf(tw, "  %s\t%s\t%s\n", domain.DisplayDate(e.Date), a.money(e.Amount), e.Note)
	}
	return tw.Flush()
}
