// Package cli is the interactive front end of the loan book: cobra commands
// that drive one session and render its loans as text.
package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	domain "loanbook/internal/domain/loan"
	"loanbook/internal/usecase/loan"
)

// Deps is what every command works against. Pending and Close are optional.
type Deps struct {
	Loans   *loan.Usecase
	Amounts *domain.AmountFormatter
	Pending func() bool
	Close   func() error
}

// Opener builds and opens a session. It runs once per command invocation.
type Opener func(ctx context.Context) (*Deps, error)

type app struct {
	open   Opener
	deps   *Deps
	prompt *prompter
	out    io.Writer
}

func NewRootCommand(open Opener, in io.Reader, out io.Writer) *cobra.Command {
	a := &app{open: open, prompt: newPrompter(in, out), out: out}

	root := &cobra.Command{
		Use:           "loans",
		Short:         "Keep track of money lent to friends and family",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		a.listCmd(),
		a.statsCmd(),
		a.showCmd(),
		a.addCmd(),
		a.payCmd(),
		a.resetCmd(),
		a.editCmd(),
		a.deleteCmd(),
		a.exportCmd(),
		a.importCmd(),
	)
	return root
}

// run opens the session around fn and reports writes that only reached the
// local mirror.
func (a *app) run(fn func(ctx context.Context, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		d, err := a.open(ctx)
		if err != nil {
			return err
		}
		a.deps = d
		defer func() {
			if d.Close != nil {
				if cerr := d.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}
		}()

		err = fn(ctx, args)
		if d.Pending != nil && d.Pending() {
			fmt.Fprintln(a.out, "warning: changes are saved on this device only until the gateway accepts them")
		}
		return err
	}
}

func (a *app) loans() *loan.Usecase { return a.deps.Loans }

func (a *app) money(n int64) string { return a.deps.Amounts.WithCurrency(n) }

func parseID(s string) (domain.ID, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid loan id %q", s)
	}
	return domain.ID(n), nil
}
