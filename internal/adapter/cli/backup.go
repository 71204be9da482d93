package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (a *app) exportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write all loans to a JSON backup file",
		Args:  cobra.NoArgs,
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", `output file (default loans_backup_<date>.json, "-" for stdout)`)

	cmd.RunE = a.run(func(context.Context, []string) error {
		if out == "-" {
			return a.loans().Export(a.out)
		}
		if out == "" {
			out = a.loans().ExportFileName()
		}
		f, err := os.Create(out)
		if err != nil {
			return err
		}
		if err := a.loans().Export(f); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Exported %d loans to %s.\n", len(a.loans().List()), out)
		return nil
	})
	return cmd
}

func (a *app) importCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace all loans with the contents of a JSON backup",
		Args:  cobra.ExactArgs(1),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")

	cmd.RunE = a.run(func(ctx context.Context, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		loans, err := a.loans().PrepareImport(data)
		if err != nil {
			return err
		}
		if !yes {
			q := fmt.Sprintf("Replace the %d current loans with %d loans from %s?",
				len(a.loans().List()), len(loans), args[0])
			if ok, err := a.prompt.confirm(q); err != nil || !ok {
				return a.cancelled(err)
			}
		}
		if err := a.loans().Import(ctx, loans); err != nil {
			return err
		}
		fmt.Fprintf(a.out, "Imported %d loans.\n", len(loans))
		return nil
	})
	return cmd
}
