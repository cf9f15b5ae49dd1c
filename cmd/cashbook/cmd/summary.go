package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary <ledger-id>",
	Short: "Show cash in, cash out and net balance of a ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		l, ok := s.store.Ledger(args[0])
		if !ok {
			return fmt.Errorf("ledger %s not found", args[0])
		}
		sum, err := s.store.Summary(l.ID)
		if err != nil {
			return err
		}
		d := sum.Totals.Display(s.cfg.Display.Currency)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "\n=== %s ===\n", l.Name)
		fmt.Fprintf(out, "Entries:   %d\n", len(l.Entries))
		fmt.Fprintf(out, "Cash in:   %s\n", d.CashIn)
		fmt.Fprintf(out, "Cash out:  %s\n", d.CashOut)
		fmt.Fprintf(out, "Net:       %s\n\n", d.Net)
		return nil
	},
}
