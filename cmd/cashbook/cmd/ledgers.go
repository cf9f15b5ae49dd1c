package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var ledgersCmd = &cobra.Command{
	Use:   "ledgers",
	Short: "List, create, rename and delete ledgers",
}

var ledgersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ledgers with their totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tCREATED\tENTRIES\tNET")
		for _, l := range s.store.Ledgers() {
			sum, err := s.store.Summary(l.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n", l.ID, l.Name, l.CreatedAt.Format(time.DateOnly),
				len(l.Entries), sum.Totals.Display(s.cfg.Display.Currency).Net)
		}
		return tw.Flush()
	},
}

var ledgersCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a ledger",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		l, err := s.store.CreateLedger(s.ctx, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created ledger %s (%s)\n", l.Name, l.ID)
		return nil
	},
}

var renameCreatedAt string

var ledgersRenameCmd = &cobra.Command{
	Use:   "rename <ledger-id> <new-name>",
	Short: "Rename a ledger",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		var createdAt *time.Time
		if renameCreatedAt != "" {
			t, err := time.Parse(time.DateOnly, renameCreatedAt)
			if err != nil {
				return fmt.Errorf("invalid --created-at: %w", err)
			}
			createdAt = &t
		}

		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.RenameLedger(s.ctx, args[0], args[1], createdAt); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed ledger %s to %s\n", args[0], args[1])
		return nil
	},
}

var ledgersDeleteCmd = &cobra.Command{
	Use:   "delete <ledger-id>",
	Short: "Delete a ledger and all of its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		err = s.store.DeleteLedger(s.ctx, args[0])
		printNotices(os.Stderr, s.store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted ledger %s\n", args[0])
		return nil
	},
}

func init() {
	ledgersRenameCmd.Flags().StringVar(&renameCreatedAt, "created-at", "", "new creation date (YYYY-MM-DD)")

	ledgersCmd.AddCommand(ledgersListCmd, ledgersCreateCmd, ledgersRenameCmd, ledgersDeleteCmd)
}
