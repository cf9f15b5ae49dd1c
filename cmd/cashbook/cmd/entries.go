package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/ruralpay/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var entriesCmd = &cobra.Command{
	Use:   "entries",
	Short: "List, add, edit and delete ledger entries",
}

var entriesListCmd = &cobra.Command{
	Use:   "list <ledger-id>",
	Short: "List the entries of a ledger with running balances",
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

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tDATE\tTYPE\tAMOUNT\tBALANCE\tCATEGORY\tMODE\tFILES\tDETAILS")
		for i, e := range l.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%d\t%s\n",
				e.ID, e.DateTime.Format("2006-01-02 15:04"), e.Type, e.Amount.StringFixed(2),
				sum.Balances[i].StringFixed(2), e.Category, e.Mode, len(e.Attachments), e.Details)
		}
		return tw.Flush()
	},
}

var entryFlags struct {
	typ      string
	amount   string
	date     string
	details  string
	category string
	mode     string
	attach   []string
}

func entryFromFlags() (models.Entry, error) {
	amount, err := decimal.NewFromString(entryFlags.amount)
	if err != nil {
		return models.Entry{}, fmt.Errorf("invalid --amount: %w", err)
	}
	at := time.Now()
	if entryFlags.date != "" {
		if at, err = time.ParseInLocation("2006-01-02 15:04", entryFlags.date, time.Local); err != nil {
			if at, err = time.ParseInLocation(time.DateOnly, entryFlags.date, time.Local); err != nil {
				return models.Entry{}, fmt.Errorf("invalid --date: %w", err)
			}
		}
	}

	e := models.Entry{
		Type:     models.EntryType(entryFlags.typ),
		DateTime: at,
		Details:  entryFlags.details,
		Amount:   amount,
		Category: entryFlags.category,
		Mode:     entryFlags.mode,
	}
	for _, p := range entryFlags.attach {
		data, err := os.ReadFile(p)
		if err != nil {
			return models.Entry{}, fmt.Errorf("failed to read attachment: %w", err)
		}
		e.Attachments = append(e.Attachments, models.Attachment{FileName: filepath.Base(p), LocalData: data})
	}
	return e, nil
}

var entriesAddCmd = &cobra.Command{
	Use:   "add <ledger-id>",
	Short: "Add an entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := entryFromFlags()
		if err != nil {
			return err
		}
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		created, err := s.store.AddEntry(s.ctx, args[0], e)
		printNotices(os.Stderr, s.store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added entry %s\n", created.ID)
		return nil
	},
}

var entriesEditCmd = &cobra.Command{
	Use:   "edit <ledger-id> <entry-id>",
	Short: "Replace the fields of an entry; pending attachments are retried",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := entryFromFlags()
		if err != nil {
			return err
		}
		e.ID = args[1]
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if _, err := s.store.UpdateEntry(s.ctx, args[0], e); err != nil {
			return err
		}
		printNotices(os.Stderr, s.store)
		fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %s\n", e.ID)
		return nil
	},
}

var entriesDeleteCmd = &cobra.Command{
	Use:   "delete <ledger-id> <entry-id>...",
	Short: "Delete one or more entries",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if len(args) == 2 {
			err = s.store.DeleteEntry(s.ctx, args[0], args[1])
		} else {
			err = s.store.BulkDeleteEntries(s.ctx, args[0], args[1:])
		}
		printNotices(os.Stderr, s.store)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d entries\n", len(args)-1)
		return nil
	},
}

var entriesDetachCmd = &cobra.Command{
	Use:   "detach <ledger-id> <entry-id> <attachment-id>",
	Short: "Remove an attachment from an entry",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession()
		if err != nil {
			return err
		}
		defer s.Close()

		if err := s.store.RemoveAttachment(s.ctx, args[0], args[1], args[2]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed attachment %s\n", args[2])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{entriesAddCmd, entriesEditCmd} {
		c.Flags().StringVar(&entryFlags.typ, "type", "", "in or out")
		c.Flags().StringVar(&entryFlags.amount, "amount", "0", "amount, e.g. 12.50")
		c.Flags().StringVar(&entryFlags.date, "date", "", "\"YYYY-MM-DD HH:MM\" or YYYY-MM-DD (default now)")
		c.Flags().StringVar(&entryFlags.details, "details", "", "free text")
		c.Flags().StringVar(&entryFlags.category, "category", "", "category (default from catalog)")
		c.Flags().StringVar(&entryFlags.mode, "mode", "", "payment mode (default from catalog)")
		c.Flags().StringSliceVar(&entryFlags.attach, "attach", nil, "image file to attach (repeatable)")
		c.MarkFlagRequired("type")
	}

	entriesCmd.AddCommand(entriesListCmd, entriesAddCmd, entriesEditCmd, entriesDeleteCmd, entriesDetachCmd)
}
