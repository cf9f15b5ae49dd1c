// Package cmd provides the cashbook CLI commands.
package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ruralpay/cashbook/internal/app"
	"github.com/ruralpay/cashbook/internal/auth"
	"github.com/ruralpay/cashbook/internal/config"
	"github.com/ruralpay/cashbook/internal/services"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	accountID string
	verbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "cashbook",
	Short: "Manage cashbook ledgers from the terminal",
	Long: `cashbook reads and changes the ledgers of one account in the same
database and blob store the API server uses.

Example:
  cashbook ledgers list --account acct-1
  cashbook entries add <ledger-id> --type out --amount 12.50 --category Food
  cashbook summary <ledger-id>`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if !verbose {
			log.SetOutput(io.Discard)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "env file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&accountID, "account", os.Getenv("CASHBOOK_ACCOUNT"), "account id (default $CASHBOOK_ACCOUNT)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show log output")

	rootCmd.AddCommand(ledgersCmd)
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(summaryCmd)
}

// session is a loaded store plus what is needed to tear it down.
type session struct {
	cfg    *config.Config
	app    *app.App
	store  *services.LedgerStore
	ctx    context.Context
	cancel context.CancelFunc
}

func (s *session) Close() {
	s.cancel()
	s.app.Close()
}

// openSession loads configuration and the account's ledgers.
func openSession() (*session, error) {
	if accountID == "" {
		return nil, fmt.Errorf("%w: pass --account or set CASHBOOK_ACCOUNT", auth.ErrNoAccount)
	}

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Sync.LoadTimeout)
	s := &session{cfg: cfg, app: a, ctx: ctx, cancel: cancel}
	s.store = a.NewStore(auth.NewSession(accountID))
	if err := s.store.LoadAll(ctx); err != nil {
		s.Close()
		return nil, fmt.Errorf("failed to load ledgers: %w", err)
	}
	return s, nil
}

// printNotices reports anything the store could not fully save.
func printNotices(w io.Writer, store *services.LedgerStore) {
	for _, n := range store.DrainNotices() {
		fmt.Fprintf(w, "%s: %s\n", n.Level, n.Message)
	}
}
