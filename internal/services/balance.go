package services

import (
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/shopspring/decimal"
)

// Totals aggregates the entries of one ledger.
type Totals struct {
	CashIn  decimal.Decimal `json:"cashIn"`
	CashOut decimal.Decimal `json:"cashOut"`
	Net     decimal.Decimal `json:"net"`
}

// LedgerSummary is derived from a ledger's current entry list and never
// stored remotely.
type LedgerSummary struct {
	LedgerID string            `json:"ledgerId"`
	Balances []decimal.Decimal `json:"balances"`
	Totals   Totals            `json:"totals"`
}

// RunningBalances returns, for each position k, the sum of the signed
// amounts of entries[0..k] in list order.
func RunningBalances(entries []models.Entry) []decimal.Decimal {
	balances := make([]decimal.Decimal, len(entries))
	running := decimal.Zero
	for i, e := range entries {
		running = running.Add(e.SignedAmount())
		balances[i] = running
	}
	return balances
}

// ComputeTotals sums cash in, cash out and their difference.
func ComputeTotals(entries []models.Entry) Totals {
	t := Totals{CashIn: decimal.Zero, CashOut: decimal.Zero}
	for _, e := range entries {
		switch e.Type {
		case models.EntryIn:
			t.CashIn = t.CashIn.Add(e.Amount)
		case models.EntryOut:
			t.CashOut = t.CashOut.Add(e.Amount)
		}
	}
	t.Net = t.CashIn.Sub(t.CashOut)
	return t
}

// Summarize computes balances and totals for a ledger.
func Summarize(l models.Ledger) LedgerSummary {
	return LedgerSummary{
		LedgerID: l.ID,
		Balances: RunningBalances(l.Entries),
		Totals:   ComputeTotals(l.Entries),
	}
}
