package services

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatAmount renders d in the given ISO currency, e.g. "₹1,250.50".
// Unknown currencies fall back to a plain two-decimal string.
func FormatAmount(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2) + " " + currency
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// DisplayTotals is Totals formatted for people.
type DisplayTotals struct {
	CashIn  string `json:"cashIn"`
	CashOut string `json:"cashOut"`
	Net     string `json:"net"`
}

func (t Totals) Display(currency string) DisplayTotals {
	return DisplayTotals{
		CashIn:  FormatAmount(t.CashIn, currency),
		CashOut: FormatAmount(t.CashOut, currency),
		Net:     FormatAmount(t.Net, currency),
	}
}
