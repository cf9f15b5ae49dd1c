package services

import (
	"testing"
	"time"

	"github.com/ruralpay/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRunningBalances(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	entries := []models.Entry{
		{ID: "1", Type: models.EntryIn, Amount: decimal.NewFromInt(100), DateTime: at},
		{ID: "2", Type: models.EntryOut, Amount: decimal.NewFromInt(40), DateTime: at},
		{ID: "3", Type: models.EntryIn, Amount: decimal.NewFromInt(10), DateTime: at},
	}

	tests := []struct {
		name    string
		entries []models.Entry
		want    []string
	}{
		{"empty", nil, []string{}},
		{"in out in", entries, []string{"100", "60", "70"}},
		{"out first", []models.Entry{entries[1], entries[0]}, []string{"-40", "60"}},
		{"fractions", []models.Entry{
			{Type: models.EntryIn, Amount: decimal.RequireFromString("0.10")},
			{Type: models.EntryIn, Amount: decimal.RequireFromString("0.20")},
		}, []string{"0.1", "0.3"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RunningBalances(tt.entries)
			assert.Len(t, got, len(tt.want))
			for i := range tt.want {
				assert.Equal(t, tt.want[i], got[i].String())
			}
			// same input, same output
			assert.Equal(t, got, RunningBalances(tt.entries))
		})
	}

	totals := ComputeTotals(entries)
	assert.Equal(t, "110", totals.CashIn.String())
	assert.Equal(t, "40", totals.CashOut.String())
	assert.Equal(t, "70", totals.Net.String())
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "$1,250.50", FormatAmount(decimal.RequireFromString("1250.5"), "USD"))
	assert.Equal(t, "-$40.00", FormatAmount(decimal.NewFromInt(-40), "USD"))
	assert.Equal(t, "12.00 XYZ", FormatAmount(decimal.NewFromInt(12), "XYZ"))
}

func TestNoticeQueue(t *testing.T) {
	q := newNoticeQueue(2)
	q.push(Notice{Op: "a"})
	q.push(Notice{Op: "b"})
	q.push(Notice{Op: "c"})

	list := q.list()
	assert.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Op)
	assert.False(t, list[0].Time.IsZero())

	assert.Len(t, q.drain(), 2)
	assert.Empty(t, q.list())
}

func TestInflight(t *testing.T) {
	f := newInflight()

	release, err := f.acquire("entry:1", "entry:2")
	assert.NoError(t, err)
	assert.True(t, f.busy("entry:1"))

	_, err = f.acquire("entry:2", "entry:3")
	assert.ErrorIs(t, err, ErrBusy)
	assert.False(t, f.busy("entry:3"), "a refused acquire marks nothing")

	release()
	release()
	assert.False(t, f.busy("entry:1"))
	_, err = f.acquire("entry:2")
	assert.NoError(t, err)
}
