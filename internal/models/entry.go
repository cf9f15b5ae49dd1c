package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType is the direction of a cash movement.
type EntryType string

const (
	EntryIn  EntryType = "in"
	EntryOut EntryType = "out"
)

// ParseEntryType accepts the stored spellings of an entry type.
func ParseEntryType(s string) (EntryType, error) {
	switch EntryType(s) {
	case EntryIn, EntryOut:
		return EntryType(s), nil
	default:
		return "", fmt.Errorf("unknown entry type: %q", s)
	}
}

// Entry is a single dated cash movement
type Entry struct {
	ID          string          `json:"id"`
	LedgerID    string          `json:"ledgerId"`
	Type        EntryType       `json:"type"`
	DateTime    time.Time       `json:"dateTime"`
	Details     string          `json:"details"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Mode        string          `json:"mode"`
	Attachments []Attachment    `json:"attachments"`
}

// SignedAmount is +Amount for cash in and -Amount for cash out.
func (e Entry) SignedAmount() decimal.Decimal {
	if e.Type == EntryOut {
		return e.Amount.Neg()
	}
	return e.Amount
}

// Clone returns a copy whose attachment slice and payloads are not shared.
func (e Entry) Clone() Entry {
	out := e
	if e.Attachments != nil {
		out.Attachments = make([]Attachment, len(e.Attachments))
		for i, a := range e.Attachments {
			out.Attachments[i] = a.Clone()
		}
	}
	return out
}

// PendingAttachments returns the attachments still waiting for upload.
func (e Entry) PendingAttachments() []Attachment {
	var pending []Attachment
	for _, a := range e.Attachments {
		if a.IsPending() {
			pending = append(pending, a)
		}
	}
	return pending
}
