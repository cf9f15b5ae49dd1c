// Package events announces committed ledger changes to other consumers.
package events

import (
	"context"
	"time"
)

// Change kinds.
const (
	LedgerCreated     = "ledger.created"
	LedgerRenamed     = "ledger.renamed"
	LedgerDeleted     = "ledger.deleted"
	EntryAdded        = "entry.added"
	EntryUpdated      = "entry.updated"
	EntryDeleted      = "entry.deleted"
	EntriesDeleted    = "entries.deleted"
	AttachmentRemoved = "attachment.removed"
)

type Change struct {
	Kind       string    `json:"kind"`
	AccountID  string    `json:"account_id"`
	LedgerID   string    `json:"ledger_id"`
	EntityIDs  []string  `json:"entity_ids,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, change Change) error
}

// Nop drops every change.
type Nop struct{}

func (Nop) Publish(context.Context, Change) error { return nil }
