package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBusy is returned when another mutation of the same ledger or entry
	// has not finished yet.
	ErrBusy = errors.New("operation already in progress")

	ErrUnknownLedger     = errors.New("ledger not found")
	ErrUnknownEntry      = errors.New("entry not found")
	ErrUnknownAttachment = errors.New("attachment not found")
)

// ValidationError is a local precondition failure. It never reaches the
// remote store.
type ValidationError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// PartialFailure describes an entry whose row was written while some of its
// attachments stayed pending.
type PartialFailure struct {
	Op      string
	EntryID string
	Failed  []string
}

func (e *PartialFailure) Error() string {
	return fmt.Sprintf("%s: entry %s saved, %d attachment(s) not uploaded: %s",
		e.Op, e.EntryID, len(e.Failed), strings.Join(e.Failed, ", "))
}
