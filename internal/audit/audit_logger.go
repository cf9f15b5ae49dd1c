// Package audit writes one JSON line per sync event.
package audit

import (
	"encoding/json"
	"log"
	"time"
)

type Event struct {
	Timestamp time.Time `json:"timestamp"`
	EventType string    `json:"event_type"`
	AccountID string    `json:"account_id,omitempty"`
	LedgerID  string    `json:"ledger_id,omitempty"`
	EntityID  string    `json:"entity_id,omitempty"`
	Status    string    `json:"status"`
	Details   any       `json:"details,omitempty"`
}

type Logger struct {
	logger *log.Logger
}

// NewLogger writes through l, or the standard logger when l is nil.
func NewLogger(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{logger: l}
}

// LogMutation records a committed change.
func (a *Logger) LogMutation(operation, accountID, ledgerID, entityID string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		AccountID: accountID,
		LedgerID:  ledgerID,
		EntityID:  entityID,
		Status:    "SUCCESS",
	})
}

// LogError records a failed operation.
func (a *Logger) LogError(operation, accountID, entityID string, err error) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		AccountID: accountID,
		EntityID:  entityID,
		Status:    "FAILED",
		Details:   map[string]string{"error": err.Error()},
	})
}

// LogResync records a full refetch triggered after a failed write.
func (a *Logger) LogResync(reason, accountID string, err error) {
	status := "SUCCESS"
	details := map[string]string{"reason": reason}
	if err != nil {
		status = "FAILED"
		details["error"] = err.Error()
	}
	a.log(Event{
		Timestamp: time.Now(),
		EventType: "RESYNC",
		AccountID: accountID,
		Status:    status,
		Details:   details,
	})
}

// LogDegraded records an entry whose attachments did not all upload.
func (a *Logger) LogDegraded(operation, accountID, entryID string, failed []string) {
	a.log(Event{
		Timestamp: time.Now(),
		EventType: operation,
		AccountID: accountID,
		EntityID:  entryID,
		Status:    "DEGRADED",
		Details:   map[string]any{"pending_attachments": failed},
	})
}

func (a *Logger) log(event Event) {
	data, _ := json.Marshal(event)
	a.logger.Printf("AUDIT: %s", string(data))
}
