package services

import (
	"context"
	"time"

	"github.com/ruralpay/cashbook/internal/models"
)

// LedgerRepo is the remote ledger table as the store sees it.
type LedgerRepo interface {
	FetchAll(ctx context.Context, accountID string) ([]models.Ledger, error)
	Create(ctx context.Context, accountID, name string) (models.Ledger, error)
	Update(ctx context.Context, accountID, id, name string, createdAt *time.Time) (models.Ledger, error)
	DeleteEntries(ctx context.Context, accountID, ledgerID string) error
	Delete(ctx context.Context, accountID, id string) error
}

// EntryRepo is the remote entry table.
type EntryRepo interface {
	Create(ctx context.Context, accountID string, e models.Entry) (models.Entry, error)
	Update(ctx context.Context, accountID string, e models.Entry) (models.Entry, error)
	Delete(ctx context.Context, accountID, ledgerID, entryID string) error
	DeleteMany(ctx context.Context, accountID, ledgerID string, entryIDs []string) error
}

// AttachmentRepo is the remote attachment metadata table.
type AttachmentRepo interface {
	Upsert(ctx context.Context, row models.AttachmentRow) (models.AttachmentRow, error)
	Delete(ctx context.Context, accountID, entryID, id string) (string, error)
}
