package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// LedgerRow is the stored shape of a ledger.
type LedgerRow struct {
	ID        string    `db:"id"`
	AccountID string    `db:"account_id"`
	Name      string    `db:"name"`
	CreatedAt time.Time `db:"created_at"`
}

// EntryRow is the stored shape of an entry.
type EntryRow struct {
	ID        string          `db:"id"`
	AccountID string          `db:"account_id"`
	LedgerID  string          `db:"ledger_id"`
	Type      string          `db:"type"`
	DateTime  time.Time       `db:"date_time"`
	Details   sql.NullString  `db:"details"`
	Amount    decimal.Decimal `db:"amount"`
	Category  sql.NullString  `db:"category"`
	Mode      sql.NullString  `db:"mode"`
}

// AttachmentRow is the stored metadata of a blob linked to an entry.
type AttachmentRow struct {
	ID        string         `db:"id"`
	AccountID string         `db:"account_id"`
	EntryID   string         `db:"entry_id"`
	FilePath  string         `db:"file_path"`
	FileName  string         `db:"file_name"`
	FileType  string         `db:"file_type"`
	Checksum  sql.NullString `db:"checksum"`
	CreatedAt time.Time      `db:"created_at"`
}

// NestedRow is one row of the ledger → entry → attachment join. Entry and
// attachment columns are null when the parent has no children.
type NestedRow struct {
	LedgerID        string
	LedgerName      string
	LedgerCreatedAt time.Time

	EntryID       sql.NullString
	EntryType     sql.NullString
	EntryDateTime sql.NullTime
	EntryDetails  sql.NullString
	EntryAmount   decimal.NullDecimal
	EntryCategory sql.NullString
	EntryMode     sql.NullString

	AttachmentID       sql.NullString
	AttachmentFilePath sql.NullString
	AttachmentFileName sql.NullString
	AttachmentFileType sql.NullString
	AttachmentChecksum sql.NullString
}
