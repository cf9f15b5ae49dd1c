package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ruralpay/cashbook/internal/models"
)

type LedgerRepository struct {
	db *sql.DB
}

func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// FetchAll reads every ledger of the account with entries and attachments
// embedded, newest ledger first.
func (r *LedgerRepository) FetchAll(ctx context.Context, accountID string) ([]models.Ledger, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT l.id, l.name, l.created_at,
			e.id, e.type, e.date_time, e.details, e.amount, e.category, e.mode,
			a.id, a.file_path, a.file_name, a.file_type, a.checksum
		FROM ledgers l
		LEFT JOIN entries e ON e.ledger_id = l.id AND e.account_id = l.account_id
		LEFT JOIN attachments a ON a.entry_id = e.id AND a.account_id = l.account_id
		WHERE l.account_id = $1
		ORDER BY l.created_at DESC, l.id, e.date_time ASC, e.id, a.created_at ASC`, accountID)
	if err != nil {
		return nil, remoteErr("fetch ledgers", err)
	}
	defer rows.Close()

	var flat []models.NestedRow
	for rows.Next() {
		var n models.NestedRow
		if err := rows.Scan(
			&n.LedgerID, &n.LedgerName, &n.LedgerCreatedAt,
			&n.EntryID, &n.EntryType, &n.EntryDateTime, &n.EntryDetails, &n.EntryAmount, &n.EntryCategory, &n.EntryMode,
			&n.AttachmentID, &n.AttachmentFilePath, &n.AttachmentFileName, &n.AttachmentFileType, &n.AttachmentChecksum,
		); err != nil {
			return nil, remoteErr("fetch ledgers", err)
		}
		flat = append(flat, n)
	}
	if err := rows.Err(); err != nil {
		return nil, remoteErr("fetch ledgers", err)
	}

	ledgers, err := nestLedgers(flat)
	if err != nil {
		return nil, remoteErr("fetch ledgers", fmt.Errorf("invalid row: %w", err))
	}
	return ledgers, nil
}

// Create inserts a ledger and returns it with the server-assigned id.
func (r *LedgerRepository) Create(ctx context.Context, accountID, name string) (models.Ledger, error) {
	var row models.LedgerRow
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO ledgers (account_id, name)
		VALUES ($1, $2)
		RETURNING id, name, created_at`,
		accountID, name).Scan(&row.ID, &row.Name, &row.CreatedAt)
	if err != nil {
		return models.Ledger{}, remoteErr("create ledger", err)
	}
	return models.Ledger{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt, Entries: []models.Entry{}}, nil
}

// Update renames a ledger and optionally moves its creation time.
func (r *LedgerRepository) Update(ctx context.Context, accountID, id, name string, createdAt *time.Time) (models.Ledger, error) {
	newCreatedAt := sql.NullTime{}
	if createdAt != nil {
		newCreatedAt = sql.NullTime{Time: *createdAt, Valid: true}
	}

	var row models.LedgerRow
	err := r.db.QueryRowContext(ctx, `
		UPDATE ledgers
		SET name = $1, created_at = COALESCE($2, created_at)
		WHERE account_id = $3 AND id = $4
		RETURNING id, name, created_at`,
		name, newCreatedAt, accountID, id).Scan(&row.ID, &row.Name, &row.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Ledger{}, remoteErr("update ledger", fmt.Errorf("ledger %s: %w", id, ErrNotFound))
	}
	if err != nil {
		return models.Ledger{}, remoteErr("update ledger", err)
	}
	return models.Ledger{ID: row.ID, Name: row.Name, CreatedAt: row.CreatedAt}, nil
}

// DeleteEntries removes every entry of the ledger together with their
// attachment metadata. The ledger row itself is left in place.
func (r *LedgerRepository) DeleteEntries(ctx context.Context, accountID, ledgerID string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return remoteErr("delete ledger entries", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attachments
		WHERE account_id = $1 AND entry_id IN (SELECT id FROM entries WHERE account_id = $1 AND ledger_id = $2)`,
		accountID, ledgerID); err != nil {
		return remoteErr("delete ledger entries", err)
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM entries WHERE account_id = $1 AND ledger_id = $2`,
		accountID, ledgerID); err != nil {
		return remoteErr("delete ledger entries", err)
	}

	return remoteErr("delete ledger entries", tx.Commit())
}

// Delete removes the ledger row. Entries must already be gone.
func (r *LedgerRepository) Delete(ctx context.Context, accountID, id string) error {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM ledgers WHERE account_id = $1 AND id = $2`,
		accountID, id)
	if err != nil {
		return remoteErr("delete ledger", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return remoteErr("delete ledger", err)
	}
	if rowsAffected == 0 {
		return remoteErr("delete ledger", fmt.Errorf("ledger %s: %w", id, ErrNotFound))
	}
	return nil
}
