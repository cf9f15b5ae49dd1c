package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ruralpay/cashbook/internal/models"
)

type EntryRepository struct {
	db *sql.DB
}

func NewEntryRepository(db *sql.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

const entryColumns = `id, ledger_id, type, date_time, details, amount, category, mode`

func scanEntry(row *sql.Row) (models.Entry, error) {
	var er models.EntryRow
	if err := row.Scan(&er.ID, &er.LedgerID, &er.Type, &er.DateTime, &er.Details, &er.Amount, &er.Category, &er.Mode); err != nil {
		return models.Entry{}, err
	}
	return entryFromRow(er)
}

// Create inserts the entry row only; attachments are handled by the
// uploader once the id is known.
func (r *EntryRepository) Create(ctx context.Context, accountID string, e models.Entry) (models.Entry, error) {
	created, err := scanEntry(r.db.QueryRowContext(ctx, `
		INSERT INTO entries (account_id, ledger_id, type, date_time, details, amount, category, mode)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+entryColumns,
		accountID, e.LedgerID, string(e.Type), e.DateTime, e.Details, e.Amount, e.Category, e.Mode))
	if err != nil {
		return models.Entry{}, remoteErr("create entry", err)
	}
	return created, nil
}

// Update writes the entry fields. The owning ledger is part of the match and
// never changes.
func (r *EntryRepository) Update(ctx context.Context, accountID string, e models.Entry) (models.Entry, error) {
	updated, err := scanEntry(r.db.QueryRowContext(ctx, `
		UPDATE entries
		SET type = $1, date_time = $2, details = $3, amount = $4, category = $5, mode = $6
		WHERE account_id = $7 AND ledger_id = $8 AND id = $9
		RETURNING `+entryColumns,
		string(e.Type), e.DateTime, e.Details, e.Amount, e.Category, e.Mode, accountID, e.LedgerID, e.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Entry{}, remoteErr("update entry", fmt.Errorf("entry %s: %w", e.ID, ErrNotFound))
	}
	if err != nil {
		return models.Entry{}, remoteErr("update entry", err)
	}
	return updated, nil
}

// Delete removes one entry and its attachment metadata.
func (r *EntryRepository) Delete(ctx context.Context, accountID, ledgerID, entryID string) error {
	n, err := r.deleteIDs(ctx, accountID, ledgerID, []string{entryID})
	if err != nil {
		return remoteErr("delete entry", err)
	}
	if n == 0 {
		return remoteErr("delete entry", fmt.Errorf("entry %s: %w", entryID, ErrNotFound))
	}
	return nil
}

// DeleteMany removes a set of entries of one ledger in a single transaction.
func (r *EntryRepository) DeleteMany(ctx context.Context, accountID, ledgerID string, entryIDs []string) error {
	if len(entryIDs) == 0 {
		return nil
	}
	_, err := r.deleteIDs(ctx, accountID, ledgerID, entryIDs)
	return remoteErr("bulk delete entries", err)
}

func (r *EntryRepository) deleteIDs(ctx context.Context, accountID, ledgerID string, ids []string) (int64, error) {
	placeholders, args := inList(3, ids)
	args = append([]any{accountID, ledgerID}, args...)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attachments
		WHERE account_id = $1 AND entry_id IN (SELECT id FROM entries WHERE account_id = $1 AND ledger_id = $2 AND id IN (`+placeholders+`))`,
		args...); err != nil {
		return 0, err
	}

	result, err := tx.ExecContext(ctx, `
		DELETE FROM entries WHERE account_id = $1 AND ledger_id = $2 AND id IN (`+placeholders+`)`,
		args...)
	if err != nil {
		return 0, err
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

// inList builds "$start, $start+1, ..." for ids.
func inList(start int, ids []string) (string, []any) {
	parts := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("$%d", start+i)
		args[i] = id
	}
	return strings.Join(parts, ", "), args
}
