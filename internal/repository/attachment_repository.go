package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ruralpay/cashbook/internal/models"
)

type AttachmentRepository struct {
	db *sql.DB
}

func NewAttachmentRepository(db *sql.DB) *AttachmentRepository {
	return &AttachmentRepository{db: db}
}

// Upsert records blob metadata. The storage path is unique, so writing the
// same file for the same entry again updates the existing row.
func (r *AttachmentRepository) Upsert(ctx context.Context, row models.AttachmentRow) (models.AttachmentRow, error) {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO attachments (account_id, entry_id, file_path, file_name, file_type, checksum)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (file_path) DO UPDATE SET
			file_name = excluded.file_name,
			file_type = excluded.file_type,
			checksum = excluded.checksum
		RETURNING id, created_at`,
		row.AccountID, row.EntryID, row.FilePath, row.FileName, row.FileType, row.Checksum,
	).Scan(&row.ID, &row.CreatedAt)
	if err != nil {
		return models.AttachmentRow{}, remoteErr("upsert attachment", err)
	}
	return row, nil
}

// Delete removes one metadata row and returns the blob path it pointed to.
func (r *AttachmentRepository) Delete(ctx context.Context, accountID, entryID, id string) (string, error) {
	var filePath string
	err := r.db.QueryRowContext(ctx, `
		DELETE FROM attachments
		WHERE account_id = $1 AND entry_id = $2 AND id = $3
		RETURNING file_path`,
		accountID, entryID, id).Scan(&filePath)
	if errors.Is(err, sql.ErrNoRows) {
		return "", remoteErr("delete attachment", fmt.Errorf("attachment %s: %w", id, ErrNotFound))
	}
	if err != nil {
		return "", remoteErr("delete attachment", err)
	}
	return filePath, nil
}
