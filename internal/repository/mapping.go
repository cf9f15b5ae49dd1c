package repository

import (
	"fmt"
	"strings"

	"github.com/ruralpay/cashbook/internal/models"
)

// entryFromRow converts a stored entry into the model, rejecting rows the
// model cannot represent.
func entryFromRow(row models.EntryRow) (models.Entry, error) {
	if row.ID == "" {
		return models.Entry{}, fmt.Errorf("entry row without id")
	}
	entryType, err := models.ParseEntryType(strings.ToLower(strings.TrimSpace(row.Type)))
	if err != nil {
		return models.Entry{}, fmt.Errorf("entry %s: %w", row.ID, err)
	}
	if row.Amount.IsNegative() {
		return models.Entry{}, fmt.Errorf("entry %s: negative amount %s", row.ID, row.Amount)
	}
	return models.Entry{
		ID:          row.ID,
		LedgerID:    row.LedgerID,
		Type:        entryType,
		DateTime:    row.DateTime,
		Details:     row.Details.String,
		Amount:      row.Amount,
		Category:    row.Category.String,
		Mode:        row.Mode.String,
		Attachments: []models.Attachment{},
	}, nil
}

func attachmentFromRow(row models.AttachmentRow) models.Attachment {
	return models.Attachment{
		ID:       row.ID,
		EntryID:  row.EntryID,
		FilePath: row.FilePath,
		FileName: row.FileName,
		FileType: row.FileType,
		Checksum: row.Checksum.String,
	}
}

// nestLedgers folds the flat join into ledgers with embedded entries and
// attachments. Ledger order follows the rows; entries are sorted.
func nestLedgers(rows []models.NestedRow) ([]models.Ledger, error) {
	ledgers := make([]models.Ledger, 0)
	ledgerIdx := make(map[string]int)
	type entryPos struct{ ledger, entry int }
	entryIdx := make(map[string]entryPos)
	seenAttachment := make(map[string]bool)

	for _, r := range rows {
		if r.LedgerID == "" {
			return nil, fmt.Errorf("ledger row without id")
		}
		li, ok := ledgerIdx[r.LedgerID]
		if !ok {
			li = len(ledgers)
			ledgerIdx[r.LedgerID] = li
			ledgers = append(ledgers, models.Ledger{
				ID:        r.LedgerID,
				Name:      r.LedgerName,
				CreatedAt: r.LedgerCreatedAt,
				Entries:   []models.Entry{},
			})
		}

		if !r.EntryID.Valid {
			continue
		}
		pos, ok := entryIdx[r.EntryID.String]
		if !ok {
			if !r.EntryDateTime.Valid {
				return nil, fmt.Errorf("entry %s: missing date_time", r.EntryID.String)
			}
			amount := r.EntryAmount.Decimal
			entry, err := entryFromRow(models.EntryRow{
				ID:       r.EntryID.String,
				LedgerID: r.LedgerID,
				Type:     r.EntryType.String,
				DateTime: r.EntryDateTime.Time,
				Details:  r.EntryDetails,
				Amount:   amount,
				Category: r.EntryCategory,
				Mode:     r.EntryMode,
			})
			if err != nil {
				return nil, err
			}
			pos = entryPos{ledger: li, entry: len(ledgers[li].Entries)}
			entryIdx[entry.ID] = pos
			ledgers[li].Entries = append(ledgers[li].Entries, entry)
		}

		if !r.AttachmentID.Valid || seenAttachment[r.AttachmentID.String] {
			continue
		}
		if !r.AttachmentFilePath.Valid || r.AttachmentFilePath.String == "" {
			return nil, fmt.Errorf("attachment %s: missing file_path", r.AttachmentID.String)
		}
		seenAttachment[r.AttachmentID.String] = true
		entry := &ledgers[pos.ledger].Entries[pos.entry]
		entry.Attachments = append(entry.Attachments, attachmentFromRow(models.AttachmentRow{
			ID:       r.AttachmentID.String,
			EntryID:  r.EntryID.String,
			FilePath: r.AttachmentFilePath.String,
			FileName: r.AttachmentFileName.String,
			FileType: r.AttachmentFileType.String,
			Checksum: r.AttachmentChecksum,
		}))
	}

	for i := range ledgers {
		models.SortEntries(ledgers[i].Entries)
	}
	return ledgers, nil
}
