package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nestedColumns = []string{
	"id", "name", "created_at",
	"id", "type", "date_time", "details", "amount", "category", "mode",
	"id", "file_path", "file_name", "file_type", "checksum",
}

var entryCols = []string{"id", "ledger_id", "type", "date_time", "details", "amount", "category", "mode"}

func TestLedgerRepository_FetchAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()
	created := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	early := created.Add(time.Hour)
	late := created.Add(2 * time.Hour)

	t.Run("nests entries and attachments", func(t *testing.T) {
		mock.ExpectQuery("SELECT l.id, l.name, l.created_at").
			WithArgs("acct-1").
			WillReturnRows(sqlmock.NewRows(nestedColumns).
				AddRow("l1", "Trips", created, "e2", "out", late, nil, "40.00", "Food", "Cash", nil, nil, nil, nil, nil).
				AddRow("l1", "Trips", created, "e1", "in", early, "salary", "100", nil, nil, "a1", "acct-1/e1/r.png", "r.png", "image/png", "abc").
				AddRow("l1", "Trips", created, "e1", "in", early, "salary", "100", nil, nil, "a1", "acct-1/e1/r.png", "r.png", "image/png", "abc").
				AddRow("l2", "Home", created.Add(-time.Hour), nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil))

		ledgers, err := repo.FetchAll(ctx, "acct-1")
		require.NoError(t, err)
		require.Len(t, ledgers, 2)

		trips := ledgers[0]
		assert.Equal(t, "Trips", trips.Name)
		require.Len(t, trips.Entries, 2)
		assert.Equal(t, "e1", trips.Entries[0].ID)
		assert.Equal(t, models.EntryIn, trips.Entries[0].Type)
		assert.Equal(t, "salary", trips.Entries[0].Details)
		assert.True(t, decimal.NewFromInt(100).Equal(trips.Entries[0].Amount))
		require.Len(t, trips.Entries[0].Attachments, 1)
		assert.Equal(t, "acct-1/e1/r.png", trips.Entries[0].Attachments[0].FilePath)
		assert.Equal(t, "abc", trips.Entries[0].Attachments[0].Checksum)
		assert.Equal(t, "e2", trips.Entries[1].ID)
		assert.Empty(t, trips.Entries[1].Attachments)

		assert.Equal(t, "Home", ledgers[1].Name)
		assert.Empty(t, ledgers[1].Entries)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects unknown entry type", func(t *testing.T) {
		mock.ExpectQuery("SELECT l.id").
			WithArgs("acct-1").
			WillReturnRows(sqlmock.NewRows(nestedColumns).
				AddRow("l1", "Trips", created, "e1", "transfer", early, nil, "1", nil, nil, nil, nil, nil, nil, nil))

		_, err := repo.FetchAll(ctx, "acct-1")

		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "fetch ledgers", remote.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects negative amount", func(t *testing.T) {
		mock.ExpectQuery("SELECT l.id").
			WithArgs("acct-1").
			WillReturnRows(sqlmock.NewRows(nestedColumns).
				AddRow("l1", "Trips", created, "e1", "in", early, nil, "-5", nil, nil, nil, nil, nil, nil, nil))

		_, err := repo.FetchAll(ctx, "acct-1")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("query failure", func(t *testing.T) {
		mock.ExpectQuery("SELECT l.id").WithArgs("acct-1").WillReturnError(errors.New("connection refused"))

		_, err := repo.FetchAll(ctx, "acct-1")

		var remote *RemoteError
		assert.ErrorAs(t, err, &remote)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLedgerRepository_Mutations(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLedgerRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("create", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO ledgers").
			WithArgs("acct-1", "Trips").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("l1", "Trips", now))

		l, err := repo.Create(ctx, "acct-1", "Trips")
		require.NoError(t, err)
		assert.Equal(t, "l1", l.ID)
		assert.Equal(t, now, l.CreatedAt)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("create duplicate", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO ledgers").
			WithArgs("acct-1", "trips").
			WillReturnError(errors.New("duplicate key value violates unique constraint"))

		_, err := repo.Create(ctx, "acct-1", "trips")

		var remote *RemoteError
		assert.ErrorAs(t, err, &remote)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update keeps created_at when nil", func(t *testing.T) {
		mock.ExpectQuery("UPDATE ledgers").
			WithArgs("Holidays", sql.NullTime{}, "acct-1", "l1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("l1", "Holidays", now))

		l, err := repo.Update(ctx, "acct-1", "l1", "Holidays", nil)
		require.NoError(t, err)
		assert.Equal(t, "Holidays", l.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing ledger", func(t *testing.T) {
		moved := now.Add(-time.Hour)
		mock.ExpectQuery("UPDATE ledgers").
			WithArgs("X", moved, "acct-1", "gone").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		_, err := repo.Update(ctx, "acct-1", "gone", "X", &moved)
		assert.True(t, IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete entries in one transaction", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM attachments").WithArgs("acct-1", "l1").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectExec("DELETE FROM entries WHERE account_id = \\$1 AND ledger_id = \\$2").
			WithArgs("acct-1", "l1").WillReturnResult(sqlmock.NewResult(0, 3))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteEntries(ctx, "acct-1", "l1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete entries rolls back on failure", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM attachments").WithArgs("acct-1", "l1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM entries").WithArgs("acct-1", "l1").WillReturnError(errors.New("lock timeout"))
		mock.ExpectRollback()

		err := repo.DeleteEntries(ctx, "acct-1", "l1")

		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "delete ledger entries", remote.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete ledger", func(t *testing.T) {
		mock.ExpectExec("DELETE FROM ledgers").WithArgs("acct-1", "l1").WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(ctx, "acct-1", "l1"))

		mock.ExpectExec("DELETE FROM ledgers").WithArgs("acct-1", "l1").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.True(t, IsNotFound(repo.Delete(ctx, "acct-1", "l1")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEntryRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewEntryRepository(db)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	entry := models.Entry{
		ID:       "e1",
		LedgerID: "l1",
		Type:     models.EntryOut,
		DateTime: at,
		Details:  "taxi",
		Amount:   decimal.RequireFromString("12.50"),
		Category: "Travel",
		Mode:     "Cash",
	}

	t.Run("create", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO entries").
			WithArgs("acct-1", "l1", "out", at, "taxi", sqlmock.AnyArg(), "Travel", "Cash").
			WillReturnRows(sqlmock.NewRows(entryCols).AddRow("e9", "l1", "out", at, "taxi", "12.50", "Travel", "Cash"))

		created, err := repo.Create(ctx, "acct-1", entry)
		require.NoError(t, err)
		assert.Equal(t, "e9", created.ID)
		assert.Equal(t, "12.5", created.Amount.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update missing entry", func(t *testing.T) {
		mock.ExpectQuery("UPDATE entries").
			WithArgs("out", at, "taxi", sqlmock.AnyArg(), "Travel", "Cash", "acct-1", "l1", "e1").
			WillReturnRows(sqlmock.NewRows(entryCols))

		_, err := repo.Update(ctx, "acct-1", entry)
		assert.True(t, IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM attachments").WithArgs("acct-1", "l1", "e1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("DELETE FROM entries").WithArgs("acct-1", "l1", "e1").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		assert.NoError(t, repo.Delete(ctx, "acct-1", "l1", "e1"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete missing entry", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("DELETE FROM attachments").WithArgs("acct-1", "l1", "e1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM entries").WithArgs("acct-1", "l1", "e1").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		assert.True(t, IsNotFound(repo.Delete(ctx, "acct-1", "l1", "e1")))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bulk delete", func(t *testing.T) {
		mock.ExpectBegin()
		mock.ExpectExec("id IN \\(\\$3, \\$4\\)").WithArgs("acct-1", "l1", "e1", "e2").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec("DELETE FROM entries").WithArgs("acct-1", "l1", "e1", "e2").WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		assert.NoError(t, repo.DeleteMany(ctx, "acct-1", "l1", []string{"e1", "e2"}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("bulk delete failure", func(t *testing.T) {
		mock.ExpectBegin().WillReturnError(errors.New("pool exhausted"))

		err := repo.DeleteMany(ctx, "acct-1", "l1", []string{"e1"})

		var remote *RemoteError
		require.ErrorAs(t, err, &remote)
		assert.Equal(t, "bulk delete entries", remote.Op)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("empty bulk delete touches nothing", func(t *testing.T) {
		assert.NoError(t, repo.DeleteMany(ctx, "acct-1", "l1", nil))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestAttachmentRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewAttachmentRepository(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("upsert", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO attachments .* ON CONFLICT \\(file_path\\) DO UPDATE").
			WithArgs("acct-1", "e1", "acct-1/e1/r.png", "r.png", "image/png", "abc").
			WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("a1", now))

		row, err := repo.Upsert(ctx, models.AttachmentRow{
			AccountID: "acct-1",
			EntryID:   "e1",
			FilePath:  "acct-1/e1/r.png",
			FileName:  "r.png",
			FileType:  "image/png",
			Checksum:  sql.NullString{String: "abc", Valid: true},
		})
		require.NoError(t, err)
		assert.Equal(t, "a1", row.ID)
		assert.Equal(t, "acct-1/e1/r.png", row.FilePath)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete returns the blob path", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM attachments").
			WithArgs("acct-1", "e1", "a1").
			WillReturnRows(sqlmock.NewRows([]string{"file_path"}).AddRow("acct-1/e1/r.png"))

		p, err := repo.Delete(ctx, "acct-1", "e1", "a1")
		require.NoError(t, err)
		assert.Equal(t, "acct-1/e1/r.png", p)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete missing", func(t *testing.T) {
		mock.ExpectQuery("DELETE FROM attachments").
			WithArgs("acct-1", "e1", "a1").
			WillReturnRows(sqlmock.NewRows([]string{"file_path"}))

		_, err := repo.Delete(ctx, "acct-1", "e1", "a1")
		assert.True(t, IsNotFound(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRemoteErr(t *testing.T) {
	assert.NoError(t, remoteErr("op", nil))

	inner := remoteErr("inner", errors.New("boom"))
	outer := remoteErr("outer", inner)
	assert.Same(t, inner, outer)
	assert.Equal(t, "inner: boom", outer.Error())
}
