// Package servicestest provides in-memory repositories and blob storage for
// tests of code built on services.LedgerStore.
package servicestest

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ruralpay/cashbook/internal/blob"
	"github.com/ruralpay/cashbook/internal/models"
	"github.com/ruralpay/cashbook/internal/repository"
)

// PNG is enough of a PNG header for content sniffing.
var PNG = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// Remote is an in-memory relational backend. It is itself the ledger
// repository; Entries and Attachments return the other two. Fail makes an
// operation, named like the SQL repositories name theirs, return a
// RemoteError.
type Remote struct {
	mu             sync.Mutex
	seq            int
	ledgers        []models.Ledger
	attachmentRows map[string]models.AttachmentRow
	fail           map[string]error
	calls          map[string]int
}

func NewRemote() *Remote {
	return &Remote{
		attachmentRows: make(map[string]models.AttachmentRow),
		fail:           make(map[string]error),
		calls:          make(map[string]int),
	}
}

func (r *Remote) nextID(prefix string) string {
	r.seq++
	return fmt.Sprintf("%s-%d", prefix, r.seq)
}

func (r *Remote) check(op string) error {
	r.calls[op]++
	if err, ok := r.fail[op]; ok {
		return &repository.RemoteError{Op: op, Cause: err}
	}
	return nil
}

func (r *Remote) Calls(op string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls[op]
}

// Fail makes op return err until called again with a nil error.
func (r *Remote) Fail(op string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.fail, op)
		return
	}
	r.fail[op] = err
}

func (r *Remote) ledgerIndex(id string) int {
	return slices.IndexFunc(r.ledgers, func(l models.Ledger) bool { return l.ID == id })
}

// Seed adds a ledger directly, bypassing failure injection.
func (r *Remote) Seed(l models.Ledger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ledgers = append(r.ledgers, l.Clone())
}

// Ledger repository.

func (r *Remote) FetchAll(_ context.Context, _ string) ([]models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("fetch ledgers"); err != nil {
		return nil, err
	}
	out := make([]models.Ledger, len(r.ledgers))
	for i, l := range r.ledgers {
		out[i] = l.Clone()
		for j := range out[i].Entries {
			out[i].Entries[j].Attachments = r.attachmentsOf(out[i].Entries[j].ID)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Ledger) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return out, nil
}

func (r *Remote) attachmentsOf(entryID string) []models.Attachment {
	var out []models.Attachment
	for _, row := range r.attachmentRows {
		if row.EntryID == entryID {
			out = append(out, models.Attachment{
				ID:       row.ID,
				EntryID:  row.EntryID,
				FilePath: row.FilePath,
				FileName: row.FileName,
				FileType: row.FileType,
				Checksum: row.Checksum.String,
			})
		}
	}
	slices.SortFunc(out, func(a, b models.Attachment) int { return strings.Compare(a.ID, b.ID) })
	return out
}

func (r *Remote) Create(_ context.Context, _ string, name string) (models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("create ledger"); err != nil {
		return models.Ledger{}, err
	}
	l := models.Ledger{ID: r.nextID("ledger"), Name: name, CreatedAt: time.Now().Add(time.Duration(r.seq) * time.Second)}
	r.ledgers = append(r.ledgers, l)
	return l.Clone(), nil
}

func (r *Remote) Update(_ context.Context, _ string, id, name string, createdAt *time.Time) (models.Ledger, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("update ledger"); err != nil {
		return models.Ledger{}, err
	}
	i := r.ledgerIndex(id)
	if i < 0 {
		return models.Ledger{}, &repository.RemoteError{Op: "update ledger", Cause: repository.ErrNotFound}
	}
	r.ledgers[i].Name = name
	if createdAt != nil {
		r.ledgers[i].CreatedAt = *createdAt
	}
	out := r.ledgers[i].Clone()
	out.Entries = nil
	return out, nil
}

func (r *Remote) DeleteEntries(_ context.Context, _ string, ledgerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("delete ledger entries"); err != nil {
		return err
	}
	if i := r.ledgerIndex(ledgerID); i >= 0 {
		r.ledgers[i].Entries = nil
	}
	return nil
}

func (r *Remote) Delete(_ context.Context, _ string, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("delete ledger"); err != nil {
		return err
	}
	i := r.ledgerIndex(id)
	if i < 0 {
		return &repository.RemoteError{Op: "delete ledger", Cause: repository.ErrNotFound}
	}
	r.ledgers = slices.Delete(r.ledgers, i, i+1)
	return nil
}

// Entries returns the entry repository view of r.
func (r *Remote) Entries() EntryTable { return EntryTable{r} }

// Attachments returns the attachment metadata view of r.
func (r *Remote) Attachments() AttachmentTable { return AttachmentTable{r} }

// EntryTable is the entry repository of a Remote.
type EntryTable struct{ *Remote }

func (r EntryTable) Create(_ context.Context, _ string, e models.Entry) (models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("create entry"); err != nil {
		return models.Entry{}, err
	}
	i := r.ledgerIndex(e.LedgerID)
	if i < 0 {
		return models.Entry{}, &repository.RemoteError{Op: "create entry", Cause: repository.ErrNotFound}
	}
	e = e.Clone()
	e.ID = r.nextID("entry")
	e.Attachments = nil
	r.ledgers[i].Entries = append(r.ledgers[i].Entries, e)
	return e.Clone(), nil
}

func (r EntryTable) Update(_ context.Context, _ string, e models.Entry) (models.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("update entry"); err != nil {
		return models.Entry{}, err
	}
	i := r.ledgerIndex(e.LedgerID)
	if i < 0 {
		return models.Entry{}, &repository.RemoteError{Op: "update entry", Cause: repository.ErrNotFound}
	}
	j := r.ledgers[i].EntryIndex(e.ID)
	if j < 0 {
		return models.Entry{}, &repository.RemoteError{Op: "update entry", Cause: repository.ErrNotFound}
	}
	e = e.Clone()
	e.Attachments = nil
	r.ledgers[i].Entries[j] = e
	return e.Clone(), nil
}

func (r EntryTable) Delete(_ context.Context, _ string, ledgerID, entryID string) error {
	return r.DeleteMany(context.Background(), "", ledgerID, []string{entryID})
}

func (r EntryTable) DeleteMany(_ context.Context, _ string, ledgerID string, ids []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	op := "bulk delete entries"
	if len(ids) == 1 {
		op = "delete entry"
	}
	if err := r.check(op); err != nil {
		return err
	}
	i := r.ledgerIndex(ledgerID)
	if i < 0 {
		return &repository.RemoteError{Op: op, Cause: repository.ErrNotFound}
	}
	r.ledgers[i].Entries = slices.DeleteFunc(r.ledgers[i].Entries, func(e models.Entry) bool {
		return slices.Contains(ids, e.ID)
	})
	return nil
}

// AttachmentTable is the attachment metadata repository of a Remote.
type AttachmentTable struct{ *Remote }

func (r AttachmentTable) Upsert(_ context.Context, row models.AttachmentRow) (models.AttachmentRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("upsert attachment"); err != nil {
		return models.AttachmentRow{}, err
	}
	if existing, ok := r.attachmentRows[row.FilePath]; ok {
		row.ID = existing.ID
	} else {
		row.ID = r.nextID("att")
	}
	r.attachmentRows[row.FilePath] = row
	return row, nil
}

func (r AttachmentTable) Delete(_ context.Context, _ string, entryID, id string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.check("delete attachment"); err != nil {
		return "", err
	}
	for path, row := range r.attachmentRows {
		if row.ID == id && row.EntryID == entryID {
			delete(r.attachmentRows, path)
			return path, nil
		}
	}
	return "", &repository.RemoteError{Op: "delete attachment", Cause: repository.ErrNotFound}
}

// Blobs is an in-memory blob.Store.
type Blobs struct {
	mu      sync.Mutex
	objects map[string]blob.Object
	uploads int
	failErr error
}

func NewBlobs() *Blobs {
	return &Blobs{objects: make(map[string]blob.Object)}
}

func (b *Blobs) Upload(_ context.Context, path string, obj blob.Object) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.uploads++
	if b.failErr != nil {
		return b.failErr
	}
	b.objects[path] = obj
	return nil
}

func (b *Blobs) Get(_ context.Context, path string) (blob.Object, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	obj, ok := b.objects[path]
	if !ok {
		return blob.Object{}, blob.ErrNotFound
	}
	return obj, nil
}

func (b *Blobs) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.objects, path)
	return nil
}

func (b *Blobs) PublicURL(path string) string {
	return "https://blobs.test/" + path
}

// Fail makes every later upload return err until called with nil.
func (b *Blobs) Fail(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failErr = err
}

func (b *Blobs) Uploads() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.uploads
}
