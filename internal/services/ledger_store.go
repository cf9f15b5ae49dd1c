package services

import (
	"context"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ruralpay/cashbook/internal/audit"
	"github.com/ruralpay/cashbook/internal/auth"
	"github.com/ruralpay/cashbook/internal/catalog"
	"github.com/ruralpay/cashbook/internal/events"
	"github.com/ruralpay/cashbook/internal/models"
)

// StoreOptions carries the optional collaborators of a LedgerStore.
type StoreOptions struct {
	Catalog        *catalog.Catalog
	Publisher      events.Publisher
	Audit          *audit.Logger
	NoticeCapacity int
}

// ledgerState is one ledger plus the bookkeeping needed to memoize its
// summary.
type ledgerState struct {
	ledger   models.Ledger
	revision uint64
	summary  *LedgerSummary
	summedAt uint64
}

// LedgerStore is the in-memory model of one account's ledgers. Every
// mutation goes through it; readers get copies.
type LedgerStore struct {
	ledgers   LedgerRepo
	entries   EntryRepo
	uploader  *AttachmentUploader
	accounts  auth.AccountProvider
	catalog   *catalog.Catalog
	publisher events.Publisher
	audit     *audit.Logger
	validator *ValidationHelper

	mu       sync.RWMutex
	items    []*ledgerState
	revision uint64
	loaded   bool
	// deleting holds entries removed locally whose remote delete has not
	// finished; loads must not bring them back.
	deleting map[string]struct{}

	inflight *inflight
	notices  *noticeQueue
}

// NewLedgerStore creates an empty store. Call LoadAll to fill it.
func NewLedgerStore(ledgers LedgerRepo, entries EntryRepo, uploader *AttachmentUploader, accounts auth.AccountProvider, opts StoreOptions) *LedgerStore {
	if opts.Catalog == nil {
		opts.Catalog = catalog.Default()
	}
	if opts.Publisher == nil {
		opts.Publisher = events.Nop{}
	}
	if opts.Audit == nil {
		opts.Audit = audit.NewLogger(nil)
	}
	if opts.NoticeCapacity <= 0 {
		opts.NoticeCapacity = 50
	}
	return &LedgerStore{
		ledgers:   ledgers,
		entries:   entries,
		uploader:  uploader,
		accounts:  accounts,
		catalog:   opts.Catalog,
		publisher: opts.Publisher,
		audit:     opts.Audit,
		validator: NewValidationHelper(),
		deleting:  make(map[string]struct{}),
		inflight:  newInflight(),
		notices:   newNoticeQueue(opts.NoticeCapacity),
	}
}

// loadAttempts bounds how often LoadAll refetches when the store changes
// while a fetch is in flight.
const loadAttempts = 5

// LoadAll replaces the whole collection with the remote state. On failure
// the current collection is kept. A snapshot fetched while another mutation
// was applied locally may predate that mutation, so it is discarded and
// fetched again; when the store keeps changing LoadAll gives up with ErrBusy
// and leaves the collection as it is.
func (s *LedgerStore) LoadAll(ctx context.Context) error {
	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	for attempt := 1; attempt <= loadAttempts; attempt++ {
		s.mu.RLock()
		start := s.revision
		s.mu.RUnlock()

		fetched, err := s.ledgers.FetchAll(ctx, accountID)
		if err != nil {
			log.Printf("[LEDGER_STORE] Load failed for account %s: %v", accountID, err)
			s.audit.LogError("LOAD_ALL", accountID, "", err)
			return err
		}

		items := make([]*ledgerState, 0, len(fetched))
		for _, l := range fetched {
			items = append(items, &ledgerState{ledger: s.normalizeLedger(l)})
		}

		s.mu.Lock()
		if s.revision != start {
			s.mu.Unlock()
			log.Printf("[LEDGER_STORE] Store changed during load for account %s, fetching again", accountID)
			continue
		}
		for _, st := range items {
			s.dropDeleting(st)
			s.revision++
			st.revision = s.revision
		}
		s.items = items
		s.loaded = true
		s.mu.Unlock()

		log.Printf("[LEDGER_STORE] Loaded %d ledgers for account %s", len(items), accountID)
		return nil
	}

	log.Printf("[LEDGER_STORE] Load for account %s kept racing local changes, keeping current state", accountID)
	s.audit.LogError("LOAD_ALL", accountID, "", ErrBusy)
	return ErrBusy
}

// Loaded reports whether LoadAll has succeeded at least once.
func (s *LedgerStore) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// Ledgers returns copies of all ledgers, most recently created first.
func (s *LedgerStore) Ledgers() []models.Ledger {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Ledger, len(s.items))
	for i, st := range s.items {
		out[i] = st.ledger.Clone()
	}
	return out
}

// Ledger returns a copy of one ledger.
func (s *LedgerStore) Ledger(id string) (models.Ledger, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st := s.find(id); st != nil {
		return st.ledger.Clone(), true
	}
	return models.Ledger{}, false
}

// Summary returns running balances and totals for a ledger. The result is
// reused until the ledger changes.
func (s *LedgerStore) Summary(ledgerID string) (LedgerSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.find(ledgerID)
	if st == nil {
		return LedgerSummary{}, ErrUnknownLedger
	}
	if st.summary == nil || st.summedAt != st.revision {
		sum := Summarize(st.ledger)
		st.summary = &sum
		st.summedAt = st.revision
	}
	out := *st.summary
	out.Balances = slices.Clone(out.Balances)
	return out, nil
}

// Notices returns the recorded notices without clearing them.
func (s *LedgerStore) Notices() []Notice {
	return s.notices.list()
}

// DrainNotices returns and clears the recorded notices.
func (s *LedgerStore) DrainNotices() []Notice {
	return s.notices.drain()
}

// CreateLedger inserts a ledger remotely and prepends it locally.
func (s *LedgerStore) CreateLedger(ctx context.Context, name string) (models.Ledger, error) {
	name, err := s.validator.ValidateLedgerName(name)
	if err != nil {
		return models.Ledger{}, err
	}
	if s.nameTaken(name, "") {
		return models.Ledger{}, duplicateName(name)
	}

	release, err := s.inflight.acquire(nameKey(strings.ToLower(name)))
	if err != nil {
		return models.Ledger{}, err
	}
	defer release()

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return models.Ledger{}, err
	}

	created, err := s.ledgers.Create(ctx, accountID, name)
	if err != nil {
		log.Printf("[LEDGER_STORE] Create ledger %q failed: %v", name, err)
		s.audit.LogError("CREATE_LEDGER", accountID, "", err)
		return models.Ledger{}, err
	}
	created.Entries = nil

	s.mu.Lock()
	if s.find(created.ID) == nil {
		s.revision++
		s.items = append([]*ledgerState{{ledger: created, revision: s.revision}}, s.items...)
	}
	s.mu.Unlock()

	s.audit.LogMutation("CREATE_LEDGER", accountID, created.ID, created.ID)
	s.publish(ctx, events.LedgerCreated, accountID, created.ID)
	return created.Clone(), nil
}

// RenameLedger changes the name and, when newCreatedAt is set, the creation
// time of a ledger. The local copy changes only after the remote update.
func (s *LedgerStore) RenameLedger(ctx context.Context, id, newName string, newCreatedAt *time.Time) error {
	name, err := s.validator.ValidateLedgerName(newName)
	if err != nil {
		return err
	}
	if _, ok := s.Ledger(id); !ok {
		return ErrUnknownLedger
	}
	if s.nameTaken(name, id) {
		return duplicateName(name)
	}

	release, err := s.inflight.acquire(ledgerKey(id))
	if err != nil {
		return err
	}
	defer release()

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	updated, err := s.ledgers.Update(ctx, accountID, id, name, newCreatedAt)
	if err != nil {
		log.Printf("[LEDGER_STORE] Rename ledger %s failed: %v", id, err)
		s.audit.LogError("RENAME_LEDGER", accountID, id, err)
		return err
	}

	s.mu.Lock()
	if st := s.find(id); st != nil {
		st.ledger.Name = updated.Name
		st.ledger.CreatedAt = updated.CreatedAt
		s.touch(st)
	} else {
		log.Printf("[LEDGER_STORE] Ledger %s vanished during rename, dropping result", id)
	}
	s.mu.Unlock()

	s.audit.LogMutation("RENAME_LEDGER", accountID, id, id)
	s.publish(ctx, events.LedgerRenamed, accountID, id)
	return nil
}

// DeleteLedger removes a ledger and all its entries remotely, then locally.
// Any remote failure triggers a full reload since the cascade may have
// stopped halfway.
func (s *LedgerStore) DeleteLedger(ctx context.Context, id string) error {
	if _, ok := s.Ledger(id); !ok {
		return ErrUnknownLedger
	}

	release, err := s.inflight.acquire(ledgerKey(id))
	if err != nil {
		return err
	}
	defer release()

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	if err := s.ledgers.DeleteEntries(ctx, accountID, id); err != nil {
		return s.resync(ctx, "DELETE_LEDGER", accountID, id, err)
	}
	if err := s.ledgers.Delete(ctx, accountID, id); err != nil {
		return s.resync(ctx, "DELETE_LEDGER", accountID, id, err)
	}

	s.mu.Lock()
	s.items = slices.DeleteFunc(s.items, func(st *ledgerState) bool { return st.ledger.ID == id })
	s.mu.Unlock()

	s.audit.LogMutation("DELETE_LEDGER", accountID, id, id)
	s.publish(ctx, events.LedgerDeleted, accountID, id)
	return nil
}

// AddEntry writes a new entry, then uploads its pending attachments.
// Attachments that fail to upload stay pending on the returned entry and are
// reported as a notice; the call itself still succeeds.
func (s *LedgerStore) AddEntry(ctx context.Context, ledgerID string, entry models.Entry) (models.Entry, error) {
	if entry.LedgerID != "" && entry.LedgerID != ledgerID {
		return models.Entry{}, &ValidationError{Field: "ledgerId", Reason: "does not match the target ledger"}
	}
	entry.LedgerID = ledgerID
	entry, err := s.validator.NormalizeEntry(entry, s.catalog)
	if err != nil {
		return models.Entry{}, err
	}
	if _, ok := s.Ledger(ledgerID); !ok {
		return models.Entry{}, ErrUnknownLedger
	}
	if s.inflight.busy(ledgerKey(ledgerID)) {
		return models.Entry{}, ErrBusy
	}

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	pending := entry.Attachments
	entry.Attachments = nil
	created, err := s.entries.Create(ctx, accountID, entry)
	if err != nil {
		log.Printf("[LEDGER_STORE] Add entry to ledger %s failed: %v", ledgerID, err)
		s.audit.LogError("ADD_ENTRY", accountID, ledgerID, err)
		return models.Entry{}, err
	}

	for i := range pending {
		pending[i] = s.prepareAttachment(pending[i], created.ID)
	}
	uploaded, failed := s.uploader.UploadAll(ctx, accountID, created.ID, pending)
	created.Attachments = uploaded
	if len(failed) > 0 {
		s.degraded(accountID, "add entry", created.ID, failed)
	}

	s.mu.Lock()
	if st := s.find(ledgerID); st != nil {
		// a load that ran after the insert may already hold the entry
		if i := st.ledger.EntryIndex(created.ID); i >= 0 {
			st.ledger.Entries[i] = created.Clone()
		} else {
			st.ledger.Entries = append(st.ledger.Entries, created.Clone())
		}
		models.SortEntries(st.ledger.Entries)
		s.touch(st)
	} else {
		log.Printf("[LEDGER_STORE] Ledger %s vanished during add, dropping entry %s", ledgerID, created.ID)
	}
	s.mu.Unlock()

	s.audit.LogMutation("ADD_ENTRY", accountID, ledgerID, created.ID)
	s.publish(ctx, events.EntryAdded, accountID, ledgerID, created.ID)
	return created, nil
}

// UpdateEntry rewrites an entry remotely, retries any attachments still
// pending, then replaces the local copy.
func (s *LedgerStore) UpdateEntry(ctx context.Context, ledgerID string, entry models.Entry) (models.Entry, error) {
	if entry.ID == "" {
		return models.Entry{}, &ValidationError{Field: "id", Reason: "is required"}
	}
	if entry.LedgerID != "" && entry.LedgerID != ledgerID {
		return models.Entry{}, &ValidationError{Field: "ledgerId", Reason: "cannot be changed"}
	}
	entry.LedgerID = ledgerID
	entry, err := s.validator.NormalizeEntry(entry, s.catalog)
	if err != nil {
		return models.Entry{}, err
	}

	release, err := s.inflight.acquire(entryKey(entry.ID))
	if err != nil {
		return models.Entry{}, err
	}
	defer release()

	current, ok := s.entry(ledgerID, entry.ID)
	if !ok {
		return models.Entry{}, ErrUnknownEntry
	}

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return models.Entry{}, err
	}

	attachments := mergeAttachments(current.Attachments, entry.Attachments)
	entry.Attachments = nil
	updated, err := s.entries.Update(ctx, accountID, entry)
	if err != nil {
		log.Printf("[LEDGER_STORE] Update entry %s failed: %v", entry.ID, err)
		s.audit.LogError("UPDATE_ENTRY", accountID, entry.ID, err)
		return models.Entry{}, err
	}

	for i := range attachments {
		attachments[i] = s.prepareAttachment(attachments[i], updated.ID)
	}
	uploaded, failed := s.uploader.UploadAll(ctx, accountID, updated.ID, attachments)
	updated.Attachments = uploaded
	if len(failed) > 0 {
		s.degraded(accountID, "update entry", updated.ID, failed)
	}

	s.mu.Lock()
	if st := s.find(ledgerID); st != nil {
		if i := st.ledger.EntryIndex(updated.ID); i >= 0 {
			st.ledger.Entries[i] = updated.Clone()
			models.SortEntries(st.ledger.Entries)
			s.touch(st)
		} else {
			log.Printf("[LEDGER_STORE] Entry %s vanished during update, dropping result", updated.ID)
		}
	} else {
		log.Printf("[LEDGER_STORE] Ledger %s vanished during update, dropping entry %s", ledgerID, updated.ID)
	}
	s.mu.Unlock()

	s.audit.LogMutation("UPDATE_ENTRY", accountID, ledgerID, updated.ID)
	s.publish(ctx, events.EntryUpdated, accountID, ledgerID, updated.ID)
	return updated, nil
}

// DeleteEntry removes an entry locally first, then remotely. A remote
// failure reloads everything so the entry reappears.
func (s *LedgerStore) DeleteEntry(ctx context.Context, ledgerID, entryID string) error {
	release, err := s.inflight.acquire(entryKey(entryID))
	if err != nil {
		return err
	}
	defer release()

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	if removed := s.removeEntries(ledgerID, []string{entryID}); removed == 0 {
		return ErrUnknownEntry
	}

	err = s.entries.Delete(ctx, accountID, ledgerID, entryID)
	s.settleDeletes([]string{entryID})
	if err != nil {
		return s.resync(ctx, "DELETE_ENTRY", accountID, entryID, err)
	}

	s.audit.LogMutation("DELETE_ENTRY", accountID, ledgerID, entryID)
	s.publish(ctx, events.EntryDeleted, accountID, ledgerID, entryID)
	return nil
}

// BulkDeleteEntries is DeleteEntry for a set of entries in one ledger. An
// empty set does nothing.
func (s *LedgerStore) BulkDeleteEntries(ctx context.Context, ledgerID string, entryIDs []string) error {
	ids := uniqueIDs(entryIDs)
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = entryKey(id)
	}
	release, err := s.inflight.acquire(keys...)
	if err != nil {
		return err
	}
	defer release()

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if _, ok := s.entry(ledgerID, id); !ok {
			return fmt.Errorf("%w: %s", ErrUnknownEntry, id)
		}
	}
	s.removeEntries(ledgerID, ids)

	err = s.entries.DeleteMany(ctx, accountID, ledgerID, ids)
	s.settleDeletes(ids)
	if err != nil {
		return s.resync(ctx, "BULK_DELETE_ENTRIES", accountID, ledgerID, err)
	}

	s.audit.LogMutation("BULK_DELETE_ENTRIES", accountID, ledgerID, strings.Join(ids, ","))
	s.publish(ctx, events.EntriesDeleted, accountID, ledgerID, ids...)
	return nil
}

// RemoveAttachment deletes one attachment of an entry. Pending attachments
// only exist locally and are simply dropped.
func (s *LedgerStore) RemoveAttachment(ctx context.Context, ledgerID, entryID, attachmentID string) error {
	release, err := s.inflight.acquire(entryKey(entryID))
	if err != nil {
		return err
	}
	defer release()

	current, ok := s.entry(ledgerID, entryID)
	if !ok {
		return ErrUnknownEntry
	}
	idx := slices.IndexFunc(current.Attachments, func(a models.Attachment) bool { return a.ID == attachmentID })
	if idx < 0 {
		return ErrUnknownAttachment
	}

	accountID, err := s.accounts.CurrentAccount(ctx)
	if err != nil {
		return err
	}

	if current.Attachments[idx].IsPersisted() {
		if err := s.uploader.Remove(ctx, accountID, entryID, attachmentID); err != nil {
			log.Printf("[LEDGER_STORE] Remove attachment %s failed: %v", attachmentID, err)
			s.audit.LogError("REMOVE_ATTACHMENT", accountID, attachmentID, err)
			return err
		}
	}

	s.mu.Lock()
	if st := s.find(ledgerID); st != nil {
		if i := st.ledger.EntryIndex(entryID); i >= 0 {
			e := &st.ledger.Entries[i]
			e.Attachments = slices.DeleteFunc(e.Attachments, func(a models.Attachment) bool { return a.ID == attachmentID })
			if len(e.Attachments) == 0 {
				e.Attachments = nil
			}
			s.touch(st)
		}
	}
	s.mu.Unlock()

	s.audit.LogMutation("REMOVE_ATTACHMENT", accountID, ledgerID, attachmentID)
	s.publish(ctx, events.AttachmentRemoved, accountID, ledgerID, attachmentID)
	return nil
}

// ReorderEntries applies a manual ordering to a ledger's entries. The order
// is local only; the next LoadAll restores date order.
func (s *LedgerStore) ReorderEntries(ledgerID string, newOrder []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.find(ledgerID)
	if st == nil {
		return ErrUnknownLedger
	}
	reordered, err := permute(st.ledger.Entries, newOrder)
	if err != nil {
		return err
	}
	st.ledger.Entries = reordered
	s.touch(st)
	return nil
}

// MoveEntry swaps an entry with a neighbour: delta -1 moves it up, +1 down.
func (s *LedgerStore) MoveEntry(ledgerID, entryID string, delta int) error {
	if delta != -1 && delta != 1 {
		return &ValidationError{Field: "delta", Reason: "must be -1 or 1"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.find(ledgerID)
	if st == nil {
		return ErrUnknownLedger
	}
	i := st.ledger.EntryIndex(entryID)
	if i < 0 {
		return ErrUnknownEntry
	}
	j := i + delta
	if j < 0 || j >= len(st.ledger.Entries) {
		return &ValidationError{Field: "delta", Reason: "entry is already at the edge"}
	}
	st.ledger.Entries[i], st.ledger.Entries[j] = st.ledger.Entries[j], st.ledger.Entries[i]
	s.touch(st)
	return nil
}

// resync reloads the collection after a failed write and records a notice.
// The original error is returned.
func (s *LedgerStore) resync(ctx context.Context, op, accountID, entityID string, cause error) error {
	log.Printf("[LEDGER_STORE] %s %s failed, reloading: %v", op, entityID, cause)
	s.audit.LogError(op, accountID, entityID, cause)

	loadErr := s.LoadAll(context.WithoutCancel(ctx))
	s.audit.LogResync(op, accountID, loadErr)

	msg := "Could not save the change; restored the latest saved data."
	if loadErr != nil {
		log.Printf("[LEDGER_STORE] Reload after %s failed: %v", op, loadErr)
		msg = "Could not save the change and could not reload; data on screen may be stale."
	}
	s.notices.push(Notice{
		Level:    NoticeError,
		Op:       op,
		EntityID: entityID,
		Message:  msg,
		Err:      cause,
	})
	return cause
}

func (s *LedgerStore) degraded(accountID, op, entryID string, failed []string) {
	pf := &PartialFailure{Op: op, EntryID: entryID, Failed: failed}
	log.Printf("[LEDGER_STORE] %v", pf)
	s.audit.LogDegraded(strings.ToUpper(strings.ReplaceAll(op, " ", "_")), accountID, entryID, failed)
	s.notices.push(Notice{
		Level:    NoticeWarning,
		Op:       op,
		EntityID: entryID,
		Message:  pf.Error(),
		Err:      pf,
	})
}

func (s *LedgerStore) publish(ctx context.Context, kind, accountID, ledgerID string, ids ...string) {
	change := events.Change{
		Kind:       kind,
		AccountID:  accountID,
		LedgerID:   ledgerID,
		EntityIDs:  ids,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), change); err != nil {
		log.Printf("[LEDGER_STORE] Publish %s failed: %v", kind, err)
	}
}

// normalizeLedger prepares a fetched ledger for display: catalog values,
// attachment URLs and date order.
func (s *LedgerStore) normalizeLedger(l models.Ledger) models.Ledger {
	for i := range l.Entries {
		e := &l.Entries[i]
		e.LedgerID = l.ID
		// Stored values outside a strict catalog are kept as they are.
		if c, ok := s.catalog.Category(e.Category); ok {
			e.Category = c
		}
		if m, ok := s.catalog.Mode(e.Mode); ok {
			e.Mode = m
		}
		for j := range e.Attachments {
			e.Attachments[j] = s.uploader.ResolveURL(e.Attachments[j])
		}
		if len(e.Attachments) == 0 {
			e.Attachments = nil
		}
	}
	if len(l.Entries) == 0 {
		l.Entries = nil
	}
	models.SortEntries(l.Entries)
	return l
}

func (s *LedgerStore) prepareAttachment(a models.Attachment, entryID string) models.Attachment {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.EntryID = entryID
	return a
}

// find must be called with s.mu held.
func (s *LedgerStore) find(id string) *ledgerState {
	for _, st := range s.items {
		if st.ledger.ID == id {
			return st
		}
	}
	return nil
}

// touch must be called with s.mu held for writing.
func (s *LedgerStore) touch(st *ledgerState) {
	s.revision++
	st.revision = s.revision
}

func (s *LedgerStore) entry(ledgerID, entryID string) (models.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.find(ledgerID)
	if st == nil {
		return models.Entry{}, false
	}
	i := st.ledger.EntryIndex(entryID)
	if i < 0 {
		return models.Entry{}, false
	}
	return st.ledger.Entries[i].Clone(), true
}

func (s *LedgerStore) removeEntries(ledgerID string, ids []string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.find(ledgerID)
	if st == nil {
		return 0
	}
	before := len(st.ledger.Entries)
	st.ledger.Entries = slices.DeleteFunc(st.ledger.Entries, func(e models.Entry) bool {
		return slices.Contains(ids, e.ID)
	})
	if len(st.ledger.Entries) == 0 {
		st.ledger.Entries = nil
	}
	removed := before - len(st.ledger.Entries)
	if removed > 0 {
		for _, id := range ids {
			s.deleting[id] = struct{}{}
		}
		s.touch(st)
	}
	return removed
}

// settleDeletes ends the optimistic window of removeEntries. The revision
// moves so that a load fetched before the remote delete is refetched.
func (s *LedgerStore) settleDeletes(ids []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revision++
	for _, id := range ids {
		delete(s.deleting, id)
	}
}

// dropDeleting must be called with s.mu held for writing.
func (s *LedgerStore) dropDeleting(st *ledgerState) {
	if len(s.deleting) == 0 {
		return
	}
	st.ledger.Entries = slices.DeleteFunc(st.ledger.Entries, func(e models.Entry) bool {
		_, ok := s.deleting[e.ID]
		return ok
	})
	if len(st.ledger.Entries) == 0 {
		st.ledger.Entries = nil
	}
}

func (s *LedgerStore) nameTaken(name, exceptID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.items {
		if st.ledger.ID != exceptID && st.ledger.SameName(name) {
			return true
		}
	}
	return false
}

func duplicateName(name string) error {
	return &ValidationError{Field: "name", Reason: fmt.Sprintf("a ledger named %q already exists", name)}
}

// mergeAttachments keeps the stored attachments of an entry and appends the
// new ones from an edit. Persisted attachments cannot be replaced by an
// edit, only removed.
func mergeAttachments(current, incoming []models.Attachment) []models.Attachment {
	out := make([]models.Attachment, 0, len(current)+len(incoming))
	for _, a := range current {
		out = append(out, a.Clone())
	}
	for _, a := range incoming {
		if a.IsPersisted() {
			continue
		}
		if a.ID != "" && slices.ContainsFunc(out, func(c models.Attachment) bool { return c.ID == a.ID }) {
			continue
		}
		out = append(out, a.Clone())
	}
	return out
}

func uniqueIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// permute returns entries in the order given by ids, which must name every
// entry exactly once.
func permute(entries []models.Entry, ids []string) ([]models.Entry, error) {
	if len(ids) != len(entries) {
		return nil, &ValidationError{Field: "order", Reason: fmt.Sprintf("expected %d entry ids, got %d", len(entries), len(ids))}
	}
	byID := make(map[string]models.Entry, len(entries))
	for _, e := range entries {
		byID[e.ID] = e
	}
	out := make([]models.Entry, 0, len(ids))
	for _, id := range ids {
		e, ok := byID[id]
		if !ok {
			return nil, &ValidationError{Field: "order", Reason: fmt.Sprintf("unknown or repeated entry %q", id)}
		}
		delete(byID, id)
		out = append(out, e)
	}
	return out, nil
}
