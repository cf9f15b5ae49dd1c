package models

import (
	"sort"
	"strings"
	"time"
)

// Ledger is a named container of entries owned by one account.
//
// Entries are kept in ascending DateTime order.
type Ledger struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Entries   []Entry   `json:"entries"`
}

// Clone returns a deep copy that shares no slices with l.
func (l Ledger) Clone() Ledger {
	out := l
	out.Entries = make([]Entry, len(l.Entries))
	for i, e := range l.Entries {
		out.Entries[i] = e.Clone()
	}
	return out
}

// SameName reports whether name matches the ledger name ignoring case and
// surrounding whitespace.
func (l Ledger) SameName(name string) bool {
	return strings.EqualFold(strings.TrimSpace(l.Name), strings.TrimSpace(name))
}

// EntryIndex returns the position of the entry with the given id, or -1.
func (l Ledger) EntryIndex(entryID string) int {
	for i := range l.Entries {
		if l.Entries[i].ID == entryID {
			return i
		}
	}
	return -1
}

// SortEntries orders entries by DateTime, breaking ties by ID so repeated
// sorts of the same set always agree.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if !a.DateTime.Equal(b.DateTime) {
			return a.DateTime.Before(b.DateTime)
		}
		return a.ID < b.ID
	})
}

// EntriesSorted reports whether entries are in SortEntries order.
func EntriesSorted(entries []Entry) bool {
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		if cur.DateTime.Before(prev.DateTime) {
			return false
		}
		if cur.DateTime.Equal(prev.DateTime) && cur.ID < prev.ID {
			return false
		}
	}
	return true
}
