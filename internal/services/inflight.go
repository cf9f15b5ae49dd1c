package services

import "sync"

// inflight tracks ids with a pending remote mutation so a second mutation of
// the same id is refused instead of racing the first.
type inflight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{ids: make(map[string]struct{})}
}

// acquire marks every key busy, or none of them if any already is.
func (f *inflight) acquire(keys ...string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, k := range keys {
		if _, busy := f.ids[k]; busy {
			return nil, ErrBusy
		}
	}
	for _, k := range keys {
		f.ids[k] = struct{}{}
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			for _, k := range keys {
				delete(f.ids, k)
			}
			f.mu.Unlock()
		})
	}, nil
}

func (f *inflight) busy(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.ids[key]
	return ok
}

func ledgerKey(id string) string { return "ledger:" + id }
func entryKey(id string) string  { return "entry:" + id }
func nameKey(name string) string { return "ledger-name:" + name }
