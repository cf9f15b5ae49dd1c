package handlers

import (
	"context"
	"sync"

	"github.com/ruralpay/cashbook/internal/services"
)

// StoreFactory builds the store of one account.
type StoreFactory func(accountID string) *services.LedgerStore

// StoreRegistry keeps one loaded LedgerStore per account.
type StoreRegistry struct {
	mu       sync.Mutex
	stores   map[string]*services.LedgerStore
	newStore StoreFactory
}

func NewStoreRegistry(factory StoreFactory) *StoreRegistry {
	return &StoreRegistry{
		stores:   make(map[string]*services.LedgerStore),
		newStore: factory,
	}
}

// Store returns the account's store, loading it on first use.
func (r *StoreRegistry) Store(ctx context.Context, accountID string) (*services.LedgerStore, error) {
	r.mu.Lock()
	store, ok := r.stores[accountID]
	if !ok {
		store = r.newStore(accountID)
		r.stores[accountID] = store
	}
	r.mu.Unlock()

	if !store.Loaded() {
		if err := store.LoadAll(ctx); err != nil {
			return nil, err
		}
	}
	return store, nil
}

// Forget drops the cached store of an account, e.g. on sign-out.
func (r *StoreRegistry) Forget(accountID string) {
	r.mu.Lock()
	delete(r.stores, accountID)
	r.mu.Unlock()
}
