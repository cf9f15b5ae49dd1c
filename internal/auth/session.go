// Package auth supplies the signed-in account to repository calls.
package auth

import (
	"context"
	"errors"
	"sync"
)

// ErrNoAccount means no account is signed in; writes cannot proceed.
var ErrNoAccount = errors.New("no authenticated account")

// AccountProvider returns the account every remote call is scoped to.
type AccountProvider interface {
	CurrentAccount(ctx context.Context) (string, error)
}

// Session holds the account of the signed-in user.
type Session struct {
	mu        sync.RWMutex
	accountID string
}

func NewSession(accountID string) *Session {
	return &Session{accountID: accountID}
}

func (s *Session) CurrentAccount(_ context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.accountID == "" {
		return "", ErrNoAccount
	}
	return s.accountID, nil
}

func (s *Session) SignIn(accountID string) {
	s.mu.Lock()
	s.accountID = accountID
	s.mu.Unlock()
}

func (s *Session) SignOut() {
	s.mu.Lock()
	s.accountID = ""
	s.mu.Unlock()
}

type contextKey string

const accountIDKey contextKey = "accountID"

// WithAccount stores the authenticated account id on ctx.
func WithAccount(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, accountIDKey, accountID)
}

// AccountFromContext returns the account id placed by WithAccount.
func AccountFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(accountIDKey).(string)
	return id, ok && id != ""
}

// ContextAccount reads the account from the request context.
type ContextAccount struct{}

func (ContextAccount) CurrentAccount(ctx context.Context) (string, error) {
	if id, ok := AccountFromContext(ctx); ok {
		return id, nil
	}
	return "", ErrNoAccount
}
