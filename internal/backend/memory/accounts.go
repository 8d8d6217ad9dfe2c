package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/google/uuid"
)

// Accounts implements backend.AccountStore.
type Accounts struct {
	mu      sync.RWMutex
	byID    map[string]*backend.Account
	byEmail map[string]*backend.Account
}

func NewAccounts() *Accounts {
	return &Accounts{
		byID:    map[string]*backend.Account{},
		byEmail: map[string]*backend.Account{},
	}
}

func (a *Accounts) CreateAccount(ctx context.Context, email, passwordHash string) (*backend.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.byEmail[email]; ok {
		return nil, fmt.Errorf("%s: %w", email, backend.ErrEmailInUse)
	}
	acc := &backend.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	a.byID[acc.ID] = acc
	a.byEmail[email] = acc
	c := *acc
	return &c, nil
}

func (a *Accounts) AccountByEmail(ctx context.Context, email string) (*backend.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acc, ok := a.byEmail[email]
	if !ok {
		return nil, backend.ErrNotFound
	}
	c := *acc
	return &c, nil
}

func (a *Accounts) AccountByID(ctx context.Context, id string) (*backend.Account, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	acc, ok := a.byID[id]
	if !ok {
		return nil, backend.ErrNotFound
	}
	c := *acc
	return &c, nil
}
