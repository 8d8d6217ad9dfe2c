package backend

import (
	"context"
	"time"
)

// Account is a stored credential record.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// AccountStore persists accounts for the identity provider.
type AccountStore interface {
	// CreateAccount returns ErrEmailInUse when the email is taken.
	CreateAccount(ctx context.Context, email, passwordHash string) (*Account, error)
	// AccountByEmail and AccountByID return ErrNotFound when absent.
	AccountByEmail(ctx context.Context, email string) (*Account, error)
	AccountByID(ctx context.Context, id string) (*Account, error)
}
