package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// AccountRepository implements backend.AccountStore.
type AccountRepository struct {
	db dbx.DBTX
}

var _ backend.AccountStore = (*AccountRepository)(nil)

func NewAccountRepository(db dbx.DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) CreateAccount(ctx context.Context, email, passwordHash string) (*backend.Account, error) {
	query :=
		`INSERT INTO accounts (id, email, password_hash)
		 VALUES ($1, $2, $3)
		 RETURNING created_at
		 `

	acc := &backend.Account{ID: uuid.NewString(), Email: email, PasswordHash: passwordHash}
	err := r.db.QueryRowContext(ctx, query, acc.ID, email, passwordHash).Scan(&acc.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%s: %w", email, backend.ErrEmailInUse)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return acc, nil
}

func (r *AccountRepository) AccountByEmail(ctx context.Context, email string) (*backend.Account, error) {
	query :=
		`SELECT id, email, password_hash, created_at FROM accounts
		 WHERE email = $1
		 `
	return r.scanOne(ctx, query, email)
}

func (r *AccountRepository) AccountByID(ctx context.Context, id string) (*backend.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, backend.ErrNotFound
	}
	query :=
		`SELECT id, email, password_hash, created_at FROM accounts
		 WHERE id = $1
		 `
	return r.scanOne(ctx, query, id)
}

func (r *AccountRepository) scanOne(ctx context.Context, query string, arg any) (*backend.Account, error) {
	acc := &backend.Account{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&acc.ID, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, backend.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return acc, nil
}
