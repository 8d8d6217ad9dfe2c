// Package postgres is the PostgreSQL backend driver: accounts and JSONB
// documents in two tables, with live subscriptions fed by LISTEN/NOTIFY.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/friendszone/internal/backend/postgres/migrations"
	"github.com/dmitrijs2005/friendszone/internal/dbx"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// NotifyChannel is the channel the documents trigger notifies on.
const NotifyChannel = "document_changes"

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

var sqlOpen = sql.Open

// Open connects to dsn through the pgx stdlib driver and checks the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

// RunMigrations applies the embedded migrations.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return err
	}
	return nil
}

// Manager vends repositories bound to a DBTX.
type Manager struct{}

func (Manager) Accounts(db dbx.DBTX) *AccountRepository {
	return NewAccountRepository(db)
}

func (Manager) Documents(db dbx.DBTX) *DocumentRepository {
	return NewDocumentRepository(db)
}
