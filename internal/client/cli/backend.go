package cli

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/backend/auth"
	"github.com/dmitrijs2005/friendszone/internal/backend/memory"
	"github.com/dmitrijs2005/friendszone/internal/backend/objectstore"
	"github.com/dmitrijs2005/friendszone/internal/backend/postgres"
	"github.com/dmitrijs2005/friendszone/internal/client/config"
	"github.com/dmitrijs2005/friendszone/internal/logging"
)

var ErrUnknownDriver = errors.New("unknown driver")

// Test seams for the drivers that need a live server.
var (
	openPostgres  = postgres.Open
	migrate       = postgres.RunMigrations
	newS3Store    = objectstore.NewS3Store
	newMinioStore = objectstore.NewMinioStore
)

// buildBackend assembles identity, documents and blobs from cfg. The
// returned Backend's Close releases everything that was opened.
func buildBackend(ctx context.Context, cfg *config.Config, log logging.Logger) (*backend.Backend, error) {
	var closers []func() error
	closeAll := func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			errs = append(errs, closers[i]())
		}
		return errors.Join(errs...)
	}

	var (
		accounts backend.AccountStore
		docs     backend.Documents
	)
	switch cfg.Backend {
	case config.BackendMemory, "":
		accounts = memory.NewAccounts()
		docs = memory.NewStore()

	case config.BackendPostgres:
		db, err := openPostgres(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		closers = append(closers, db.Close)
		if err := migrate(ctx, db); err != nil {
			_ = closeAll()
			return nil, fmt.Errorf("migrations: %w", err)
		}
		accounts, docs = postgresStores(ctx, db, log, &closers)

	default:
		return nil, fmt.Errorf("backend %q: %w", cfg.Backend, ErrUnknownDriver)
	}

	blobs, err := buildBlobs(ctx, cfg)
	if err != nil {
		_ = closeAll()
		return nil, err
	}

	identity := auth.NewProvider(accounts, auth.Options{
		SecretKey:     []byte(cfg.TokenSecret),
		TokenValidity: cfg.TokenValidity,
		SessionFile:   cfg.SessionFile,
	}, log.With("component", "auth"))

	log.Info(ctx, "backend ready", "documents", cfg.Backend, "blobs", cfg.BlobStore)

	return &backend.Backend{
		Identity:  identity,
		Documents: docs,
		Blobs:     blobs,
		Close:     closeAll,
	}, nil
}

func postgresStores(ctx context.Context, db *sql.DB, log logging.Logger, closers *[]func() error) (backend.AccountStore, backend.Documents) {
	m := postgres.Manager{}
	store := postgres.NewStore(db, log.With("component", "documents"))
	store.Start(ctx)
	*closers = append(*closers, store.Close)
	return m.Accounts(db), store
}

func buildBlobs(ctx context.Context, cfg *config.Config) (backend.Blobs, error) {
	switch cfg.BlobStore {
	case config.BlobsMemory, "":
		return memory.NewBlobs(), nil

	case config.BlobsS3:
		s, err := newS3Store(ctx, objectstore.S3Options{
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			PublicURL: cfg.BlobPublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("s3: %w", err)
		}
		return s, nil

	case config.BlobsMinio:
		s, err := newMinioStore(ctx, objectstore.MinioOptions{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccess,
			SecretKey: cfg.MinioSecret,
			UseSSL:    cfg.MinioUseSSL,
			Bucket:    cfg.MinioBucket,
			Region:    cfg.S3Region,
			PublicURL: cfg.BlobPublicURL,
		})
		if err != nil {
			return nil, fmt.Errorf("minio: %w", err)
		}
		return s, nil
	}
	return nil, fmt.Errorf("blob store %q: %w", cfg.BlobStore, ErrUnknownDriver)
}
