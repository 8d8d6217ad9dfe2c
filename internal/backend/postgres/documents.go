package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/dbx"
	"github.com/google/uuid"
)

// stampedFields builds a jsonb object giving every key of the $4 array the
// database clock in epoch milliseconds.
const stampedFields = `(SELECT COALESCE(jsonb_object_agg(k, (extract(epoch FROM clock_timestamp()) * 1000)::bigint), '{}'::jsonb)
		   FROM jsonb_array_elements_text($4::jsonb) AS k)`

// DocumentRepository stores documents as JSONB rows keyed by (collection, id).
type DocumentRepository struct {
	db dbx.DBTX
}

func NewDocumentRepository(db dbx.DBTX) *DocumentRepository {
	return &DocumentRepository{db: db}
}

func encode(fields backend.Fields) (string, string, error) {
	plain, stamped := backend.SplitTimestamps(fields)
	if stamped == nil {
		stamped = []string{}
	}
	data, err := json.Marshal(plain)
	if err != nil {
		return "", "", err
	}
	keys, err := json.Marshal(stamped)
	if err != nil {
		return "", "", err
	}
	return string(data), string(keys), nil
}

func (r *DocumentRepository) Get(ctx context.Context, ref backend.DocumentRef) (*backend.Document, error) {
	query :=
		`SELECT data FROM documents
		 WHERE collection = $1 AND id = $2
		 `

	var raw []byte
	err := r.db.QueryRowContext(ctx, query, ref.Collection, ref.ID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", ref, backend.ErrNotFound)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	data, err := backend.DecodeFields(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", ref, err)
	}
	return &backend.Document{Ref: ref, Data: data}, nil
}

func (r *DocumentRepository) List(ctx context.Context, collection string) ([]backend.Document, error) {
	query :=
		`SELECT id, data FROM documents
		 WHERE collection = $1
		 ORDER BY id
		 `

	rows, err := r.db.QueryContext(ctx, query, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs []backend.Document
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		data, err := backend.DecodeFields(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", collection, id, err)
		}
		docs = append(docs, backend.Document{
			Ref:  backend.DocumentRef{Collection: collection, ID: id},
			Data: data,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return docs, nil
}

func (r *DocumentRepository) Set(ctx context.Context, ref backend.DocumentRef, fields backend.Fields, merge bool) error {
	data, keys, err := encode(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}

	onConflict := `data = EXCLUDED.data`
	if merge {
		onConflict = `data = documents.data || EXCLUDED.data`
	}

	query :=
		`INSERT INTO documents (collection, id, data, updated_at)
		 VALUES ($1, $2, $3::jsonb || ` + stampedFields + `, now())
		 ON CONFLICT (collection, id) DO UPDATE SET ` + onConflict + `, updated_at = now()
		 `

	if _, err := r.db.ExecContext(ctx, query, ref.Collection, ref.ID, data, keys); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *DocumentRepository) Update(ctx context.Context, ref backend.DocumentRef, fields backend.Fields) error {
	data, keys, err := encode(fields)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ref, err)
	}

	query :=
		`UPDATE documents SET data = data || ($3::jsonb || ` + stampedFields + `), updated_at = now()
		 WHERE collection = $1 AND id = $2
		 `

	res, err := r.db.ExecContext(ctx, query, ref.Collection, ref.ID, data, keys)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", ref, backend.ErrNotFound)
	}
	return nil
}

func (r *DocumentRepository) Add(ctx context.Context, collection string, fields backend.Fields) (backend.DocumentRef, error) {
	ref := backend.DocumentRef{Collection: collection, ID: uuid.NewString()}
	data, keys, err := encode(fields)
	if err != nil {
		return backend.DocumentRef{}, fmt.Errorf("encode %s: %w", ref, err)
	}

	query :=
		`INSERT INTO documents (collection, id, data, updated_at)
		 VALUES ($1, $2, $3::jsonb || ` + stampedFields + `, now())
		 `

	if _, err := r.db.ExecContext(ctx, query, ref.Collection, ref.ID, data, keys); err != nil {
		return backend.DocumentRef{}, fmt.Errorf("db error: %w", err)
	}
	return ref, nil
}
