package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	qGetDoc   = `(?s)^SELECT\s+data\s+FROM\s+documents\s+WHERE\s+collection\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`
	qListDocs = `(?s)^SELECT\s+id,\s*data\s+FROM\s+documents\s+WHERE\s+collection\s*=\s*\$1\s+ORDER\s+BY\s+id\s*$`
	qSetDoc   = `(?s)^INSERT\s+INTO\s+documents.*jsonb_array_elements_text\(\$4::jsonb\).*ON\s+CONFLICT\s+\(collection,\s*id\)\s+DO\s+UPDATE\s+SET\s+data\s*=\s*EXCLUDED\.data,`
	qMergeDoc = `(?s)^INSERT\s+INTO\s+documents.*ON\s+CONFLICT\s+\(collection,\s*id\)\s+DO\s+UPDATE\s+SET\s+data\s*=\s*documents\.data\s*\|\|\s*EXCLUDED\.data,`
	qUpdDoc   = `(?s)^UPDATE\s+documents\s+SET\s+data\s*=\s*data\s*\|\|.*WHERE\s+collection\s*=\s*\$1\s+AND\s+id\s*=\s*\$2\s*$`
	qAddDoc   = `(?s)^INSERT\s+INTO\s+documents.*now\(\)\)\s*$`
)

func newDocsWithMock(t *testing.T) (*DocumentRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewDocumentRepository(db), mock, db
}

var settingsRef = backend.Doc("artifacts/app/public/data/public-chat-settings/settings")

func TestDocuments_Get(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qGetDoc).WithArgs(settingsRef.Collection, "settings").
		WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"backgroundUrl":"x"}`)))
	mock.ExpectQuery(qGetDoc).WithArgs(settingsRef.Collection, "settings").
		WillReturnError(sql.ErrNoRows)

	d, err := repo.Get(context.Background(), settingsRef)
	require.NoError(t, err)
	assert.Equal(t, "x", d.Data["backgroundUrl"])
	assert.Equal(t, settingsRef, d.Ref)

	_, err = repo.Get(context.Background(), settingsRef)
	require.ErrorIs(t, err, backend.ErrNotFound)
}

func TestDocuments_Get_BadJSON(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qGetDoc).WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{`)))

	_, err := repo.Get(context.Background(), settingsRef)
	require.ErrorContains(t, err, "decode")
}

func TestDocuments_List(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qListDocs).WithArgs("msgs").
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("a", []byte(`{"timestamp":2}`)).
			AddRow("b", []byte(`{"timestamp":1}`)))

	docs, err := repo.List(context.Background(), "msgs")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a", docs[0].Ref.ID)
	assert.Equal(t, json.Number("1"), docs[1].Data["timestamp"])
}

func TestDocuments_List_Errors(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectQuery(qListDocs).WillReturnError(errors.New("down"))
	_, err := repo.List(context.Background(), "msgs")
	require.ErrorContains(t, err, "db error: down")

	mock.ExpectQuery(qListDocs).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow("a", []byte(`nope`)))
	_, err = repo.List(context.Background(), "msgs")
	require.ErrorContains(t, err, "decode msgs/a")
}

func TestDocuments_Set(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectExec(qSetDoc).
		WithArgs("users", "u1", `{"displayName":"ann"}`, `["createdAt"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qMergeDoc).
		WithArgs(settingsRef.Collection, "settings", `{"backgroundUrl":""}`, `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ctx := context.Background()
	require.NoError(t, repo.Set(ctx, backend.Doc("users/u1"),
		backend.Fields{"displayName": "ann", "createdAt": backend.ServerTimestamp}, false))
	require.NoError(t, repo.Set(ctx, settingsRef, backend.Fields{"backgroundUrl": ""}, true))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDocuments_Set_Unencodable(t *testing.T) {
	repo, _, db := newDocsWithMock(t)
	defer db.Close()

	err := repo.Set(context.Background(), settingsRef, backend.Fields{"bad": make(chan int)}, false)
	require.ErrorContains(t, err, "encode")
}

func TestDocuments_Update(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectExec(qUpdDoc).
		WithArgs("users", "u1", `{"blockedUsers":["u2"]}`, `[]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qUpdDoc).
		WithArgs("users", "ghost", `{"bio":"x"}`, `[]`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(qUpdDoc).WillReturnError(errors.New("down"))

	ctx := context.Background()
	require.NoError(t, repo.Update(ctx, backend.Doc("users/u1"), backend.Fields{"blockedUsers": []string{"u2"}}))
	require.ErrorIs(t, repo.Update(ctx, backend.Doc("users/ghost"), backend.Fields{"bio": "x"}), backend.ErrNotFound)
	require.ErrorContains(t, repo.Update(ctx, backend.Doc("users/u1"), backend.Fields{}), "db error")
}

func TestDocuments_Add(t *testing.T) {
	repo, mock, db := newDocsWithMock(t)
	defer db.Close()

	mock.ExpectExec(qAddDoc).
		WithArgs("msgs", sqlmock.AnyArg(), `{"content":"hi","senderId":"u1","type":"text"}`, `["timestamp"]`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(qAddDoc).WillReturnError(errors.New("down"))

	ctx := context.Background()
	ref, err := repo.Add(ctx, "msgs", backend.Fields{
		"senderId": "u1", "type": "text", "content": "hi", "timestamp": backend.ServerTimestamp,
	})
	require.NoError(t, err)
	assert.Equal(t, "msgs", ref.Collection)
	assert.NotEmpty(t, ref.ID)

	_, err = repo.Add(ctx, "msgs", backend.Fields{})
	require.Error(t, err)
}
