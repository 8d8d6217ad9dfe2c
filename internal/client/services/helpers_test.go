package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/backend/auth"
	"github.com/dmitrijs2005/friendszone/internal/backend/memory"
	"github.com/dmitrijs2005/friendszone/internal/cryptox"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/stretchr/testify/require"
)

type write struct {
	op   string
	path string
}

// recordingDocs counts writes going through to the wrapped store.
type recordingDocs struct {
	backend.Documents

	mu     sync.Mutex
	writes []write
}

func (r *recordingDocs) record(op, path string) {
	r.mu.Lock()
	r.writes = append(r.writes, write{op: op, path: path})
	r.mu.Unlock()
}

func (r *recordingDocs) Set(ctx context.Context, ref backend.DocumentRef, f backend.Fields, merge bool) error {
	r.record("set", ref.Path())
	return r.Documents.Set(ctx, ref, f, merge)
}

func (r *recordingDocs) Update(ctx context.Context, ref backend.DocumentRef, f backend.Fields) error {
	r.record("update", ref.Path())
	return r.Documents.Update(ctx, ref, f)
}

func (r *recordingDocs) Add(ctx context.Context, collection string, f backend.Fields) (backend.DocumentRef, error) {
	r.record("add", collection)
	return r.Documents.Add(ctx, collection, f)
}

func (r *recordingDocs) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.writes)
}

func (r *recordingDocs) reset() {
	r.mu.Lock()
	r.writes = nil
	r.mu.Unlock()
}

// env is one shared backend; every client gets its own identity provider.
type env struct {
	store    *memory.Store
	accounts *memory.Accounts
	blobs    *memory.Blobs
	docs     *recordingDocs
}

func newEnv() *env {
	store := memory.NewStore()
	return &env{
		store:    store,
		accounts: memory.NewAccounts(),
		blobs:    memory.NewBlobs(),
		docs:     &recordingDocs{Documents: store},
	}
}

func (e *env) client(t *testing.T) *Chat {
	t.Helper()
	log := logging.NewDiscardLogger()
	p := auth.NewProvider(e.accounts, auth.Options{
		SecretKey:     []byte("test-secret"),
		TokenValidity: time.Hour,
	}, log)
	b := &backend.Backend{Identity: p, Documents: e.docs, Blobs: e.blobs}

	c := NewChat(b, Options{InviteURL: "https://friendszone.test/invite"}, log)
	ctx := context.Background()
	c.Start(ctx)
	t.Cleanup(func() { c.Stop(ctx) })
	return c
}

// signedUp returns a client signed in as a fresh account named after email.
func (e *env) signedUp(t *testing.T, email string) (*Chat, string) {
	t.Helper()
	c := e.client(t)
	require.NoError(t, c.Session.SignUp(context.Background(), email, "password123"))
	uid := c.Session.UserID()
	require.NotEmpty(t, uid)
	return c, uid
}

func hasPrefix(ws []write, op, prefix string) bool {
	for _, w := range ws {
		if w.op == op && strings.HasPrefix(w.path, prefix) {
			return true
		}
	}
	return false
}

func mustHash(t *testing.T, pw string) string {
	t.Helper()
	h, err := cryptox.HashPassword(pw)
	require.NoError(t, err)
	return h
}

func discard() logging.Logger {
	return logging.NewDiscardLogger()
}
