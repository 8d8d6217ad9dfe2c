// Package backend defines the collaborator contracts the chat client talks
// to: an identity provider, a document database with live subscriptions and
// a blob store. Concrete drivers live in the sub-packages.
package backend

import (
	"context"
	"io"
)

// User is the signed-in identity as seen by the client.
type User struct {
	ID    string
	Email string
}

// Unsubscribe detaches a listener or live subscription. It is safe to call
// more than once.
type Unsubscribe func()

// Identity authenticates users and reports sign-in state changes.
type Identity interface {
	SignUp(ctx context.Context, email, password string) (*User, error)
	SignIn(ctx context.Context, email, password string) (*User, error)
	SignOut(ctx context.Context) error
	// Restore resumes a persisted session. A nil user without error means
	// there was nothing to restore.
	Restore(ctx context.Context) (*User, error)
	CurrentUser() *User
	// OnAuthStateChanged registers fn and immediately calls it with the
	// current state. fn receives nil on sign-out.
	OnAuthStateChanged(fn func(*User)) Unsubscribe
}

// Documents is a document database addressed by collection paths.
type Documents interface {
	// Get returns ErrNotFound when the document does not exist.
	Get(ctx context.Context, ref DocumentRef) (*Document, error)
	// Set writes fields. With merge the top-level keys are merged into the
	// existing document, otherwise the document is replaced.
	Set(ctx context.Context, ref DocumentRef, fields Fields, merge bool) error
	// Update merges fields into an existing document. ErrNotFound otherwise.
	Update(ctx context.Context, ref DocumentRef, fields Fields) error
	// Add creates a document with a generated id.
	Add(ctx context.Context, collection string, fields Fields) (DocumentRef, error)

	// WatchCollection delivers the full collection snapshot before it
	// returns and again after every change.
	WatchCollection(ctx context.Context, collection string, onSnapshot func([]Document), onError func(error)) (Unsubscribe, error)
	// WatchDocument delivers the document, or nil when it does not exist,
	// before it returns and again after every change.
	WatchDocument(ctx context.Context, ref DocumentRef, onSnapshot func(*Document), onError func(error)) (Unsubscribe, error)
}

// Blobs stores binary objects and hands out download locators.
type Blobs interface {
	Upload(ctx context.Context, path string, r io.Reader, size int64, contentType string) error
	DownloadURL(ctx context.Context, path string) (string, error)
}

// Backend bundles the three collaborators handed to the client.
type Backend struct {
	Identity  Identity
	Documents Documents
	Blobs     Blobs

	// Close releases driver resources. May be nil.
	Close func() error
}

// Shutdown calls Close when set.
func (b *Backend) Shutdown() error {
	if b == nil || b.Close == nil {
		return nil
	}
	return b.Close()
}
