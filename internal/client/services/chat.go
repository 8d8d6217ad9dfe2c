package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/logging"
)

// Options configure a Chat.
type Options struct {
	AppID     string
	GatedRoom string
	InviteURL string
}

// Chat wires the services together over one backend handle.
type Chat struct {
	Locations     Locations
	Session       *Session
	Directory     *Directory
	Feed          *Feed
	Conversations *Conversations
	Composer      *Composer
	Profile       *ProfileEditor
	Block         *Block
	Gate          *Gate

	log logging.Logger

	mu       sync.Mutex
	signedIn string
	unsub    backend.Unsubscribe
}

func NewChat(b *backend.Backend, opts Options, log logging.Logger) *Chat {
	loc := NewLocations(opts.AppID, opts.GatedRoom)

	session := NewSession(b.Identity, b.Documents, loc, log.With("component", "session"))
	feed := NewFeed(b.Documents, log.With("component", "feed"))
	gate := NewGate(b.Documents, loc, log.With("component", "gate"))
	conv := NewConversations(session, loc, feed, gate, log.With("component", "conversations"))

	return &Chat{
		Locations:     loc,
		Session:       session,
		Directory:     NewDirectory(b.Documents, loc, log.With("component", "directory")),
		Feed:          feed,
		Conversations: conv,
		Composer:      NewComposer(session, conv, b.Documents, b.Blobs, log.With("component", "composer")),
		Profile:       NewProfileEditor(session, b.Documents, b.Blobs, loc, opts.InviteURL, log.With("component", "profile")),
		Block:         NewBlock(session, b.Documents, loc, log.With("component", "block")),
		Gate:          gate,
		log:           log,
	}
}

// Start follows the session: signing in starts the directory, signing out
// tears everything down and returns to the home page.
func (c *Chat) Start(ctx context.Context) {
	unsub := c.Session.Subscribe(func(st SessionState) {
		c.onSession(ctx, st)
	})
	c.mu.Lock()
	c.unsub = unsub
	c.mu.Unlock()

	c.Session.Start(ctx)
}

func (c *Chat) onSession(ctx context.Context, st SessionState) {
	uid := ""
	if st.User != nil {
		uid = st.User.ID
	}

	c.mu.Lock()
	prev := c.signedIn
	c.signedIn = uid
	c.mu.Unlock()
	if prev == uid {
		return
	}

	if prev != "" {
		c.Conversations.Home(ctx)
		c.Composer.Clear()
		c.Directory.Stop()
	}
	if uid != "" {
		if err := c.Directory.Start(ctx); err != nil {
			c.log.Error(ctx, "start directory", "error", err)
		}
	}
}

func (c *Chat) Stop(ctx context.Context) {
	c.mu.Lock()
	unsub := c.unsub
	c.unsub = nil
	c.mu.Unlock()
	if unsub != nil {
		unsub()
	}
	c.Session.Stop()
	c.Conversations.Home(ctx)
	c.Directory.Stop()
}
