package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/common"
	"github.com/dmitrijs2005/friendszone/internal/logging"
)

// Page is the screen the user is on.
type Page int

const (
	PageHome Page = iota
	PagePublic
	PagePrivate
	PageGated
	PageSettings
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PagePublic:
		return "public"
	case PagePrivate:
		return "private"
	case PageGated:
		return "gated"
	case PageSettings:
		return "settings"
	}
	return "unknown"
}

// View is a snapshot of the navigation state.
type View struct {
	Page     Page
	PeerID   string // private page only; empty means no peer selected
	Unlocked bool   // gated page only
}

// Conversation maps the view to a conversation. ok is false on pages that
// are not conversations.
func (v View) Conversation() (models.Conversation, bool) {
	switch v.Page {
	case PagePublic:
		return models.Conversation{Kind: models.ConversationPublic}, true
	case PagePrivate:
		return models.Conversation{Kind: models.ConversationPrivate, PeerID: v.PeerID}, true
	case PageGated:
		return models.Conversation{Kind: models.ConversationGated}, true
	}
	return models.Conversation{}, false
}

// Conversations owns page navigation and keeps the feed pointed at the
// active conversation.
type Conversations struct {
	session *Session
	loc     Locations
	feed    *Feed
	gate    *Gate
	log     logging.Logger

	// transMu keeps view and feed target changing together.
	transMu sync.Mutex

	mu        sync.Mutex
	view      View
	observers map[int]func(View)
	nextID    int
}

func NewConversations(session *Session, loc Locations, feed *Feed, gate *Gate, log logging.Logger) *Conversations {
	return &Conversations{
		session:   session,
		loc:       loc,
		feed:      feed,
		gate:      gate,
		log:       log,
		observers: map[int]func(View){},
	}
}

func (c *Conversations) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

func (c *Conversations) Home(ctx context.Context)     { c.transition(ctx, View{Page: PageHome}) }
func (c *Conversations) Settings(ctx context.Context) { c.transition(ctx, View{Page: PageSettings}) }
func (c *Conversations) Public(ctx context.Context)   { c.transition(ctx, View{Page: PagePublic}) }

// Private opens the private page with peerID selected. An empty peerID
// shows the page with no conversation.
func (c *Conversations) Private(ctx context.Context, peerID string) {
	c.transition(ctx, View{Page: PagePrivate, PeerID: peerID})
}

// Gated opens the gated room. It always starts locked.
func (c *Conversations) Gated(ctx context.Context) {
	c.transition(ctx, View{Page: PageGated})
}

// Unlock checks password against the shared secret and, when it matches,
// opens the gated room until the user navigates away.
func (c *Conversations) Unlock(ctx context.Context, password string) error {
	if c.View().Page != PageGated {
		return ErrNotInConversation
	}
	ok, err := c.gate.Check(ctx, password)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrInvalidPassword
	}

	// navigated away while checking
	stillGated := func(cur View) bool { return cur.Page == PageGated }
	if !c.apply(ctx, View{Page: PageGated, Unlocked: true}, stillGated) {
		return ErrNotInConversation
	}
	return nil
}

// Locator resolves the active conversation. A locked gated room and a
// private page without a peer have none.
func (c *Conversations) Locator() (Locator, bool) {
	return c.resolve(c.View())
}

func (c *Conversations) resolve(v View) (Locator, bool) {
	conv, ok := v.Conversation()
	if !ok {
		return Locator{}, false
	}
	if v.Page == PageGated && !v.Unlocked {
		return Locator{}, false
	}
	selfID := c.session.UserID()
	if selfID == "" {
		return Locator{}, false
	}
	return c.loc.Resolve(conv, selfID)
}

func (c *Conversations) transition(ctx context.Context, v View) {
	c.apply(ctx, v, nil)
}

// apply moves to v when cond, if set, holds for the current view. Observers
// run after the feed is retargeted and may navigate again.
func (c *Conversations) apply(ctx context.Context, v View, cond func(View) bool) bool {
	c.transMu.Lock()
	c.mu.Lock()
	if cond != nil && !cond(c.view) {
		c.mu.Unlock()
		c.transMu.Unlock()
		return false
	}
	c.view = v
	c.mu.Unlock()

	if loc, ok := c.resolve(v); ok {
		c.feed.Retarget(ctx, &loc)
	} else {
		c.feed.Retarget(ctx, nil)
	}
	c.transMu.Unlock()

	c.log.Debug(ctx, "navigated", "page", v.Page.String(), "peer", v.PeerID, "unlocked", v.Unlocked)
	c.notify(v)
	return true
}

func (c *Conversations) OnChange(fn func(View)) backend.Unsubscribe {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

func (c *Conversations) notify(v View) {
	c.mu.Lock()
	fns := make([]func(View), 0, len(c.observers))
	for _, fn := range c.observers {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(v)
	}
}
