package services

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
)

var ErrNotInConversation = errors.New("not in a conversation")

// FeedEvent describes one applied update.
type FeedEvent struct {
	// Added counts messages not present in the previous snapshot.
	Added int
	// Initial marks the first messages snapshot after a retarget.
	Initial bool
	// Reset is set when the feed was retargeted.
	Reset bool
}

// Feed holds the messages and background of the active conversation.
//
// Retarget cancels both subscriptions of the previous conversation and
// registers new ones under a fresh generation. Callbacks carrying an older
// generation are dropped, so a late snapshot of a conversation the user
// already left is never shown.
type Feed struct {
	docs backend.Documents
	log  logging.Logger

	mu            sync.Mutex
	gen           uint64
	target        *Locator
	unsubMessages backend.Unsubscribe
	unsubSettings backend.Unsubscribe
	messages      []models.Message
	primed        bool
	background    string
	observers     map[int]func(FeedEvent)
	nextID        int
}

func NewFeed(docs backend.Documents, log logging.Logger) *Feed {
	return &Feed{
		docs:      docs,
		log:       log,
		observers: map[int]func(FeedEvent){},
	}
}

// Retarget switches the feed to loc. A nil loc leaves the feed empty.
func (f *Feed) Retarget(ctx context.Context, loc *Locator) {
	f.mu.Lock()
	f.gen++
	gen := f.gen
	oldMessages, oldSettings := f.unsubMessages, f.unsubSettings
	f.unsubMessages, f.unsubSettings = nil, nil
	f.messages = nil
	f.primed = false
	f.background = ""
	if loc != nil {
		l := *loc
		f.target = &l
	} else {
		f.target = nil
	}
	f.mu.Unlock()

	if oldMessages != nil {
		oldMessages()
	}
	if oldSettings != nil {
		oldSettings()
	}
	f.notify(FeedEvent{Reset: true})

	if loc == nil {
		return
	}
	target := *loc

	unsubMessages, err := f.docs.WatchCollection(ctx, target.Messages,
		func(docs []backend.Document) { f.applyMessages(ctx, gen, docs) },
		func(err error) { f.subscriptionError(ctx, target.Messages, err) })
	if err != nil {
		f.subscriptionError(ctx, target.Messages, err)
	}

	unsubSettings, err := f.docs.WatchDocument(ctx, target.Settings,
		func(d *backend.Document) { f.applySettings(ctx, gen, target, d) },
		func(err error) { f.subscriptionError(ctx, target.Settings.Path(), err) })
	if err != nil {
		f.subscriptionError(ctx, target.Settings.Path(), err)
	}

	f.mu.Lock()
	if f.gen != gen {
		// superseded while registering
		f.mu.Unlock()
		release(unsubMessages)
		release(unsubSettings)
		return
	}
	f.unsubMessages, f.unsubSettings = unsubMessages, unsubSettings
	f.mu.Unlock()
}

func release(u backend.Unsubscribe) {
	if u != nil {
		u()
	}
}

func (f *Feed) subscriptionError(ctx context.Context, path string, err error) {
	telemetry.BackendError(telemetry.OpSubscribe)
	f.log.Error(ctx, "feed subscription", "path", path, "error", err)
}

func (f *Feed) applyMessages(ctx context.Context, gen uint64, docs []backend.Document) {
	msgs := make([]models.Message, 0, len(docs))
	for _, d := range docs {
		var m models.Message
		if err := d.DataTo(&m); err != nil {
			f.log.Warn(ctx, "skipping undecodable message", "id", d.Ref.ID, "error", err)
			continue
		}
		m.ID = d.Ref.ID
		msgs = append(msgs, m)
	}
	models.SortByTimestamp(msgs)

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return
	}
	seen := make(map[string]struct{}, len(f.messages))
	for _, m := range f.messages {
		seen[m.ID] = struct{}{}
	}
	added := 0
	for _, m := range msgs {
		if _, ok := seen[m.ID]; !ok {
			added++
		}
	}
	initial := !f.primed
	f.primed = true
	f.messages = msgs
	f.mu.Unlock()

	telemetry.SnapshotApplied("messages")
	f.notify(FeedEvent{Added: added, Initial: initial})
}

func (f *Feed) applySettings(ctx context.Context, gen uint64, target Locator, d *backend.Document) {
	background := ""
	if d != nil {
		var s models.ConversationSettings
		if err := d.DataTo(&s); err != nil {
			f.log.Warn(ctx, "undecodable conversation settings", "path", target.Settings.Path(), "error", err)
		}
		background = s.BackgroundURL
	}

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return
	}
	f.background = background
	f.mu.Unlock()

	telemetry.SnapshotApplied("settings")
	f.notify(FeedEvent{})

	if d == nil {
		err := f.docs.Set(ctx, target.Settings, backend.Fields{"backgroundUrl": ""}, true)
		if err != nil {
			telemetry.BackendError(telemetry.OpWrite)
			f.log.Error(ctx, "create conversation settings", "path", target.Settings.Path(), "error", err)
		}
	}
}

// SetBackground stores url as the conversation background. Empty clears it.
func (f *Feed) SetBackground(ctx context.Context, url string) error {
	f.mu.Lock()
	gen := f.gen
	target := f.target
	f.mu.Unlock()
	if target == nil {
		return ErrNotInConversation
	}

	if err := f.docs.Set(ctx, target.Settings, backend.Fields{"backgroundUrl": url}, true); err != nil {
		telemetry.BackendError(telemetry.OpWrite)
		f.log.Error(ctx, "update background", "path", target.Settings.Path(), "error", err)
		return err
	}

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return nil
	}
	f.background = url
	f.mu.Unlock()
	f.notify(FeedEvent{})
	return nil
}

// Target returns the active locator, if any.
func (f *Feed) Target() (Locator, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.target == nil {
		return Locator{}, false
	}
	return *f.target, true
}

// Messages returns the ordered messages of the active conversation.
func (f *Feed) Messages() []models.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Message(nil), f.messages...)
}

// Visible returns the messages viewer has not blocked.
func (f *Feed) Visible(viewer *models.Profile) []models.Message {
	return models.VisibleTo(f.Messages(), viewer)
}

func (f *Feed) Background() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.background
}

// OnChange registers fn to run after every applied update.
func (f *Feed) OnChange(fn func(FeedEvent)) backend.Unsubscribe {
	f.mu.Lock()
	f.nextID++
	id := f.nextID
	f.observers[id] = fn
	f.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.observers, id)
			f.mu.Unlock()
		})
	}
}

func (f *Feed) notify(ev FeedEvent) {
	f.mu.Lock()
	fns := make([]func(FeedEvent), 0, len(f.observers))
	for _, fn := range f.observers {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(ev)
	}
}
