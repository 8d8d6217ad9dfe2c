package services

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/client/models"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/dmitrijs2005/friendszone/internal/telemetry"
)

// Directory mirrors the users collection while signed in.
type Directory struct {
	docs backend.Documents
	loc  Locations
	log  logging.Logger

	mu        sync.Mutex
	gen       uint64
	users     map[string]*models.Profile
	unsub     backend.Unsubscribe
	observers map[int]func()
	nextID    int
}

func NewDirectory(docs backend.Documents, loc Locations, log logging.Logger) *Directory {
	return &Directory{
		docs:      docs,
		loc:       loc,
		log:       log,
		users:     map[string]*models.Profile{},
		observers: map[int]func(){},
	}
}

// Start subscribes to the users collection, replacing any prior subscription.
func (d *Directory) Start(ctx context.Context) error {
	d.mu.Lock()
	d.gen++
	gen := d.gen
	old := d.unsub
	d.unsub = nil
	d.mu.Unlock()
	if old != nil {
		old()
	}

	unsub, err := d.docs.WatchCollection(ctx, d.loc.Users(),
		func(docs []backend.Document) { d.apply(ctx, gen, docs) },
		func(err error) {
			telemetry.BackendError(telemetry.OpSubscribe)
			d.log.Error(ctx, "users subscription", "error", err)
		})
	if err != nil {
		telemetry.BackendError(telemetry.OpSubscribe)
		d.log.Error(ctx, "subscribe users", "error", err)
		return err
	}

	d.mu.Lock()
	if d.gen != gen {
		d.mu.Unlock()
		unsub()
		return nil
	}
	d.unsub = unsub
	d.mu.Unlock()
	return nil
}

// Stop cancels the subscription and forgets all users.
func (d *Directory) Stop() {
	d.mu.Lock()
	d.gen++
	old := d.unsub
	d.unsub = nil
	d.users = map[string]*models.Profile{}
	d.mu.Unlock()
	if old != nil {
		old()
	}
	d.notify()
}

func (d *Directory) apply(ctx context.Context, gen uint64, docs []backend.Document) {
	users := make(map[string]*models.Profile, len(docs))
	for _, doc := range docs {
		var p models.Profile
		if err := doc.DataTo(&p); err != nil {
			d.log.Warn(ctx, "skipping undecodable profile", "id", doc.Ref.ID, "error", err)
			continue
		}
		p.ID = doc.Ref.ID
		users[p.ID] = &p
	}

	d.mu.Lock()
	if d.gen != gen {
		d.mu.Unlock()
		return
	}
	d.users = users
	d.mu.Unlock()

	telemetry.SnapshotApplied("users")
	d.notify()
}

// List returns all known profiles ordered by name, then id.
func (d *Directory) List() []models.Profile {
	d.mu.Lock()
	out := make([]models.Profile, 0, len(d.users))
	for _, p := range d.users {
		out = append(out, *copyProfile(p))
	}
	d.mu.Unlock()

	sort.Slice(out, func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name()), strings.ToLower(out[j].Name())
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Others lists everyone except selfID.
func (d *Directory) Others(selfID string) []models.Profile {
	all := d.List()
	out := all[:0]
	for _, p := range all {
		if p.ID != selfID {
			out = append(out, p)
		}
	}
	return out
}

func (d *Directory) Lookup(id string) (*models.Profile, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.users[id]
	if !ok {
		return nil, false
	}
	return copyProfile(p), true
}

// Find resolves a user by exact id, display name or email, or by a unique
// id prefix.
func (d *Directory) Find(query string) (*models.Profile, bool) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, false
	}
	if p, ok := d.Lookup(query); ok {
		return p, true
	}

	var byName, byPrefix []models.Profile
	for _, p := range d.List() {
		switch {
		case strings.EqualFold(p.DisplayName, query), strings.EqualFold(p.Email, query):
			byName = append(byName, p)
		case strings.HasPrefix(p.ID, query):
			byPrefix = append(byPrefix, p)
		}
	}
	if len(byName) == 1 {
		return &byName[0], true
	}
	if len(byName) == 0 && len(byPrefix) == 1 {
		return &byPrefix[0], true
	}
	return nil, false
}

// OnChange registers fn to run after every applied snapshot.
func (d *Directory) OnChange(fn func()) backend.Unsubscribe {
	d.mu.Lock()
	d.nextID++
	id := d.nextID
	d.observers[id] = fn
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.observers, id)
			d.mu.Unlock()
		})
	}
}

func (d *Directory) notify() {
	d.mu.Lock()
	fns := make([]func(), 0, len(d.observers))
	for _, fn := range d.observers {
		fns = append(fns, fn)
	}
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
