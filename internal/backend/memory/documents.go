// Package memory is an in-process backend driver. Live subscriptions are
// delivered synchronously on the writer's goroutine after the store lock is
// released, so listeners may write back into the store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/google/uuid"
)

type watch struct {
	collection string
	docID      string // empty for collection watches
	onColl     func([]backend.Document)
	onDoc      func(*backend.Document)
}

// Store implements backend.Documents.
type Store struct {
	mu      sync.Mutex
	docs    map[string]map[string]backend.Fields
	watches map[int]*watch
	nextID  int
	last    int64
	now     func() time.Time
}

func NewStore() *Store {
	return &Store{
		docs:    map[string]map[string]backend.Fields{},
		watches: map[int]*watch{},
		now:     time.Now,
	}
}

// tick returns a strictly increasing epoch-millisecond clock.
func (s *Store) tick() int64 {
	ms := s.now().UnixMilli()
	if ms <= s.last {
		ms = s.last + 1
	}
	s.last = ms
	return ms
}

func (s *Store) Get(ctx context.Context, ref backend.DocumentRef) (*backend.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.lookup(ref)
	if d == nil {
		return nil, fmt.Errorf("%s: %w", ref, backend.ErrNotFound)
	}
	return d, nil
}

func (s *Store) Set(ctx context.Context, ref backend.DocumentRef, fields backend.Fields, merge bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	data, err := backend.Normalize(backend.ResolveTimestamps(fields, s.tick()))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	coll := s.collection(ref.Collection)
	if existing, ok := coll[ref.ID]; ok && merge {
		for k, v := range data {
			existing[k] = v
		}
	} else {
		coll[ref.ID] = data
	}
	s.mu.Unlock()

	s.dispatch(ref.Collection)
	return nil
}

func (s *Store) Update(ctx context.Context, ref backend.DocumentRef, fields backend.Fields) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	existing, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("%s: %w", ref, backend.ErrNotFound)
	}
	data, err := backend.Normalize(backend.ResolveTimestamps(fields, s.tick()))
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("encode %s: %w", ref, err)
	}
	for k, v := range data {
		existing[k] = v
	}
	s.mu.Unlock()

	s.dispatch(ref.Collection)
	return nil
}

func (s *Store) Add(ctx context.Context, collection string, fields backend.Fields) (backend.DocumentRef, error) {
	ref := backend.DocumentRef{Collection: collection, ID: uuid.NewString()}
	if err := s.Set(ctx, ref, fields, false); err != nil {
		return backend.DocumentRef{}, err
	}
	return ref, nil
}

func (s *Store) WatchCollection(ctx context.Context, collection string, onSnapshot func([]backend.Document), onError func(error)) (backend.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := &watch{collection: collection, onColl: onSnapshot}
	id := s.register(w)
	s.deliver(w)
	return s.unsubscriber(id), nil
}

func (s *Store) WatchDocument(ctx context.Context, ref backend.DocumentRef, onSnapshot func(*backend.Document), onError func(error)) (backend.Unsubscribe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	w := &watch{collection: ref.Collection, docID: ref.ID, onDoc: onSnapshot}
	id := s.register(w)
	s.deliver(w)
	return s.unsubscriber(id), nil
}

// Watchers reports the number of live subscriptions.
func (s *Store) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.watches)
}

func (s *Store) register(w *watch) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.watches[s.nextID] = w
	return s.nextID
}

func (s *Store) unsubscriber(id int) backend.Unsubscribe {
	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.watches, id)
			s.mu.Unlock()
		})
	}
}

func (s *Store) dispatch(collection string) {
	s.mu.Lock()
	var targets []*watch
	for _, w := range s.watches {
		if w.collection == collection {
			targets = append(targets, w)
		}
	}
	s.mu.Unlock()

	for _, w := range targets {
		if s.active(w) {
			s.deliver(w)
		}
	}
}

func (s *Store) active(w *watch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, x := range s.watches {
		if x == w {
			return true
		}
	}
	return false
}

func (s *Store) deliver(w *watch) {
	s.mu.Lock()
	if w.docID != "" {
		d := s.lookup(backend.DocumentRef{Collection: w.collection, ID: w.docID})
		s.mu.Unlock()
		w.onDoc(d)
		return
	}
	docs := s.list(w.collection)
	s.mu.Unlock()
	w.onColl(docs)
}

func (s *Store) collection(name string) map[string]backend.Fields {
	c, ok := s.docs[name]
	if !ok {
		c = map[string]backend.Fields{}
		s.docs[name] = c
	}
	return c
}

// lookup and list return copies; callers hold s.mu.
func (s *Store) lookup(ref backend.DocumentRef) *backend.Document {
	data, ok := s.docs[ref.Collection][ref.ID]
	if !ok {
		return nil
	}
	return &backend.Document{Ref: ref, Data: clone(data)}
}

func (s *Store) list(collection string) []backend.Document {
	coll := s.docs[collection]
	ids := make([]string, 0, len(coll))
	for id := range coll {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]backend.Document, 0, len(ids))
	for _, id := range ids {
		out = append(out, backend.Document{
			Ref:  backend.DocumentRef{Collection: collection, ID: id},
			Data: clone(coll[id]),
		})
	}
	return out
}

func clone(f backend.Fields) backend.Fields {
	out := make(backend.Fields, len(f))
	for k, v := range f {
		switch x := v.(type) {
		case []any:
			out[k] = append(make([]any, 0, len(x)), x...)
		default:
			out[k] = v
		}
	}
	return out
}
