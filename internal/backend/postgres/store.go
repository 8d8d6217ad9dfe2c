package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/friendszone/internal/backend"
	"github.com/dmitrijs2005/friendszone/internal/logging"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// listenFn holds a dedicated connection LISTENing on channel and calls
// onNotify for every payload until ctx ends or the connection fails. ready
// is called once LISTEN is in effect.
var listenFn = listen

var retryDelay = 2 * time.Second

func listen(ctx context.Context, db *sql.DB, channel string, ready func(), onNotify func(payload string)) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire conn: %w", err)
	}
	defer conn.Close()

	var loopErr error
	_ = conn.Raw(func(driverConn any) error {
		sc, ok := driverConn.(*stdlib.Conn)
		if !ok {
			loopErr = fmt.Errorf("unexpected driver connection %T", driverConn)
			return nil
		}
		pc := sc.Conn()
		if _, err := pc.Exec(ctx, "LISTEN "+pgx.Identifier{channel}.Sanitize()); err != nil {
			loopErr = fmt.Errorf("listen: %w", err)
			return driver.ErrBadConn
		}
		ready()
		for {
			n, err := pc.WaitForNotification(ctx)
			if err != nil {
				loopErr = err
				// the connection is still subscribed; keep it out of the pool
				return driver.ErrBadConn
			}
			onNotify(n.Payload)
		}
	})
	return loopErr
}

type subscription struct {
	collection string
	docID      string
	onColl     func([]backend.Document)
	onDoc      func(*backend.Document)
	onError    func(error)

	mu     sync.Mutex // serializes deliveries
	closed atomic.Bool
}

// Store implements backend.Documents over PostgreSQL. Live subscriptions
// re-read the affected collection whenever the documents trigger notifies.
type Store struct {
	*DocumentRepository
	db  *sql.DB
	log logging.Logger

	mu     sync.Mutex
	subs   map[int]*subscription
	nextID int

	pending chan string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

var _ backend.Documents = (*Store)(nil)

func NewStore(db *sql.DB, log logging.Logger) *Store {
	return &Store{
		DocumentRepository: NewDocumentRepository(db),
		db:                 db,
		log:                log,
		subs:               map[int]*subscription{},
		pending:            make(chan string, 256),
	}
}

// Start runs the notification listener and the dispatcher until Close.
func (s *Store) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.listenLoop(ctx)
	}()
	go func() {
		defer s.wg.Done()
		s.dispatchLoop(ctx)
	}()
}

func (s *Store) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	return nil
}

func (s *Store) listenLoop(ctx context.Context) {
	first := true
	for {
		err := listenFn(ctx, s.db, NotifyChannel, func() {
			if !first {
				// changes made while disconnected were not notified
				for _, c := range s.collections() {
					s.enqueue(c)
				}
			}
			first = false
		}, s.enqueue)
		if ctx.Err() != nil {
			return
		}
		s.log.Error(ctx, "document listener failed", "error", err)
		s.fail(err)

		select {
		case <-ctx.Done():
			return
		case <-time.After(retryDelay):
		}
	}
}

func (s *Store) enqueue(collection string) {
	select {
	case s.pending <- collection:
	default:
		s.log.Warn(context.Background(), "dispatch queue full, dropping notification", "collection", collection)
	}
}

func (s *Store) dispatchLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-s.pending:
			batch := map[string]struct{}{c: {}}
		drain:
			for {
				select {
				case c := <-s.pending:
					batch[c] = struct{}{}
				default:
					break drain
				}
			}
			for c := range batch {
				s.dispatch(ctx, c)
			}
		}
	}
}

func (s *Store) dispatch(ctx context.Context, collection string) {
	for _, sub := range s.matching(collection) {
		if err := s.deliver(ctx, sub); err != nil {
			s.report(ctx, sub, err)
		}
	}
}

func (s *Store) matching(collection string) []*subscription {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*subscription
	for _, sub := range s.subs {
		if sub.collection == collection {
			out = append(out, sub)
		}
	}
	return out
}

func (s *Store) collections() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]struct{}{}
	var out []string
	for _, sub := range s.subs {
		if _, ok := seen[sub.collection]; !ok {
			seen[sub.collection] = struct{}{}
			out = append(out, sub.collection)
		}
	}
	return out
}

func (s *Store) fail(err error) {
	s.mu.Lock()
	subs := make([]*subscription, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		if sub.onError != nil && !sub.closed.Load() {
			sub.onError(err)
		}
	}
}

func (s *Store) deliver(ctx context.Context, sub *subscription) error {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.closed.Load() {
		return nil
	}

	if sub.docID != "" {
		d, err := s.Get(ctx, backend.DocumentRef{Collection: sub.collection, ID: sub.docID})
		if errors.Is(err, backend.ErrNotFound) {
			d, err = nil, nil
		}
		if err != nil {
			return err
		}
		sub.onDoc(d)
		return nil
	}

	docs, err := s.List(ctx, sub.collection)
	if err != nil {
		return err
	}
	sub.onColl(docs)
	return nil
}

func (s *Store) report(ctx context.Context, sub *subscription, err error) {
	s.log.Error(ctx, "snapshot query failed", "collection", sub.collection, "error", err)
	if sub.onError != nil {
		sub.onError(err)
	}
}

func (s *Store) watch(ctx context.Context, sub *subscription) (backend.Unsubscribe, error) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.subs[id] = sub
	s.mu.Unlock()

	unsubscribe := func() {
		if sub.closed.CompareAndSwap(false, true) {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		}
	}

	if err := s.deliver(ctx, sub); err != nil {
		unsubscribe()
		return nil, err
	}
	return unsubscribe, nil
}

func (s *Store) WatchCollection(ctx context.Context, collection string, onSnapshot func([]backend.Document), onError func(error)) (backend.Unsubscribe, error) {
	return s.watch(ctx, &subscription{collection: collection, onColl: onSnapshot, onError: onError})
}

func (s *Store) WatchDocument(ctx context.Context, ref backend.DocumentRef, onSnapshot func(*backend.Document), onError func(error)) (backend.Unsubscribe, error) {
	return s.watch(ctx, &subscription{collection: ref.Collection, docID: ref.ID, onDoc: onSnapshot, onError: onError})
}

// Watchers reports the number of live subscriptions.
func (s *Store) Watchers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
