// internal/cache/cache.go
package cache

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/nexuscatalog/storefront-go/internal/api"
)

// FetchFunc loads the value for a cache key and declares the tags the
// resulting entry provides.
type FetchFunc func(ctx context.Context) (interface{}, []Tag, error)

// Observer is notified when a subscribed key is refetched after
// invalidation. err is non-nil when the background refetch failed.
type Observer func(value interface{}, err error)

type entry struct {
	data  interface{}
	tags  []Tag
	stale bool
}

// Store is a keyed cache of query results tagged by entity. Concurrent
// identical queries share one in-flight request; mutations invalidate
// every entry whose tag set intersects the declared tags. Entries for
// distinct keys are fully independent and are only evicted by Close.
type Store struct {
	mu       sync.Mutex
	entries  map[string]*entry
	byTag    map[Tag]map[string]struct{}
	fetchers map[string]FetchFunc
	subs     map[string]map[int]Observer
	nextSub  int
	closed   bool

	group  singleflight.Group
	onAuth func(error)
	log    *logrus.Entry
}

// Option configures a Store.
type Option func(*Store)

// WithAuthErrorHook registers a callback invoked whenever a fetch or
// mutation fails with an authentication error. The session layer uses it
// to clear stored credentials.
func WithAuthErrorHook(hook func(error)) Option {
	return func(s *Store) { s.onAuth = hook }
}

// WithLogger replaces the default logrus entry.
func WithLogger(entry *logrus.Entry) Option {
	return func(s *Store) { s.log = entry }
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{
		entries:  make(map[string]*entry),
		byTag:    make(map[Tag]map[string]struct{}),
		fetchers: make(map[string]FetchFunc),
		subs:     make(map[string]map[int]Observer),
		log:      logrus.WithField("component", "cache"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Query returns the cached value for key, fetching it when the entry is
// missing or stale. Concurrent callers with the same key share a single
// network round-trip. The fetch function is remembered so invalidation
// can refetch the key for subscribers.
func (s *Store) Query(ctx context.Context, key string, fetch FetchFunc) (interface{}, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	s.fetchers[key] = fetch
	if e, ok := s.entries[key]; ok && !e.stale {
		data := e.data
		s.mu.Unlock()
		return data, nil
	}
	s.mu.Unlock()

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, tags, err := fetch(ctx)
		if err != nil {
			s.handleError(err)
			return nil, err
		}
		s.storeEntry(key, data, tags)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Mutate runs op and, on success, invalidates every entry whose tags
// intersect the declared set. Mutations are not queued against each
// other; invalidation applies in response order.
func (s *Store) Mutate(ctx context.Context, invalidates []Tag, op func(ctx context.Context) (interface{}, error)) (interface{}, error) {
	result, err := op(ctx)
	if err != nil {
		s.handleError(err)
		return nil, err
	}
	s.Invalidate(invalidates...)
	return result, nil
}

// Invalidate marks every entry whose tag set intersects tags as stale.
// Keys with active subscribers are refetched in the background and their
// observers notified; unsubscribed entries refetch on next access.
func (s *Store) Invalidate(tags ...Tag) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	affected := make(map[string]struct{})
	for _, tag := range tags {
		for key := range s.byTag[tag] {
			affected[key] = struct{}{}
		}
	}
	var refetch []string
	for key := range affected {
		if e, ok := s.entries[key]; ok {
			e.stale = true
		}
		if len(s.subs[key]) > 0 {
			refetch = append(refetch, key)
		}
	}
	s.mu.Unlock()

	for _, key := range refetch {
		go s.refetch(key)
	}
}

// Subscribe registers an observer for key. The returned function removes
// the registration.
func (s *Store) Subscribe(key string, fn Observer) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSub++
	id := s.nextSub
	if s.subs[key] == nil {
		s.subs[key] = make(map[int]Observer)
	}
	s.subs[key][id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs[key], id)
		if len(s.subs[key]) == 0 {
			delete(s.subs, key)
		}
	}
}

// Close drops all entries and registrations. Further queries fail with
// ErrClosed.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.entries = make(map[string]*entry)
	s.byTag = make(map[Tag]map[string]struct{})
	s.fetchers = make(map[string]FetchFunc)
	s.subs = make(map[string]map[int]Observer)
}

func (s *Store) refetch(key string) {
	s.mu.Lock()
	fetch, ok := s.fetchers[key]
	s.mu.Unlock()
	if !ok {
		return
	}

	value, err, _ := s.group.Do(key, func() (interface{}, error) {
		data, tags, err := fetch(context.Background())
		if err != nil {
			s.handleError(err)
			return nil, err
		}
		s.storeEntry(key, data, tags)
		return data, nil
	})

	s.mu.Lock()
	observers := make([]Observer, 0, len(s.subs[key]))
	for _, fn := range s.subs[key] {
		observers = append(observers, fn)
	}
	s.mu.Unlock()

	if err != nil {
		s.log.WithField("key", key).WithError(err).Warn("Background refetch failed")
	}
	for _, fn := range observers {
		fn(value, err)
	}
}

func (s *Store) storeEntry(key string, data interface{}, tags []Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if old, ok := s.entries[key]; ok {
		for _, tag := range old.tags {
			delete(s.byTag[tag], key)
			if len(s.byTag[tag]) == 0 {
				delete(s.byTag, tag)
			}
		}
	}
	s.entries[key] = &entry{data: data, tags: tags}
	for _, tag := range tags {
		if s.byTag[tag] == nil {
			s.byTag[tag] = make(map[string]struct{})
		}
		s.byTag[tag][key] = struct{}{}
	}
}

func (s *Store) handleError(err error) {
	if api.IsAuthentication(err) && s.onAuth != nil {
		s.onAuth(err)
	}
}

// Stale reports whether the entry for key exists and is marked stale.
// Exposed for introspection by views and tests.
func (s *Store) Stale(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	return ok && e.stale
}

// QueryAs is a typed wrapper around Store.Query.
func QueryAs[T any](ctx context.Context, s *Store, key string, fetch func(ctx context.Context) (T, []Tag, error)) (T, error) {
	value, err := s.Query(ctx, key, func(ctx context.Context) (interface{}, []Tag, error) {
		return fetchTyped(ctx, fetch)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		var zero T
		return zero, ErrTypeMismatch
	}
	return typed, nil
}

func fetchTyped[T any](ctx context.Context, fetch func(ctx context.Context) (T, []Tag, error)) (interface{}, []Tag, error) {
	data, tags, err := fetch(ctx)
	if err != nil {
		return nil, nil, err
	}
	return data, tags, nil
}
