// Package cache keeps rendered metadata fragments and preview images in
// memory with a TTL and a capacity bound.
package cache

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultTTL      = 5 * time.Minute
	DefaultCapacity = 1024
)

// Entry is a cached value and the instant it stops being served.
type Entry struct {
	Value     string
	ExpiresAt time.Time
}

// Fresh reports whether the entry may be served at now.
func (e Entry) Fresh(now time.Time) bool {
	return now.Before(e.ExpiresAt)
}

// Observer receives lookup outcomes, keyed by the store's name.
type Observer interface {
	RecordCacheLookup(namespace string, hit bool)
}

// LoadFunc produces a value on a miss. ok=false means "absent" and is not cached.
type LoadFunc func(ctx context.Context) (value string, ok bool)

// Config controls a Store.
type Config struct {
	Name     string
	TTL      time.Duration
	Capacity int
	Now      func() time.Time
	Observer Observer
}

// Store is a TTL cache bounded by an LRU. Concurrent misses for one key
// share a single load.
type Store struct {
	name     string
	ttl      time.Duration
	now      func() time.Time
	observer Observer

	mu      sync.Mutex // serializes writers against Sweep
	entries *lru.Cache[string, Entry]
	flights singleflight.Group
}

type loadResult struct {
	value string
	ok    bool
}

// New constructs a Store, applying defaults for unset fields.
func New(cfg Config) *Store {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = DefaultCapacity
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	// lru.New only fails for a non-positive size.
	entries, _ := lru.New[string, Entry](cfg.Capacity)
	return &Store{
		name:     cfg.Name,
		ttl:      cfg.TTL,
		now:      cfg.Now,
		observer: cfg.Observer,
		entries:  entries,
	}
}

// Key scopes a resource id to the origin it was rendered for.
func Key(origin, id string) string {
	return origin + ":" + id
}

// Name returns the namespace used in metrics and logs.
func (s *Store) Name() string {
	return s.name
}

// TTL returns the default time-to-live.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Get returns the value for key while it is fresh.
func (s *Store) Get(key string) (string, bool) {
	value, ok := s.lookup(key)
	if s.observer != nil {
		s.observer.RecordCacheLookup(s.name, ok)
	}
	return value, ok
}

// Set stores value until now+ttl. A non-positive ttl uses the store default.
func (s *Store) Set(key, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Add(key, Entry{Value: value, ExpiresAt: s.now().Add(ttl)})
}

// Load returns the cached value or runs load once for all concurrent callers
// of the same key. Only successful loads are stored.
func (s *Store) Load(ctx context.Context, key string, ttl time.Duration, load LoadFunc) (string, bool) {
	if value, ok := s.Get(key); ok {
		return value, true
	}
	res, _, _ := s.flights.Do(key, func() (any, error) {
		// A flight that finished between Get and Do may have filled the key.
		if value, ok := s.lookup(key); ok {
			return loadResult{value: value, ok: true}, nil
		}
		value, ok := load(ctx)
		if ok {
			s.Set(key, value, ttl)
		}
		return loadResult{value: value, ok: ok}, nil
	})
	r := res.(loadResult)
	return r.value, r.ok
}

// Sweep drops expired entries and returns how many were removed.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for _, key := range s.entries.Keys() {
		if e, ok := s.entries.Peek(key); ok && !e.Fresh(now) {
			s.entries.Remove(key)
			removed++
		}
	}
	return removed
}

// Purge drops every entry.
func (s *Store) Purge() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries.Purge()
}

// Len reports the number of entries, expired ones included.
func (s *Store) Len() int {
	return s.entries.Len()
}

// lookup returns a fresh value. A stale entry is dropped on the way out.
func (s *Store) lookup(key string) (string, bool) {
	e, ok := s.entries.Get(key)
	if !ok {
		return "", false
	}
	if e.Fresh(s.now()) {
		return e.Value, true
	}
	s.mu.Lock()
	if cur, ok := s.entries.Peek(key); ok && !cur.Fresh(s.now()) {
		s.entries.Remove(key)
	}
	s.mu.Unlock()
	return "", false
}
