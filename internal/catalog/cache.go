package catalog

import (
	"context"
	"sync"

	"github.com/moviej/moviej-backend/internal/domain"
)

// Kind distinguishes what a cache key selects on.
type Kind string

const (
	KindGenre Kind = "genre"
	KindActor Kind = "actor"
)

// Key identifies one cached catalog result set.
type Key struct {
	Kind     Kind
	Selector int64
	Page     int
}

// Store is the backing storage for cached candidate lists. The default is an
// in-process map; a bounded or TTL implementation can be swapped in by the
// composing application.
type Store interface {
	Get(key Key) ([]domain.Candidate, bool)
	Set(key Key, value []domain.Candidate)
}

// MemoryStore is a mutex-guarded map Store. Entries are never evicted;
// a key once populated is served from memory for the process lifetime.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[Key][]domain.Candidate
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[Key][]domain.Candidate)}
}

func (s *MemoryStore) Get(key Key) ([]domain.Candidate, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	return value, ok
}

func (s *MemoryStore) Set(key Key, value []domain.Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = value
}

// FetchFunc loads candidates for a key on a cache miss.
type FetchFunc func(ctx context.Context) ([]domain.Candidate, error)

// CastFetchFunc loads a movie's cast on a cache miss.
type CastFetchFunc func(ctx context.Context) ([]domain.CastMember, error)

// Cache bounds external call volume by remembering catalog results. Failed
// fetches are cached as empty: the same key will not retry within the
// process lifetime. Concurrent misses on the same key may both invoke the
// fetch (last write wins); duplicate external calls are tolerated.
type Cache struct {
	store Store

	castMu sync.RWMutex
	cast   map[int64][]domain.CastMember
}

// NewCache constructs a Cache over the given Store. A nil store gets an
// in-process MemoryStore.
func NewCache(store Store) *Cache {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Cache{
		store: store,
		cast:  make(map[int64][]domain.CastMember),
	}
}

// GetOrFetch returns the cached candidates for key, invoking fetch on a
// miss and storing the result. The returned error is non-nil only when
// fetch just failed; the empty result is cached either way.
func (c *Cache) GetOrFetch(ctx context.Context, key Key, fetch FetchFunc) ([]domain.Candidate, error) {
	if cached, ok := c.store.Get(key); ok {
		return cached, nil
	}

	fetched, err := fetch(ctx)
	if err != nil {
		c.store.Set(key, []domain.Candidate{})
		return nil, err
	}
	if fetched == nil {
		fetched = []domain.Candidate{}
	}
	c.store.Set(key, fetched)
	return fetched, nil
}

// GetOrFetchCast mirrors GetOrFetch for the cast sub-cache, keyed by movie
// id only since credits are a single fixed-size fetch.
func (c *Cache) GetOrFetchCast(ctx context.Context, movieID int64, fetch CastFetchFunc) ([]domain.CastMember, error) {
	c.castMu.RLock()
	cached, ok := c.cast[movieID]
	c.castMu.RUnlock()
	if ok {
		return cached, nil
	}

	fetched, err := fetch(ctx)
	if err != nil {
		fetched = []domain.CastMember{}
	}
	if fetched == nil {
		fetched = []domain.CastMember{}
	}
	c.castMu.Lock()
	c.cast[movieID] = fetched
	c.castMu.Unlock()
	if err != nil {
		return nil, err
	}
	return fetched, nil
}
